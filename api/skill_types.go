package api

// Skill is the catalog's published view of one marketplace artifact: a
// single Markdown document plus naming metadata. Content may be empty when
// the catalog could not materialize the document; callers substitute a
// placeholder body where the artifact is merely descriptive.
type Skill struct {
	ID        int64  `json:"id"`
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	FileName  string `json:"file_name"`
	Content   string `json:"content"`
	HasBundle bool   `json:"has_bundle"`
	PageURL   string `json:"page_url"`
}
