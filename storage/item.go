package storage

import (
	"fmt"
	"time"
)

// Item carries bundle metadata. JSON tags feed the local provider's
// sidecar files; the s3 provider maps the same fields onto object tags
// through the constants in s3.go.
type Item struct {
	CreatedAt  time.Time `json:"created_at"`
	AccessedAt time.Time `json:"accessed_at"`
	Size       int64     `json:"size,omitempty"`
	Mime       string    `json:"mime,omitempty"`
}

// bundlePathComponents shards bundles by the low byte of the skill id so
// neither a directory nor an S3 prefix accumulates every object.
func bundlePathComponents(skillID int64) []string {
	return []string{
		fmt.Sprintf("%02x", skillID%256),
		fmt.Sprintf("%d.tar.gz", skillID),
	}
}
