package storage

import "io"

// Provider stores pre-built rich bundles keyed by skill id. When a bundle
// exists, the archive endpoint streams it directly instead of synthesizing
// a tarball from the skill's Markdown.
type Provider interface {
	BundleMeta(skillID int64) (*Item, error)
	GetBundle(skillID int64) (*Item, io.ReadCloser, error)
	SetBundle(skillID int64, mime string, objectSize int64, stream io.ReadCloser) error
	TouchBundle(skillID int64) error
	DeleteBundle(skillID int64) error
	PurgeAll() error
	TotalSize() (int64, error)
}
