// Package archive builds the TAR+gzip fallback stream for artifacts that
// have no richer pre-built bundle in durable storage.
package archive

import (
	"archive/tar"
	"bytes"
	"fmt"
	"time"

	"github.com/klauspost/compress/gzip"
)

// Fixed mtime matching the synthetic commit timestamp, so repeated builds
// of the same artifact are byte-identical.
var entryModTime = time.Unix(1704067200, 0).UTC()

// Build produces a gzip-compressed tarball holding content as the single
// USTAR entry entryPath (conventionally "<slug>/<fileName>"). The whole
// stream is assembled in memory before any byte reaches the client.
func Build(entryPath string, content []byte) ([]byte, error) {
	var raw bytes.Buffer

	tw := tar.NewWriter(&raw)
	hdr := &tar.Header{
		Name:     entryPath,
		Mode:     0644,
		Size:     int64(len(content)),
		ModTime:  entryModTime,
		Typeflag: tar.TypeReg,
		Uname:    "depot",
		Gname:    "depot",
		Format:   tar.FormatUSTAR,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return nil, fmt.Errorf("writing tar header for %s: %w", entryPath, err)
	}
	if _, err := tw.Write(content); err != nil {
		return nil, fmt.Errorf("writing tar entry %s: %w", entryPath, err)
	}
	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("finalizing tar stream: %w", err)
	}

	var out bytes.Buffer
	gz := gzip.NewWriter(&out)
	if _, err := gz.Write(raw.Bytes()); err != nil {
		return nil, fmt.Errorf("compressing tarball: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("finalizing gzip stream: %w", err)
	}

	return out.Bytes(), nil
}
