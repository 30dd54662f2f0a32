package archive

import (
	"archive/tar"
	"bytes"
	"io"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRoundTrip(t *testing.T) {
	content := []byte("# A skill\n\nWith a body.\n")

	data, err := Build("a-skill/SKILL.md", content)
	require.NoError(t, err)

	gz, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	hdr, err := tr.Next()
	require.NoError(t, err)

	assert.Equal(t, "a-skill/SKILL.md", hdr.Name)
	assert.Equal(t, int64(0644), hdr.Mode)
	assert.Equal(t, int64(len(content)), hdr.Size)
	assert.Equal(t, byte(tar.TypeReg), hdr.Typeflag)
	assert.Equal(t, entryModTime, hdr.ModTime.UTC())

	extracted, err := io.ReadAll(tr)
	require.NoError(t, err)
	assert.Equal(t, content, extracted)

	_, err = tr.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestBuildIsDeterministic(t *testing.T) {
	a, err := Build("s/SKILL.md", []byte("content\n"))
	require.NoError(t, err)
	b, err := Build("s/SKILL.md", []byte("content\n"))
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestBuildEmptyContent(t *testing.T) {
	data, err := Build("s/SKILL.md", nil)
	require.NoError(t, err)

	gz, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	hdr, err := tr.Next()
	require.NoError(t, err)
	assert.Zero(t, hdr.Size)
}
