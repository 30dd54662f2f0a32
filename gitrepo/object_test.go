package gitrepo

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"io"
	"strings"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inflate(t *testing.T, data []byte) []byte {
	t.Helper()
	zr, err := zlib.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = zr.Close() }()

	out, err := io.ReadAll(zr)
	require.NoError(t, err)
	return out
}

func TestBlobIDIsDeterministic(t *testing.T) {
	content := []byte("# Example\n\nSome documentation.\n")

	a, err := BuildBlob(content)
	require.NoError(t, err)
	b, err := BuildBlob(content)
	require.NoError(t, err)

	assert.Equal(t, a.ID, b.ID)

	c, err := BuildBlob([]byte("something else entirely"))
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, c.ID)
}

func TestBlobIDIndependentOfFileName(t *testing.T) {
	content := []byte("# Example\n")

	a, err := Assemble("SKILL.md", content, "Publish SKILL.md")
	require.NoError(t, err)
	b, err := Assemble("README.md", content, "Publish README.md")
	require.NoError(t, err)

	assert.Equal(t, a.BlobID, b.BlobID)
	assert.NotEqual(t, a.TreeID, b.TreeID)
}

func TestObjectIDMatchesFraming(t *testing.T) {
	content := []byte("hello")
	blob, err := BuildBlob(content)
	require.NoError(t, err)

	expected := sha1.Sum(append([]byte("blob 5\x00"), content...))
	assert.Equal(t, hex.EncodeToString(expected[:]), blob.ID)
}

func TestTreeHasSingleEntryWithRawID(t *testing.T) {
	blob, err := BuildBlob([]byte("content"))
	require.NoError(t, err)

	tree, err := BuildTree("SKILL.md", blob.ID)
	require.NoError(t, err)

	prefix := []byte("100644 SKILL.md\x00")
	require.True(t, bytes.HasPrefix(tree.Payload, prefix))

	rawID := tree.Payload[len(prefix):]
	require.Len(t, rawID, 20)
	assert.Equal(t, blob.ID, hex.EncodeToString(rawID))
}

func TestTreeRejectsBadBlobID(t *testing.T) {
	_, err := BuildTree("SKILL.md", "not-hex")
	assert.Error(t, err)
}

func TestCommitReferencesTree(t *testing.T) {
	blob, err := BuildBlob([]byte("content"))
	require.NoError(t, err)
	tree, err := BuildTree("SKILL.md", blob.ID)
	require.NoError(t, err)

	commit, err := BuildCommit(tree.ID, "Publish SKILL.md")
	require.NoError(t, err)

	body := string(commit.Payload)
	assert.True(t, strings.HasPrefix(body, "tree "+tree.ID+"\n"))
	assert.Contains(t, body, "author ")
	assert.Contains(t, body, "committer ")
	assert.True(t, strings.HasSuffix(body, "\n\nPublish SKILL.md\n"))
}

func TestLooseObjectRoundTrip(t *testing.T) {
	long := strings.Repeat("A fairly long line of Markdown content.\n", 40)
	require.Greater(t, len(long), 1024)

	for _, content := range []string{"tiny", long} {
		blob, err := BuildBlob([]byte(content))
		require.NoError(t, err)

		framed := inflate(t, blob.Compressed)
		idx := bytes.IndexByte(framed, 0)
		require.GreaterOrEqual(t, idx, 0)
		assert.Equal(t, content, string(framed[idx+1:]))
	}
}

func TestLoosePath(t *testing.T) {
	id := "0123456789abcdef0123456789abcdef01234567"
	assert.Equal(t, "01/23456789abcdef0123456789abcdef01234567", LoosePath(id))

	parsed, ok := ParseLoosePath("01", "23456789abcdef0123456789abcdef01234567")
	require.True(t, ok)
	assert.Equal(t, id, parsed)

	_, ok = ParseLoosePath("01", "23456789abcdef0123456789abcdef0123456")
	assert.False(t, ok)

	_, ok = ParseLoosePath("0g", "23456789abcdef0123456789abcdef01234567")
	assert.False(t, ok)
}
