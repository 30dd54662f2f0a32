package gitrepo

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"fmt"

	"github.com/klauspost/compress/zlib"
)

// Kind identifies one of the three object types a single-commit repository
// needs. The depot never produces tags or deltas.
type Kind int

const (
	KindCommit Kind = iota
	KindTree
	KindBlob
)

func (k Kind) String() string {
	switch k {
	case KindCommit:
		return "commit"
	case KindTree:
		return "tree"
	case KindBlob:
		return "blob"
	}
	return "unknown"
}

// packType returns the 3-bit object type code used in packfile entry
// headers.
func (k Kind) packType() byte {
	switch k {
	case KindCommit:
		return 1
	case KindTree:
		return 2
	}
	return 3
}

// Object is a fully materialized loose git object. ID is the lowercase hex
// SHA-1 of Raw, and Raw is Payload prefixed with the "<kind> <size>\x00"
// framing header. Compressed holds the deflated Raw bytes served to dumb
// protocol clients.
type Object struct {
	ID         string
	Kind       Kind
	Payload    []byte
	Raw        []byte
	Compressed []byte
}

// Synthetic identity stamped on every generated commit. The timestamp is
// fixed so the same artifact always hashes to the same commit id.
const (
	committerIdent = "SkillForge Depot <depot@skillforge.io>"
	committerStamp = "1704067200 +0000"
)

func deflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func newObject(kind Kind, payload []byte) (*Object, error) {
	raw := make([]byte, 0, len(payload)+32)
	raw = append(raw, fmt.Sprintf("%s %d\x00", kind, len(payload))...)
	raw = append(raw, payload...)

	sum := sha1.Sum(raw)

	compressed, err := deflate(raw)
	if err != nil {
		return nil, fmt.Errorf("compressing %s object: %w", kind, err)
	}

	return &Object{
		ID:         hex.EncodeToString(sum[:]),
		Kind:       kind,
		Payload:    payload,
		Raw:        raw,
		Compressed: compressed,
	}, nil
}

// BuildBlob wraps the artifact content in blob framing.
func BuildBlob(content []byte) (*Object, error) {
	return newObject(KindBlob, content)
}

// BuildTree produces a tree with a single regular-file entry pointing at
// blobID. Tree entries reference object ids as raw 20-byte binary, not hex.
func BuildTree(fileName, blobID string) (*Object, error) {
	rawID, err := hex.DecodeString(blobID)
	if err != nil || len(rawID) != sha1.Size {
		return nil, fmt.Errorf("invalid blob id %q", blobID)
	}

	payload := make([]byte, 0, len(fileName)+28)
	payload = append(payload, "100644 "...)
	payload = append(payload, fileName...)
	payload = append(payload, 0)
	payload = append(payload, rawID...)

	return newObject(KindTree, payload)
}

// BuildCommit produces the repository's single commit. Author and committer
// are the depot's synthetic identity with a fixed timestamp.
func BuildCommit(treeID, message string) (*Object, error) {
	var body bytes.Buffer
	fmt.Fprintf(&body, "tree %s\n", treeID)
	fmt.Fprintf(&body, "author %s %s\n", committerIdent, committerStamp)
	fmt.Fprintf(&body, "committer %s %s\n", committerIdent, committerStamp)
	fmt.Fprintf(&body, "\n%s\n", message)

	return newObject(KindCommit, body.Bytes())
}
