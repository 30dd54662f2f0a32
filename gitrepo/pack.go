package gitrepo

import (
	"bytes"
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"regexp"
)

// Pack is one artifact's worth of repository: the three objects of a
// single-commit history plus their packfile serialization. Instances are
// immutable once assembled and safe for concurrent reads.
type Pack struct {
	HeadCommitID string
	TreeID       string
	BlobID       string
	Objects      map[string]*Object
	Data         []byte
}

var loosePathPattern = regexp.MustCompile(`^[0-9a-f]{2}/[0-9a-f]{38}$`)

// LoosePath returns the two-prefix/38-remainder relative path a dumb
// protocol client requests for id.
func LoosePath(id string) string {
	return id[:2] + "/" + id[2:]
}

// ParseLoosePath reconstructs an object id from a dumb protocol object
// path, rejecting anything that is not exactly 2+38 hex characters.
func ParseLoosePath(prefix, remainder string) (string, bool) {
	p := prefix + "/" + remainder
	if !loosePathPattern.MatchString(p) {
		return "", false
	}
	return prefix + remainder, true
}

// packEntryHeader encodes an object's type and inflated size the way
// packfiles expect: the 3-bit type sits in bits 4-6 of the first byte
// together with the low 4 size bits, and remaining size bits follow in
// 7-bit little-endian groups with a continuation flag.
func packEntryHeader(kind Kind, size int) []byte {
	b := kind.packType()<<4 | byte(size&0x0f)
	size >>= 4

	var out []byte
	for size > 0 {
		out = append(out, b|0x80)
		b = byte(size & 0x7f)
		size >>= 7
	}
	return append(out, b)
}

// Assemble builds the blob, tree, and commit for one artifact and
// serializes them into a version 2 packfile. Objects are written in
// commit, tree, blob order so the byte stream is deterministic for a given
// artifact.
func Assemble(fileName string, content []byte, message string) (*Pack, error) {
	blob, err := BuildBlob(content)
	if err != nil {
		return nil, err
	}

	tree, err := BuildTree(fileName, blob.ID)
	if err != nil {
		return nil, err
	}

	commit, err := BuildCommit(tree.ID, message)
	if err != nil {
		return nil, err
	}

	ordered := []*Object{commit, tree, blob}

	var buf bytes.Buffer
	buf.WriteString("PACK")
	_ = binary.Write(&buf, binary.BigEndian, uint32(2))
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(ordered)))

	for _, obj := range ordered {
		buf.Write(packEntryHeader(obj.Kind, len(obj.Payload)))
		compressed, err := deflate(obj.Payload)
		if err != nil {
			return nil, fmt.Errorf("compressing pack entry %s: %w", obj.ID, err)
		}
		buf.Write(compressed)
	}

	sum := sha1.Sum(buf.Bytes())
	buf.Write(sum[:])

	return &Pack{
		HeadCommitID: commit.ID,
		TreeID:       tree.ID,
		BlobID:       blob.ID,
		Objects: map[string]*Object{
			commit.ID: commit,
			tree.ID:   tree,
			blob.ID:   blob,
		},
		Data: buf.Bytes(),
	}, nil
}
