package pktline

import (
	"strconv"
	"strings"
)

// UploadPackRequest is the parsed form of one git-upload-pack negotiation
// round. Depth is zero when the client did not request a shallow clone.
type UploadPackRequest struct {
	Wants []string
	Depth int
	Done  bool
}

// Shallow reports whether the client asked for a bounded history.
func (u UploadPackRequest) Shallow() bool {
	return u.Depth > 0
}

func isObjectID(s string) bool {
	if len(s) != 40 {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// ParseUploadPackRequest extracts want ids, the requested deepen value, and
// the presence of a done line from a negotiation request body. Capability
// suffixes on the first want line are discarded. Unrecognized lines (have,
// filter, agent chatter) are ignored rather than rejected, matching what
// git clients are allowed to send.
func ParseUploadPackRequest(body []byte) (UploadPackRequest, error) {
	var req UploadPackRequest

	lines, err := Lines(body)
	if err != nil {
		return req, err
	}

	for _, line := range lines {
		if line == "" {
			continue
		}

		verb, rest, _ := strings.Cut(line, " ")
		switch verb {
		case "want":
			id, _, _ := strings.Cut(rest, " ")
			if !isObjectID(id) {
				return req, malformed("want line with invalid object id %q", id)
			}
			req.Wants = append(req.Wants, id)
		case "deepen":
			depth, err := strconv.Atoi(rest)
			if err != nil || depth <= 0 {
				return req, malformed("deepen line with invalid depth %q", rest)
			}
			req.Depth = depth
		case "done":
			req.Done = true
		}
	}

	return req, nil
}
