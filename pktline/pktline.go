package pktline

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxLength is the largest payload a single pkt-line can carry. The four
// byte length prefix counts itself, and the protocol caps the whole frame
// at 65520 bytes.
const MaxLength = 65516

type ErrMalformed struct {
	reason string
}

func (e ErrMalformed) Error() string {
	return fmt.Sprintf("malformed pkt-line stream: %s", e.reason)
}

func malformed(format string, a ...any) error {
	return ErrMalformed{reason: fmt.Sprintf(format, a...)}
}

// Append frames payload as a single pkt-line and appends it to dst.
func Append(dst []byte, payload string) []byte {
	dst = append(dst, fmt.Sprintf("%04x", len(payload)+4)...)
	return append(dst, payload...)
}

// AppendFlush appends a flush pkt ("0000") to dst. A flush delimits
// sections of a pkt-line stream and carries no payload.
func AppendFlush(dst []byte) []byte {
	return append(dst, "0000"...)
}

// Lines splits data into its pkt-line payloads. Flush pkts are returned as
// empty strings so callers can observe section boundaries. Trailing
// newlines are stripped from payloads, per the smart protocol convention.
func Lines(data []byte) ([]string, error) {
	var lines []string
	for len(data) > 0 {
		if len(data) < 4 {
			return nil, malformed("truncated length prefix (%d trailing bytes)", len(data))
		}

		size, err := strconv.ParseInt(string(data[:4]), 16, 32)
		if err != nil {
			return nil, malformed("invalid length prefix %q", string(data[:4]))
		}

		if size == 0 {
			lines = append(lines, "")
			data = data[4:]
			continue
		}

		if size < 4 {
			return nil, malformed("length prefix %d below minimum", size)
		}
		if size > MaxLength+4 {
			return nil, malformed("length prefix %d exceeds protocol maximum", size)
		}
		if int(size) > len(data) {
			return nil, malformed("length prefix %d exceeds remaining %d bytes", size, len(data))
		}

		lines = append(lines, strings.TrimSuffix(string(data[4:size]), "\n"))
		data = data[size:]
	}

	return lines, nil
}
