// Package codec holds the text codecs used when encoding scalar values for
// the wire: byte payloads (Blob) and timestamps.
package codec

import (
	"encoding/base64"
	"strings"
)

// Blob converts an opaque byte payload into wire text.
type Blob interface {
	EncodeToString(src []byte) string
}

// Base64 returns the standard padded base64 codec (RFC 4648).
func Base64() Blob { return base64.StdEncoding }

// Base64Lines returns a base64 codec that breaks output into lines of 60
// characters, each terminated by "\n" (the MIME-style layout some older
// query endpoints expect). Empty input encodes to "".
func Base64Lines() Blob { return lineWrapped{enc: base64.StdEncoding, width: 60} }

type lineWrapped struct {
	enc   *base64.Encoding
	width int
}

func (l lineWrapped) EncodeToString(src []byte) string {
	s := l.enc.EncodeToString(src)
	if s == "" {
		return ""
	}
	b := &strings.Builder{}
	b.Grow(len(s) + len(s)/l.width + 1)
	for len(s) > l.width {
		b.WriteString(s[:l.width])
		b.WriteByte('\n')
		s = s[l.width:]
	}
	b.WriteString(s)
	b.WriteByte('\n')
	return b.String()
}

// ByName resolves a codec by its configuration name ("base64" or
// "base64_lines").
func ByName(name string) (Blob, bool) {
	switch name {
	case "", "base64":
		return Base64(), true
	case "base64_lines":
		return Base64Lines(), true
	}
	return nil, false
}
