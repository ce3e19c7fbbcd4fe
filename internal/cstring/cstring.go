// Package cstring marshals text across the libvirt boundary.
//
// libvirt stores every string it receives in a NUL-terminated C buffer, so a Go
// string with an embedded NUL would be silently truncated on the daemon side.
// Encode rejects such input up front. In the other direction libvirt makes no
// promise that the bytes it hands back are valid UTF-8; Decode copies them into
// an owned Go string and replaces anything undecodable with U+FFFD.
package cstring

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrEmbeddedNUL is returned when a string contains a NUL byte and therefore
// cannot be represented as a C string.
var ErrEmbeddedNUL = errors.New("string contains an embedded NUL byte")

// Encode validates that s can be sent to libvirt unchanged.
// The returned string is s itself; it is never truncated.
func Encode(s string) (string, error) {
	if i := strings.IndexByte(s, 0); i >= 0 {
		return "", fmt.Errorf("%w at offset %d", ErrEmbeddedNUL, i)
	}
	return s, nil
}

// Decode copies text returned by libvirt into an owned string.
// Text after the first NUL is dropped and invalid UTF-8 sequences are
// replaced with utf8.RuneError.
func Decode(s string) string {
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	if utf8.ValidString(s) {
		return strings.Clone(s)
	}
	return strings.ToValidUTF8(s, string(utf8.RuneError))
}

// DecodeBytes is Decode for a fixed-size buffer filled on the caller's side.
func DecodeBytes(b []byte) string {
	return Decode(string(b))
}
