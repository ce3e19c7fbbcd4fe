package netif

import (
	"github.com/google/uuid"

	"github.com/jbweber/hostnet/internal/cstring"
)

// UUIDBufLen is the size of the buffer a UUID string is rendered into:
// 36 characters and the terminating NUL.
const UUIDBufLen = 37

// interfaceNamespace scopes name-based interface UUIDs.
var interfaceNamespace = uuid.MustParse("4b2c7d0e-91a3-4f6e-8d15-3a9e0c6b7f21")

// UUIDFromName returns the UUID for the interface with the given name.
//
// libvirt does not track UUIDs for host interfaces, so the UUID is derived from
// the device name (RFC 4122 version 5). The same name always yields the same UUID.
func UUIDFromName(name string) uuid.UUID {
	return uuid.NewSHA1(interfaceNamespace, []byte(name))
}

// uuidString renders id into a UUIDBufLen buffer and decodes it.
func uuidString(id uuid.UUID) string {
	var buf [UUIDBufLen]byte
	text, _ := id.MarshalText()
	copy(buf[:], text)
	return cstring.DecodeBytes(buf[:])
}
