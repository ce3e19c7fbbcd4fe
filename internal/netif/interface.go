package netif

import (
	"sync/atomic"

	"github.com/digitalocean/go-libvirt"

	"github.com/jbweber/hostnet/internal/cstring"
)

// XMLFlags selects which description GetXMLDesc returns.
// Bits other than XMLInactive are passed to libvirt unvalidated.
type XMLFlags uint32

const (
	// XMLInactive requests the persistent definition instead of the live state.
	XMLInactive XMLFlags = 1 << 0
)

// Interface is a handle to a libvirt host interface.
//
// Obtain one from LookupByID, LookupByName, LookupByMACString,
// LookupByUUIDString, DefineXML or ListAll and release it with Free.
type Interface struct {
	conn  Connection
	ref   libvirt.Interface
	freed atomic.Bool
}

// newInterface wraps ref, refusing the null reference.
func newInterface(op string, conn Connection, ref libvirt.Interface) (*Interface, error) {
	if ref.Name == "" {
		return nil, invalidHandle(op, "libvirt returned a null interface reference")
	}
	return &Interface{conn: conn, ref: ref}, nil
}

// check fails once the handle has been released.
func (i *Interface) check(op string) error {
	if i == nil || i.conn == nil {
		return invalidHandle(op, "interface handle is not initialized")
	}
	if i.freed.Load() {
		return invalidHandle(op, "interface handle used after Free")
	}
	return nil
}

// GetConnect returns the connection the interface was obtained from.
func (i *Interface) GetConnect() (Connection, error) {
	const op = "InterfaceGetConnect"
	if err := i.check(op); err != nil {
		return nil, err
	}
	return i.conn, nil
}

// GetName returns the host device name.
func (i *Interface) GetName() (string, error) {
	if err := i.check("InterfaceGetName"); err != nil {
		return "", err
	}
	return cstring.Decode(i.ref.Name), nil
}

// GetMACString returns the MAC address reported by libvirt.
// Interfaces without a hardware address (a bridge with no ports, for instance)
// report an empty string.
func (i *Interface) GetMACString() (string, error) {
	if err := i.check("InterfaceGetMACString"); err != nil {
		return "", err
	}
	return cstring.Decode(i.ref.Mac), nil
}

// GetUUIDString returns the interface UUID in its 36-character form.
func (i *Interface) GetUUIDString() (string, error) {
	if err := i.check("InterfaceGetUUIDString"); err != nil {
		return "", err
	}
	return uuidString(UUIDFromName(i.ref.Name)), nil
}

// GetXMLDesc returns the XML description of the interface.
// With XMLInactive it describes the persistent definition rather than the
// running configuration.
func (i *Interface) GetXMLDesc(flags XMLFlags) (string, error) {
	const op = "InterfaceGetXMLDesc"
	if err := i.check(op); err != nil {
		return "", err
	}

	xml, err := i.conn.InterfaceGetXMLDesc(i.ref, uint32(flags))
	if err != nil {
		return "", newError(op, err)
	}
	return cstring.Decode(xml), nil
}

// Create activates a defined interface. flags is reserved and should be 0.
func (i *Interface) Create(flags uint32) error {
	const op = "InterfaceCreate"
	if err := i.check(op); err != nil {
		return err
	}

	if err := i.conn.InterfaceCreate(i.ref, flags); err != nil {
		return newError(op, err)
	}
	return nil
}

// Destroy deactivates the interface. The persistent definition is kept.
func (i *Interface) Destroy() error {
	const op = "InterfaceDestroy"
	if err := i.check(op); err != nil {
		return err
	}

	if err := i.conn.InterfaceDestroy(i.ref, 0); err != nil {
		return newError(op, err)
	}
	return nil
}

// Undefine removes the persistent definition. A running interface stays up.
func (i *Interface) Undefine() error {
	const op = "InterfaceUndefine"
	if err := i.check(op); err != nil {
		return err
	}

	if err := i.conn.InterfaceUndefine(i.ref); err != nil {
		return newError(op, err)
	}
	return nil
}

// IsActive reports whether the interface is running.
func (i *Interface) IsActive() (bool, error) {
	const op = "InterfaceIsActive"
	if err := i.check(op); err != nil {
		return false, err
	}

	ret, err := i.conn.InterfaceIsActive(i.ref)
	if err != nil {
		return false, newError(op, err)
	}
	return ret == 1, nil
}

// Free releases this handle. The interface itself is not affected.
// A second Free, like any other call after Free, fails with ErrInvalidHandle.
func (i *Interface) Free() error {
	const op = "InterfaceFree"
	if i == nil || i.conn == nil {
		return invalidHandle(op, "interface handle is not initialized")
	}
	if !i.freed.CompareAndSwap(false, true) {
		return invalidHandle(op, "interface handle already freed")
	}
	return nil
}
