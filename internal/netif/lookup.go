package netif

import (
	"fmt"
	"net"

	"github.com/digitalocean/go-libvirt"
	"github.com/google/uuid"

	"github.com/jbweber/hostnet/internal/cstring"
)

// ListFlags filters ListAll. Zero lists every interface.
type ListFlags uint32

const (
	// ListInactive selects defined interfaces that are not running.
	ListInactive ListFlags = 1 << 0

	// ListActive selects running interfaces.
	ListActive ListFlags = 1 << 1
)

// LookupByID returns the interface whose host link index is id.
//
// libvirt has no numeric interface IDs; the index is resolved to a device name
// through netlink in the caller's network namespace, so this only makes sense
// for a connection to the local daemon.
func LookupByID(conn Connection, id uint32) (*Interface, error) {
	return lookupByID(conn, id, hostLinks{})
}

func lookupByID(conn Connection, id uint32, links LinkResolver) (*Interface, error) {
	const op = "InterfaceLookupByID"
	if conn == nil {
		return nil, invalidConnection(op)
	}
	if id == 0 || id > 1<<31-1 {
		return nil, notFound(op, "no interface with matching id %d", id)
	}

	link, err := links.LinkByIndex(int(id))
	if err != nil {
		if isLinkNotFound(err) {
			return nil, notFound(op, "no interface with matching id %d", id)
		}
		return nil, operationFailed(op, fmt.Errorf("failed to resolve link index %d: %w", id, err))
	}
	if link == nil || link.Attrs() == nil || link.Attrs().Name == "" {
		return nil, notFound(op, "no interface with matching id %d", id)
	}

	return LookupByName(conn, link.Attrs().Name)
}

// LookupByName returns the interface with the given device name.
func LookupByName(conn Connection, name string) (*Interface, error) {
	const op = "InterfaceLookupByName"
	if conn == nil {
		return nil, invalidConnection(op)
	}

	name, err := cstring.Encode(name)
	if err != nil {
		return nil, invalidArgument(op, err)
	}

	ref, err := conn.InterfaceLookupByName(name)
	if err != nil {
		return nil, newError(op, err)
	}
	return newInterface(op, conn, ref)
}

// LookupByMACString returns the interface with the given MAC address.
// Any notation net.ParseMAC accepts for a 48-bit address is allowed.
func LookupByMACString(conn Connection, mac string) (*Interface, error) {
	const op = "InterfaceLookupByMACString"
	if conn == nil {
		return nil, invalidConnection(op)
	}

	mac, err := cstring.Encode(mac)
	if err != nil {
		return nil, invalidArgument(op, err)
	}
	hw, err := net.ParseMAC(mac)
	if err != nil || len(hw) != 6 {
		return nil, invalidArgument(op, fmt.Errorf("invalid MAC address %q", mac))
	}

	// libvirt matches the lowercase colon-separated form only
	ref, err := conn.InterfaceLookupByMacString(hw.String())
	if err != nil {
		return nil, newError(op, err)
	}
	return newInterface(op, conn, ref)
}

// LookupByUUIDString returns the interface whose UUID, as reported by
// GetUUIDString, matches id.
func LookupByUUIDString(conn Connection, id string) (*Interface, error) {
	const op = "InterfaceLookupByUUIDString"
	if conn == nil {
		return nil, invalidConnection(op)
	}

	id, err := cstring.Encode(id)
	if err != nil {
		return nil, invalidArgument(op, err)
	}
	want, err := uuid.Parse(id)
	if err != nil {
		return nil, invalidArgument(op, fmt.Errorf("invalid UUID %q: %w", id, err))
	}

	refs, _, err := conn.ConnectListAllInterfaces(1, 0)
	if err != nil {
		return nil, newError(op, err)
	}
	for _, ref := range refs {
		if UUIDFromName(ref.Name) == want {
			return newInterface(op, conn, ref)
		}
	}
	return nil, notFound(op, "no interface with matching uuid '%s'", want)
}

// DefineXML defines an interface from its XML description, or updates an
// existing definition. The interface is not started.
func DefineXML(conn Connection, xml string, flags uint32) (*Interface, error) {
	const op = "InterfaceDefineXML"
	if conn == nil {
		return nil, invalidConnection(op)
	}

	xml, err := cstring.Encode(xml)
	if err != nil {
		return nil, invalidArgument(op, err)
	}

	ref, err := conn.InterfaceDefineXML(xml, flags)
	if err != nil {
		return nil, newError(op, err)
	}
	return newInterface(op, conn, ref)
}

// ListAll returns a handle for every interface selected by flags.
// Each returned handle must be freed by the caller.
func ListAll(conn Connection, flags ListFlags) ([]*Interface, error) {
	const op = "ConnectListAllInterfaces"
	if conn == nil {
		return nil, invalidConnection(op)
	}

	// NeedResults: 1 means populate the interfaces slice
	refs, _, err := conn.ConnectListAllInterfaces(1, libvirt.ConnectListAllInterfacesFlags(flags))
	if err != nil {
		return nil, newError(op, err)
	}

	ifaces := make([]*Interface, 0, len(refs))
	for _, ref := range refs {
		iface, err := newInterface(op, conn, ref)
		if err != nil {
			return nil, err
		}
		ifaces = append(ifaces, iface)
	}
	return ifaces, nil
}

// NumOfInterfaces returns the number of active interfaces.
func NumOfInterfaces(conn Connection) (int, error) {
	const op = "ConnectNumOfInterfaces"
	if conn == nil {
		return 0, invalidConnection(op)
	}

	n, err := conn.ConnectNumOfInterfaces()
	if err != nil {
		return 0, newError(op, err)
	}
	return int(n), nil
}
