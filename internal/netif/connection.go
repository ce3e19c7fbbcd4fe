package netif

import (
	"github.com/digitalocean/go-libvirt"
	"github.com/vishvananda/netlink"
)

// Connection is the set of libvirt procedures this package calls.
//
// In production this is satisfied by *libvirt.Libvirt directly.
// In tests, this is satisfied by mock implementations.
type Connection interface {
	// InterfaceLookupByName looks up an interface by its host device name
	InterfaceLookupByName(name string) (libvirt.Interface, error)

	// InterfaceLookupByMacString looks up an interface by MAC address
	InterfaceLookupByMacString(mac string) (libvirt.Interface, error)

	// InterfaceDefineXML defines (but does not start) an interface
	InterfaceDefineXML(xml string, flags uint32) (libvirt.Interface, error)

	// InterfaceGetXMLDesc returns the live or persistent XML description
	InterfaceGetXMLDesc(iface libvirt.Interface, flags uint32) (string, error)

	// InterfaceCreate activates a defined interface
	InterfaceCreate(iface libvirt.Interface, flags uint32) error

	// InterfaceDestroy deactivates an interface
	InterfaceDestroy(iface libvirt.Interface, flags uint32) error

	// InterfaceUndefine removes the persistent definition
	InterfaceUndefine(iface libvirt.Interface) error

	// InterfaceIsActive reports 1 for active, 0 for inactive
	InterfaceIsActive(iface libvirt.Interface) (int32, error)

	// ConnectListAllInterfaces lists interfaces filtered by flags
	ConnectListAllInterfaces(needResults int32, flags libvirt.ConnectListAllInterfacesFlags) ([]libvirt.Interface, uint32, error)

	// ConnectNumOfInterfaces counts active interfaces
	ConnectNumOfInterfaces() (int32, error)
}

// LinkResolver maps a host link index to the link it names.
//
// *netlink.Handle satisfies this interface.
type LinkResolver interface {
	LinkByIndex(index int) (netlink.Link, error)
}
