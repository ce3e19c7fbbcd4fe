// Package libvirt provides the connection to a libvirt daemon, local or over
// SSH, and the interface XML helpers built on libvirt.org/go/libvirtxml.
//
// Connection Management:
//
//	client, err := libvirt.Connect("", 0)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	iface, err := netif.LookupByName(client.Libvirt(), "br0")
//
// Interface XML:
//
// GenerateInterfaceXML turns a v1alpha1.HostInterface into the XML accepted by
// virInterfaceDefineXML. ParseInterfaceXML and SpecFromInterface go the other
// way, and EquivalentInterfaceXML compares two descriptions ignoring formatting:
//
//	hi := v1alpha1.NewHostInterface("br0", v1alpha1.InterfaceTypeBridge)
//	hi.Spec.Bridge = &v1alpha1.BridgeSpec{Ports: []string{"eth0"}}
//
//	xml, err := libvirt.GenerateInterfaceXML(hi)
//
// Consumer-Side Interfaces:
//
// This package does not define interfaces. Consumers (internal/netif) define the
// subset of *libvirt.Libvirt they call, which the type satisfies implicitly.
package libvirt
