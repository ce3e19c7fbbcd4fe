package libvirt

import (
	"fmt"
	"net"
	"strings"

	"libvirt.org/go/libvirtxml"

	"github.com/jbweber/hostnet/api/v1alpha1"
	"github.com/jbweber/hostnet/internal/naming"
)

// GenerateInterfaceXML generates libvirt interface XML from a HostInterface.
func GenerateInterfaceXML(hi *v1alpha1.HostInterface) (string, error) {
	iface, err := buildInterface(hi)
	if err != nil {
		return "", err
	}

	xml, err := iface.Marshal()
	if err != nil {
		return "", fmt.Errorf("failed to marshal interface XML: %w", err)
	}

	return xml, nil
}

func buildInterface(hi *v1alpha1.HostInterface) (*libvirtxml.Interface, error) {
	if hi == nil {
		return nil, fmt.Errorf("host interface is nil")
	}

	iface := &libvirtxml.Interface{
		Name: hi.Name,
		Start: &libvirtxml.InterfaceStart{
			Mode: hi.GetStartMode(),
		},
	}

	if hi.Spec.MAC != "" {
		mac, err := naming.NormalizeMAC(hi.Spec.MAC)
		if err != nil {
			return nil, err
		}
		iface.MAC = &libvirtxml.InterfaceMAC{Address: mac}
	}

	if hi.Spec.MTU > 0 {
		iface.MTU = &libvirtxml.InterfaceMTU{Size: uint(hi.Spec.MTU)}
	}

	if hi.Spec.IPv4 != nil {
		proto, err := buildIPv4Protocol(hi.Spec.IPv4)
		if err != nil {
			return nil, err
		}
		iface.Protocol = []libvirtxml.InterfaceProtocol{*proto}
	}

	switch hi.Spec.Type {
	case v1alpha1.InterfaceTypeEthernet, "":
		// Plain device, nothing nested.
	case v1alpha1.InterfaceTypeBridge:
		bridge := &libvirtxml.InterfaceBridge{STP: "off"}
		if hi.Spec.Bridge != nil {
			if hi.Spec.Bridge.STP {
				bridge.STP = "on"
			}
			bridge.Interfaces = memberInterfaces(hi.Spec.Bridge.Ports)
		}
		iface.Bridge = bridge
	case v1alpha1.InterfaceTypeBond:
		if hi.Spec.Bond == nil || len(hi.Spec.Bond.Members) < 2 {
			return nil, fmt.Errorf("bond %s requires at least 2 members", hi.Name)
		}
		iface.Bond = &libvirtxml.InterfaceBond{
			Mode: hi.GetBondMode(),
			MIIMon: &libvirtxml.InterfaceBondMIIMon{
				Freq: uint(hi.GetMIIMonFrequency()),
			},
			Interfaces: memberInterfaces(hi.Spec.Bond.Members),
		}
	case v1alpha1.InterfaceTypeVLAN:
		if hi.Spec.VLAN == nil || hi.Spec.VLAN.Parent == "" {
			return nil, fmt.Errorf("vlan %s requires a parent device", hi.Name)
		}
		tag := uint(hi.Spec.VLAN.Tag)
		iface.VLAN = &libvirtxml.InterfaceVLAN{
			Tag:       &tag,
			Interface: &libvirtxml.Interface{Name: hi.Spec.VLAN.Parent},
		}
	default:
		return nil, fmt.Errorf("unsupported interface type: %s", hi.Spec.Type)
	}

	return iface, nil
}

func buildIPv4Protocol(spec *v1alpha1.IPv4Spec) (*libvirtxml.InterfaceProtocol, error) {
	proto := &libvirtxml.InterfaceProtocol{Family: "ipv4"}

	if spec.DHCP {
		proto.DHCP = &libvirtxml.InterfaceDHCP{}
	}

	for _, addr := range spec.Addresses {
		ip, ipnet, err := net.ParseCIDR(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid address %s: %w", addr, err)
		}
		if ip.To4() == nil {
			return nil, fmt.Errorf("not an IPv4 address: %s", addr)
		}
		prefix, _ := ipnet.Mask.Size()
		proto.IPs = append(proto.IPs, libvirtxml.InterfaceIP{
			Address: ip.String(),
			Prefix:  uint(prefix),
		})
	}

	if spec.Gateway != "" {
		proto.Route = []libvirtxml.InterfaceRoute{{Gateway: spec.Gateway}}
	}

	return proto, nil
}

func memberInterfaces(names []string) []libvirtxml.Interface {
	members := make([]libvirtxml.Interface, 0, len(names))
	for _, name := range names {
		members = append(members, libvirtxml.Interface{
			Name:  name,
			Start: &libvirtxml.InterfaceStart{Mode: v1alpha1.StartModeNone},
		})
	}
	return members
}

// ParseInterfaceXML parses a libvirt interface description.
func ParseInterfaceXML(xml string) (*libvirtxml.Interface, error) {
	iface := &libvirtxml.Interface{}
	if err := iface.Unmarshal(xml); err != nil {
		return nil, fmt.Errorf("failed to parse interface XML: %w", err)
	}
	return iface, nil
}

// EquivalentInterfaceXML reports whether two interface descriptions define the
// same interface. Formatting, attribute order, MAC case and runtime-only link
// state are ignored.
func EquivalentInterfaceXML(a, b string) (bool, error) {
	left, err := canonicalInterfaceXML(a)
	if err != nil {
		return false, err
	}
	right, err := canonicalInterfaceXML(b)
	if err != nil {
		return false, err
	}
	return left == right, nil
}

func canonicalInterfaceXML(xml string) (string, error) {
	iface, err := ParseInterfaceXML(xml)
	if err != nil {
		return "", err
	}
	canonicalize(iface)

	out, err := iface.Marshal()
	if err != nil {
		return "", fmt.Errorf("failed to marshal interface XML: %w", err)
	}
	return out, nil
}

func canonicalize(iface *libvirtxml.Interface) {
	iface.Link = nil
	if iface.MAC != nil {
		iface.MAC.Address = strings.ToLower(iface.MAC.Address)
	}
	if iface.Bond != nil {
		for i := range iface.Bond.Interfaces {
			canonicalize(&iface.Bond.Interfaces[i])
		}
	}
	if iface.Bridge != nil {
		for i := range iface.Bridge.Interfaces {
			canonicalize(&iface.Bridge.Interfaces[i])
		}
	}
	if iface.VLAN != nil && iface.VLAN.Interface != nil {
		canonicalize(iface.VLAN.Interface)
	}
}

// InterfaceTypeOf returns the HostInterface type a parsed description represents.
func InterfaceTypeOf(iface *libvirtxml.Interface) v1alpha1.InterfaceType {
	switch {
	case iface.Bridge != nil:
		return v1alpha1.InterfaceTypeBridge
	case iface.Bond != nil:
		return v1alpha1.InterfaceTypeBond
	case iface.VLAN != nil:
		return v1alpha1.InterfaceTypeVLAN
	default:
		return v1alpha1.InterfaceTypeEthernet
	}
}

// MemberNames returns bridge ports, bond members, or the VLAN parent.
func MemberNames(iface *libvirtxml.Interface) []string {
	var members []libvirtxml.Interface
	switch {
	case iface.Bridge != nil:
		members = iface.Bridge.Interfaces
	case iface.Bond != nil:
		members = iface.Bond.Interfaces
	case iface.VLAN != nil && iface.VLAN.Interface != nil:
		return []string{iface.VLAN.Interface.Name}
	}

	names := make([]string, 0, len(members))
	for _, m := range members {
		names = append(names, m.Name)
	}
	return names
}

// SpecFromInterface rebuilds a HostInterfaceSpec from a parsed description.
// Fields libvirt does not persist (Start) are left unset.
func SpecFromInterface(iface *libvirtxml.Interface) v1alpha1.HostInterfaceSpec {
	spec := v1alpha1.HostInterfaceSpec{
		Type: InterfaceTypeOf(iface),
	}

	if iface.Start != nil {
		spec.StartMode = iface.Start.Mode
	}
	if iface.MAC != nil {
		spec.MAC = strings.ToLower(iface.MAC.Address)
	}
	if iface.MTU != nil {
		spec.MTU = int(iface.MTU.Size)
	}

	for _, proto := range iface.Protocol {
		if proto.Family != "ipv4" {
			continue
		}
		ipv4 := &v1alpha1.IPv4Spec{DHCP: proto.DHCP != nil}
		for _, ip := range proto.IPs {
			ipv4.Addresses = append(ipv4.Addresses, fmt.Sprintf("%s/%d", ip.Address, ip.Prefix))
		}
		if len(proto.Route) > 0 {
			ipv4.Gateway = proto.Route[0].Gateway
		}
		spec.IPv4 = ipv4
	}

	switch spec.Type {
	case v1alpha1.InterfaceTypeBridge:
		spec.Bridge = &v1alpha1.BridgeSpec{
			STP:   iface.Bridge.STP == "on",
			Ports: MemberNames(iface),
		}
	case v1alpha1.InterfaceTypeBond:
		bond := &v1alpha1.BondSpec{
			Mode:    iface.Bond.Mode,
			Members: MemberNames(iface),
		}
		if iface.Bond.MIIMon != nil {
			bond.MIIMonFrequency = int(iface.Bond.MIIMon.Freq)
		}
		spec.Bond = bond
	case v1alpha1.InterfaceTypeVLAN:
		vlan := &v1alpha1.VLANSpec{}
		if iface.VLAN.Tag != nil {
			vlan.Tag = int(*iface.VLAN.Tag)
		}
		if iface.VLAN.Interface != nil {
			vlan.Parent = iface.VLAN.Interface.Name
		}
		spec.VLAN = vlan
	}

	return spec
}
