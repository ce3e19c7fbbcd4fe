// Package loader provides functions for loading HostInterface resources
// from YAML files.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jbweber/hostnet/api/v1alpha1"
	"github.com/jbweber/hostnet/internal/naming"
)

// LoadFromFile loads a single HostInterface resource from a YAML file.
// The file must be in the hostnet.cofront.xyz/v1alpha1 format.
func LoadFromFile(path string) (*v1alpha1.HostInterface, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	return LoadFromYAML(data)
}

// LoadAllFromFile loads every HostInterface document in a YAML file.
func LoadAllFromFile(path string) ([]*v1alpha1.HostInterface, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	return LoadAllFromYAML(data)
}

// LoadFromYAML loads a HostInterface resource from YAML bytes.
// The YAML must be in the hostnet.cofront.xyz/v1alpha1 format.
func LoadFromYAML(data []byte) (*v1alpha1.HostInterface, error) {
	var hi v1alpha1.HostInterface
	if err := yaml.Unmarshal(data, &hi); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	if err := prepare(&hi); err != nil {
		return nil, err
	}
	return &hi, nil
}

// LoadAllFromYAML loads every document of a "---" separated YAML stream.
// Empty documents are skipped. Interface names must be unique across the stream.
func LoadAllFromYAML(data []byte) ([]*v1alpha1.HostInterface, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var result []*v1alpha1.HostInterface
	seen := make(map[string]int)
	for doc := 0; ; doc++ {
		var node yaml.Node
		if err := dec.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to unmarshal YAML document %d: %w", doc, err)
		}
		if len(node.Content) == 0 || (node.Content[0].Kind == yaml.ScalarNode && node.Content[0].Tag == "!!null") {
			continue
		}

		var hi v1alpha1.HostInterface
		if err := node.Decode(&hi); err != nil {
			return nil, fmt.Errorf("failed to unmarshal YAML document %d: %w", doc, err)
		}
		if err := prepare(&hi); err != nil {
			return nil, fmt.Errorf("document %d: %w", doc, err)
		}
		if prev, ok := seen[hi.Name]; ok {
			return nil, fmt.Errorf("document %d: interface %q already defined in document %d", doc, hi.Name, prev)
		}
		seen[hi.Name] = doc
		result = append(result, &hi)
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("no HostInterface documents found")
	}
	return result, nil
}

// SaveToFile saves a HostInterface resource to a YAML file.
func SaveToFile(hi *v1alpha1.HostInterface, path string) error {
	v1alpha1.SetDefaultAPIVersion(hi)

	data, err := yaml.Marshal(hi)
	if err != nil {
		return fmt.Errorf("failed to marshal interface to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	return nil
}

func prepare(hi *v1alpha1.HostInterface) error {
	if hi.APIVersion == "" {
		return fmt.Errorf("missing required field: apiVersion")
	}
	if hi.Kind == "" {
		return fmt.Errorf("missing required field: kind")
	}

	if hi.APIVersion != v1alpha1.APIVersion() {
		return fmt.Errorf("unsupported apiVersion: %s (expected: %s)", hi.APIVersion, v1alpha1.APIVersion())
	}
	if hi.Kind != v1alpha1.HostInterfaceKind {
		return fmt.Errorf("unsupported kind: %s (expected: %s)", hi.Kind, v1alpha1.HostInterfaceKind)
	}

	applyDefaults(hi)

	if err := validateSpec(hi); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// applyDefaults sets default values for optional fields.
func applyDefaults(hi *v1alpha1.HostInterface) {
	hi.Normalize()

	if hi.Spec.Type == "" {
		hi.Spec.Type = v1alpha1.InterfaceTypeEthernet
	}
	if hi.Spec.StartMode == "" {
		hi.Spec.StartMode = v1alpha1.StartModeOnBoot
	}
	if hi.Spec.Start == nil {
		start := true
		hi.Spec.Start = &start
	}

	// VLAN devices are named after their parent unless told otherwise
	if hi.Name == "" && hi.Spec.VLAN != nil && hi.Spec.VLAN.Parent != "" {
		hi.Name = naming.VLANName(hi.Spec.VLAN.Parent, hi.Spec.VLAN.Tag)
	}

	if hi.Spec.Bond != nil {
		hi.Spec.Bond.Mode = hi.GetBondMode()
		hi.Spec.Bond.MIIMonFrequency = hi.GetMIIMonFrequency()
	}

	if hi.Status.Phase == "" {
		hi.Status.Phase = v1alpha1.InterfacePhasePending
	}
}

// validateSpec validates the HostInterface spec for required fields and consistency.
func validateSpec(hi *v1alpha1.HostInterface) error {
	if hi.Name == "" {
		return fmt.Errorf("metadata.name is required")
	}
	if err := naming.ValidateInterfaceName(hi.Name); err != nil {
		return fmt.Errorf("metadata.name: %w", err)
	}

	if hi.Spec.MAC != "" {
		if _, err := naming.NormalizeMAC(hi.Spec.MAC); err != nil {
			return fmt.Errorf("spec.mac: %w", err)
		}
	}
	if hi.Spec.MTU < 0 || hi.Spec.MTU > 65535 {
		return fmt.Errorf("spec.mtu %d out of range 0-65535", hi.Spec.MTU)
	}

	switch hi.Spec.StartMode {
	case v1alpha1.StartModeOnBoot, v1alpha1.StartModeNone, v1alpha1.StartModeHotplug:
	default:
		return fmt.Errorf("spec.startMode %q must be one of onboot, none, hotplug", hi.Spec.StartMode)
	}

	if err := validateIPv4(hi.Spec.IPv4); err != nil {
		return err
	}

	// Exactly the block matching spec.type may be present
	blocks := map[v1alpha1.InterfaceType]bool{
		v1alpha1.InterfaceTypeBridge: hi.Spec.Bridge != nil,
		v1alpha1.InterfaceTypeBond:   hi.Spec.Bond != nil,
		v1alpha1.InterfaceTypeVLAN:   hi.Spec.VLAN != nil,
	}
	for typ, present := range blocks {
		if present && typ != hi.Spec.Type {
			return fmt.Errorf("spec.%s is not allowed for type %s", typ, hi.Spec.Type)
		}
	}

	switch hi.Spec.Type {
	case v1alpha1.InterfaceTypeEthernet:
	case v1alpha1.InterfaceTypeBridge:
		if hi.Spec.Bridge != nil {
			if err := validateMembers("spec.bridge.ports", hi.Name, hi.Spec.Bridge.Ports, 0); err != nil {
				return err
			}
		}
	case v1alpha1.InterfaceTypeBond:
		if hi.Spec.Bond == nil {
			return fmt.Errorf("spec.bond is required for type bond")
		}
		if err := validateMembers("spec.bond.members", hi.Name, hi.Spec.Bond.Members, 2); err != nil {
			return err
		}
		if hi.Spec.Bond.MIIMonFrequency < 0 {
			return fmt.Errorf("spec.bond.miimonFrequency must not be negative")
		}
	case v1alpha1.InterfaceTypeVLAN:
		if hi.Spec.VLAN == nil {
			return fmt.Errorf("spec.vlan is required for type vlan")
		}
		if err := naming.ValidateVLANTag(hi.Spec.VLAN.Tag); err != nil {
			return fmt.Errorf("spec.vlan.tag: %w", err)
		}
		if hi.Spec.VLAN.Parent == "" {
			return fmt.Errorf("spec.vlan.parent is required")
		}
		if err := naming.ValidateInterfaceName(hi.Spec.VLAN.Parent); err != nil {
			return fmt.Errorf("spec.vlan.parent: %w", err)
		}
		if hi.Spec.VLAN.Parent == hi.Name {
			return fmt.Errorf("spec.vlan.parent cannot be the interface itself")
		}
	default:
		return fmt.Errorf("spec.type %q must be one of ethernet, bridge, bond, vlan", hi.Spec.Type)
	}

	return nil
}

func validateIPv4(spec *v1alpha1.IPv4Spec) error {
	if spec == nil {
		return nil
	}
	if spec.DHCP && len(spec.Addresses) > 0 {
		return fmt.Errorf("spec.ipv4 cannot specify both 'dhcp: true' and 'addresses'")
	}

	seen := make(map[string]bool)
	for i, addr := range spec.Addresses {
		ip, _, err := net.ParseCIDR(addr)
		if err != nil {
			return fmt.Errorf("spec.ipv4.addresses[%d] %q is not in CIDR notation", i, addr)
		}
		if ip.To4() == nil {
			return fmt.Errorf("spec.ipv4.addresses[%d] %q is not IPv4", i, addr)
		}
		if seen[addr] {
			return fmt.Errorf("spec.ipv4.addresses[%d] %q is duplicated", i, addr)
		}
		seen[addr] = true
	}

	if spec.Gateway != "" {
		gw := net.ParseIP(spec.Gateway)
		if gw == nil || gw.To4() == nil {
			return fmt.Errorf("spec.ipv4.gateway %q is not an IPv4 address", spec.Gateway)
		}
	}
	return nil
}

func validateMembers(field, self string, members []string, min int) error {
	if len(members) < min {
		return fmt.Errorf("%s must have at least %d entries", field, min)
	}

	seen := make(map[string]bool)
	for i, m := range members {
		if err := naming.ValidateInterfaceName(m); err != nil {
			return fmt.Errorf("%s[%d]: %w", field, i, err)
		}
		if m == self {
			return fmt.Errorf("%s[%d] cannot be the interface itself", field, i)
		}
		if seen[m] {
			return fmt.Errorf("%s[%d] %q is duplicated", field, i, m)
		}
		seen[m] = true
	}
	return nil
}
