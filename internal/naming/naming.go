// Package naming provides host-level naming rules for network interfaces.
// This includes Linux device name validation, VLAN device naming and MAC
// address normalization.
//
// These rules are version-independent and shared across all API versions.
package naming

import (
	"fmt"
	"net"
	"strings"
)

// MaxInterfaceNameLength is IFNAMSIZ minus the trailing NUL.
const MaxInterfaceNameLength = 15

// ValidateInterfaceName checks a name against the kernel's device name rules.
func ValidateInterfaceName(name string) error {
	if name == "" {
		return fmt.Errorf("interface name is required")
	}
	if len(name) > MaxInterfaceNameLength {
		return fmt.Errorf("interface name %q exceeds %d characters", name, MaxInterfaceNameLength)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("interface name %q is reserved", name)
	}
	for i, r := range name {
		switch {
		case r == '/' || r == ':':
			return fmt.Errorf("interface name %q contains %q at offset %d", name, r, i)
		case r <= ' ' || r == 0x7f:
			return fmt.Errorf("interface name %q contains whitespace or control character at offset %d", name, i)
		case r > 0x7f:
			return fmt.Errorf("interface name %q contains non-ASCII character at offset %d", name, i)
		}
	}
	return nil
}

// VLANName returns the conventional name of an 802.1Q device.
// Format: {parent}.{tag} (e.g., "eth0.100")
func VLANName(parent string, tag int) string {
	return fmt.Sprintf("%s.%d", parent, tag)
}

// ValidateVLANTag checks that tag is a usable 802.1Q VLAN ID.
func ValidateVLANTag(tag int) error {
	if tag < 1 || tag > 4094 {
		return fmt.Errorf("vlan tag %d out of range 1-4094", tag)
	}
	return nil
}

// NormalizeMAC parses a 48-bit MAC address and returns it in lowercase
// colon-separated form.
//
// Example: "52-54-00-AA-BB-CC" → "52:54:00:aa:bb:cc"
func NormalizeMAC(mac string) (string, error) {
	hw, err := net.ParseMAC(strings.TrimSpace(mac))
	if err != nil {
		return "", fmt.Errorf("invalid MAC address: %w", err)
	}
	if len(hw) != 6 {
		return "", fmt.Errorf("not a 48-bit MAC address: %s", mac)
	}
	return hw.String(), nil
}
