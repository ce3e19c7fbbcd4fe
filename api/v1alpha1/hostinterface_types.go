package v1alpha1

// HostInterface is a host network interface managed through libvirt.
//
// Spec describes the persistent definition handed to libvirt; Status records what
// hostnet last observed on the hypervisor.
//
// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:shortName=hif
// +kubebuilder:printcolumn:name="Type",type=string,JSONPath=`.spec.type`
// +kubebuilder:printcolumn:name="Phase",type=string,JSONPath=`.status.phase`
type HostInterface struct {
	TypeMeta `json:",inline" yaml:",inline"`

	// +optional
	ObjectMeta `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	Spec HostInterfaceSpec `json:"spec" yaml:"spec"`

	// +optional
	Status HostInterfaceStatus `json:"status,omitempty" yaml:"status,omitempty"`
}

// InterfaceType is the kind of host device.
type InterfaceType string

const (
	// InterfaceTypeEthernet is a physical or otherwise pre-existing device.
	InterfaceTypeEthernet InterfaceType = "ethernet"
	// InterfaceTypeBridge is a software bridge with zero or more ports.
	InterfaceTypeBridge InterfaceType = "bridge"
	// InterfaceTypeBond aggregates two or more member devices.
	InterfaceTypeBond InterfaceType = "bond"
	// InterfaceTypeVLAN is an 802.1Q tagged device on top of a parent.
	InterfaceTypeVLAN InterfaceType = "vlan"
)

// Start modes accepted by libvirt's <start mode=.../>.
const (
	StartModeOnBoot  = "onboot"
	StartModeNone    = "none"
	StartModeHotplug = "hotplug"
)

// HostInterfaceSpec is the desired definition of a host interface.
type HostInterfaceSpec struct {
	// Type selects which of Bridge, Bond or VLAN applies.
	// +kubebuilder:validation:Enum=ethernet;bridge;bond;vlan
	Type InterfaceType `json:"type" yaml:"type"`

	// MAC is the hardware address to assign. Optional for bridges.
	// +optional
	MAC string `json:"mac,omitempty" yaml:"mac,omitempty"`

	// MTU overrides the device MTU.
	// +optional
	MTU int `json:"mtu,omitempty" yaml:"mtu,omitempty"`

	// StartMode controls when the host brings the device up.
	// Defaults to "onboot".
	// +optional
	// +kubebuilder:validation:Enum=onboot;none;hotplug
	StartMode string `json:"startMode,omitempty" yaml:"startMode,omitempty"`

	// Start activates the interface right after it is defined.
	// Defaults to true.
	// +optional
	Start *bool `json:"start,omitempty" yaml:"start,omitempty"`

	// IPv4 configures addressing. Omit to leave the device unaddressed.
	// +optional
	IPv4 *IPv4Spec `json:"ipv4,omitempty" yaml:"ipv4,omitempty"`

	// +optional
	Bridge *BridgeSpec `json:"bridge,omitempty" yaml:"bridge,omitempty"`

	// +optional
	Bond *BondSpec `json:"bond,omitempty" yaml:"bond,omitempty"`

	// +optional
	VLAN *VLANSpec `json:"vlan,omitempty" yaml:"vlan,omitempty"`
}

// IPv4Spec is either DHCP or a static address list.
type IPv4Spec struct {
	// DHCP requests an address from a DHCP server. Mutually exclusive with Addresses.
	// +optional
	DHCP bool `json:"dhcp,omitempty" yaml:"dhcp,omitempty"`

	// Addresses in CIDR notation, e.g. "10.250.250.1/24".
	// +optional
	Addresses []string `json:"addresses,omitempty" yaml:"addresses,omitempty"`

	// Gateway is the default route for the device.
	// +optional
	Gateway string `json:"gateway,omitempty" yaml:"gateway,omitempty"`
}

// BridgeSpec configures a software bridge.
type BridgeSpec struct {
	// STP enables spanning tree. Defaults to false.
	// +optional
	STP bool `json:"stp,omitempty" yaml:"stp,omitempty"`

	// Ports are the ethernet devices enslaved to the bridge.
	// +optional
	Ports []string `json:"ports,omitempty" yaml:"ports,omitempty"`
}

// BondSpec configures link aggregation.
type BondSpec struct {
	// Mode is the bonding mode, e.g. "active-backup" or "802.3ad".
	// Defaults to "active-backup".
	// +optional
	Mode string `json:"mode,omitempty" yaml:"mode,omitempty"`

	// MIIMonFrequency is the link monitoring interval in milliseconds.
	// Defaults to 100.
	// +optional
	MIIMonFrequency int `json:"miimonFrequency,omitempty" yaml:"miimonFrequency,omitempty"`

	// Members are the ethernet devices in the bond.
	// +kubebuilder:validation:MinItems=2
	Members []string `json:"members" yaml:"members"`
}

// VLANSpec configures an 802.1Q device.
type VLANSpec struct {
	// Tag is the VLAN ID.
	// +kubebuilder:validation:Minimum=1
	// +kubebuilder:validation:Maximum=4094
	Tag int `json:"tag" yaml:"tag"`

	// Parent is the device carrying the tagged traffic.
	Parent string `json:"parent" yaml:"parent"`
}

// HostInterfaceStatus is the observed state of a host interface.
type HostInterfaceStatus struct {
	// +optional
	// +kubebuilder:validation:Enum=Pending;Defining;Active;Inactive;Failed
	Phase InterfacePhase `json:"phase,omitempty" yaml:"phase,omitempty"`

	// +optional
	// +listType=map
	// +listMapKey=type
	Conditions []Condition `json:"conditions,omitempty" yaml:"conditions,omitempty"`

	// Active is true when libvirt reports the interface running.
	// +optional
	Active bool `json:"active,omitempty" yaml:"active,omitempty"`

	// MAC is the hardware address libvirt reports.
	// +optional
	MAC string `json:"mac,omitempty" yaml:"mac,omitempty"`

	// UUID is the stable name-derived interface UUID.
	// +optional
	UUID string `json:"uuid,omitempty" yaml:"uuid,omitempty"`

	// ObservedGeneration is the generation this status was computed from.
	// +optional
	ObservedGeneration int64 `json:"observedGeneration,omitempty" yaml:"observedGeneration,omitempty"`
}

// InterfacePhase is the lifecycle phase of a HostInterface.
type InterfacePhase string

const (
	// InterfacePhasePending means the interface has not been sent to libvirt yet.
	InterfacePhasePending InterfacePhase = "Pending"

	// InterfacePhaseDefining means the definition is being applied.
	InterfacePhaseDefining InterfacePhase = "Defining"

	// InterfacePhaseActive means the interface is defined and running.
	InterfacePhaseActive InterfacePhase = "Active"

	// InterfacePhaseInactive means the interface is defined but not running.
	InterfacePhaseInactive InterfacePhase = "Inactive"

	// InterfacePhaseFailed means libvirt rejected the definition or activation.
	InterfacePhaseFailed InterfacePhase = "Failed"
)

// Condition types reported for HostInterface resources.
const (
	// ConditionDefined is True when libvirt holds a persistent definition.
	ConditionDefined = "Defined"

	// ConditionActive is True when the interface is running.
	ConditionActive = "Active"
)

// DeepCopy creates a deep copy of HostInterface.
func (in *HostInterface) DeepCopy() *HostInterface {
	if in == nil {
		return nil
	}
	out := new(HostInterface)
	out.TypeMeta = *in.TypeMeta.DeepCopy()
	out.ObjectMeta = *in.ObjectMeta.DeepCopy()
	out.Spec = *in.Spec.DeepCopy()
	out.Status = *in.Status.DeepCopy()
	return out
}

// DeepCopy creates a deep copy of HostInterfaceSpec.
func (in *HostInterfaceSpec) DeepCopy() *HostInterfaceSpec {
	if in == nil {
		return nil
	}
	out := new(HostInterfaceSpec)
	*out = *in

	if in.Start != nil {
		start := *in.Start
		out.Start = &start
	}
	if in.IPv4 != nil {
		out.IPv4 = &IPv4Spec{
			DHCP:      in.IPv4.DHCP,
			Addresses: copyStrings(in.IPv4.Addresses),
			Gateway:   in.IPv4.Gateway,
		}
	}
	if in.Bridge != nil {
		out.Bridge = &BridgeSpec{STP: in.Bridge.STP, Ports: copyStrings(in.Bridge.Ports)}
	}
	if in.Bond != nil {
		out.Bond = &BondSpec{
			Mode:            in.Bond.Mode,
			MIIMonFrequency: in.Bond.MIIMonFrequency,
			Members:         copyStrings(in.Bond.Members),
		}
	}
	if in.VLAN != nil {
		vlan := *in.VLAN
		out.VLAN = &vlan
	}

	return out
}

// DeepCopy creates a deep copy of HostInterfaceStatus.
func (in *HostInterfaceStatus) DeepCopy() *HostInterfaceStatus {
	if in == nil {
		return nil
	}
	out := new(HostInterfaceStatus)
	*out = *in

	if in.Conditions != nil {
		out.Conditions = make([]Condition, len(in.Conditions))
		for i := range in.Conditions {
			out.Conditions[i] = *in.Conditions[i].DeepCopy()
		}
	}

	return out
}
