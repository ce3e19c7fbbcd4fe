package v1alpha1

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// GroupName is the API group for hostnet resources.
	GroupName = "hostnet.cofront.xyz"

	// Version is the API version.
	Version = "v1alpha1"

	// HostInterfaceKind is the kind string for HostInterface resources.
	HostInterfaceKind = "HostInterface"

	// DefaultBondMode is used when spec.bond.mode is empty.
	DefaultBondMode = "active-backup"

	// DefaultMIIMonFrequency is used when spec.bond.miimonFrequency is zero.
	DefaultMIIMonFrequency = 100
)

// APIVersion returns the group/version string for this package.
func APIVersion() string {
	return GroupName + "/" + Version
}

// NewHostInterface creates a HostInterface with TypeMeta, ObjectMeta and spec defaults.
func NewHostInterface(name string, typ InterfaceType) *HostInterface {
	start := true

	return &HostInterface{
		TypeMeta: TypeMeta{
			APIVersion: APIVersion(),
			Kind:       HostInterfaceKind,
		},
		ObjectMeta: ObjectMeta{
			Name:              name,
			UID:               uuid.New().String(),
			CreationTimestamp: Time{Time: time.Now()},
			Generation:        1,
		},
		Spec: HostInterfaceSpec{
			Type:      typ,
			StartMode: StartModeOnBoot,
			Start:     &start,
		},
		Status: HostInterfaceStatus{
			Phase: InterfacePhasePending,
		},
	}
}

// SetDefaultAPIVersion fills in apiVersion and kind when they are missing.
func SetDefaultAPIVersion(hi *HostInterface) {
	if hi.APIVersion == "" {
		hi.APIVersion = APIVersion()
	}
	if hi.Kind == "" {
		hi.Kind = HostInterfaceKind
	}
}

// ShouldStart reports whether the interface is activated after definition.
func (hi *HostInterface) ShouldStart() bool {
	if hi.Spec.Start == nil {
		return true
	}
	return *hi.Spec.Start
}

// GetStartMode returns the start mode with default fallback.
func (hi *HostInterface) GetStartMode() string {
	if hi.Spec.StartMode == "" {
		return StartModeOnBoot
	}
	return hi.Spec.StartMode
}

// GetBondMode returns the bonding mode with default fallback.
func (hi *HostInterface) GetBondMode() string {
	if hi.Spec.Bond == nil || hi.Spec.Bond.Mode == "" {
		return DefaultBondMode
	}
	return hi.Spec.Bond.Mode
}

// GetMIIMonFrequency returns the bond link monitor interval with default fallback.
func (hi *HostInterface) GetMIIMonFrequency() int {
	if hi.Spec.Bond == nil || hi.Spec.Bond.MIIMonFrequency == 0 {
		return DefaultMIIMonFrequency
	}
	return hi.Spec.Bond.MIIMonFrequency
}

// SetPhase sets the phase in status.
func (hi *HostInterface) SetPhase(phase InterfacePhase) {
	hi.Status.Phase = phase
}

// GetPhase returns the current phase.
func (hi *HostInterface) GetPhase() InterfacePhase {
	return hi.Status.Phase
}

// UpdateObservedGeneration copies metadata.generation into status.
func (hi *HostInterface) UpdateObservedGeneration() {
	hi.Status.ObservedGeneration = hi.Generation
}

// Normalize trims whitespace and lowercases the MAC address.
// Device names are case sensitive on Linux and are left alone otherwise.
func (hi *HostInterface) Normalize() {
	hi.Name = strings.TrimSpace(hi.Name)
	hi.Spec.MAC = strings.ToLower(strings.TrimSpace(hi.Spec.MAC))
	hi.Spec.StartMode = strings.ToLower(strings.TrimSpace(hi.Spec.StartMode))
	hi.Spec.Type = InterfaceType(strings.ToLower(strings.TrimSpace(string(hi.Spec.Type))))
}
