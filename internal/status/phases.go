package status

import (
	"fmt"

	"github.com/jbweber/hostnet/api/v1alpha1"
)

// TransitionToDefining transitions the interface phase to Defining.
// This should be called right before the definition is sent to libvirt.
func TransitionToDefining(hi *v1alpha1.HostInterface) error {
	// Re-applying an existing interface redefines it
	if hi.GetPhase() == v1alpha1.InterfacePhaseDefining {
		return fmt.Errorf("cannot transition to Defining from phase %s", hi.GetPhase())
	}

	hi.SetPhase(v1alpha1.InterfacePhaseDefining)
	SetCondition(hi, v1alpha1.ConditionDefined, v1alpha1.ConditionUnknown, "Defining", "Interface definition in progress")
	return nil
}

// TransitionToActive transitions the interface phase to Active.
// This should be called once libvirt reports the interface running.
func TransitionToActive(hi *v1alpha1.HostInterface) error {
	phase := hi.GetPhase()
	if phase != v1alpha1.InterfacePhaseDefining && phase != v1alpha1.InterfacePhaseInactive {
		return fmt.Errorf("cannot transition to Active from phase %s", phase)
	}

	hi.SetPhase(v1alpha1.InterfacePhaseActive)
	hi.Status.Active = true
	SetCondition(hi, v1alpha1.ConditionDefined, v1alpha1.ConditionTrue, "Defined", "Interface is defined in libvirt")
	SetCondition(hi, v1alpha1.ConditionActive, v1alpha1.ConditionTrue, "Started", "Interface is running")
	hi.UpdateObservedGeneration()
	return nil
}

// TransitionToInactive transitions the interface phase to Inactive.
// This should be called after a define without start, or after a stop.
func TransitionToInactive(hi *v1alpha1.HostInterface) error {
	phase := hi.GetPhase()
	if phase != v1alpha1.InterfacePhaseDefining && phase != v1alpha1.InterfacePhaseActive {
		return fmt.Errorf("cannot transition to Inactive from phase %s", phase)
	}

	hi.SetPhase(v1alpha1.InterfacePhaseInactive)
	hi.Status.Active = false
	SetCondition(hi, v1alpha1.ConditionDefined, v1alpha1.ConditionTrue, "Defined", "Interface is defined in libvirt")
	SetCondition(hi, v1alpha1.ConditionActive, v1alpha1.ConditionFalse, "Stopped", "Interface is not running")
	hi.UpdateObservedGeneration()
	return nil
}

// TransitionToFailed transitions the interface phase to Failed.
// This can happen from any phase when an error occurs.
func TransitionToFailed(hi *v1alpha1.HostInterface, reason, message string) {
	hi.SetPhase(v1alpha1.InterfacePhaseFailed)
	SetCondition(hi, v1alpha1.ConditionActive, v1alpha1.ConditionFalse, reason, message)
}

// Observe sets the phase and conditions from state read back from libvirt,
// regardless of the current phase.
func Observe(hi *v1alpha1.HostInterface, active bool) {
	hi.Status.Active = active
	SetCondition(hi, v1alpha1.ConditionDefined, v1alpha1.ConditionTrue, "Defined", "Interface is defined in libvirt")
	if active {
		hi.SetPhase(v1alpha1.InterfacePhaseActive)
		SetCondition(hi, v1alpha1.ConditionActive, v1alpha1.ConditionTrue, "Started", "Interface is running")
		return
	}
	hi.SetPhase(v1alpha1.InterfacePhaseInactive)
	SetCondition(hi, v1alpha1.ConditionActive, v1alpha1.ConditionFalse, "Stopped", "Interface is not running")
}

// IsSettled returns true if the phase will not change without another request.
func IsSettled(phase v1alpha1.InterfacePhase) bool {
	return phase == v1alpha1.InterfacePhaseActive ||
		phase == v1alpha1.InterfacePhaseInactive ||
		phase == v1alpha1.InterfacePhaseFailed
}

// IsActive returns true if the interface is running.
func IsActive(phase v1alpha1.InterfacePhase) bool {
	return phase == v1alpha1.InterfacePhaseActive
}

// IsTransitioning returns true if the interface is being defined.
func IsTransitioning(phase v1alpha1.InterfacePhase) bool {
	return phase == v1alpha1.InterfacePhaseDefining
}
