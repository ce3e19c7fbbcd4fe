// Package status provides utilities for managing HostInterface status fields,
// including conditions and phase transitions.
package status

import (
	"time"

	"github.com/jbweber/hostnet/api/v1alpha1"
)

// SetCondition adds or updates a condition in the interface status.
// If a condition with the same type already exists, it updates it.
// The LastTransitionTime is only updated if the status changes.
func SetCondition(hi *v1alpha1.HostInterface, condType string, status v1alpha1.ConditionStatus, reason, message string) {
	now := v1alpha1.Time{Time: time.Now()}

	for i := range hi.Status.Conditions {
		if hi.Status.Conditions[i].Type == condType {
			existing := &hi.Status.Conditions[i]

			if existing.Status != status {
				existing.LastTransitionTime = now
			}

			existing.Status = status
			existing.Reason = reason
			existing.Message = message
			existing.ObservedGeneration = hi.Generation
			return
		}
	}

	hi.Status.Conditions = append(hi.Status.Conditions, v1alpha1.Condition{
		Type:               condType,
		Status:             status,
		ObservedGeneration: hi.Generation,
		LastTransitionTime: now,
		Reason:             reason,
		Message:            message,
	})
}

// GetCondition returns a condition by type, or nil if not found.
func GetCondition(hi *v1alpha1.HostInterface, condType string) *v1alpha1.Condition {
	for i := range hi.Status.Conditions {
		if hi.Status.Conditions[i].Type == condType {
			return &hi.Status.Conditions[i]
		}
	}
	return nil
}

// IsConditionTrue returns true if the condition exists and has status True.
func IsConditionTrue(hi *v1alpha1.HostInterface, condType string) bool {
	cond := GetCondition(hi, condType)
	return cond != nil && cond.Status == v1alpha1.ConditionTrue
}

// IsConditionFalse returns true if the condition exists and has status False.
func IsConditionFalse(hi *v1alpha1.HostInterface, condType string) bool {
	cond := GetCondition(hi, condType)
	return cond != nil && cond.Status == v1alpha1.ConditionFalse
}

// RemoveCondition removes a condition by type.
func RemoveCondition(hi *v1alpha1.HostInterface, condType string) {
	filtered := make([]v1alpha1.Condition, 0, len(hi.Status.Conditions))
	for i := range hi.Status.Conditions {
		if hi.Status.Conditions[i].Type != condType {
			filtered = append(filtered, hi.Status.Conditions[i])
		}
	}
	hi.Status.Conditions = filtered
}

// MarkDefineFailed records that libvirt rejected the definition.
func MarkDefineFailed(hi *v1alpha1.HostInterface, err error) {
	SetCondition(hi, v1alpha1.ConditionDefined, v1alpha1.ConditionFalse, "DefineFailed", err.Error())
	hi.SetPhase(v1alpha1.InterfacePhaseFailed)
}

// MarkStartFailed records that the interface is defined but could not be started.
func MarkStartFailed(hi *v1alpha1.HostInterface, err error) {
	SetCondition(hi, v1alpha1.ConditionDefined, v1alpha1.ConditionTrue, "Defined", "Interface is defined in libvirt")
	SetCondition(hi, v1alpha1.ConditionActive, v1alpha1.ConditionFalse, "StartFailed", err.Error())
	hi.Status.Active = false
	hi.SetPhase(v1alpha1.InterfacePhaseFailed)
}

// MarkUndefined clears definition state after the interface is removed.
func MarkUndefined(hi *v1alpha1.HostInterface) {
	SetCondition(hi, v1alpha1.ConditionDefined, v1alpha1.ConditionFalse, "Undefined", "Interface definition removed")
	SetCondition(hi, v1alpha1.ConditionActive, v1alpha1.ConditionFalse, "Undefined", "Interface definition removed")
	hi.Status.Active = false
	hi.SetPhase(v1alpha1.InterfacePhasePending)
}
