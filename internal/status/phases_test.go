package status

import (
	"testing"

	"github.com/jbweber/hostnet/api/v1alpha1"
)

func TestTransitionToDefining(t *testing.T) {
	tests := []struct {
		name      string
		fromPhase v1alpha1.InterfacePhase
		wantErr   bool
	}{
		{name: "from Pending", fromPhase: v1alpha1.InterfacePhasePending},
		{name: "from Active", fromPhase: v1alpha1.InterfacePhaseActive},
		{name: "from Inactive", fromPhase: v1alpha1.InterfacePhaseInactive},
		{name: "from Failed", fromPhase: v1alpha1.InterfacePhaseFailed},
		{name: "from Defining", fromPhase: v1alpha1.InterfacePhaseDefining, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hi := v1alpha1.NewHostInterface("br0", v1alpha1.InterfaceTypeBridge)
			hi.SetPhase(tt.fromPhase)

			err := TransitionToDefining(hi)
			if (err != nil) != tt.wantErr {
				t.Fatalf("TransitionToDefining() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr {
				if hi.GetPhase() != tt.fromPhase {
					t.Errorf("Phase changed on error: got %s, want %s", hi.GetPhase(), tt.fromPhase)
				}
				return
			}

			if hi.GetPhase() != v1alpha1.InterfacePhaseDefining {
				t.Errorf("Expected phase Defining, got %s", hi.GetPhase())
			}
			cond := GetCondition(hi, v1alpha1.ConditionDefined)
			if cond == nil {
				t.Fatal("Expected Defined condition to be set")
			}
			if cond.Status != v1alpha1.ConditionUnknown {
				t.Errorf("Expected Defined Unknown, got %s", cond.Status)
			}
		})
	}
}

func TestTransitionToActive(t *testing.T) {
	tests := []struct {
		name      string
		fromPhase v1alpha1.InterfacePhase
		wantErr   bool
	}{
		{name: "from Defining", fromPhase: v1alpha1.InterfacePhaseDefining},
		{name: "from Inactive", fromPhase: v1alpha1.InterfacePhaseInactive},
		{name: "from Pending", fromPhase: v1alpha1.InterfacePhasePending, wantErr: true},
		{name: "from Active", fromPhase: v1alpha1.InterfacePhaseActive, wantErr: true},
		{name: "from Failed", fromPhase: v1alpha1.InterfacePhaseFailed, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hi := v1alpha1.NewHostInterface("br0", v1alpha1.InterfaceTypeBridge)
			hi.Generation = 3
			hi.SetPhase(tt.fromPhase)

			err := TransitionToActive(hi)
			if (err != nil) != tt.wantErr {
				t.Fatalf("TransitionToActive() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr {
				if hi.GetPhase() != tt.fromPhase {
					t.Errorf("Phase changed on error: got %s, want %s", hi.GetPhase(), tt.fromPhase)
				}
				if hi.Status.Active {
					t.Error("Active set on error")
				}
				return
			}

			if hi.GetPhase() != v1alpha1.InterfacePhaseActive {
				t.Errorf("Expected phase Active, got %s", hi.GetPhase())
			}
			if !hi.Status.Active {
				t.Error("Expected Status.Active to be true")
			}
			if !IsConditionTrue(hi, v1alpha1.ConditionDefined) {
				t.Error("Expected Defined condition True")
			}
			if !IsConditionTrue(hi, v1alpha1.ConditionActive) {
				t.Error("Expected Active condition True")
			}
			if hi.Status.ObservedGeneration != 3 {
				t.Errorf("Expected ObservedGeneration 3, got %d", hi.Status.ObservedGeneration)
			}
		})
	}
}

func TestTransitionToInactive(t *testing.T) {
	tests := []struct {
		name      string
		fromPhase v1alpha1.InterfacePhase
		wantErr   bool
	}{
		{name: "from Defining", fromPhase: v1alpha1.InterfacePhaseDefining},
		{name: "from Active", fromPhase: v1alpha1.InterfacePhaseActive},
		{name: "from Pending", fromPhase: v1alpha1.InterfacePhasePending, wantErr: true},
		{name: "from Inactive", fromPhase: v1alpha1.InterfacePhaseInactive, wantErr: true},
		{name: "from Failed", fromPhase: v1alpha1.InterfacePhaseFailed, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hi := v1alpha1.NewHostInterface("br0", v1alpha1.InterfaceTypeBridge)
			hi.SetPhase(tt.fromPhase)
			hi.Status.Active = tt.fromPhase == v1alpha1.InterfacePhaseActive

			err := TransitionToInactive(hi)
			if (err != nil) != tt.wantErr {
				t.Fatalf("TransitionToInactive() error = %v, wantErr %v", err, tt.wantErr)
			}

			if tt.wantErr {
				if hi.GetPhase() != tt.fromPhase {
					t.Errorf("Phase changed on error: got %s, want %s", hi.GetPhase(), tt.fromPhase)
				}
				return
			}

			if hi.GetPhase() != v1alpha1.InterfacePhaseInactive {
				t.Errorf("Expected phase Inactive, got %s", hi.GetPhase())
			}
			if hi.Status.Active {
				t.Error("Expected Status.Active to be false")
			}
			if !IsConditionTrue(hi, v1alpha1.ConditionDefined) {
				t.Error("Expected Defined condition True")
			}
			if !IsConditionFalse(hi, v1alpha1.ConditionActive) {
				t.Error("Expected Active condition False")
			}
		})
	}
}

func TestTransitionToFailed(t *testing.T) {
	phases := []v1alpha1.InterfacePhase{
		v1alpha1.InterfacePhasePending,
		v1alpha1.InterfacePhaseDefining,
		v1alpha1.InterfacePhaseActive,
		v1alpha1.InterfacePhaseInactive,
	}

	for _, phase := range phases {
		t.Run(string(phase), func(t *testing.T) {
			hi := v1alpha1.NewHostInterface("br0", v1alpha1.InterfaceTypeBridge)
			hi.SetPhase(phase)

			TransitionToFailed(hi, "DefineFailed", "libvirt rejected definition")

			if hi.GetPhase() != v1alpha1.InterfacePhaseFailed {
				t.Errorf("Expected phase Failed, got %s", hi.GetPhase())
			}
			cond := GetCondition(hi, v1alpha1.ConditionActive)
			if cond == nil {
				t.Fatal("Expected Active condition to be set")
			}
			if cond.Reason != "DefineFailed" {
				t.Errorf("Expected reason 'DefineFailed', got %s", cond.Reason)
			}
			if cond.Message != "libvirt rejected definition" {
				t.Errorf("Expected message, got %s", cond.Message)
			}
		})
	}
}

func TestObserve(t *testing.T) {
	tests := []struct {
		name      string
		active    bool
		wantPhase v1alpha1.InterfacePhase
	}{
		{name: "active", active: true, wantPhase: v1alpha1.InterfacePhaseActive},
		{name: "inactive", active: false, wantPhase: v1alpha1.InterfacePhaseInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hi := v1alpha1.NewHostInterface("eth0", v1alpha1.InterfaceTypeEthernet)
			hi.SetPhase(v1alpha1.InterfacePhaseFailed)

			Observe(hi, tt.active)

			if hi.GetPhase() != tt.wantPhase {
				t.Errorf("Expected phase %s, got %s", tt.wantPhase, hi.GetPhase())
			}
			if hi.Status.Active != tt.active {
				t.Errorf("Expected Active %v, got %v", tt.active, hi.Status.Active)
			}
			if !IsConditionTrue(hi, v1alpha1.ConditionDefined) {
				t.Error("Expected Defined condition True")
			}
			if IsConditionTrue(hi, v1alpha1.ConditionActive) != tt.active {
				t.Errorf("Expected Active condition True=%v", tt.active)
			}
		})
	}
}

func TestPhasePredicates(t *testing.T) {
	tests := []struct {
		phase          v1alpha1.InterfacePhase
		wantSettled    bool
		wantActive     bool
		wantTransition bool
	}{
		{phase: v1alpha1.InterfacePhasePending},
		{phase: v1alpha1.InterfacePhaseDefining, wantTransition: true},
		{phase: v1alpha1.InterfacePhaseActive, wantSettled: true, wantActive: true},
		{phase: v1alpha1.InterfacePhaseInactive, wantSettled: true},
		{phase: v1alpha1.InterfacePhaseFailed, wantSettled: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.phase), func(t *testing.T) {
			if got := IsSettled(tt.phase); got != tt.wantSettled {
				t.Errorf("IsSettled(%s) = %v, want %v", tt.phase, got, tt.wantSettled)
			}
			if got := IsActive(tt.phase); got != tt.wantActive {
				t.Errorf("IsActive(%s) = %v, want %v", tt.phase, got, tt.wantActive)
			}
			if got := IsTransitioning(tt.phase); got != tt.wantTransition {
				t.Errorf("IsTransitioning(%s) = %v, want %v", tt.phase, got, tt.wantTransition)
			}
		})
	}
}

func TestPhaseTransitionFlow(t *testing.T) {
	// Pending -> Defining -> Active -> Inactive -> Active
	hi := v1alpha1.NewHostInterface("br0", v1alpha1.InterfaceTypeBridge)

	if hi.GetPhase() != v1alpha1.InterfacePhasePending {
		t.Fatalf("Expected initial phase Pending, got %s", hi.GetPhase())
	}

	if err := TransitionToDefining(hi); err != nil {
		t.Fatalf("Failed to transition to Defining: %v", err)
	}
	if err := TransitionToActive(hi); err != nil {
		t.Fatalf("Failed to transition to Active: %v", err)
	}
	if err := TransitionToInactive(hi); err != nil {
		t.Fatalf("Failed to transition to Inactive: %v", err)
	}
	if err := TransitionToActive(hi); err != nil {
		t.Fatalf("Failed to transition back to Active: %v", err)
	}

	if hi.GetPhase() != v1alpha1.InterfacePhaseActive {
		t.Errorf("Expected final phase Active, got %s", hi.GetPhase())
	}
	if len(hi.Status.Conditions) != 2 {
		t.Errorf("Expected 2 conditions, got %d", len(hi.Status.Conditions))
	}
}

func TestPhaseTransitionFailureFlow(t *testing.T) {
	hi := v1alpha1.NewHostInterface("br0", v1alpha1.InterfaceTypeBridge)

	if err := TransitionToDefining(hi); err != nil {
		t.Fatalf("Failed to transition to Defining: %v", err)
	}

	TransitionToFailed(hi, "DefineFailed", "Failed to define interface")

	if hi.GetPhase() != v1alpha1.InterfacePhaseFailed {
		t.Errorf("Expected phase Failed, got %s", hi.GetPhase())
	}

	// Failed interfaces must be re-applied before they can run
	if err := TransitionToActive(hi); err == nil {
		t.Error("Expected error transitioning from Failed to Active")
	}
	if err := TransitionToDefining(hi); err != nil {
		t.Errorf("Expected re-apply from Failed to succeed: %v", err)
	}
}
