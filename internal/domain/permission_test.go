package domain

import "testing"

func TestPermissionDecision_View(t *testing.T) {
	tests := []struct {
		decision PermissionDecision
		want     GateView
	}{
		{DecisionUnknown, GateLoading},
		{DecisionDenied, GateDeclined},
		{DecisionNotYetAsked, GateAskAgain},
		{DecisionGranted, GateGranted},
		{PermissionDecision("bogus"), GateLoading},
	}

	for _, tt := range tests {
		t.Run(string(tt.decision), func(t *testing.T) {
			if got := tt.decision.View(); got != tt.want {
				t.Errorf("View() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecisionFromDeclined(t *testing.T) {
	if DecisionFromDeclined(true) != DecisionDenied {
		t.Error("declined flag should map to denied")
	}
	if DecisionFromDeclined(false) != DecisionNotYetAsked {
		t.Error("missing flag should map to not yet asked")
	}
}

func TestGetGateViewLabel(t *testing.T) {
	tests := []struct {
		view GateView
		want string
	}{
		{GateLoading, "Loading"},
		{GateDeclined, "Declined"},
		{GateAskAgain, "Ask Again"},
		{GateGranted, "Granted"},
		{"unknown", "Unknown"},
	}

	for _, tt := range tests {
		t.Run(string(tt.view), func(t *testing.T) {
			if got := GetGateViewLabel(tt.view); got != tt.want {
				t.Errorf("GetGateViewLabel() = %v, want %v", got, tt.want)
			}
		})
	}
}
