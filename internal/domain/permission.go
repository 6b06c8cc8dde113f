package domain

// PermissionPostNotifications is the runtime permission the gate asks for.
const PermissionPostNotifications = "post_notifications"

// PreferenceDeniedNotifications is the persisted key for "user declined".
const PreferenceDeniedNotifications = "hasDeniedPostNotificationPermission"

// PermissionDecision is the resolved answer of the gate.
type PermissionDecision string

const (
	// DecisionUnknown means storage has not been consulted yet, or a write is in flight.
	DecisionUnknown PermissionDecision = "unknown"
	// DecisionDenied means the user declined before; show the settings rationale.
	DecisionDenied PermissionDecision = "denied"
	// DecisionNotYetAsked means the native prompt may be shown.
	DecisionNotYetAsked PermissionDecision = "not_yet_asked"
	// DecisionGranted means notifications may be posted.
	DecisionGranted PermissionDecision = "granted"
)

// GateView is the sub-view the permission screen renders.
type GateView string

const (
	GateLoading  GateView = "loading"
	GateDeclined GateView = "declined"
	GateAskAgain GateView = "ask_again"
	GateGranted  GateView = "granted"
)

// View maps a decision onto the sub-view to render.
func (d PermissionDecision) View() GateView {
	switch d {
	case DecisionDenied:
		return GateDeclined
	case DecisionNotYetAsked:
		return GateAskAgain
	case DecisionGranted:
		return GateGranted
	default:
		return GateLoading
	}
}

// DecisionFromDeclined converts the persisted flag into a decision.
func DecisionFromDeclined(declined bool) PermissionDecision {
	if declined {
		return DecisionDenied
	}
	return DecisionNotYetAsked
}

// GetGateViewLabel returns a human-readable label for a gate view.
func GetGateViewLabel(v GateView) string {
	switch v {
	case GateLoading:
		return "Loading"
	case GateDeclined:
		return "Declined"
	case GateAskAgain:
		return "Ask Again"
	case GateGranted:
		return "Granted"
	default:
		return "Unknown"
	}
}
