package domain

// Screen identifies one entry of the navigation back-stack.
type Screen string

const (
	ScreenRequestPermission Screen = "request-permission"
	ScreenStartService      Screen = "start-service"
	ScreenTimer             Screen = "timer"
)

// Title returns the heading shown for a screen.
func (s Screen) Title() string {
	switch s {
	case ScreenRequestPermission:
		return "Notifications"
	case ScreenStartService:
		return "New Session"
	case ScreenTimer:
		return "Timer"
	default:
		return "Unknown"
	}
}
