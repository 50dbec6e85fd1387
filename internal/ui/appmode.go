package ui

// AppMode is the top-level screen.
type AppMode int

const (
	ModeDashboard AppMode = iota
	ModeTextPicker
	ModeWorkspace
)

func (m AppMode) String() string {
	switch m {
	case ModeDashboard:
		return "Dashboard"
	case ModeTextPicker:
		return "TextPicker"
	case ModeWorkspace:
		return "Workspace"
	default:
		return "Unknown"
	}
}
