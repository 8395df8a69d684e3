package game

// DebugState holds overlay flags that persist across card resets
type DebugState struct {
	ShowHUD       bool // Show the state read-out
	ShowWireframe bool // Outline the projected quad and its corners
}

// Global debug state instance
var globalDebugState = &DebugState{
	ShowHUD: true,
}

// GetDebugState returns the global debug state
func GetDebugState() *DebugState {
	return globalDebugState
}
