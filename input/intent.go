package input

// IntentType discriminates semantic actions
type IntentType uint8

const (
	IntentNone IntentType = iota

	// System-level intents
	IntentQuit   // q, Esc, Ctrl+C
	IntentResize // Terminal resize event

	// Views
	IntentSelectView // 1-4
	IntentNextView   // Tab
	IntentPrevView   // Shift+Tab

	// Dashboard actions
	IntentToggleMute       // m
	IntentResetView        // r
	IntentToggleAutoRotate // space
	IntentAddContainer     // a
	IntentRemoveContainer  // x

	// Pointer
	IntentPointerDown // Left button pressed
	IntentPointerDrag // Motion with left button held
	IntentPointerUp   // Left button released
	IntentPointerMove // Motion with no button held
	IntentWheel       // Wheel notch, Delta carries the browser-style deltaY
)

// WheelDelta is the deltaY reported for a single wheel notch
const WheelDelta = 100

// Intent represents a parsed semantic action
// Pure data struct with no function pointers or UI dependencies
type Intent struct {
	Type IntentType
	View int // Target view for IntentSelectView

	// Cell position for pointer intents, terminal size for IntentResize
	X, Y int

	Delta float64
}

var intentNames = map[IntentType]string{
	IntentNone:             "none",
	IntentQuit:             "quit",
	IntentResize:           "resize",
	IntentSelectView:       "select_view",
	IntentNextView:         "next_view",
	IntentPrevView:         "prev_view",
	IntentToggleMute:       "toggle_mute",
	IntentResetView:        "reset_view",
	IntentToggleAutoRotate: "toggle_auto_rotate",
	IntentAddContainer:     "add_container",
	IntentRemoveContainer:  "remove_container",
	IntentPointerDown:      "pointer_down",
	IntentPointerDrag:      "pointer_drag",
	IntentPointerUp:        "pointer_up",
	IntentPointerMove:      "pointer_move",
	IntentWheel:            "wheel",
}

func (t IntentType) String() string {
	if s, ok := intentNames[t]; ok {
		return s
	}
	return "unknown"
}
