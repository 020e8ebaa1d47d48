package input

import (
	"github.com/gdamore/tcell/v2"
)

// Machine is the input state machine
// Parses tcell events into semantic Intent, tracking the primary button across events
type Machine struct {
	keyTable *KeyTable

	// Pointer state carried between mouse events
	pressed bool
	lastX   int
	lastY   int
	seen    bool
}

// NewMachine creates a new input machine with the default bindings
func NewMachine() *Machine {
	return &Machine{keyTable: DefaultKeyTable()}
}

// NewMachineWithKeys creates a machine over a custom key table
func NewMachineWithKeys(kt *KeyTable) *Machine {
	if kt == nil {
		kt = DefaultKeyTable()
	}
	return &Machine{keyTable: kt}
}

// Pressed reports whether the primary button is held
func (m *Machine) Pressed() bool {
	return m.pressed
}

// Reset clears pointer state, e.g. after the screen lost focus
func (m *Machine) Reset() {
	m.pressed = false
	m.seen = false
	m.lastX, m.lastY = 0, 0
}

// Process parses a terminal event and returns an Intent
// Returns nil for events with no meaning to the dashboard
func (m *Machine) Process(ev tcell.Event) *Intent {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		w, h := ev.Size()
		return &Intent{Type: IntentResize, X: w, Y: h}
	case *tcell.EventKey:
		return m.Key(ev.Key(), ev.Rune(), ev.Modifiers())
	case *tcell.EventMouse:
		x, y := ev.Position()
		return m.Mouse(x, y, ev.Buttons())
	case *tcell.EventError:
		return &Intent{Type: IntentQuit}
	}
	return nil
}

// Key maps a key press to an Intent through the key table
func (m *Machine) Key(key tcell.Key, r rune, mod tcell.ModMask) *Intent {
	if key != tcell.KeyRune {
		if entry, ok := m.keyTable.SpecialKeys[key]; ok {
			return entry.intent()
		}
		return nil
	}
	// Alt and Ctrl chords are left to the terminal
	if mod&(tcell.ModAlt|tcell.ModCtrl) != 0 {
		return nil
	}
	if entry, ok := m.keyTable.Runes[r]; ok {
		return entry.intent()
	}
	return nil
}

// Mouse maps a mouse report to a pointer Intent
// tcell reports button state rather than transitions, so press and release are derived from the previous report
func (m *Machine) Mouse(x, y int, btn tcell.ButtonMask) *Intent {
	moved := !m.seen || x != m.lastX || y != m.lastY
	m.lastX, m.lastY, m.seen = x, y, true

	switch {
	case btn&tcell.WheelUp != 0:
		return &Intent{Type: IntentWheel, X: x, Y: y, Delta: -WheelDelta}
	case btn&tcell.WheelDown != 0:
		return &Intent{Type: IntentWheel, X: x, Y: y, Delta: WheelDelta}
	}

	down := btn&tcell.Button1 != 0
	switch {
	case down && !m.pressed:
		m.pressed = true
		return &Intent{Type: IntentPointerDown, X: x, Y: y}
	case down && m.pressed:
		if !moved {
			return nil
		}
		return &Intent{Type: IntentPointerDrag, X: x, Y: y}
	case !down && m.pressed:
		m.pressed = false
		return &Intent{Type: IntentPointerUp, X: x, Y: y}
	}

	if !moved {
		return nil
	}
	return &Intent{Type: IntentPointerMove, X: x, Y: y}
}

func (e KeyEntry) intent() *Intent {
	if e.Intent == IntentNone {
		return nil
	}
	return &Intent{Type: e.Intent, View: e.View}
}
