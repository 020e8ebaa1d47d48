package input

import "github.com/gdamore/tcell/v2"

// KeyEntry describes a key's action without function pointers
type KeyEntry struct {
	Intent IntentType
	View   int
}

// KeyTable maps keys to actions
type KeyTable struct {
	// Special keys (Ctrl+*, Tab, Esc)
	SpecialKeys map[tcell.Key]KeyEntry

	// Printable rune bindings
	Runes map[rune]KeyEntry
}

// DefaultKeyTable returns the default key bindings
func DefaultKeyTable() *KeyTable {
	return &KeyTable{
		SpecialKeys: map[tcell.Key]KeyEntry{
			tcell.KeyCtrlC:   {Intent: IntentQuit},
			tcell.KeyEscape:  {Intent: IntentQuit},
			tcell.KeyTab:     {Intent: IntentNextView},
			tcell.KeyBacktab: {Intent: IntentPrevView},
		},

		Runes: map[rune]KeyEntry{
			'q': {Intent: IntentQuit},
			'1': {Intent: IntentSelectView, View: 0},
			'2': {Intent: IntentSelectView, View: 1},
			'3': {Intent: IntentSelectView, View: 2},
			'4': {Intent: IntentSelectView, View: 3},
			'm': {Intent: IntentToggleMute},
			'r': {Intent: IntentResetView},
			' ': {Intent: IntentToggleAutoRotate},
			'a': {Intent: IntentAddContainer},
			'x': {Intent: IntentRemoveContainer},
		},
	}
}

// Clone returns a deep copy of the table
func (kt *KeyTable) Clone() *KeyTable {
	out := &KeyTable{
		SpecialKeys: make(map[tcell.Key]KeyEntry, len(kt.SpecialKeys)),
		Runes:       make(map[rune]KeyEntry, len(kt.Runes)),
	}
	for k, v := range kt.SpecialKeys {
		out.SpecialKeys[k] = v
	}
	for r, v := range kt.Runes {
		out.Runes[r] = v
	}
	return out
}
