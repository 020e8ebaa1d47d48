package input

// actionRegistry maps canonical action names to KeyEntry structs
// Used by the keymap loader to resolve config action strings to bindings
var actionRegistry map[string]KeyEntry

func init() {
	actionRegistry = buildActionRegistry()
}

func buildActionRegistry() map[string]KeyEntry {
	return map[string]KeyEntry{
		// Unbind sentinel
		"none": {},

		"quit":               {Intent: IntentQuit},
		"next_view":          {Intent: IntentNextView},
		"prev_view":          {Intent: IntentPrevView},
		"view_globe":         {Intent: IntentSelectView, View: 0},
		"view_brain":         {Intent: IntentSelectView, View: 1},
		"view_plan":          {Intent: IntentSelectView, View: 2},
		"view_charts":        {Intent: IntentSelectView, View: 3},
		"toggle_mute":        {Intent: IntentToggleMute},
		"reset_view":         {Intent: IntentResetView},
		"toggle_auto_rotate": {Intent: IntentToggleAutoRotate},
		"add_container":      {Intent: IntentAddContainer},
		"remove_container":   {Intent: IntentRemoveContainer},
	}
}

// ActionEntry returns the KeyEntry for a canonical action name
func ActionEntry(name string) (KeyEntry, bool) {
	e, ok := actionRegistry[name]
	return e, ok
}
