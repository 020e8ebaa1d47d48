package cargo

// Transition records a status change of one shipment between two snapshots
type Transition struct {
	ID   string
	From Status
	To   Status
}

// Diff returns status changes from prev to next, in next's order
// Shipments absent from prev are not reported
func Diff(prev, next []Shipment) []Transition {
	if len(prev) == 0 || len(next) == 0 {
		return nil
	}
	before := make(map[string]Status, len(prev))
	for _, s := range prev {
		before[s.ID] = s.Status
	}

	var out []Transition
	for _, s := range next {
		old, ok := before[s.ID]
		if !ok || old == s.Status {
			continue
		}
		out = append(out, Transition{ID: s.ID, From: old, To: s.Status})
	}
	return out
}
