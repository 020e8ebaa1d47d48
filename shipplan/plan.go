package shipplan

import (
	"errors"
	"time"
)

// Deck geometry
const (
	Rows     = 2
	Cols     = 20
	MaxTiers = 3
	IMO      = 9876543
)

var (
	ErrNoSelection = errors.New("no slot selected")
	ErrSlotFull    = errors.New("slot is full")
	ErrSlotEmpty   = errors.New("slot is empty")
	ErrNotASlot    = errors.New("not a loadable slot")
)

// Container is one stacked unit
type Container struct {
	ID          string
	Weight      int // tons
	Content     string
	Destination string
	AddedAt     time.Time
}

// Slot is a deck position, tier 1 first in Containers
type Slot struct {
	ID         int
	Row, Col   int
	Real       bool
	Containers []Container
}

// Full reports whether the stack reached MaxTiers
func (s Slot) Full() bool {
	return len(s.Containers) >= MaxTiers
}

// isRealSlot skips the two bow columns and every fifth column gap
func isRealSlot(col int) bool {
	return col%5 != 4 && col != 0 && col != 1
}

// Plan is the loading state of a single vessel
type Plan struct {
	slots    []Slot
	selected int
}

// NewPlan returns an empty deck with nothing selected
func NewPlan() *Plan {
	p := &Plan{slots: make([]Slot, Rows*Cols), selected: -1}
	for i := range p.slots {
		col := i % Cols
		p.slots[i] = Slot{ID: i, Row: i / Cols, Col: col, Real: isRealSlot(col)}
	}
	return p
}

// Slot returns a copy of the slot with the given ID
func (p *Plan) Slot(id int) (Slot, bool) {
	if id < 0 || id >= len(p.slots) {
		return Slot{}, false
	}
	s := p.slots[id]
	s.Containers = append([]Container(nil), s.Containers...)
	return s, true
}

// RealSlots returns copies of every loadable slot in ID order
func (p *Plan) RealSlots() []Slot {
	var out []Slot
	for _, s := range p.slots {
		if s.Real {
			s.Containers = append([]Container(nil), s.Containers...)
			out = append(out, s)
		}
	}
	return out
}

// Select toggles the selection of a loadable slot
func (p *Plan) Select(id int) error {
	if id < 0 || id >= len(p.slots) || !p.slots[id].Real {
		return ErrNotASlot
	}
	if p.selected == id {
		p.selected = -1
	} else {
		p.selected = id
	}
	return nil
}

// Deselect clears the selection
func (p *Plan) Deselect() {
	p.selected = -1
}

// Selected returns the selected slot
func (p *Plan) Selected() (Slot, bool) {
	if p.selected < 0 {
		return Slot{}, false
	}
	return p.Slot(p.selected)
}

// AddContainer stacks c on the selected slot
func (p *Plan) AddContainer(c Container) error {
	if p.selected < 0 {
		return ErrNoSelection
	}
	s := &p.slots[p.selected]
	if s.Full() {
		return ErrSlotFull
	}
	s.Containers = append(s.Containers, c)
	return nil
}

// RemoveTop unloads the highest tier of the selected slot
func (p *Plan) RemoveTop() (Container, error) {
	if p.selected < 0 {
		return Container{}, ErrNoSelection
	}
	s := &p.slots[p.selected]
	if len(s.Containers) == 0 {
		return Container{}, ErrSlotEmpty
	}
	top := s.Containers[len(s.Containers)-1]
	s.Containers = s.Containers[:len(s.Containers)-1]
	return top, nil
}

// Occupancy returns loaded containers and total capacity over loadable slots
func (p *Plan) Occupancy() (loaded, capacity int) {
	for _, s := range p.slots {
		if s.Real {
			loaded += len(s.Containers)
			capacity += MaxTiers
		}
	}
	return loaded, capacity
}
