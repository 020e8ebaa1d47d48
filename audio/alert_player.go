package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/fleetview/cargo"
)

const sampleRate = beep.SampleRate(44100)

// Alert identifies a sound cue
type Alert uint8

const (
	AlertChime Alert = iota // shipment delivered
	AlertBuzz               // shipment delayed
)

func (a Alert) String() string {
	if a == AlertChime {
		return "chime"
	}
	return "buzz"
}

// AlertPlayer plays short cues for shipment status changes
// All methods are safe without an audio device; cues are dropped until Initialize succeeds
type AlertPlayer struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	muted       bool
	initialized bool
	played      map[Alert]int
	log         zerolog.Logger
}

// NewAlertPlayer creates a player at the given linear volume in [0, 1]
func NewAlertPlayer(volume float64, log zerolog.Logger) *AlertPlayer {
	return &AlertPlayer{
		mixer:  &beep.Mixer{},
		volume: clampVolume(volume),
		played: make(map[Alert]int),
		log:    log.With().Str("component", "audio").Logger(),
	}
}

// Initialize opens the speaker; safe to call repeatedly
func (p *AlertPlayer) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Cleanup drops queued cues; the player stays usable after a new Initialize
func (p *AlertPlayer) Cleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}

// SetMuted silences future cues
func (p *AlertPlayer) SetMuted(muted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = muted
}

// ToggleMute flips mute and returns the new state
func (p *AlertPlayer) ToggleMute() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = !p.muted
	return p.muted
}

// Muted reports the mute state
func (p *AlertPlayer) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

// Played returns how many times a cue was queued
func (p *AlertPlayer) Played(a Alert) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.played[a]
}

// Play queues a cue on the mixer
func (p *AlertPlayer) Play(a Alert) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || p.muted || p.volume == 0 {
		return
	}

	var s beep.Streamer
	switch a {
	case AlertChime:
		s = CreateChime(sampleRate, p.volume)
	case AlertBuzz:
		s = CreateBuzz(sampleRate, p.volume)
	default:
		return
	}

	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
	p.played[a]++
}

// Transitions plays at most one chime and one buzz per feed update
func (p *AlertPlayer) Transitions(ts []cargo.Transition) {
	var delivered, delayed int
	for _, t := range ts {
		switch t.To {
		case cargo.StatusDelivered:
			delivered++
		case cargo.StatusDelayed:
			delayed++
		}
	}
	if delivered == 0 && delayed == 0 {
		return
	}
	p.log.Debug().Int("delivered", delivered).Int("delayed", delayed).Msg("status alerts")

	if delivered > 0 {
		p.Play(AlertChime)
	}
	if delayed > 0 {
		p.Play(AlertBuzz)
	}
}

func clampVolume(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
