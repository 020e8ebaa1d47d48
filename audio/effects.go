package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Alert tones
const (
	chimeDuration = 450 * time.Millisecond
	chimeAttack   = 5 * time.Millisecond
	chimeRelease  = 380 * time.Millisecond
	chimeGap      = 40 * time.Millisecond

	buzzDuration = 220 * time.Millisecond
	buzzAttack   = 10 * time.Millisecond
	buzzRelease  = 120 * time.Millisecond
	buzzFreq     = 110.0
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
)

// oscillator generates a fixed-length raw wave
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a new oscillator for wave generation
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			val = -1
			if o.phase < 0.5 {
				val = 1
			}
		case WaveSaw:
			val = 2 * (o.phase - 0.5)
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies linear attack and release to a stream
type envelope struct {
	streamer     beep.Streamer
	position     int
	attack       int
	releaseStart int
	release      int
	total        int
}

// NewEnvelope shapes s over duration with linear attack and release ramps
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att, rel := rate.N(attack), rate.N(release)
	start := total - rel
	if start < att {
		start = att
	}
	return &envelope{streamer: s, attack: att, releaseStart: start, release: rel, total: total}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, i > 0
		}

		vol := 1.0
		switch {
		case e.position < e.attack && e.attack > 0:
			vol = float64(e.position) / float64(e.attack)
		case e.position >= e.releaseStart && e.release > 0:
			vol = math.Max(0, float64(e.total-e.position)/float64(e.release))
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales s linearly; vol <= 0 silences it
func newVolume(s beep.Streamer, vol float64) *effects.Volume {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// CreateChime is the rising two-note bell played when a shipment is delivered
func CreateChime(rate beep.SampleRate, vol float64) beep.Streamer {
	note := func(freq float64) beep.Streamer {
		fund := NewEnvelope(NewOscillator(freq, chimeDuration, WaveSine, rate), chimeDuration, chimeAttack, chimeRelease, rate)
		over := NewEnvelope(NewOscillator(freq*2, chimeDuration, WaveSine, rate), chimeDuration, chimeAttack, chimeRelease/2, rate)
		return beep.Mix(newVolume(fund, 0.7), newVolume(over, 0.3))
	}
	seq := beep.Seq(note(659.25), beep.Silence(rate.N(chimeGap)), note(880))
	return newVolume(seq, vol)
}

// CreateBuzz is the low harsh tone played when a shipment is delayed
func CreateBuzz(rate beep.SampleRate, vol float64) beep.Streamer {
	osc := NewOscillator(buzzFreq, buzzDuration, WaveSaw, rate)
	shaped := NewEnvelope(osc, buzzDuration, buzzAttack, buzzRelease, rate)
	return newVolume(shaped, vol*0.6)
}
