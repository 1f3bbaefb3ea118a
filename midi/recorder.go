package midi

import (
	"fmt"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// recordTempo is the tempo written to captures; deltas are wall-clock
// based, so any tempo works as long as it is the one used for conversion.
const recordTempo = 120.0

// Recorder captures outgoing messages into a single-track SMF
type Recorder struct {
	mu      sync.Mutex
	ticks   smf.MetricTicks
	track   smf.Track
	last    time.Time
	count   int
	nowFunc func() time.Time
}

// NewRecorder creates an empty recording; the clock starts at the first message
func NewRecorder() *Recorder {
	r := &Recorder{
		ticks:   smf.MetricTicks(960),
		nowFunc: time.Now,
	}
	r.track.Add(0, smf.MetaTempo(recordTempo))
	return r
}

// Record appends msg with the time since the previous message
func (r *Recorder) Record(msg gomidi.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.nowFunc()
	var delta uint32
	if !r.last.IsZero() {
		delta = r.ticks.Ticks(recordTempo, now.Sub(r.last))
	}
	r.last = now
	r.track.Add(delta, msg)
	r.count++
}

// Wrap returns a sender that records every message it forwards to send.
// Messages are recorded even when send fails.
func (r *Recorder) Wrap(send func(gomidi.Message) error) func(gomidi.Message) error {
	return func(msg gomidi.Message) error {
		r.Record(msg)
		return send(msg)
	}
}

// Len returns the number of recorded messages
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// WriteFile closes the track and writes it to path
func (r *Recorder) WriteFile(path string) error {
	r.mu.Lock()
	track := make(smf.Track, len(r.track))
	copy(track, r.track)
	r.mu.Unlock()

	track.Close(0)

	s := smf.New()
	s.TimeFormat = r.ticks
	if err := s.Add(track); err != nil {
		return fmt.Errorf("add track: %w", err)
	}
	if err := s.WriteFile(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
