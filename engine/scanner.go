package engine

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"go-programmer/config"
	"go-programmer/debug"
	"go-programmer/fifo"
	"go-programmer/midi"
	"go-programmer/params"
	"go-programmer/widgets"
)

// Surface is anything that exposes named control values
type Surface interface {
	Controls() []widgets.Control
}

// OverflowPolicy decides what happens to a change that finds the queue full
type OverflowPolicy int

const (
	// DropOnFull loses the change until the value changes again
	DropOnFull OverflowPolicy = iota
	// RetainDirtyOnFull re-marks the parameter so the next scan retries
	RetainDirtyOnFull
)

// PolicyFor maps the config setting onto a policy
func PolicyFor(p config.OverflowPolicy) OverflowPolicy {
	if p == config.OverflowRetain {
		return RetainDirtyOnFull
	}
	return DropOnFull
}

func (p OverflowPolicy) String() string {
	if p == RetainDirtyOnFull {
		return "retain"
	}
	return "drop"
}

// ScanResult counts what one scan did
type ScanResult struct {
	Sent     int
	Dropped  int
	Retained int
}

// Scanner copies control values into the registry and queues a control
// change for every parameter that changed. It runs on the control side only.
type Scanner struct {
	registry *params.Registry
	surface  Surface
	out      *fifo.Producer[midi.ControlMessage]
	channel  int
	policy   OverflowPolicy
	notify   func(ScanResult)

	sent    atomic.Uint64
	dropped atomic.Uint64
}

// NewScanner checks that every control on the surface names a registered
// parameter.
func NewScanner(reg *params.Registry, surface Surface, out *fifo.Producer[midi.ControlMessage], channel int, policy OverflowPolicy) (*Scanner, error) {
	for _, c := range surface.Controls() {
		if _, err := reg.Get(c.Name); err != nil {
			return nil, fmt.Errorf("control %q: %w", c.Name, err)
		}
	}
	return &Scanner{
		registry: reg,
		surface:  surface,
		out:      out,
		channel:  channel,
		policy:   policy,
	}, nil
}

// OnSend registers fn to be called after every scan that queued something.
// Call before Run.
func (s *Scanner) OnSend(fn func(ScanResult)) {
	s.notify = fn
}

// Scan performs one tick. A registry error means the surface and registry
// disagree and is returned as is.
func (s *Scanner) Scan() (ScanResult, error) {
	var res ScanResult

	for _, c := range s.surface.Controls() {
		if err := s.registry.Set(c.Name, c.Value); err != nil {
			return res, err
		}
	}

	snapshot := s.registry.All()
	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		dirty, err := s.registry.ConsumeDirty(name)
		if err != nil {
			return res, err
		}
		if !dirty {
			continue
		}

		p := snapshot[name]
		if s.out.TryPush(midi.ControlChangeMessage(s.channel, p.CC, p.Value)) {
			res.Sent++
			debug.Log("scan", "queued", "name", name, "cc", p.CC, "value", p.Value)
			continue
		}

		switch s.policy {
		case RetainDirtyOnFull:
			if err := s.registry.MarkDirty(name); err != nil {
				return res, err
			}
			res.Retained++
		default:
			res.Dropped++
		}
		debug.LogEvery(10, "scan", "queue full", "name", name, "policy", s.policy.String())
	}

	s.sent.Add(uint64(res.Sent))
	s.dropped.Add(uint64(res.Dropped))
	return res, nil
}

// Run scans every interval until ctx is cancelled. A scan error is a wiring
// bug and panics.
func (s *Scanner) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			res, err := s.Scan()
			if err != nil {
				debug.Log("scan", "scan failed", "err", err)
				panic(fmt.Sprintf("scanner: %v", err))
			}
			if res.Sent > 0 && s.notify != nil {
				s.notify(res)
			}
		}
	}
}

// Sent returns the total number of queued changes
func (s *Scanner) Sent() uint64 {
	return s.sent.Load()
}

// Dropped returns the total number of changes lost to a full queue
func (s *Scanner) Dropped() uint64 {
	return s.dropped.Load()
}

// Pending returns the number of queued changes not yet drained
func (s *Scanner) Pending() int {
	return s.out.NumReady()
}
