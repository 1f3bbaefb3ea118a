package engine

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"

	"go-programmer/debug"
)

// Sender delivers a message to the synth
type Sender func(gomidi.Message) error

// Options sizes the processing loop
type Options struct {
	SampleRate int
	BlockSize  int
	Channels   int
	MaxEvents  int
	ScanRate   int // scans per second
}

// DefaultOptions matches the default config
func DefaultOptions() Options {
	return Options{
		SampleRate: 48000,
		BlockSize:  512,
		Channels:   2,
		MaxEvents:  16,
		ScanRate:   30,
	}
}

// Stats is a snapshot of the engine counters
type Stats struct {
	Cycles     uint64
	Events     uint64 // events handed to the sender
	SendErrors uint64
	Queued     uint64 // changes the scanner queued
	Dropped    uint64 // changes lost to a full queue
	Pending    int    // messages waiting in the queue
}

// Engine runs the scanner on the control side and the processor on its own
// locked OS thread, forwarding each cycle's events to the sender.
type Engine struct {
	scanner   *Scanner
	processor *Processor
	block     *Block
	send      Sender
	opts      Options

	cycles     atomic.Uint64
	events     atomic.Uint64
	sendErrors atomic.Uint64

	// Notify TUI of sent changes
	updates chan struct{}

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(scanner *Scanner, processor *Processor, send Sender, opts Options) *Engine {
	d := DefaultOptions()
	if opts.SampleRate <= 0 {
		opts.SampleRate = d.SampleRate
	}
	if opts.BlockSize <= 0 {
		opts.BlockSize = d.BlockSize
	}
	if opts.Channels <= 0 {
		opts.Channels = d.Channels
	}
	if opts.MaxEvents <= 0 {
		opts.MaxEvents = d.MaxEvents
	}
	if opts.ScanRate <= 0 {
		opts.ScanRate = d.ScanRate
	}

	e := &Engine{
		scanner:   scanner,
		processor: processor,
		block:     NewBlock(opts.Channels, opts.BlockSize, opts.MaxEvents),
		send:      send,
		opts:      opts,
		updates:   make(chan struct{}, 1),
	}
	scanner.OnSend(func(ScanResult) {
		select {
		case e.updates <- struct{}{}:
		default:
		}
	})
	return e
}

// Period is the wall-clock length of one block
func (e *Engine) Period() time.Duration {
	return time.Duration(e.opts.BlockSize) * time.Second / time.Duration(e.opts.SampleRate)
}

// Updates signals after scans that queued something
func (e *Engine) Updates() <-chan struct{} {
	return e.updates
}

// StartRuntime starts the scan loop and the processing loop
func (e *Engine) StartRuntime(ctx context.Context) {
	ctx, e.cancel = context.WithCancel(ctx)

	e.wg.Add(2)
	go func() {
		defer e.wg.Done()
		e.scanner.Run(ctx, time.Second/time.Duration(e.opts.ScanRate))
	}()
	go func() {
		defer e.wg.Done()
		e.processLoop(ctx)
	}()
	debug.Log("engine", "runtime started", "period", e.Period(), "scanRate", e.opts.ScanRate)
}

// Stop ends both loops and waits for them
func (e *Engine) Stop() {
	if e.cancel == nil {
		return
	}
	e.cancel()
	e.wg.Wait()
	debug.Log("engine", "runtime stopped", "cycles", e.cycles.Load())
}

func (e *Engine) Stats() Stats {
	return Stats{
		Cycles:     e.cycles.Load(),
		Events:     e.events.Load(),
		SendErrors: e.sendErrors.Load(),
		Queued:     e.scanner.Sent(),
		Dropped:    e.scanner.Dropped(),
		Pending:    e.scanner.Pending(),
	}
}

func (e *Engine) processLoop(ctx context.Context) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	ticker := time.NewTicker(e.Period())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.cycle()
		}
	}
}

// cycle runs one block and hands its events to the sender
func (e *Engine) cycle() {
	e.block.Reset()
	e.processor.Process(e.block)
	e.cycles.Add(1)

	for _, ev := range e.block.Events {
		if e.send == nil {
			continue
		}
		if err := e.send(ev.Message()); err != nil {
			e.sendErrors.Add(1)
			debug.LogEvery(20, "engine", "send failed", "event", ev.String(), "err", err)
			continue
		}
		e.events.Add(1)
	}
}
