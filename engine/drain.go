package engine

import (
	"go-programmer/fifo"
	"go-programmer/midi"
)

// Drain moves queued control messages into the processing block.
// It belongs to the processing goroutine.
type Drain struct {
	in *fifo.Consumer[midi.ControlMessage]
}

func NewDrain(in *fifo.Consumer[midi.ControlMessage]) *Drain {
	return &Drain{in: in}
}

// Cycle pops at most one message and appends its event at offset 0.
// It reports whether a message was popped.
func (d *Drain) Cycle(b *Block) bool {
	var msg midi.ControlMessage
	if !d.in.TryPop(&msg) {
		return false
	}
	if ev, ok := msg.Event(); ok {
		b.AddEvent(ev)
	}
	return true
}

// Pending returns the number of queued messages
func (d *Drain) Pending() int {
	return d.in.NumReady()
}

// Processor is the real-time cycle: it renders silence and forwards
// control changes. It never blocks or allocates.
type Processor struct {
	drain *Drain
}

func NewProcessor(drain *Drain) *Processor {
	return &Processor{drain: drain}
}

func (p *Processor) Process(b *Block) {
	b.Silence()
	p.drain.Cycle(b)
}
