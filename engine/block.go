package engine

import (
	"go-programmer/midi"
)

// Block is one processing cycle: the audio output buffers and the events
// emitted during the cycle. Everything is allocated up front.
type Block struct {
	Output     [][]float32
	Events     []midi.Event
	NumSamples int
}

// NewBlock allocates a block with channels output buffers of blockSize
// samples and room for maxEvents events per cycle.
func NewBlock(channels, blockSize, maxEvents int) *Block {
	b := &Block{
		Output:     make([][]float32, channels),
		Events:     make([]midi.Event, 0, maxEvents),
		NumSamples: blockSize,
	}
	for i := range b.Output {
		b.Output[i] = make([]float32, blockSize)
	}
	return b
}

// Reset empties the event list, keeping its storage
func (b *Block) Reset() {
	b.Events = b.Events[:0]
}

// AddEvent appends e if there is room. A full block drops the event.
func (b *Block) AddEvent(e midi.Event) bool {
	if len(b.Events) == cap(b.Events) {
		return false
	}
	b.Events = append(b.Events, e)
	return true
}

// Silence zeroes every output buffer
func (b *Block) Silence() {
	for _, ch := range b.Output {
		clear(ch[:b.NumSamples])
	}
}
