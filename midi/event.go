package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// MIDI message types
const (
	NoteOn  uint8 = 0x90
	NoteOff uint8 = 0x80
	CC      uint8 = 0xB0
)

// Event is an outbound MIDI event placed in a processing block.
// It is a plain value so blocks can hold a fixed array of them.
type Event struct {
	Offset  int32 // sample offset inside the block
	Type    uint8 // NoteOn, NoteOff, CC
	Channel uint8 // 1-16
	Data1   uint8 // note or controller number
	Data2   uint8 // velocity or controller value
}

// ControlChange builds a CC event at offset 0
func ControlChange(channel, controller, value uint8) Event {
	return Event{Type: CC, Channel: channel, Data1: controller, Data2: value}
}

// Message converts the event to its wire form.
// Channel is 1-based here, gomidi counts from 0.
func (e Event) Message() gomidi.Message {
	ch := e.Channel - 1
	switch e.Type {
	case CC:
		return gomidi.ControlChange(ch, e.Data1, e.Data2)
	case NoteOn:
		return gomidi.NoteOn(ch, e.Data1, e.Data2)
	case NoteOff:
		return gomidi.NoteOff(ch, e.Data1)
	}
	return nil
}

func (e Event) String() string {
	switch e.Type {
	case CC:
		return fmt.Sprintf("CC{ch:%d, ctrl:%d, val:%d, offset:%d}", e.Channel, e.Data1, e.Data2, e.Offset)
	case NoteOn:
		return fmt.Sprintf("NoteOn{ch:%d, note:%d, vel:%d, offset:%d}", e.Channel, e.Data1, e.Data2, e.Offset)
	case NoteOff:
		return fmt.Sprintf("NoteOff{ch:%d, note:%d, offset:%d}", e.Channel, e.Data1, e.Offset)
	}
	return fmt.Sprintf("Event{type:%#x, offset:%d}", e.Type, e.Offset)
}
