package midi

// Kind discriminates ControlMessage variants
type Kind uint8

const (
	KindControlChange Kind = iota
)

// ControlMessage is the fixed-size record the control side sends to the
// processing loop. For KindControlChange the payload is channel (1-16),
// controller number and controller value.
//
// The fields are not range-checked. Values outside 0-127 (1-16 for the
// channel) have no defined wire translation.
type ControlMessage struct {
	Kind       Kind
	Channel    int32
	Controller int32
	Value      int32
}

// ControlChangeMessage builds a KindControlChange record
func ControlChangeMessage(channel, controller, value int) ControlMessage {
	return ControlMessage{
		Kind:       KindControlChange,
		Channel:    int32(channel),
		Controller: int32(controller),
		Value:      int32(value),
	}
}

// Event translates the record into an outbound event at offset 0.
// ok is false for kinds with no MIDI equivalent.
func (m ControlMessage) Event() (e Event, ok bool) {
	switch m.Kind {
	case KindControlChange:
		return ControlChange(uint8(m.Channel), uint8(m.Controller), uint8(m.Value)), true
	}
	return Event{}, false
}
