package midi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go-programmer/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// ErrNoOutput is returned by Send while the output port is not connected
var ErrNoOutput = errors.New("midi: no output port connected")

// DeviceEvent is emitted when the output port or the controller
// connects/disconnects
type DeviceEvent struct {
	Type       DeviceEventType
	Port       PortKind
	Name       string
	Controller *Controller // set when an input connects
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// PortKind says which side of the app a port belongs to
type PortKind int

const (
	PortOutput PortKind = iota
	PortInput
)

func (k PortKind) String() string {
	if k == PortInput {
		return "input"
	}
	return "output"
}

// portLister returns the current ports; swapped out in tests
type portLister func() ([]drivers.In, []drivers.Out)

// DeviceManager keeps the synth output and the optional hardware
// controller connected across hot-plug.
type DeviceManager struct {
	outMatch string // case-insensitive substring of the output port name
	inMatch  string // same for the controller input, empty disables it

	outName string
	send    func(gomidi.Message) error
	ctrl    *Controller
	mu      sync.RWMutex

	events   chan DeviceEvent
	pollRate time.Duration
	list     portLister
}

// NewDeviceManager creates a device manager for the given port name patterns
func NewDeviceManager(outputPort, inputPort string) *DeviceManager {
	return &DeviceManager{
		outMatch: strings.ToLower(outputPort),
		inMatch:  strings.ToLower(inputPort),
		events:   make(chan DeviceEvent, 16),
		pollRate: time.Second,
		list:     listPorts,
	}
}

// Events returns a channel of connect/disconnect events
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// OutputName returns the connected output port name, or "" when none
func (dm *DeviceManager) OutputName() string {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.outName
}

// Controller returns the connected hardware controller (or nil)
func (dm *DeviceManager) Controller() *Controller {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.ctrl
}

// Send writes msg to the output port
func (dm *DeviceManager) Send(msg gomidi.Message) error {
	dm.mu.RLock()
	send := dm.send
	dm.mu.RUnlock()

	if send == nil {
		return ErrNoOutput
	}
	return send(msg)
}

// Run starts the polling loop (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	// Initial scan
	dm.scan()

	for {
		select {
		case <-ctx.Done():
			dm.closeAll()
			close(dm.events)
			return
		case <-ticker.C:
			dm.scan()
		}
	}
}

func listPorts() ([]drivers.In, []drivers.Out) {
	// Port enumeration can hang on CoreMIDI, never wait on it forever
	type portsResult struct {
		inPorts  []drivers.In
		outPorts []drivers.Out
	}

	ch := make(chan portsResult, 1)
	go func() {
		ch <- portsResult{inPorts: gomidi.GetInPorts(), outPorts: gomidi.GetOutPorts()}
	}()

	select {
	case result := <-ch:
		return result.inPorts, result.outPorts
	case <-time.After(3 * time.Second):
		debug.Log("ports", "port scan timed out")
		return nil, nil
	}
}

func (dm *DeviceManager) scan() {
	inPorts, outPorts := dm.list()

	outNames := make([]string, len(outPorts))
	for i, p := range outPorts {
		outNames[i] = p.String()
	}
	inNames := make([]string, len(inPorts))
	for i, p := range inPorts {
		inNames[i] = p.String()
	}

	dm.scanOutput(outPorts, outNames)
	dm.scanInput(inPorts, inNames)
}

func (dm *DeviceManager) scanOutput(outPorts []drivers.Out, names []string) {
	if dm.outMatch == "" {
		return
	}
	idx := matchPort(names, dm.outMatch)

	dm.mu.Lock()
	current := dm.outName
	dm.mu.Unlock()

	if current != "" {
		if idx >= 0 && names[idx] == current {
			return
		}
		dm.mu.Lock()
		dm.outName = ""
		dm.send = nil
		dm.mu.Unlock()
		debug.Log("ports", "output disconnected", "port", current)
		dm.emit(DeviceEvent{Type: DeviceDisconnected, Port: PortOutput, Name: current})
	}

	if idx < 0 {
		return
	}

	send, err := gomidi.SendTo(outPorts[idx])
	if err != nil {
		debug.Log("ports", "open output failed", "port", names[idx], "err", err)
		return
	}

	dm.mu.Lock()
	dm.outName = names[idx]
	dm.send = send
	dm.mu.Unlock()

	debug.Log("ports", "output connected", "port", names[idx])
	dm.emit(DeviceEvent{Type: DeviceConnected, Port: PortOutput, Name: names[idx]})
}

func (dm *DeviceManager) scanInput(inPorts []drivers.In, names []string) {
	if dm.inMatch == "" {
		return
	}
	idx := matchPort(names, dm.inMatch)

	dm.mu.Lock()
	current := dm.ctrl
	dm.mu.Unlock()

	if current != nil {
		if idx >= 0 && names[idx] == current.ID() {
			return
		}
		dm.mu.Lock()
		dm.ctrl = nil
		dm.mu.Unlock()
		current.Close()
		debug.Log("ports", "controller disconnected", "port", current.ID())
		dm.emit(DeviceEvent{Type: DeviceDisconnected, Port: PortInput, Name: current.ID()})
	}

	if idx < 0 {
		return
	}

	ctrl, err := NewController(names[idx], inPorts[idx])
	if err != nil {
		debug.Log("ports", "open controller failed", "port", names[idx], "err", err)
		return
	}

	dm.mu.Lock()
	dm.ctrl = ctrl
	dm.mu.Unlock()

	debug.Log("ports", "controller connected", "port", names[idx])
	dm.emit(DeviceEvent{Type: DeviceConnected, Port: PortInput, Name: names[idx], Controller: ctrl})
}

// emit never blocks the poll loop; nobody listening in headless mode is fine
func (dm *DeviceManager) emit(ev DeviceEvent) {
	select {
	case dm.events <- ev:
	default:
		debug.Log("ports", "device event dropped", "port", ev.Name)
	}
}

func (dm *DeviceManager) closeAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	if dm.ctrl != nil {
		dm.ctrl.Close()
		dm.ctrl = nil
	}
	dm.send = nil
	dm.outName = ""
}

// matchPort returns the index of the first name containing pattern
// (case-insensitive), skipping through/dummy ports, or -1.
func matchPort(names []string, pattern string) int {
	pattern = strings.ToLower(pattern)
	for i, name := range names {
		lower := strings.ToLower(name)
		if isExcluded(lower) {
			continue
		}
		if strings.Contains(lower, pattern) {
			return i
		}
	}
	return -1
}

var excludedPorts = []string{"midi through", "through port", "dummy"}

func isExcluded(lower string) bool {
	for _, p := range excludedPorts {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// PortNames lists input and output port names, for -list style output
func PortNames() (ins, outs []string) {
	inPorts, outPorts := listPorts()
	for _, p := range inPorts {
		ins = append(ins, p.String())
	}
	for _, p := range outPorts {
		outs = append(outs, p.String())
	}
	return ins, outs
}

// String renders an event for the status line
func (e DeviceEvent) String() string {
	state := "connected"
	if e.Type == DeviceDisconnected {
		state = "disconnected"
	}
	return fmt.Sprintf("%s %s: %s", e.Port, state, e.Name)
}
