package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"go-programmer/config"
	"go-programmer/debug"
	"go-programmer/engine"
	"go-programmer/fifo"
	"go-programmer/midi"
	"go-programmer/params"
	"go-programmer/theme"
	"go-programmer/tui"
	"go-programmer/widgets"
)

func main() {
	configPath := flag.String("config", "", "Config file (default ~/.config/go-programmer/config.json)")
	debugLog := flag.Bool("debug", false, "Write a debug log to ~/.config/go-programmer/debug.log")
	recordPath := flag.String("record", "", "Record every sent message to a MIDI file")
	list := flag.Bool("list", false, "List MIDI ports and exit")
	flag.Parse()

	if *list {
		listPorts()
		return
	}

	if *debugLog {
		if err := debug.Enable(); err != nil {
			fmt.Fprintf(os.Stderr, "debug log: %v\n", err)
		}
		defer debug.Disable()
	}

	if err := run(*configPath, *recordPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, recordPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	th, err := theme.Load(cfg.Palette)
	if err != nil {
		return err
	}

	// Registry and panel come from the same parameter list
	reg := params.NewRegistry()
	for _, p := range cfg.Parameters {
		if err := reg.Add(p.Name, p.CC, p.Value, p.Min, p.Max); err != nil {
			return fmt.Errorf("register parameter: %w", err)
		}
	}
	panel := widgets.NewPanel(cfg.Parameters)

	prod, cons, err := fifo.New[midi.ControlMessage](cfg.QueueCapacity)
	if err != nil {
		return err
	}
	scanner, err := engine.NewScanner(reg, panel, prod, cfg.MidiChannel, engine.PolicyFor(cfg.Overflow))
	if err != nil {
		return err
	}
	processor := engine.NewProcessor(engine.NewDrain(cons))

	// MIDI device manager (handles hot-plug)
	deviceMgr := midi.NewDeviceManager(cfg.OutputPort, cfg.InputPort)

	send := engine.Sender(deviceMgr.Send)
	var recorder *midi.Recorder
	if recordPath != "" {
		recorder = midi.NewRecorder()
		send = recorder.Wrap(deviceMgr.Send)
	}

	eng := engine.New(scanner, processor, send, engine.Options{
		SampleRate: cfg.SampleRate,
		BlockSize:  cfg.BlockSize,
		ScanRate:   cfg.ScanRateHz,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go deviceMgr.Run(ctx)
	eng.StartRuntime(ctx)

	debug.Log("main", "started", "channel", cfg.MidiChannel, "parameters", reg.Len(), "overflow", cfg.Overflow)

	m := tui.NewModel(panel, eng, deviceMgr, th)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, runErr := p.Run()

	eng.Stop()
	cancel()

	if recorder != nil {
		if err := recorder.WriteFile(recordPath); err != nil {
			return fmt.Errorf("write recording: %w", err)
		}
		fmt.Printf("Recorded %d messages to %s\n", recorder.Len(), recordPath)
	}
	return runErr
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

func listPorts() {
	ins, outs := midi.PortNames()
	fmt.Println("=== MIDI Input Ports ===")
	for i, name := range ins {
		fmt.Printf("  %d: %s\n", i, name)
	}
	fmt.Println("\n=== MIDI Output Ports ===")
	for i, name := range outs {
		fmt.Printf("  %d: %s\n", i, name)
	}
}
