package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "send":
		if len(os.Args) != 6 {
			usage()
			os.Exit(2)
		}
		sendCC(os.Args[2], os.Args[3], os.Args[4], os.Args[5])
	case "monitor":
		if len(os.Args) != 3 {
			usage()
			os.Exit(2)
		}
		monitor(os.Args[2])
	case "poll":
		pollDevices()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list                      - List all MIDI ports")
	fmt.Println("  send <port> <ch> <cc> <v> - Send one control change (ch 1-16)")
	fmt.Println("  monitor <port>            - Print control changes from an input")
	fmt.Println("  poll                      - Poll for device changes")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	type result struct {
		ins  []drivers.In
		outs []drivers.Out
	}
	ch := make(chan result, 1)
	go func() {
		ins := midi.GetInPorts()
		outs := midi.GetOutPorts()
		ch <- result{ins: ins, outs: outs}
	}()

	select {
	case r := <-ch:
		for i, p := range r.ins {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
		fmt.Println("\n=== MIDI Output Ports ===")
		for i, p := range r.outs {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
	}
}

func parseByte(s string, min, max int) (uint8, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if v < min || v > max {
		return 0, fmt.Errorf("%d not in %d-%d", v, min, max)
	}
	return uint8(v), nil
}

func sendCC(port, chArg, ccArg, valArg string) {
	ch, err := parseByte(chArg, 1, 16)
	if err != nil {
		fmt.Printf("channel: %v\n", err)
		os.Exit(2)
	}
	cc, err := parseByte(ccArg, 0, 127)
	if err != nil {
		fmt.Printf("controller: %v\n", err)
		os.Exit(2)
	}
	val, err := parseByte(valArg, 0, 127)
	if err != nil {
		fmt.Printf("value: %v\n", err)
		os.Exit(2)
	}

	var outPort drivers.Out
	for _, p := range midi.GetOutPorts() {
		if strings.Contains(strings.ToLower(p.String()), strings.ToLower(port)) {
			outPort = p
			break
		}
	}
	if outPort == nil {
		fmt.Printf("No output matching %q\n", port)
		os.Exit(1)
	}

	fmt.Printf("Using output: %s\n", outPort.String())

	send, err := midi.SendTo(outPort)
	if err != nil {
		fmt.Printf("Error opening port: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Sending: CC ch:%d ctrl:%d val:%d\n", ch, cc, val)
	if err := send(midi.ControlChange(ch-1, cc, val)); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	// give the driver a moment before the process exits
	time.Sleep(100 * time.Millisecond)
	midi.CloseDriver()
}

func monitor(port string) {
	var inPort drivers.In
	for _, p := range midi.GetInPorts() {
		if strings.Contains(strings.ToLower(p.String()), strings.ToLower(port)) {
			inPort = p
			break
		}
	}
	if inPort == nil {
		fmt.Printf("No input matching %q\n", port)
		os.Exit(1)
	}

	fmt.Printf("Listening on %s. Ctrl+C to exit.\n", inPort.String())

	stop, err := midi.ListenTo(inPort, func(msg midi.Message, timestampms int32) {
		var ch, cc, val uint8
		if msg.GetControlChange(&ch, &cc, &val) {
			fmt.Printf("[%6dms] CC ch:%d ctrl:%d val:%d\n", timestampms, ch+1, cc, val)
			return
		}
		fmt.Printf("[%6dms] %s\n", timestampms, msg)
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig
	stop()
	midi.CloseDriver()
}

func pollDevices() {
	fmt.Println("Polling for device changes every 2 seconds...")
	fmt.Println("Connect/disconnect devices to test. Ctrl+C to exit.")

	lastIn := ""
	lastOut := ""

	for {
		ins := midi.GetInPorts()
		outs := midi.GetOutPorts()

		var inNames, outNames []string
		for _, p := range ins {
			inNames = append(inNames, p.String())
		}
		for _, p := range outs {
			outNames = append(outNames, p.String())
		}

		currentIn := strings.Join(inNames, ",")
		currentOut := strings.Join(outNames, ",")

		if currentIn != lastIn || currentOut != lastOut {
			fmt.Printf("\n[%s] Device change detected!\n", time.Now().Format("15:04:05"))
			fmt.Printf("  Inputs: %v\n", inNames)
			fmt.Printf("  Outputs: %v\n", outNames)

			lastIn = currentIn
			lastOut = currentOut
		}

		time.Sleep(2 * time.Second)
	}
}
