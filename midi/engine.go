package midi

import (
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"github.com/augmaticaudio/gre/debug"
)

// Engine forwards surface parameter-change events to the native rhythm
// engine as MIDI control changes. Events whose identifier is not in the
// parameter table are dropped here; the surface does not know or care
// which controls the engine understands.
type Engine struct {
	portName string
	channel  uint8 // 0-based wire channel

	mu   sync.Mutex
	send func(gomidi.Message) error
}

// NewEngine creates an engine link targeting the named output port on the
// given 1-based MIDI channel. The port is opened lazily on first emission;
// with no port available the link stays silent and the surface is
// unaffected.
func NewEngine(portName string, channel int) *Engine {
	if channel < 1 || channel > 16 {
		channel = 10
	}
	return &Engine{portName: portName, channel: uint8(channel - 1)}
}

// Param implements the surface sink: scale the value into 0..127 per the
// parameter table and send it as a CC message.
func (e *Engine) Param(id string, value float64) {
	m, ok := Lookup(id)
	if !ok {
		return
	}
	send := e.sender()
	if send == nil {
		return
	}
	cc := m.CCValue(value)
	if err := send(gomidi.ControlChange(e.channel, m.CC, cc)); err != nil {
		debug.Log("engine", "cc %d send failed: %v", m.CC, err)
	}
}

// sender lazily opens the configured output port, once.
func (e *Engine) sender() func(gomidi.Message) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.send != nil {
		return e.send
	}
	if e.portName == "" {
		return nil
	}
	for _, port := range gomidi.GetOutPorts() {
		if port.String() == e.portName {
			send, err := gomidi.SendTo(port)
			if err != nil {
				debug.Log("engine", "open %s failed: %v", e.portName, err)
				return nil
			}
			debug.Log("engine", "opened %s", e.portName)
			e.send = send
			return send
		}
	}
	return nil
}

// Close releases the MIDI driver. Call once at shutdown.
func (e *Engine) Close() {
	gomidi.CloseDriver()
}

// OutPortNames lists the available MIDI output ports.
func OutPortNames() []string {
	var names []string
	for _, port := range gomidi.GetOutPorts() {
		names = append(names, port.String())
	}
	return names
}
