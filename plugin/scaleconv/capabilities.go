package scaleconv

import "io"

// Editor is a host-side editor component. The scale converter has none.
type Editor interface{}

// TTLEvent is a digital line transition delivered by the host.
type TTLEvent struct {
	StreamID     StreamID
	Line         int
	State        bool
	SampleNumber int64
}

// Spike is a detected spike delivered by the host.
type Spike struct {
	StreamID       StreamID
	ElectrodeIndex int
	SampleNumber   int64
}

// EventHandler receives non-continuous data from the host.
type EventHandler interface {
	HandleTTLEvent(ev TTLEvent)
	HandleSpike(sp Spike)
	HandleBroadcastMessage(msg string, systemTimeMillis int64)
}

// StatePersister saves and restores state beyond the host-managed parameters.
type StatePersister interface {
	SaveCustomParameters(w io.Writer) error
	LoadCustomParameters(r io.Reader) error
}

var (
	_ EventHandler   = (*Processor)(nil)
	_ StatePersister = (*Processor)(nil)
)

// CreateEditor returns nil; the processor has no custom editor.
func (p *Processor) CreateEditor() Editor {
	return nil
}

// HandleTTLEvent ignores TTL events.
func (p *Processor) HandleTTLEvent(TTLEvent) {}

// HandleSpike ignores spikes.
func (p *Processor) HandleSpike(Spike) {}

// HandleBroadcastMessage ignores broadcast messages.
func (p *Processor) HandleBroadcastMessage(string, int64) {}

// SaveCustomParameters writes nothing; all state lives in host parameters.
func (p *Processor) SaveCustomParameters(io.Writer) error {
	return nil
}

// LoadCustomParameters reads nothing.
func (p *Processor) LoadCustomParameters(io.Reader) error {
	return nil
}
