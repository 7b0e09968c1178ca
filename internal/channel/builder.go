// internal/channel/builder.go
package channel

import (
	"fmt"
	"time"

	cmodbus "github.com/mxberg/beamline-bridge/internal/channel/modbus"
	cfg "github.com/mxberg/beamline-bridge/internal/config"
)

// Build constructs the poller and hub for one device source and wires
// the Modbus client lifecycle. Fail fast at startup: the connection is
// attempted once here.
func Build(b cfg.BridgeConfig) (*Poller, *Hub, func() error, error) {
	client, err := cmodbus.New(cmodbus.Config{
		Endpoint: b.Source.Endpoint,
		UnitID:   b.Source.UnitID,
		Timeout:  time.Duration(b.Source.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("channel: connect %s: %w", b.Source.Endpoint, err)
	}

	bindings := make([]Binding, 0, len(b.Channels))
	names := make([]string, 0, len(b.Channels))
	for _, ch := range b.Channels {
		kind, err := parseKind(ch.Kind)
		if err != nil {
			_ = client.Close()
			return nil, nil, nil, fmt.Errorf("channel %q: %w", ch.Name, err)
		}
		bindings = append(bindings, Binding{
			Name:     ch.Name,
			Address:  ch.Address,
			Kind:     kind,
			Scale:    ch.Scale,
			Enum:     ch.Enum,
			Writable: ch.Writable,
		})
		names = append(names, ch.Name)
	}

	p, err := New(Config{
		Interval: time.Duration(b.Poll.IntervalMs) * time.Millisecond,
		Bindings: bindings,
	}, client)
	if err != nil {
		_ = client.Close()
		return nil, nil, nil, err
	}

	hub := NewHub(names, p)

	return p, hub, client.Close, nil
}

func parseKind(s string) (Kind, error) {
	switch s {
	case "float":
		return KindFloat, nil
	case "enum":
		return KindEnum, nil
	case "pair":
		return KindPair, nil
	default:
		return 0, fmt.Errorf("unknown kind %q", s)
	}
}
