// internal/channel/poller.go
package channel

import (
	"errors"
	"fmt"
	"time"
)

// Client abstracts the register operations the poller needs.
// The poller depends on geometry only.
type Client interface {
	ReadInputRegisters(addr, qty uint16) ([]uint16, error)
	WriteRegister(addr, value uint16) error
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	Interval time.Duration
	Bindings []Binding
}

// Poller is a dumb, clock-driven reader that decodes registers
// into named channel values.
type Poller struct {
	cfg    Config
	client Client

	byName map[string]Binding
}

// New creates a poller with immutable config.
func New(cfg Config, client Client) (*Poller, error) {
	if cfg.Interval <= 0 {
		return nil, errors.New("channel: interval must be > 0")
	}
	if len(cfg.Bindings) == 0 {
		return nil, errors.New("channel: at least one binding required")
	}

	byName := make(map[string]Binding, len(cfg.Bindings))
	for _, b := range cfg.Bindings {
		if b.Name == "" {
			return nil, errors.New("channel: binding name required")
		}
		if _, dup := byName[b.Name]; dup {
			return nil, fmt.Errorf("channel: duplicate binding %q", b.Name)
		}
		byName[b.Name] = b
	}

	return &Poller{cfg: cfg, client: client, byName: byName}, nil
}

// PollOnce performs exactly one poll cycle over all bindings.
// All-or-nothing: any read failure aborts the cycle.
func (p *Poller) PollOnce() PollResult {
	res := PollResult{At: time.Now()}

	var updates []Update

	for _, b := range p.cfg.Bindings {
		v, err := p.readBinding(b)
		if err != nil {
			res.Err = fmt.Errorf("channel %q: %w", b.Name, err)
			return res
		}
		updates = append(updates, Update{Name: b.Name, Value: v, At: res.At})
	}

	// Commit only if all reads succeeded
	res.Updates = updates
	return res
}

func (p *Poller) readBinding(b Binding) (Value, error) {
	switch b.Kind {
	case KindFloat:
		regs, err := p.client.ReadInputRegisters(b.Address, 1)
		if err != nil {
			return Value{}, err
		}
		if len(regs) < 1 {
			return Value{}, errors.New("short register read")
		}
		return FloatValue(float64(regs[0]) * b.Scale), nil

	case KindEnum:
		regs, err := p.client.ReadInputRegisters(b.Address, 1)
		if err != nil {
			return Value{}, err
		}
		if len(regs) < 1 {
			return Value{}, errors.New("short register read")
		}
		s, ok := b.Enum[regs[0]]
		if !ok {
			return Value{}, fmt.Errorf("raw value %d not in enum table", regs[0])
		}
		return EnumValue(s), nil

	case KindPair:
		regs, err := p.client.ReadInputRegisters(b.Address, 2)
		if err != nil {
			return Value{}, err
		}
		if len(regs) < 2 {
			return Value{}, errors.New("short register read")
		}
		return PairValue(float64(regs[0])*b.Scale, float64(regs[1])*b.Scale), nil

	default:
		return Value{}, fmt.Errorf("unsupported kind %d", b.Kind)
	}
}

// Write encodes a value back into the channel's register.
// Only writable bindings accept writes.
func (p *Poller) Write(name string, v Value) error {
	b, ok := p.byName[name]
	if !ok {
		return fmt.Errorf("channel: unknown channel %q", name)
	}
	if !b.Writable {
		return fmt.Errorf("channel %q: not writable", name)
	}

	switch b.Kind {
	case KindFloat:
		if b.Scale == 0 {
			return fmt.Errorf("channel %q: zero scale", name)
		}
		return p.client.WriteRegister(b.Address, uint16(v.Float/b.Scale))

	case KindEnum:
		for raw, s := range b.Enum {
			if s == v.Str {
				return p.client.WriteRegister(b.Address, raw)
			}
		}
		return fmt.Errorf("channel %q: value %q not in enum table", name, v.Str)

	default:
		return fmt.Errorf("channel %q: kind not writable", name)
	}
}

// Bindings returns the declared binding set, keyed by name.
func (p *Poller) Bindings() map[string]Binding {
	return p.byName
}
