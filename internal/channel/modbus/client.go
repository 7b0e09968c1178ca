// internal/channel/modbus/client.go
package modbus

import (
	"errors"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// Client is a single Modbus TCP connection to the detector control unit.
// It serializes requests because the underlying handler is not safe for
// concurrent use.
type Client struct {
	mu      sync.Mutex
	handler *modbus.TCPClientHandler
	client  modbus.Client
}

type Config struct {
	Endpoint string
	UnitID   uint8
	Timeout  time.Duration
}

// New creates a connected Modbus TCP client.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("channel modbus: endpoint required")
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout
	h.SlaveId = cfg.UnitID

	if err := h.Connect(); err != nil {
		return nil, err
	}

	return &Client{
		handler: h,
		client:  modbus.NewClient(h),
	}, nil
}

// Close closes the TCP connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handler.Close()
}

// ---- channel.Client interface ----

func (c *Client) ReadInputRegisters(addr, qty uint16) ([]uint16, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	payload, err := c.client.ReadInputRegisters(addr, qty)
	if err != nil {
		return nil, err
	}
	if len(payload) < int(qty)*2 {
		return nil, errors.New("channel modbus: short register payload")
	}
	return unpackRegisters(payload), nil
}

func (c *Client) WriteRegister(addr, value uint16) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.client.WriteSingleRegister(addr, value)
	return err
}

// ---- helpers (pure geometry) ----

// unpackRegisters decodes big-endian register bytes.
func unpackRegisters(data []byte) []uint16 {
	n := len(data) / 2
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out
}
