// internal/detector/motor.go
package detector

import (
	"fmt"

	"github.com/mxberg/beamline-bridge/internal/channel"
)

// ChannelMotor is a distance motor backed by a position channel with
// static limits from configuration.
type ChannelMotor struct {
	provider channel.Provider
	name     string
	low      float64
	high     float64
}

// NewChannelMotor wires a motor to its position channel.
func NewChannelMotor(provider channel.Provider, name string, low, high float64) *ChannelMotor {
	return &ChannelMotor{provider: provider, name: name, low: low, high: high}
}

// Position returns the last-known motor position.
func (m *ChannelMotor) Position() (float64, error) {
	if m.name == "" {
		return 0, fmt.Errorf("motor: position channel not defined")
	}
	v, err := m.provider.Read(m.name)
	if err != nil {
		return 0, err
	}
	return v.Float, nil
}

// Limits returns the configured travel limits.
func (m *ChannelMotor) Limits() (float64, float64, error) {
	return m.low, m.high, nil
}

var _ Motor = (*ChannelMotor)(nil)
