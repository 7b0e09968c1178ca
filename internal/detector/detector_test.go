// internal/detector/detector_test.go
package detector

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mxberg/beamline-bridge/internal/channel"
	"github.com/mxberg/beamline-bridge/internal/event"
)

// fakeProvider records subscriptions and lets tests push values into
// the adapter's callbacks.
type fakeProvider struct {
	subs   map[string]func(channel.Value)
	last   map[string]channel.Value
	writes map[string]channel.Value
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		subs:   make(map[string]func(channel.Value)),
		last:   make(map[string]channel.Value),
		writes: make(map[string]channel.Value),
	}
}

func (f *fakeProvider) Subscribe(name string, fn func(channel.Value)) (func(), error) {
	f.subs[name] = fn
	return func() { delete(f.subs, name) }, nil
}

func (f *fakeProvider) Read(name string) (channel.Value, error) {
	return f.last[name], nil
}

func (f *fakeProvider) Write(name string, v channel.Value) error {
	f.writes[name] = v
	return nil
}

func (f *fakeProvider) push(name string, v channel.Value) {
	if fn, ok := f.subs[name]; ok {
		fn(v)
	}
}

// recorder captures emitted events in order.
type recorder struct {
	names []string
	args  [][]interface{}
}

func (r *recorder) Emit(name string, args ...interface{}) {
	r.names = append(r.names, name)
	r.args = append(r.args, args)
}

func (r *recorder) reset() {
	r.names = nil
	r.args = nil
}

func (r *recorder) lastArgs(name string) []interface{} {
	for i := len(r.names) - 1; i >= 0; i-- {
		if r.names[i] == name {
			return r.args[i]
		}
	}
	return nil
}

func testConfig() Config {
	return Config{
		CollectName:       "collect",
		ShutterName:       "shutter",
		Tolerance:         0.5,
		TempThreshold:     31.0,
		HumidityThreshold: 50.0,
		RoiModes:          []string{"4M", "16M"},
		HasShutterless:    true,
		Channels: Channels{
			Temperature:     "temp",
			Humidity:        "hum",
			Status:          "status",
			RoiMode:         "roi",
			FrameRate:       "rate",
			ActualFrameRate: "actual_rate",
			BeamXY:          "beam",
		},
	}
}

func newTestDetector(t *testing.T) (*Detector, *fakeProvider, *recorder) {
	t.Helper()
	p := newFakeProvider()
	r := &recorder{}
	d := New(testConfig(), p, NewChannelMotor(p, "dist", 100, 1000), r)
	d.Attach()
	require.Len(t, p.subs, 6)
	return d, p, r
}

func TestTemperatureToleranceGate(t *testing.T) {
	_, p, r := newTestDetector(t)

	p.push("temp", channel.FloatValue(24.0))
	require.Contains(t, r.names, event.TemperatureChanged)
	r.reset()

	// below tolerance: ignored entirely
	p.push("temp", channel.FloatValue(24.25))
	assert.Empty(t, r.names)

	// exactly the tolerance: updates and emits
	p.push("temp", channel.FloatValue(24.5))
	args := r.lastArgs(event.TemperatureChanged)
	require.NotNil(t, args)
	assert.Equal(t, 24.5, args[0])
	assert.Equal(t, true, args[1])
}

func TestTemperatureOverThresholdFlag(t *testing.T) {
	_, p, r := newTestDetector(t)

	p.push("temp", channel.FloatValue(35.0))

	args := r.lastArgs(event.TemperatureChanged)
	require.NotNil(t, args)
	assert.Equal(t, false, args[1])
}

func TestStatusMessagePriority(t *testing.T) {
	_, p, r := newTestDetector(t)

	p.push("temp", channel.FloatValue(35.0)) // over 31.0
	p.push("hum", channel.FloatValue(60.0))  // over 50.0
	r.reset()

	p.push("status", channel.EnumValue("calibrating"))

	args := r.lastArgs(event.StatusChanged)
	require.NotNil(t, args)
	assert.Equal(t, "calibrating", args[0])

	msg, ok := args[1].(string)
	require.True(t, ok)

	ti := strings.Index(msg, event.MsgTemperatureExceeded)
	hi := strings.Index(msg, event.MsgHumidityExceeded)
	require.GreaterOrEqual(t, ti, 0)
	require.GreaterOrEqual(t, hi, 0)
	assert.Less(t, ti, hi, "temperature warning must precede humidity warning")
	assert.Contains(t, msg, event.MsgCalibrating)
}

func TestStatusNotReadyMessage(t *testing.T) {
	_, p, r := newTestDetector(t)

	p.push("status", channel.EnumValue("busy"))

	args := r.lastArgs(event.StatusChanged)
	require.NotNil(t, args)
	assert.Equal(t, "busy", args[0])
	assert.Equal(t, event.MsgNotReady, args[1])
}

func TestStatusReadyEmptyMessage(t *testing.T) {
	_, p, r := newTestDetector(t)

	p.push("status", channel.EnumValue("ready"))

	args := r.lastArgs(event.StatusChanged)
	require.NotNil(t, args)
	assert.Equal(t, "", args[1])
}

func TestRoiModeChanged(t *testing.T) {
	d, p, r := newTestDetector(t)

	p.push("roi", channel.EnumValue("16M"))

	args := r.lastArgs(event.DetectorModeChanged)
	require.NotNil(t, args)
	assert.Equal(t, 1, args[0])
	assert.Equal(t, 1, d.RoiMode())

	// unknown mode: no event, cached state unchanged
	r.reset()
	p.push("roi", channel.EnumValue("8M"))
	assert.Empty(t, r.names)
	assert.Equal(t, 1, d.RoiMode())
}

func TestSetRoiModeWritesDevice(t *testing.T) {
	d, p, _ := newTestDetector(t)

	require.NoError(t, d.SetRoiMode(1))
	assert.Equal(t, "16M", p.writes["roi"].Str)

	assert.Error(t, d.SetRoiMode(5))
}

func TestFrameRateDrivesExposureLimits(t *testing.T) {
	d, p, r := newTestDetector(t)

	p.push("rate", channel.FloatValue(250.0))

	args := r.lastArgs(event.ExpTimeLimitsChanged)
	require.NotNil(t, args)
	assert.InDelta(t, 0.004, args[0], 1e-9)
	assert.Equal(t, float64(MaxExposureTime), args[1])

	min, max := d.ExposureTimeLimits()
	assert.InDelta(t, 0.004, min, 1e-9)
	assert.Equal(t, float64(MaxExposureTime), max)
}

func TestActualFrameRate(t *testing.T) {
	_, p, r := newTestDetector(t)

	p.push("actual_rate", channel.FloatValue(133.3))

	args := r.lastArgs(event.FrameRateChanged)
	require.NotNil(t, args)
	assert.Equal(t, 133.3, args[0])
}

func TestUpdateValuesReemitsCachedState(t *testing.T) {
	d, p, r := newTestDetector(t)

	p.push("temp", channel.FloatValue(24.0))
	p.push("hum", channel.FloatValue(40.0))
	p.push("status", channel.EnumValue("ready"))
	p.push("roi", channel.EnumValue("4M"))
	p.push("rate", channel.FloatValue(100.0))
	p.push("actual_rate", channel.FloatValue(99.5))
	r.reset()

	d.UpdateValues()

	want := []string{
		event.DetectorModeChanged,
		event.TemperatureChanged,
		event.HumidityChanged,
		event.StatusChanged,
		event.ExpTimeLimitsChanged,
		event.FrameRateChanged,
	}
	assert.Equal(t, want, r.names)

	// cached values only, no channel re-reads
	assert.Equal(t, 24.0, r.args[1][0])
	assert.Equal(t, 40.0, r.args[2][0])
	assert.Equal(t, 99.5, r.args[5][0])
}

func TestBeamCentre(t *testing.T) {
	d, p, _ := newTestDetector(t)

	p.last["beam"] = channel.PairValue(1.23, 4.56)

	x, y := d.BeamCentre()
	assert.Equal(t, 1.23, x)
	assert.Equal(t, 4.56, y)
}

func TestMissingChannelReportsDefaults(t *testing.T) {
	p := newFakeProvider()
	r := &recorder{}

	cfg := testConfig()
	cfg.Channels.Humidity = ""
	d := New(cfg, p, NewChannelMotor(p, "", 0, 0), r)
	d.Attach()

	assert.Len(t, p.subs, 5)

	_, err := d.Distance()
	assert.Error(t, err)
}
