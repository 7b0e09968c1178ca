// internal/channel/poller_test.go
package channel

import (
	"errors"
	"testing"
	"time"
)

type fakeClient struct {
	regs     map[uint16]uint16
	failAddr uint16
	fail     bool

	writes []writeCall
}

type writeCall struct {
	addr  uint16
	value uint16
}

func (f *fakeClient) ReadInputRegisters(addr, qty uint16) ([]uint16, error) {
	if f.fail && addr == f.failAddr {
		return nil, errors.New("read failed")
	}
	out := make([]uint16, qty)
	for i := uint16(0); i < qty; i++ {
		out[i] = f.regs[addr+i]
	}
	return out, nil
}

func (f *fakeClient) WriteRegister(addr, value uint16) error {
	f.writes = append(f.writes, writeCall{addr: addr, value: value})
	return nil
}

func testBindings() []Binding {
	return []Binding{
		{Name: "temp", Address: 100, Kind: KindFloat, Scale: 0.25},
		{Name: "status", Address: 102, Kind: KindEnum,
			Enum: map[uint16]string{0: "not_ready", 1: "ready", 2: "calibrating"}},
		{Name: "beam_xy", Address: 110, Kind: KindPair, Scale: 0.5},
		{Name: "roi", Address: 103, Kind: KindEnum, Writable: true,
			Enum: map[uint16]string{0: "4M", 1: "16M"}},
	}
}

func newTestPoller(t *testing.T, client Client) *Poller {
	t.Helper()
	p, err := New(Config{Interval: time.Second, Bindings: testBindings()}, client)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	return p
}

func TestPollOnce_Decode(t *testing.T) {
	client := &fakeClient{regs: map[uint16]uint16{
		100: 102, // 25.5 after scale
		102: 2,   // calibrating
		103: 1,   // 16M
		110: 1234,
		111: 567,
	}}

	p := newTestPoller(t, client)

	res := p.PollOnce()
	if res.Err != nil {
		t.Fatalf("PollOnce err=%v", res.Err)
	}
	if len(res.Updates) != 4 {
		t.Fatalf("expected 4 updates, got %d", len(res.Updates))
	}

	byName := map[string]Value{}
	for _, u := range res.Updates {
		byName[u.Name] = u.Value
	}

	if got := byName["temp"].Float; got != 25.5 {
		t.Fatalf("temp: got %v want 25.5", got)
	}
	if got := byName["status"].Str; got != "calibrating" {
		t.Fatalf("status: got %q want calibrating", got)
	}
	if got := byName["beam_xy"].Pair; got != [2]float64{617, 283.5} {
		t.Fatalf("beam_xy: got %v", got)
	}
}

func TestPollOnce_AllOrNothing(t *testing.T) {
	client := &fakeClient{
		regs:     map[uint16]uint16{100: 1, 102: 1, 103: 0},
		fail:     true,
		failAddr: 110,
	}

	p := newTestPoller(t, client)

	res := p.PollOnce()
	if res.Err == nil {
		t.Fatalf("expected error, got nil")
	}
	if res.Updates != nil {
		t.Fatalf("expected no updates on failed cycle, got %d", len(res.Updates))
	}
}

func TestPollOnce_EnumOutOfTable(t *testing.T) {
	client := &fakeClient{regs: map[uint16]uint16{100: 1, 102: 9, 103: 0}}

	p := newTestPoller(t, client)

	res := p.PollOnce()
	if res.Err == nil {
		t.Fatalf("expected enum decode error, got nil")
	}
}

func TestWrite_EnumReverseLookup(t *testing.T) {
	client := &fakeClient{regs: map[uint16]uint16{}}

	p := newTestPoller(t, client)

	if err := p.Write("roi", EnumValue("16M")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(client.writes) != 1 {
		t.Fatalf("expected 1 write, got %d", len(client.writes))
	}
	if client.writes[0] != (writeCall{addr: 103, value: 1}) {
		t.Fatalf("unexpected write %+v", client.writes[0])
	}
}

func TestWrite_RejectsNonWritable(t *testing.T) {
	client := &fakeClient{regs: map[uint16]uint16{}}

	p := newTestPoller(t, client)

	if err := p.Write("status", EnumValue("ready")); err == nil {
		t.Fatalf("expected non-writable error, got nil")
	}
	if len(client.writes) != 0 {
		t.Fatalf("expected no writes, got %d", len(client.writes))
	}
}
