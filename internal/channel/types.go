// internal/channel/types.go
package channel

import "time"

// Kind identifies the decoded shape of a channel value.
type Kind int

const (
	KindFloat Kind = iota // one register, scaled
	KindEnum              // one register, mapped through an enum table
	KindPair              // two registers, scaled (e.g. beam position)
)

// Value is one decoded channel reading.
// Exactly one of the payload fields is meaningful depending on Kind.
type Value struct {
	Kind  Kind
	Float float64
	Str   string
	Pair  [2]float64
}

// FloatValue builds a float-kind Value.
func FloatValue(v float64) Value { return Value{Kind: KindFloat, Float: v} }

// EnumValue builds an enum-kind Value.
func EnumValue(s string) Value { return Value{Kind: KindEnum, Str: s} }

// PairValue builds a pair-kind Value.
func PairValue(x, y float64) Value { return Value{Kind: KindPair, Pair: [2]float64{x, y}} }

// Update is one named channel reading produced by a poll cycle.
type Update struct {
	Name  string
	Value Value
	At    time.Time
}

// Binding describes one channel's register geometry and decode rule.
type Binding struct {
	Name    string
	Address uint16
	Kind    Kind
	Scale   float64

	// Enum maps raw register values to strings. KindEnum only.
	Enum map[uint16]string

	// Writable channels accept Provider.Write.
	Writable bool
}

// PollResult is a snapshot produced by one poll cycle.
// All-or-nothing: Err non-nil means the whole cycle failed.
type PollResult struct {
	At      time.Time
	Updates []Update
	Err     error
}

// Provider is the channel surface consumed by hardware adapters.
// Subscribe registers an update callback and returns an unsubscribe handle.
// Callbacks are invoked serially from the orchestrator goroutine.
type Provider interface {
	Subscribe(name string, fn func(Value)) (func(), error)
	Read(name string) (Value, error)
	Write(name string, v Value) error
}
