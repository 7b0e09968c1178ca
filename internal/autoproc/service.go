// internal/autoproc/service.go
package autoproc

import (
	"context"

	"github.com/mxberg/beamline-bridge/internal/collect"
)

// Service ties the input builder and the dispatcher together for the
// collection workflow.
type Service struct {
	Builder    *InputBuilder
	Dispatcher *Dispatcher
}

// NewService creates a service over the configured program table with
// default wait timings.
func NewService(programs []Program) *Service {
	return &Service{
		Builder:    &InputBuilder{},
		Dispatcher: NewDispatcher(programs),
	}
}

// Execute runs the autoprocessing sequence for one collection event.
//
// For "after" the input descriptor is created first; the program is
// only dispatched when the descriptor was written and runProcessing is
// set. Other event kinds dispatch directly. Returns the descriptor
// path when one was written.
func (s *Service) Execute(ctx context.Context, eventKind string, p collect.Params, frame int, runProcessing bool) (string, error) {
	if eventKind == EventAfter {
		inputPath, err := s.Builder.CreateInput(ctx, p)
		if err != nil {
			return "", err
		}
		if !runProcessing {
			return inputPath, nil
		}
		return inputPath, s.Dispatcher.Dispatch(eventKind, p, frame)
	}

	if !runProcessing {
		return "", nil
	}
	return "", s.Dispatcher.Dispatch(eventKind, p, frame)
}
