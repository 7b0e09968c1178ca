// internal/autoproc/input.go
package autoproc

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/mxberg/beamline-bridge/internal/collect"
)

// PrerequisiteName is the control file whose appearance in the
// processing directory signals readiness to proceed.
const PrerequisiteName = "XDS.INP"

const (
	defaultWaitTimeout  = 20 * time.Second
	defaultWaitInterval = 1 * time.Second
)

// ErrPrerequisiteTimeout reports that the prerequisite file never
// reached non-zero size within the wait window. No descriptor is
// written in that case.
var ErrPrerequisiteTimeout = errors.New("autoproc: prerequisite file timeout")

// InputBuilder builds descriptor files once the prerequisite control
// file is present.
type InputBuilder struct {
	// WaitTimeout/WaitInterval default to 20 s / 1 s when zero.
	WaitTimeout  time.Duration
	WaitInterval time.Duration

	// now is stubbed in tests to pin filename timestamps.
	now func() time.Time
}

// CreateInput builds the descriptor for one collection, waits for the
// prerequisite file and serializes the descriptor next to it.
// Returns the written descriptor path. On timeout nothing is written
// and the error wraps ErrPrerequisiteTimeout; the caller decides
// whether to proceed.
func (b *InputBuilder) CreateInput(ctx context.Context, p collect.Params) (string, error) {
	timeout := b.WaitTimeout
	if timeout == 0 {
		timeout = defaultWaitTimeout
	}
	interval := b.WaitInterval
	if interval == 0 {
		interval = defaultWaitInterval
	}
	now := b.now
	if now == nil {
		now = time.Now
	}

	stamp := now().Format("20060102_150405")

	dir := p.ProcessDirectory
	prerequisite := filepath.Join(dir, PrerequisiteName)
	inputPath := filepath.Join(dir, fmt.Sprintf("edna-autoproc-input-%s.xml", stamp))
	outputPath := filepath.Join(dir, fmt.Sprintf("edna-autoproc-results-%s.xml", stamp))

	desc := NewDescriptor(p, prerequisite, outputPath)

	log.Printf("autoproc: waiting for prerequisite file %s", prerequisite)
	if err := waitForFile(ctx, prerequisite, interval, timeout); err != nil {
		if errors.Is(err, ErrPrerequisiteTimeout) {
			log.Printf("autoproc: prerequisite file %s failed to appear within %s",
				prerequisite, timeout)
		}
		return "", err
	}

	data, err := desc.Marshal()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(inputPath, data, 0o644); err != nil {
		return "", fmt.Errorf("autoproc: write descriptor: %w", err)
	}

	return inputPath, nil
}

// waitForFile polls until the file exists with non-zero size. The
// ticker keeps the wait cooperative: the goroutine yields between
// checks instead of busy-looping.
func waitForFile(ctx context.Context, path string, interval, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if fi, err := os.Stat(path); err == nil && fi.Size() > 0 {
			log.Printf("autoproc: prerequisite file present, size=%d", fi.Size())
			return nil
		}
		if time.Now().After(deadline) {
			return ErrPrerequisiteTimeout
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
