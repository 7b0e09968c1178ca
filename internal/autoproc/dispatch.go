// internal/autoproc/dispatch.go
package autoproc

import (
	"fmt"
	"log"
	"os"
	"os/exec"

	"github.com/google/uuid"

	"github.com/mxberg/beamline-bridge/internal/collect"
)

// Collection event kinds a program can be bound to.
const (
	EventAfter  = "after"
	EventBefore = "before"
	EventImage  = "image"
)

// Program binds one event kind to an external executable.
type Program struct {
	Event      string
	Executable string
}

// Dispatcher launches the external program bound to a collection
// event. Fire-and-forget: launches are detached and never awaited,
// their output is discarded, there are no retries.
type Dispatcher struct {
	programs []Program

	// launch is stubbed in tests. Default runs the command line
	// through the shell, detached.
	launch func(line string) error
}

// NewDispatcher creates a dispatcher over the configured program table.
func NewDispatcher(programs []Program) *Dispatcher {
	return &Dispatcher{programs: programs, launch: launchDetached}
}

// Dispatch looks up the program for an event kind, builds its trailing
// arguments from the collection parameters and launches it. All
// failures are advisory: logged, returned, never fatal.
func (d *Dispatcher) Dispatch(eventKind string, p collect.Params, frame int) error {
	prog, ok := d.find(eventKind)
	if !ok {
		err := fmt.Errorf("autoproc: no program configured for event %q", eventKind)
		log.Printf("%v", err)
		return err
	}

	if fi, err := os.Stat(prog.Executable); err != nil || fi.IsDir() {
		err = fmt.Errorf("autoproc: no program to execute found (%s)", prog.Executable)
		log.Printf("%v", err)
		return err
	}

	var tail string
	switch eventKind {
	case EventAfter:
		tail = " " + p.ProcessDirectory

	case EventImage:
		// Thumbnails are generated for the first and last frame only.
		if frame != 1 && frame != p.NumberOfImages {
			return nil
		}
		tail = fmt.Sprintf(" %s %s/%s_%d_%05d.cbf",
			p.ImageDirectory, p.ImageDirectory, p.Prefix, p.RunNumber, frame)

	case EventBefore:
		// Launched with no trailing arguments.

	default:
		err := fmt.Errorf("autoproc: unknown event %q", eventKind)
		log.Printf("%v", err)
		return err
	}

	launchID := uuid.NewString()
	log.Printf("autoproc: launch %s event=%s line=%q", launchID, eventKind, prog.Executable+tail)

	if err := d.launch(prog.Executable + tail); err != nil {
		err = fmt.Errorf("autoproc: launch %s failed: %w", launchID, err)
		log.Printf("%v", err)
		return err
	}

	return nil
}

func (d *Dispatcher) find(eventKind string) (Program, bool) {
	for _, prog := range d.programs {
		if prog.Event == eventKind {
			return prog, true
		}
	}
	return Program{}, false
}

// launchDetached starts the command line through the shell and
// releases the child so it runs unsupervised.
func launchDetached(line string) error {
	cmd := exec.Command("/bin/sh", "-c", line)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}
