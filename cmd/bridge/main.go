// cmd/bridge/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mxberg/beamline-bridge/internal/autoproc"
	"github.com/mxberg/beamline-bridge/internal/channel"
	"github.com/mxberg/beamline-bridge/internal/config"
	"github.com/mxberg/beamline-bridge/internal/detector"
	"github.com/mxberg/beamline-bridge/internal/event"
	"github.com/mxberg/beamline-bridge/internal/trigger"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: bridge <config.yaml>")
	}

	cfgPath := os.Args[1]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}

	config.Normalize(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Channel provider
	// --------------------

	p, hub, closeClient, err := channel.Build(cfg.Bridge)
	if err != nil {
		log.Fatalf("channel build failed: %v", err)
	}
	defer func() { _ = closeClient() }()

	// --------------------
	// Detector adapter
	// --------------------

	emitter := event.NewFanout()
	emitter.Listen(func(name string, args []interface{}) {
		log.Printf("event %s %v", name, args)
	})

	det := detector.New(
		detector.Config{
			CollectName:       cfg.Bridge.Detector.CollectName,
			ShutterName:       cfg.Bridge.Detector.ShutterName,
			Tolerance:         cfg.Bridge.Detector.Tolerance,
			TempThreshold:     cfg.Bridge.Detector.TempThreshold,
			HumidityThreshold: cfg.Bridge.Detector.HumidityThreshold,
			PixelMin:          cfg.Bridge.Detector.PixelMin,
			PixelMax:          cfg.Bridge.Detector.PixelMax,
			RoiModes:          cfg.Bridge.Detector.RoiModes,
			HasShutterless:    cfg.Bridge.Detector.HasShutterless,
			Channels: detector.Channels{
				Temperature:     cfg.Bridge.Detector.Channels.Temperature,
				Humidity:        cfg.Bridge.Detector.Channels.Humidity,
				Status:          cfg.Bridge.Detector.Channels.Status,
				RoiMode:         cfg.Bridge.Detector.Channels.RoiMode,
				FrameRate:       cfg.Bridge.Detector.Channels.FrameRate,
				ActualFrameRate: cfg.Bridge.Detector.Channels.ActualFrameRate,
				BeamXY:          cfg.Bridge.Detector.Channels.BeamXY,
			},
		},
		hub,
		detector.NewChannelMotor(hub,
			cfg.Bridge.Detector.Distance.Channel,
			cfg.Bridge.Detector.Distance.LimitLow,
			cfg.Bridge.Detector.Distance.LimitHigh,
		),
		emitter,
	)
	det.Attach()
	defer det.Detach()

	// --------------------
	// Autoprocessing
	// --------------------

	programs := make([]autoproc.Program, 0, len(cfg.Bridge.AutoProc.Programs))
	for _, pr := range cfg.Bridge.AutoProc.Programs {
		programs = append(programs, autoproc.Program{
			Event:      pr.Event,
			Executable: pr.Executable,
		})
	}
	svc := autoproc.NewService(programs)

	// --------------------
	// Orchestrator (serial dispatch of channel updates)
	// --------------------

	out := make(chan channel.PollResult)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case res := <-out:
				if res.Err != nil {
					log.Printf("poll failed: %v", res.Err)
					continue
				}
				for _, u := range res.Updates {
					hub.Publish(u)
				}
			}
		}
	}()

	go p.Run(ctx, out)

	// --------------------
	// Collection-event trigger listener
	// --------------------

	srv := trigger.New(
		&collectionHandler{svc: svc},
		time.Duration(cfg.Bridge.Trigger.TimeoutMs)*time.Millisecond,
	)

	addr, err := srv.Listen(cfg.Bridge.Trigger.Listen)
	if err != nil {
		log.Fatalf("trigger listen failed: %v", err)
	}
	log.Printf("bridge: listening for collection events on %s", addr)

	if err := srv.Serve(ctx); err != nil {
		log.Fatalf("trigger serve failed: %v", err)
	}
}

// collectionHandler runs the autoprocessing sequence for each
// collection event received from the workflow.
type collectionHandler struct {
	svc *autoproc.Service
}

func (h *collectionHandler) HandleCollectionEvent(ctx context.Context, req trigger.Request) trigger.Response {
	inputFile, err := h.svc.Execute(ctx, req.Event, req.Params, req.Frame, req.RunProcessing)
	if err != nil {
		return trigger.Response{OK: false, InputFile: inputFile, Error: err.Error()}
	}
	return trigger.Response{OK: true, InputFile: inputFile}
}
