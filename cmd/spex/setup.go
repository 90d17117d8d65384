package main

import (
	"fmt"
	"log"
	"time"

	"github.com/Amogh-Hegde/speX/internal/assistant"
	"github.com/Amogh-Hegde/speX/internal/capture"
	"github.com/Amogh-Hegde/speX/internal/config"
	"github.com/Amogh-Hegde/speX/internal/detector"
	"github.com/Amogh-Hegde/speX/internal/gesture"
	"github.com/Amogh-Hegde/speX/internal/identity"
	"github.com/Amogh-Hegde/speX/internal/objects"
	"github.com/Amogh-Hegde/speX/internal/reader"
	"github.com/Amogh-Hegde/speX/internal/server"
	"github.com/Amogh-Hegde/speX/internal/store"
	"github.com/Amogh-Hegde/speX/internal/voice"
)

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// buildAssistant wires the full system from configuration: camera, voice,
// recognition services, gallery and coordinator. The camera is opened here;
// a camera that cannot open is fatal at startup.
func buildAssistant(cfg *config.Config, st *store.Store, sink assistant.FactSink) (*assistant.Assistant, error) {
	camera := capture.NewCamera(cfg.Camera.DeviceID)
	if err := camera.Open(); err != nil {
		return nil, fmt.Errorf("open camera: %w", err)
	}
	camera.SetFPS(cfg.Camera.FPS)

	faces, err := detector.NewPipeFaceDetector(cfg.Services.FaceCommand)
	if err != nil {
		return nil, fmt.Errorf("face service: %w", err)
	}
	hands, err := detector.NewPipeHandDetector(cfg.Services.HandCommand)
	if err != nil {
		return nil, fmt.Errorf("hand service: %w", err)
	}
	objs, err := detector.NewPipeObjectDetector(cfg.Services.ObjectCommand)
	if err != nil {
		return nil, fmt.Errorf("object service: %w", err)
	}
	ocr, err := detector.NewPipeTextReader(cfg.Services.OCRCommand)
	if err != nil {
		return nil, fmt.Errorf("ocr service: %w", err)
	}

	vc, err := voice.NewExecVoice(cfg.Voice.SpeakCommand, cfg.Voice.ListenCommand)
	if err != nil {
		return nil, fmt.Errorf("voice: %w", err)
	}

	// A missing gallery degrades to everyone-unknown, it never blocks the
	// session.
	var known []identity.Known
	if st != nil {
		known, err = st.Identities().LoadGallery()
		if err != nil {
			log.Printf("could not load identity gallery: %v", err)
			known = nil
		}
	}
	if len(known) == 0 {
		log.Println("No trained identity gallery found; all faces will be reported as unknown")
	} else {
		log.Printf("Loaded %d gallery records", len(known))
	}

	var motion *capture.MotionDetector
	if cfg.Camera.MotionGate {
		motion = capture.NewMotionDetector(cfg.Camera.MotionThreshold)
	}

	return assistant.New(assistant.Config{
		Camera:  camera,
		Voice:   vc,
		Faces:   faces,
		Hands:   hands,
		Objects: objs,
		Reader:  reader.New(ocr),
		Resolver: identity.NewResolver(identity.NewGallery(known), identity.Config{
			Threshold: cfg.Recognition.Threshold,
			Cooldown:  seconds(cfg.Recognition.CooldownSeconds),
		}),
		Gestures: gesture.NewClassifier(gesture.Config{
			Inactivity:       seconds(cfg.Gesture.InactivitySeconds),
			HistorySize:      cfg.Gesture.HistorySize,
			WaveVariance:     cfg.Gesture.WaveVariance,
			NamasteTolerance: cfg.Gesture.NamasteTolerance,
		}),
		Triage: objects.NewTriage(objects.Config{
			ConfidenceFloor: cfg.Objects.ConfidenceFloor,
			IoUThreshold:    cfg.Objects.IoUThreshold,
			Retention:       seconds(cfg.Objects.RetentionSeconds),
		}),
		Motion:          motion,
		Sink:            sink,
		MonitorInterval: time.Duration(cfg.Assistant.MonitorIntervalMs) * time.Millisecond,
		IdleTimeout:     seconds(cfg.Assistant.IdleTimeoutSeconds),
		ListenTimeout:   seconds(cfg.Assistant.ListenSeconds),
		PhraseLimit:     seconds(cfg.Assistant.PhraseLimitSeconds),
	}), nil
}

// startServer launches the status server in the background.
func startServer(cfg *config.Config, st *store.Store, facts *server.FactsHandler, frames server.FrameProvider) {
	srv := server.New(server.Config{
		Store:  st,
		Facts:  facts,
		Frames: frames,
	})

	go func() {
		log.Printf("Status server listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(cfg.Server.Addr); err != nil {
			log.Printf("status server stopped: %v", err)
		}
	}()
}
