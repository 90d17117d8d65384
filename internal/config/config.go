// Package config loads the assistant configuration from a TOML file.
// Every field has a default so that a missing file still yields a runnable
// configuration.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type CameraConfig struct {
	DeviceID        int     `toml:"device_id"`
	FPS             int     `toml:"fps"`
	MotionGate      bool    `toml:"motion_gate"`
	MotionThreshold float64 `toml:"motion_threshold"`
}

type RecognitionConfig struct {
	Threshold       float64 `toml:"threshold"`
	CooldownSeconds float64 `toml:"cooldown_seconds"`
}

type GestureConfig struct {
	InactivitySeconds float64 `toml:"inactivity_seconds"`
	HistorySize       int     `toml:"history_size"`
	WaveVariance      float64 `toml:"wave_variance"`
	NamasteTolerance  float64 `toml:"namaste_tolerance"`
}

type ObjectsConfig struct {
	ConfidenceFloor  float64 `toml:"confidence_floor"`
	IoUThreshold     float64 `toml:"iou_threshold"`
	RetentionSeconds float64 `toml:"retention_seconds"`
}

type AssistantConfig struct {
	MonitorIntervalMs  int     `toml:"monitor_interval_ms"`
	IdleTimeoutSeconds float64 `toml:"idle_timeout_seconds"`
	ListenSeconds      float64 `toml:"listen_seconds"`
	PhraseLimitSeconds float64 `toml:"phrase_limit_seconds"`
}

type VoiceConfig struct {
	SpeakCommand  []string `toml:"speak_command"`
	ListenCommand []string `toml:"listen_command"`
}

type ServicesConfig struct {
	FaceCommand   []string `toml:"face_command"`
	HandCommand   []string `toml:"hand_command"`
	ObjectCommand []string `toml:"object_command"`
	OCRCommand    []string `toml:"ocr_command"`
}

type ServerConfig struct {
	Enabled bool   `toml:"enabled"`
	Addr    string `toml:"addr"`
}

type StoreConfig struct {
	Path string `toml:"path"`
}

type Config struct {
	Camera      CameraConfig      `toml:"camera"`
	Recognition RecognitionConfig `toml:"recognition"`
	Gesture     GestureConfig     `toml:"gesture"`
	Objects     ObjectsConfig     `toml:"objects"`
	Assistant   AssistantConfig   `toml:"assistant"`
	Voice       VoiceConfig       `toml:"voice"`
	Services    ServicesConfig    `toml:"services"`
	Server      ServerConfig      `toml:"server"`
	Store       StoreConfig       `toml:"store"`
}

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	return &Config{
		Camera: CameraConfig{
			DeviceID:        0,
			FPS:             15,
			MotionGate:      false,
			MotionThreshold: 1.0,
		},
		Recognition: RecognitionConfig{
			Threshold:       0.6,
			CooldownSeconds: 5,
		},
		Gesture: GestureConfig{
			InactivitySeconds: 2,
			HistorySize:       30,
			WaveVariance:      500,
			NamasteTolerance:  20,
		},
		Objects: ObjectsConfig{
			ConfidenceFloor:  0.5,
			IoUThreshold:     0.4,
			RetentionSeconds: 5,
		},
		Assistant: AssistantConfig{
			MonitorIntervalMs:  100,
			IdleTimeoutSeconds: 300,
			ListenSeconds:      5,
			PhraseLimitSeconds: 5,
		},
		Voice: VoiceConfig{
			SpeakCommand:  []string{"espeak-ng"},
			ListenCommand: []string{"python3", "services/listen_service.py"},
		},
		Services: ServicesConfig{
			FaceCommand:   []string{"python3", "services/face_service.py"},
			HandCommand:   []string{"python3", "services/hand_service.py"},
			ObjectCommand: []string{"python3", "services/object_service.py"},
			OCRCommand:    []string{"python3", "services/ocr_service.py"},
		},
		Server: ServerConfig{
			Enabled: false,
			Addr:    ":8080",
		},
		Store: StoreConfig{
			Path: "spex.db",
		},
	}
}

// Load reads the TOML file at path over the defaults. A missing file is not
// an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

// applyDefaults backfills zero values left by a partial file.
func applyDefaults(cfg *Config) {
	def := Default()

	if cfg.Camera.FPS <= 0 {
		cfg.Camera.FPS = def.Camera.FPS
	}
	if cfg.Camera.MotionThreshold <= 0 {
		cfg.Camera.MotionThreshold = def.Camera.MotionThreshold
	}
	if cfg.Recognition.Threshold <= 0 {
		cfg.Recognition.Threshold = def.Recognition.Threshold
	}
	if cfg.Recognition.CooldownSeconds <= 0 {
		cfg.Recognition.CooldownSeconds = def.Recognition.CooldownSeconds
	}
	if cfg.Gesture.InactivitySeconds <= 0 {
		cfg.Gesture.InactivitySeconds = def.Gesture.InactivitySeconds
	}
	if cfg.Gesture.HistorySize <= 0 {
		cfg.Gesture.HistorySize = def.Gesture.HistorySize
	}
	if cfg.Gesture.WaveVariance <= 0 {
		cfg.Gesture.WaveVariance = def.Gesture.WaveVariance
	}
	if cfg.Gesture.NamasteTolerance <= 0 {
		cfg.Gesture.NamasteTolerance = def.Gesture.NamasteTolerance
	}
	if cfg.Objects.ConfidenceFloor <= 0 {
		cfg.Objects.ConfidenceFloor = def.Objects.ConfidenceFloor
	}
	if cfg.Objects.IoUThreshold <= 0 {
		cfg.Objects.IoUThreshold = def.Objects.IoUThreshold
	}
	if cfg.Objects.RetentionSeconds <= 0 {
		cfg.Objects.RetentionSeconds = def.Objects.RetentionSeconds
	}
	if cfg.Assistant.MonitorIntervalMs <= 0 {
		cfg.Assistant.MonitorIntervalMs = def.Assistant.MonitorIntervalMs
	}
	if cfg.Assistant.IdleTimeoutSeconds <= 0 {
		cfg.Assistant.IdleTimeoutSeconds = def.Assistant.IdleTimeoutSeconds
	}
	if cfg.Assistant.ListenSeconds <= 0 {
		cfg.Assistant.ListenSeconds = def.Assistant.ListenSeconds
	}
	if cfg.Assistant.PhraseLimitSeconds <= 0 {
		cfg.Assistant.PhraseLimitSeconds = def.Assistant.PhraseLimitSeconds
	}
	if len(cfg.Voice.SpeakCommand) == 0 {
		cfg.Voice.SpeakCommand = def.Voice.SpeakCommand
	}
	if len(cfg.Voice.ListenCommand) == 0 {
		cfg.Voice.ListenCommand = def.Voice.ListenCommand
	}
	if len(cfg.Services.FaceCommand) == 0 {
		cfg.Services.FaceCommand = def.Services.FaceCommand
	}
	if len(cfg.Services.HandCommand) == 0 {
		cfg.Services.HandCommand = def.Services.HandCommand
	}
	if len(cfg.Services.ObjectCommand) == 0 {
		cfg.Services.ObjectCommand = def.Services.ObjectCommand
	}
	if len(cfg.Services.OCRCommand) == 0 {
		cfg.Services.OCRCommand = def.Services.OCRCommand
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = def.Server.Addr
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = def.Store.Path
	}
}
