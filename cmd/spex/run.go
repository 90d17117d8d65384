package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Amogh-Hegde/speX/internal/assistant"
	"github.com/Amogh-Hegde/speX/internal/config"
	"github.com/Amogh-Hegde/speX/internal/server"
	"github.com/Amogh-Hegde/speX/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive voice assistant",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession(func(a *assistant.Assistant) error {
			return a.Run()
		})
	},
}

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Run only the background environment monitor",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSession(func(a *assistant.Assistant) error {
			return a.RunMonitor()
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(monitorCmd)
}

// runSession wires the system, installs signal handling and runs the given
// session body until it returns.
func runSession(body func(*assistant.Assistant) error) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	st, err := store.New(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Settings().Set(store.SettingLastSessionStart, time.Now().Format(time.RFC3339)); err != nil {
		log.Printf("could not record session start: %v", err)
	}

	var facts *server.FactsHandler
	var sink assistant.FactSink
	if cfg.Server.Enabled {
		facts = server.NewFactsHandler()
		sink = facts
	}

	a, err := buildAssistant(cfg, st, sink)
	if err != nil {
		return err
	}

	if cfg.Server.Enabled {
		startServer(cfg, st, facts, a.CaptureFrame)
	}

	// Both SIGINT and SIGTERM go through the same idempotent cleanup as
	// the exit command and the idle timeout.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Interrupted, shutting down")
		a.Shutdown()
	}()

	err = body(a)
	a.Shutdown()
	return err
}
