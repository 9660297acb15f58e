// Command zenflow is the terminal client for the ZenFlow yoga backend.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"zenflow/internal/api"
	"zenflow/internal/bus"
	"zenflow/internal/config"
	"zenflow/internal/logging"
	"zenflow/internal/session"
	"zenflow/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "zenflow:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logging.Open(cfg.LogFile)
	if err != nil {
		log = logging.Discard()
	}
	defer log.Close()

	store := session.NewStore(cfg.DataDir)
	client := api.New(cfg.BackendURL, func() string {
		_, token, _ := store.Load()
		return token
	})

	b := bus.New()
	defer b.Close()

	app := tui.NewApp(client, store, b, log)
	p := tea.NewProgram(app, tea.WithAltScreen())

	// Broadcasts are published from command goroutines; forward them into
	// the program loop as messages.
	events := b.Subscribe()
	go func() {
		for ev := range events {
			p.Send(tui.BusMsg(ev))
		}
	}()

	log.Info("starting", "backend", cfg.BackendURL, "data_dir", cfg.DataDir)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
