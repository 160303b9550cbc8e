package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/finbridge/mt4-gateway/internal/config"
	"github.com/finbridge/mt4-gateway/internal/gate"
	"github.com/finbridge/mt4-gateway/internal/httpapi"
	"github.com/finbridge/mt4-gateway/internal/journal"
	"github.com/finbridge/mt4-gateway/internal/mt4"
)

func newJournal(cfg config.Config) (journal.Journaler, error) {
	switch cfg.JournalDriver {
	case "postgres":
		return journal.NewPostgres(cfg.JournalDSN, cfg.JournalMaxOpen, cfg.JournalMaxIdle)
	case "memory":
		return journal.NewMemory(), nil
	default:
		return journal.NewSQLite(cfg.JournalDSN)
	}
}

func main() {
	cfg := config.Load()

	if !cfg.Mock {
		// The native manager library ships separately and is linked by the
		// embedding host; this binary only carries the in-process mock.
		log.Fatal("No native manager library built in; run with -mock")
	}

	jrnl, err := newJournal(cfg)
	if err != nil {
		log.Fatalf("Failed to open journal (%s): %v", cfg.JournalDriver, err)
	}
	defer jrnl.Close()

	provider := mt4.NewMockProvider()
	session := gate.NewSession(mt4.HostNetwork{}, func() mt4.Provider { return provider }, jrnl)
	session.SettleDelay = cfg.SettleDelay

	if err := session.Initialize(); err != nil {
		log.Fatalf("Failed to initialize session: %s", session.LastError())
	}
	defer session.Shutdown()

	if cfg.Server != "" {
		if err := session.Connect(cfg.Server); err != nil {
			log.Fatalf("Failed to connect to %s: %s", cfg.Server, session.LastError())
		}
		log.Printf("Connected to %s", cfg.Server)

		if cfg.Login != 0 {
			if err := session.Login(cfg.Login, cfg.Password); err != nil {
				log.Fatalf("Failed to login as %d: %s", cfg.Login, session.LastError())
			}
			log.Printf("Logged in as %d", cfg.Login)
		}
	}

	server := httpapi.New(session, cfg.BufferSize)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Listening on %s", cfg.ListenAddr)
		errCh <- server.Run(cfg.ListenAddr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("Received %v, shutting down", sig)
	case err := <-errCh:
		log.Printf("HTTP server stopped: %v", err)
	}
}
