package main

import (
	"fmt"
	"log"
	"os"

	"studentkeep/api/server"
	"studentkeep/core/audit"
	"studentkeep/core/auth"
	"studentkeep/core/config"
	"studentkeep/core/ledger"
	"studentkeep/core/notify"
	"studentkeep/core/storage"
)

func main() {
	cfg := config.FromEnv()

	fmt.Println("Starting StudentKeep node")

	var store storage.StateStore
	if cfg.DBPath == "" {
		fmt.Println("[store] DB_PATH unset, using in-memory store (state is lost on exit)")
		store = storage.NewMemory()
	} else {
		ldb, err := storage.OpenLevelDB(cfg.DBPath)
		if err != nil {
			log.Fatalf("open store at %s: %v", cfg.DBPath, err)
		}
		store = ldb
		fmt.Printf("[store] leveldb open at %s\n", cfg.DBPath)
	}
	defer store.Close()

	auditor := audit.NewStdoutAuditLogger()
	feed := notify.NewFeed(cfg.NotifyFeedSize)
	var emitter notify.Emitter = feed
	if cfg.Env != "production" {
		emitter = notify.Multi{feed, notify.LogEmitter{}}
	}

	ldg := ledger.New(ledger.Config{
		Store:          store,
		Emitter:        emitter,
		AuditLogger:    auditor,
		RangeScanLimit: cfg.RangeScanLimit,
	})

	registry, err := ledger.NewRegistry()
	if err != nil {
		log.Fatalf("operation registry: %v", err)
	}

	if cfg.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "warning: JWT_SECRET not set, bearer tokens will be rejected")
	}
	if cfg.JWTSecret == "" && cfg.APIKey == "" {
		fmt.Fprintln(os.Stderr, "warning: neither JWT_SECRET nor API_KEY set, all calls will be rejected")
	}

	srv := server.NewServer(server.Options{
		ListenAddr:  cfg.ListenAddr,
		Ledger:      ldg,
		Registry:    registry,
		Store:       store,
		Feed:        feed,
		Verifier:    auth.NewVerifier(cfg.JWTSecret, auditor),
		APIKey:      cfg.APIKey,
		AuditLogger: auditor,
	})

	if err := srv.Start(); err != nil {
		log.Fatalf("gateway: %v", err)
	}
}
