package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"beltforge/internal/persistence/indexdb"
	"beltforge/internal/persistence/save"
	"beltforge/internal/scenario"
	"beltforge/internal/sim/session"
	"beltforge/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		sessionID  = flag.String("session", "session_1", "session id")
		tickRate   = flag.Int("tick_rate", 60, "simulation tick rate (hz)")
		configPath = flag.String("config", "./configs/scenario.yaml", "scenario config path")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		disableDB  = flag.Bool("disable_db", false, "disable the save index db")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	cfg, err := scenario.LoadConfig(*configPath)
	if err != nil {
		logger.Fatalf("load scenario config: %v", err)
	}

	var idx *indexdb.DB
	if !*disableDB {
		idx, err = indexdb.Open(filepath.Join(*dataDir, "index.db"))
		if err != nil {
			logger.Fatalf("open index db: %v", err)
		}
		defer idx.Close()
	}
	writer := save.NewWriter(*dataDir, idx, logger)

	sess := session.New(session.Config{
		ID:         *sessionID,
		TickRateHz: *tickRate,
	}, writer, logger)

	sched := scenario.NewScheduler(cfg, sess, logger)
	sess.OnTick(sched.HandleTick)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		logger.Printf("shutting down")
		cancel()
	}()

	wsServer := ws.NewServer(sess, logger)
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/ws", wsServer.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	httpServer := &http.Server{Addr: *addr, Handler: mux}
	go func() {
		<-ctx.Done()
		_ = httpServer.Close()
	}()
	go func() {
		logger.Printf("listening on %s", *addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http: %v", err)
		}
	}()

	if err := sess.Run(ctx); err != nil && err != context.Canceled {
		logger.Fatalf("session loop: %v", err)
	}
}
