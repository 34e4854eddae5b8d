package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"postflow/internal/agents"
	"postflow/internal/api"
	"postflow/internal/config"
	"postflow/internal/linkedin"
	"postflow/internal/pipeline"
	"postflow/internal/scheduler"
	"postflow/internal/store"
	"postflow/internal/worker"
)

func main() {
	var (
		addr      = flag.String("addr", "", "HTTP bind address (overrides ADDR)")
		tasks     = flag.Int("tasks", 4, "max concurrent background publishes")
		autoSched = flag.Bool("schedule", true, "activate the recurring job at startup")
	)
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	cfg := config.Load()
	if *addr != "" {
		cfg.Addr = *addr
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	st, err := store.Connect(ctx, cfg.MongoURL, cfg.DatabaseName)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("connect store")
	}

	provider, err := agents.NewProvider(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("configure llm provider")
	}

	client := linkedin.NewClient(cfg.LinkedInAccessToken, cfg.LinkedInPersonURN)
	pipe := pipeline.New(
		agents.NewTopicCreator(provider, cfg.SerperAPIKey),
		agents.NewPostWriter(provider),
		agents.NewImageGenerator(cfg.OpenAIAPIKey),
		client,
		st,
	)

	sched := scheduler.NewService(pipe, st, cfg.PublishMode)
	sched.Start()
	if *autoSched {
		jobID, err := sched.Schedule(context.Background())
		if err != nil {
			log.Error().Err(err).Msg("failed to schedule recurring posts")
		} else {
			log.Info().Str("job_id", jobID).Msg("recurring posts active")
		}
	}

	pool := worker.NewPool(*tasks)

	srv := &http.Server{Addr: cfg.Addr, Handler: api.NewServer(st, pipe, sched, pool)}
	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	log.Info().Msg("shutting down")

	ctxTimeout, cancelTimeout := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelTimeout()
	_ = srv.Shutdown(ctxTimeout)
	sched.Shutdown()
	pool.Drain(ctxTimeout)
	_ = st.Close(ctxTimeout)
}
