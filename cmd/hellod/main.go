package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dqx0.com/go/hellod/httpx"
	"dqx0.com/go/hellod/internal/obs"
)

const (
	port          = ":8081"
	drainDeadline = 5 * time.Second
)

func main() {
	os.Exit(run())
}

func run() int {
	lg := obs.NewConsoleLogger(obs.Info, "hellod ")
	meter := obs.NewPromMeter(nil)
	s := &httpx.Server{
		Addr:    port,
		Handler: newRouter(),
		Logger:  lg,
		Meter:   meter,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- s.ListenAndServe() }()

	select {
	case err := <-errc:
		lg.Logf(obs.Error, "%v", err)
		return 1
	case <-ctx.Done():
	}

	lg.Logf(obs.Info, "shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), drainDeadline)
	defer cancel()
	if err := s.Shutdown(sctx); err != nil {
		lg.Logf(obs.Warn, "shutdown: %v", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, httpx.ErrServerClosed) {
		lg.Logf(obs.Error, "%v", err)
		return 1
	}
	samples, err := meter.Snapshot()
	if err != nil {
		lg.Logf(obs.Warn, "metrics: %v", err)
	}
	for _, smp := range samples {
		lg.Logf(obs.Info, "%s %g", smp.Series, smp.Value)
	}
	return 0
}
