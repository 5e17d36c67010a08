// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/absmach/certkit"
	"github.com/absmach/certkit/api"
	httpapi "github.com/absmach/certkit/api/http"
	"github.com/absmach/certkit/disk"
	jaegerClient "github.com/absmach/certkit/internal/jaeger"
	"github.com/absmach/certkit/internal/prometheus"
	"github.com/absmach/certkit/internal/server"
	httpserver "github.com/absmach/certkit/internal/server/http"
	"github.com/absmach/certkit/internal/uuid"
	"github.com/absmach/certkit/render"
	"github.com/absmach/certkit/tracing"
	"github.com/caarlos0/env/v10"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	svcName        = "certkit"
	envPrefixHTTP  = "CERTKIT_HTTP_"
	defSvcHTTPPort = "9010"
)

type config struct {
	LogLevel     string  `env:"CERTKIT_LOG_LEVEL"         envDefault:"info"`
	ArtifactsDir string  `env:"CERTKIT_ARTIFACTS_DIR"     envDefault:"./certs"`
	JaegerURL    url.URL `env:"CERTKIT_JAEGER_URL"        envDefault:"http://jaeger:4318"`
	InstanceID   string  `env:"CERTKIT_INSTANCE_ID"       envDefault:""`
	TraceRatio   float64 `env:"CERTKIT_JAEGER_TRACE_RATIO" envDefault:"1.0"`
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	cfg := config{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to load %s configuration : %s", svcName, err)
	}

	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf(err.Error())
	}

	if cfg.InstanceID == "" {
		cfg.InstanceID, err = uuid.New().ID()
		if err != nil {
			log.Fatalf(fmt.Sprintf("failed to generate instance ID: %s", err))
		}
	}

	tp, err := jaegerClient.NewProvider(ctx, svcName, cfg.JaegerURL, cfg.InstanceID, cfg.TraceRatio)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to init Jaeger: %s", err))
	}
	defer func() {
		if tp == nil {
			return
		}
		if err := tp.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("Error shutting down tracer provider: %v", err))
		}
	}()

	httpServerConfig := server.Config{Port: defSvcHTTPPort}
	if err := env.ParseWithOptions(&httpServerConfig, env.Options{Prefix: envPrefixHTTP}); err != nil {
		logger.Error(fmt.Sprintf("failed to load %s HTTP server configuration : %s", svcName, err))
	}

	var tracer trace.Tracer
	if tp != nil {
		tracer = tp.Tracer(svcName)
	}

	svc, err := newService(cfg.ArtifactsDir, tracer, logger)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to create %s service: %s", svcName, err))
		return
	}

	hs := httpserver.NewServer(ctx, cancel, svcName, httpServerConfig, httpapi.MakeHandler(chi.NewMux(), svc, logger, cfg.InstanceID), logger)

	g.Go(func() error {
		return hs.Start()
	})

	g.Go(func() error {
		return server.StopSignalHandler(ctx, cancel, logger, svcName, hs)
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("%s service terminated: %s", svcName, err))
	}
}

func newService(artifactsDir string, tracer trace.Tracer, logger *slog.Logger) (certkit.Service, error) {
	store, err := disk.NewStore(artifactsDir)
	if err != nil {
		return nil, err
	}
	svc := certkit.NewService(store, render.NewRenderer())
	svc = api.LoggingMiddleware(svc, logger)
	counter, latency := prometheus.MakeMetrics(svcName, "api")
	svc = api.MetricsMiddleware(svc, counter, latency)
	if tracer != nil {
		svc = tracing.New(svc, tracer)
	}

	return svc, nil
}

func initLogger(levelText string) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelText)); err != nil {
		return &slog.Logger{}, fmt.Errorf(`{"level":"error","message":"%s: %s","ts":"%s"}`, err, levelText, time.RFC3339Nano)
	}

	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(logHandler), nil
}
