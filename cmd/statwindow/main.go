// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package main

import (
	"context"
	"flag"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/gops/agent"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/tc360950/statwindow/internal/api"
	"github.com/tc360950/statwindow/internal/config"
	"github.com/tc360950/statwindow/internal/ingest"
	"github.com/tc360950/statwindow/internal/metrics"
	"github.com/tc360950/statwindow/internal/registry"
	"github.com/tc360950/statwindow/internal/reporter"
	"github.com/tc360950/statwindow/pkg/log"
	"github.com/tc360950/statwindow/pkg/runtimeEnv"
)

func main() {
	var flagConfigFile string
	var flagGops bool
	flag.StringVar(&flagConfigFile, "config", "./config.json", "Overwrite the default config options by those specified in `config.json`")
	flag.BoolVar(&flagGops, "gops", false, "Listen via github.com/google/gops/agent (for debugging)")
	flag.Parse()

	// See https://github.com/google/gops (runtime overhead is almost zero)
	if flagGops {
		if err := agent.Listen(agent.Options{}); err != nil {
			log.Fatalf("gops/agent.Listen failed: %s", err.Error())
		}
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("loading './.env' failed: %s", err.Error())
	}

	if err := config.Init(flagConfigFile); err != nil {
		log.Fatalf("config init failed: %s", err.Error())
	}
	log.SetLogLevel(config.Keys.LogLevel)

	reg := registry.New(config.Keys.MaxLen)

	ctx, cancel := context.WithCancel(context.Background())
	if err := ingest.Subscribe(ctx, config.Keys.Nats, reg); err != nil {
		log.Fatalf("NATS ingest setup failed: %s", err.Error())
	}

	if err := reporter.Start(reg, config.Keys.ReportInterval); err != nil {
		log.Fatalf("reporter start failed: %s", err.Error())
	}

	r := mux.NewRouter()
	restApi := &api.RestApi{Registry: reg}
	restApi.MountRoutes(r)
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	limiter := rate.NewLimiter(rate.Limit(1000), 2000)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
			if strings.HasPrefix(req.URL.Path, "/api/add_batch") && !limiter.Allow() {
				rw.Header().Set("Content-Type", "application/json")
				rw.WriteHeader(http.StatusTooManyRequests)
				rw.Write([]byte(`{"detail": "rate limit exceeded"}`))
				return
			}
			next.ServeHTTP(rw, req)
		})
	})
	r.Use(handlers.CompressHandler)
	r.Use(handlers.RecoveryHandler(handlers.PrintRecoveryStack(true)))

	handler := handlers.CustomLoggingHandler(io.Discard, r, func(_ io.Writer, params handlers.LogFormatterParams) {
		log.Infof("%s %s (%d, %.02fkb, %dms)",
			params.Request.Method, params.URL.RequestURI(),
			params.StatusCode, float32(params.Size)/1024,
			time.Since(params.TimeStamp).Milliseconds())
	})

	server := http.Server{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		Handler:      handler,
		Addr:         config.Keys.Addr,
	}

	listener, err := net.Listen("tcp", config.Keys.Addr)
	if err != nil {
		log.Fatal(err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("HTTP server listening at %s...", config.Keys.Addr)
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	runtimeEnv.SystemdNotifiy(true, "running")

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	runtimeEnv.SystemdNotifiy(false, "shutting down")
	cancel()
	reporter.Shutdown()
	server.Shutdown(context.Background())
	wg.Wait()
}
