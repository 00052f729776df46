// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ingest provides the alternate, optional ingest transport: symbol
// samples encoded as InfluxDB line protocol and delivered over NATS, fed
// into the same registry the HTTP add_batch endpoint uses. Disabled unless
// a NATS address is configured.
package ingest

import (
	"context"
	"errors"
	"io"

	influx "github.com/influxdata/line-protocol/v2/lineprotocol"

	"github.com/tc360950/statwindow/internal/config"
	"github.com/tc360950/statwindow/internal/metrics"
	"github.com/tc360950/statwindow/internal/registry"
	"github.com/tc360950/statwindow/pkg/log"
	"github.com/tc360950/statwindow/pkg/nats"
)

// Subscribe establishes the NATS subscription configured in cfg and feeds
// every decoded sample into reg. It returns immediately; delivery happens
// on NATS's own callback goroutine until ctx is cancelled. A nil cfg (no
// address configured) is a no-op, matching the teacher's ReceiveNats
// contract of treating "not configured" as success rather than an error.
func Subscribe(ctx context.Context, cfg *config.Nats, reg *registry.Registry) error {
	if cfg == nil || cfg.Address == "" {
		log.Info("NATS ingest not configured, skipping")
		return nil
	}

	if err := nats.Init(nil); err != nil {
		return err
	}
	nats.Keys.Address = cfg.Address
	nats.Keys.CredsFilePath = cfg.CredsFile

	client, err := nats.NewClient(nil)
	if err != nil {
		return err
	}

	handler := func(subject string, data []byte) {
		dec := influx.NewDecoderWithBytes(data)
		for {
			sample, err := nats.DecodeSymbolMessage(dec)
			if err != nil {
				if errors.Is(err, io.EOF) {
					return
				}
				log.Errorf("NATS ingest: decode error on subject %s: %s", subject, err.Error())
				return
			}

			store, err := reg.GetOrCreate(sample.Symbol)
			if err != nil {
				log.Errorf("NATS ingest: %s", err.Error())
				metrics.AddBatchTotal.WithLabelValues("error").Inc()
				continue
			}
			if err := store.Add([]float64{sample.Value}); err != nil {
				log.Errorf("NATS ingest: %s", err.Error())
				metrics.AddBatchTotal.WithLabelValues("error").Inc()
				continue
			}
			metrics.AddBatchTotal.WithLabelValues("ok").Inc()
			metrics.AddBatchValuesTotal.Inc()
			metrics.SymbolsTracked.Set(float64(reg.Size()))
		}
	}

	if err := client.Subscribe(cfg.Subject, handler); err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		client.Close()
	}()

	return nil
}
