// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package reporter runs the periodic registry-size observability job,
// scheduled the way the teacher's internal/taskmanager schedules its
// background services.
package reporter

import (
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/tc360950/statwindow/internal/metrics"
	"github.com/tc360950/statwindow/internal/registry"
	"github.com/tc360950/statwindow/pkg/log"
)

var s gocron.Scheduler

// Start creates and runs the scheduler, registering a job that logs and
// exports the registry's size every interval. Registry growth is
// unbounded by design; this job observes, it never prunes.
func Start(reg *registry.Registry, interval string) error {
	d, err := time.ParseDuration(interval)
	if err != nil {
		log.Warnf("reporter: could not parse report-interval %q, defaulting to 1m: %s", interval, err.Error())
		d = time.Minute
	}

	s, err = gocron.NewScheduler()
	if err != nil {
		return err
	}

	if _, err := s.NewJob(gocron.DurationJob(d),
		gocron.NewTask(func() {
			n := reg.Size()
			metrics.SymbolsTracked.Set(float64(n))
			log.Infof("registry: tracking %d symbols", n)
		}),
	); err != nil {
		return err
	}

	log.Infof("reporter: registered registry size report every %s", d)
	s.Start()
	return nil
}

// Shutdown stops the scheduler.
func Shutdown() {
	if s != nil {
		s.Shutdown()
	}
}
