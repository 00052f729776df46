// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package api mounts the two REST endpoints external clients use to feed
// and query the registry: add_batch and stats. Handler shape and error
// plumbing follow the teacher's internal/api/rest.go (RestApi.MountRoutes,
// handleError, decode), but the request/response bodies themselves follow
// the wire format this service's callers were already built against.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tc360950/statwindow/internal/config"
	"github.com/tc360950/statwindow/internal/metrics"
	"github.com/tc360950/statwindow/internal/registry"
	"github.com/tc360950/statwindow/pkg/denarytree"
	"github.com/tc360950/statwindow/pkg/log"
)

// RestApi mounts /add_batch/ and /stats/ against a single shared registry.
type RestApi struct {
	Registry *registry.Registry
}

// MountRoutes registers both endpoints under /api, matching the teacher's
// PathPrefix("/api").Subrouter() convention.
func (a *RestApi) MountRoutes(r *mux.Router) {
	r = r.PathPrefix("/api").Subrouter()
	r.StrictSlash(true)

	r.HandleFunc("/add_batch/", a.addBatch).Methods(http.MethodPost)
	r.HandleFunc("/stats/", a.stats).Methods(http.MethodGet)
}

// errorDetail is the error body shape every failing response uses:
// {"detail": "..."}.
type errorDetail struct {
	Detail string `json:"detail"`
}

func writeError(rw http.ResponseWriter, statusCode int, detail string) {
	log.Warnf("REST ERROR (%d): %s", statusCode, detail)
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(statusCode)
	json.NewEncoder(rw).Encode(errorDetail{Detail: detail})
}

func decode(r io.Reader, val interface{}) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	return dec.Decode(val)
}

type addBatchRequest struct {
	Symbol string    `json:"symbol"`
	Values []float64 `json:"values"`
}

type addBatchResponse struct {
	Symbol  string `json:"symbol"`
	Message string `json:"message"`
}

// addBatch implements POST /api/add_batch/.
func (a *RestApi) addBatch(rw http.ResponseWriter, r *http.Request) {
	var req addBatchRequest
	if err := decode(r.Body, &req); err != nil {
		metrics.AddBatchTotal.WithLabelValues("error").Inc()
		writeError(rw, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if req.Symbol == "" {
		metrics.AddBatchTotal.WithLabelValues("error").Inc()
		writeError(rw, http.StatusUnprocessableEntity, "'symbol' must be a non-empty string")
		return
	}
	if len(req.Values) > config.Keys.MaxBatchSize {
		metrics.AddBatchTotal.WithLabelValues("error").Inc()
		writeError(rw, http.StatusUnprocessableEntity,
			fmt.Sprintf("'values' must have at most %d elements", config.Keys.MaxBatchSize))
		return
	}

	store, err := a.Registry.GetOrCreate(req.Symbol)
	if err != nil {
		metrics.AddBatchTotal.WithLabelValues("error").Inc()
		writeError(rw, http.StatusInternalServerError, "Internal server error: "+err.Error())
		return
	}

	if err := store.Add(req.Values); err != nil {
		metrics.AddBatchTotal.WithLabelValues("error").Inc()
		if errors.Is(err, denarytree.ErrOutOfRange) {
			writeError(rw, http.StatusBadRequest, err.Error())
			return
		}
		writeError(rw, http.StatusInternalServerError, "Internal server error: "+err.Error())
		return
	}

	metrics.AddBatchTotal.WithLabelValues("ok").Inc()
	metrics.AddBatchValuesTotal.Add(float64(len(req.Values)))
	metrics.SymbolsTracked.Set(float64(a.Registry.Size()))

	rw.Header().Set("Content-Type", "application/json")
	json.NewEncoder(rw).Encode(addBatchResponse{Symbol: req.Symbol, Message: "OK"})
}

type statsBody struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Last float64 `json:"last"`
	Avg  float64 `json:"avg"`
	Var  float64 `json:"var"`
}

type statsResponse struct {
	Symbol     string    `json:"symbol"`
	K          int       `json:"k"`
	Statistics statsBody `json:"statistics"`
}

// stats implements GET /api/stats/?symbol=<s>&k=<k>.
func (a *RestApi) stats(rw http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	symbol := q.Get("symbol")
	rawK := q.Get("k")

	k, err := strconv.Atoi(rawK)
	if symbol == "" || err != nil || k < 1 || k > config.Keys.MaxK {
		metrics.StatsQueryTotal.WithLabelValues("error").Inc()
		writeError(rw, http.StatusUnprocessableEntity,
			fmt.Sprintf("'k' must be an integer in [1, %d]", config.Keys.MaxK))
		return
	}

	store, ok := a.Registry.Lookup(symbol)
	if !ok {
		metrics.StatsQueryTotal.WithLabelValues("not_found").Inc()
		writeError(rw, http.StatusNotFound, "No data points found for the symbol")
		return
	}

	windowSize := pow10(k)
	stat, ok := store.Get(windowSize)
	if !ok {
		metrics.StatsQueryTotal.WithLabelValues("not_found").Inc()
		writeError(rw, http.StatusNotFound, "No data points found for the symbol")
		return
	}

	metrics.StatsQueryTotal.WithLabelValues("ok").Inc()
	rw.Header().Set("Content-Type", "application/json")
	json.NewEncoder(rw).Encode(statsResponse{
		Symbol: symbol,
		K:      k,
		Statistics: statsBody{
			Min:  stat.Min,
			Max:  stat.Max,
			Last: stat.Last,
			Avg:  stat.Avg(),
			Var:  stat.Var(),
		},
	})
}

func pow10(n int) int {
	p := 1
	for range n {
		p *= 10
	}
	return p
}
