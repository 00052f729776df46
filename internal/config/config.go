// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config loads and validates the process-wide configuration
// constants, following the teacher's Keys-as-package-var pattern
// (pkg/metricstore/config.go): sane defaults are set at declaration time,
// Init overlays a JSON file (if one exists) validated against an embedded
// JSON Schema, and environment variables can override a handful of
// frequently-tuned values without touching the file at all.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"strconv"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tc360950/statwindow/pkg/log"
)

// Nats configures the optional line-protocol-over-NATS ingest path.
// Address == "" (the default) disables it entirely.
type Nats struct {
	Address   string `json:"address"`
	Subject   string `json:"subject"`
	CredsFile string `json:"creds-file-path,omitempty"`
}

// Config holds every process-wide constant named in spec.md plus the
// ambient knobs (address, log level, reporter interval, NATS ingest) the
// rest of this repository needs.
type Config struct {
	// MaxK bounds the query exponent: windows of size 10^k for 1 <= k <= MaxK.
	MaxK int `json:"max-k"`
	// MaxLen = 10^MaxK; the circular-buffer capacity shared by every symbol.
	MaxLen int `json:"-"`
	// MaxBatchSize bounds the number of values accepted by one add_batch call.
	MaxBatchSize int `json:"max-batch-size"`

	Addr           string `json:"addr"`
	LogLevel       string `json:"log-level"`
	ReportInterval string `json:"report-interval"`

	Nats *Nats `json:"nats,omitempty"`
}

// Keys is the global, process-wide configuration. It is safe to read after
// Init returns; nothing in this repository mutates it afterwards.
var Keys = Config{
	MaxK:           8,
	MaxBatchSize:   10000,
	Addr:           ":8080",
	LogLevel:       "info",
	ReportInterval: "1m",
}

const configSchema = `{
  "type": "object",
  "description": "Configuration for the rolling-window statistics service.",
  "properties": {
    "max-k": {
      "description": "Largest exponent k for which a window of size 10^k may be queried.",
      "type": "integer",
      "minimum": 1
    },
    "max-batch-size": {
      "description": "Largest number of values accepted by a single add_batch call.",
      "type": "integer",
      "minimum": 0
    },
    "addr": {
      "description": "Address the HTTP server listens on.",
      "type": "string"
    },
    "log-level": {
      "description": "One of debug, info, notice, warn, err, crit.",
      "type": "string"
    },
    "report-interval": {
      "description": "How often the registry size is logged and exported, as a Go duration string.",
      "type": "string"
    },
    "nats": {
      "description": "Optional alternate ingest path: line-protocol samples received over NATS.",
      "type": "object",
      "properties": {
        "address": { "type": "string" },
        "subject": { "type": "string" },
        "creds-file-path": { "type": "string" }
      },
      "required": ["address", "subject"]
    }
  }
}`

// Init overlays path (if it exists) onto the defaults in Keys, validating it
// against configSchema first. A missing file is not an error - it just
// means the defaults stand, matching the teacher's config.Init. Environment
// variables MAX_K, MAX_BATCH_SIZE and ADDR, if set, are applied last and
// take precedence over both the defaults and the file.
func Init(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	} else {
		schema, err := jsonschema.CompileString("config.schema.json", configSchema)
		if err != nil {
			return err
		}

		var v interface{}
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		if err := schema.Validate(v); err != nil {
			return err
		}

		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&Keys); err != nil {
			return err
		}
	}

	applyEnvOverrides()
	Keys.MaxLen = pow10(Keys.MaxK)

	log.Infof("config: max-k=%d max-len=%d max-batch-size=%d addr=%s",
		Keys.MaxK, Keys.MaxLen, Keys.MaxBatchSize, Keys.Addr)
	return nil
}

func applyEnvOverrides() {
	if v := os.Getenv("MAX_K"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			Keys.MaxK = n
		} else {
			log.Warnf("config: ignoring invalid MAX_K=%q: %s", v, err.Error())
		}
	}
	if v := os.Getenv("MAX_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			Keys.MaxBatchSize = n
		} else {
			log.Warnf("config: ignoring invalid MAX_BATCH_SIZE=%q: %s", v, err.Error())
		}
	}
	if v := os.Getenv("ADDR"); v != "" {
		Keys.Addr = v
	}
}

func pow10(n int) int {
	p := 1
	for range n {
		p *= 10
	}
	return p
}
