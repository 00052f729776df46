// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-backend.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nats

import (
	"fmt"
	"time"

	influx "github.com/influxdata/line-protocol/v2/lineprotocol"
)

// SymbolSample is one decoded line-protocol point: a symbol tag and its
// float64 value field.
type SymbolSample struct {
	Symbol string
	Value  float64
	Time   time.Time
}

// DecodeSymbolMessage decodes a single InfluxDB line protocol message of the
// form `trade,symbol=AAPL value=101.25 1690000000`, pulling the symbol out
// of its tags and the value out of its fields rather than preserving the
// full generic measurement/tags/fields shape the teacher's DecodeInfluxMessage
// produces.
func DecodeSymbolMessage(d *influx.Decoder) (SymbolSample, error) {
	var sample SymbolSample

	if _, err := d.Measurement(); err != nil {
		return sample, err
	}

	for {
		key, value, err := d.NextTag()
		if err != nil {
			return sample, err
		}
		if key == nil {
			break
		}
		if string(key) == "symbol" {
			sample.Symbol = string(value)
		}
	}

	haveValue := false
	for {
		key, value, err := d.NextField()
		if err != nil {
			return sample, err
		}
		if key == nil {
			break
		}
		if string(key) == "value" {
			switch value.Kind() {
			case influx.Float:
				sample.Value = value.FloatV()
			case influx.Int:
				sample.Value = float64(value.IntV())
			case influx.Uint:
				sample.Value = float64(value.UintV())
			default:
				return sample, fmt.Errorf("field 'value' has unsupported type: %s", value.Kind().String())
			}
			haveValue = true
		}
	}

	t, err := d.Time(influx.Nanosecond, time.Time{})
	if err != nil {
		return sample, err
	}
	sample.Time = t

	if sample.Symbol == "" {
		return sample, fmt.Errorf("line is missing required 'symbol' tag")
	}
	if !haveValue {
		return sample, fmt.Errorf("line is missing required 'value' field")
	}
	return sample, nil
}
