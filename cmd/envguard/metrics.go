// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"periph.io/x/conn/v3/physic"
)

// metrics exports the readings. A nil *metrics discards everything.
type metrics struct {
	temperature prometheus.Gauge
	exceeded    prometheus.Gauge
	reads       prometheus.Counter
	failures    prometheus.Counter
}

func newMetrics(reg prometheus.Registerer, threshold physic.Temperature) *metrics {
	m := &metrics{
		temperature: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "envguard_temperature_celsius",
			Help: "Last temperature read from the LM75B.",
		}),
		exceeded: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "envguard_threshold_exceeded",
			Help: "1 when the last reading was above the alert threshold.",
		}),
		reads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "envguard_reads_total",
			Help: "Successful temperature reads.",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "envguard_read_failures_total",
			Help: "Temperature reads that failed on the I²C bus.",
		}),
	}
	thresholdGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "envguard_threshold_celsius",
		Help: "Alert threshold.",
	})
	thresholdGauge.Set(threshold.Celsius())
	reg.MustRegister(m.temperature, m.exceeded, m.reads, m.failures, thresholdGauge)
	return m
}

func (m *metrics) observe(t physic.Temperature, above bool) {
	if m == nil {
		return
	}
	m.reads.Inc()
	m.temperature.Set(t.Celsius())
	if above {
		m.exceeded.Set(1)
	} else {
		m.exceeded.Set(0)
	}
}

func (m *metrics) failed() {
	if m == nil {
		return
	}
	m.failures.Inc()
}
