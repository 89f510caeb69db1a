// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// envguard reads an LM75B temperature sensor periodically and prints an alert
// when the temperature exceeds a threshold.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GermanBionicSystems/envguard/gauge"
	"github.com/GermanBionicSystems/envguard/lm75b"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// sensor is what the loop needs from the driver.
type sensor interface {
	ReadTemperature() (physic.Temperature, error)
	IsAboveThreshold(threshold physic.Temperature) bool
}

type config struct {
	bus       string
	addr      i2c.Addr
	hz        physic.Frequency
	threshold physic.Temperature
	interval  time.Duration
	count     int
	gauge     bool
	http      string
}

func parseFlags(args []string) (*config, error) {
	c := &config{
		addr:      lm75b.DefaultAddress,
		hz:        lm75b.DefaultFrequency,
		threshold: physic.ZeroCelsius + 30*physic.Kelvin,
	}
	fs := flag.NewFlagSet("envguard", flag.ContinueOnError)
	fs.StringVar(&c.bus, "bus", "", "I²C bus to use")
	fs.Var(&c.addr, "addr", "I²C address of the LM75B")
	fs.Var(&c.hz, "hz", "I²C bus clock")
	fs.Var(&c.threshold, "threshold", "alert when the temperature is above this value")
	fs.DurationVar(&c.interval, "interval", time.Second, "time between readings")
	fs.IntVar(&c.count, "n", 0, "number of readings, 0 to run until interrupted")
	fs.BoolVar(&c.gauge, "gauge", false, "draw a thermometer bar")
	fs.StringVar(&c.http, "http", "", "serve prometheus metrics on this address, e.g. :9100")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, errors.New("unexpected argument, try -help")
	}
	if c.interval <= 0 {
		return nil, errors.New("-interval must be positive")
	}
	if c.count < 0 {
		return nil, errors.New("-n must not be negative")
	}
	return c, nil
}

// poll does one reading: it prints the temperature, or the error, and the
// alert line when the threshold is exceeded.
func poll(s sensor, threshold physic.Temperature, out io.Writer, g *gauge.Dev, m *metrics) error {
	t, err := s.ReadTemperature()
	if err != nil {
		m.failed()
		_, err = fmt.Fprintf(out, "Error reading temperature from LM75B: %v\n", err)
		return err
	}
	if g != nil {
		if err := g.Show(t); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(out); err != nil {
			return err
		}
	} else if _, err := fmt.Fprintf(out, "Current temperature: %.2f°C\n", t.Celsius()); err != nil {
		return err
	}
	above := s.IsAboveThreshold(threshold)
	m.observe(t, above)
	if above {
		_, err = fmt.Fprintf(out, "ALERT: Temperature exceeded %s!\n", threshold)
	}
	return err
}

// run polls s every c.interval until ctx is done or c.count readings were
// taken.
func run(ctx context.Context, s sensor, c *config, out io.Writer, g *gauge.Dev, m *metrics) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for i := 0; c.count == 0 || i < c.count; i++ {
		if i != 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}
		if err := poll(s, c.threshold, out, g, m); err != nil {
			return err
		}
	}
	return nil
}

func serveMetrics(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("metrics: %v", err)
		}
	}()
	return srv
}

func mainImpl() error {
	c, err := parseFlags(os.Args[1:])
	if err != nil {
		return err
	}
	if _, err := host.Init(); err != nil {
		return err
	}
	dev, err := lm75b.Open(&lm75b.Opts{Bus: c.bus, Addr: c.addr, Frequency: c.hz})
	if err != nil {
		return err
	}
	defer dev.Close()

	out := colorable.NewColorableStdout()
	var g *gauge.Dev
	if c.gauge {
		if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
			opts := gauge.DefaultOpts
			opts.W = out
			if g, err = gauge.New(&opts); err != nil {
				return err
			}
			defer g.Halt()
		} else {
			log.Println("stdout is not a terminal, -gauge ignored")
		}
	}

	var m *metrics
	if c.http != "" {
		reg := prometheus.NewRegistry()
		m = newMetrics(reg, c.threshold)
		srv := serveMetrics(c.http, reg)
		defer srv.Close()
	}

	fmt.Fprintf(out, "EnvironmentGuard on %s\n", dev)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, dev, c, out, g, m)
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "envguard: %s.\n", err)
		os.Exit(1)
	}
}
