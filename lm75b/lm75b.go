// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lm75b

import (
	"errors"
	"io"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
)

const (
	// DefaultAddress is the 7 bit address with A2, A1 and A0 tied to ground.
	// The bus shifts it to 0x90 for writes and 0x91 for reads.
	DefaultAddress i2c.Addr = 0x48

	// DefaultFrequency is the standard mode I²C clock.
	DefaultFrequency physic.Frequency = 100 * physic.KiloHertz

	// Pointer value selecting the temperature register.
	_REGISTER_TEMPERATURE byte = 0

	// The register holds an 11 bit value left aligned in 16 bits. Shifting by
	// 7 keeps the top 9 bits, in units of 0.5°C.
	_COUNT_SHIFT = 7

	_DEGREES_RESOLUTION physic.Temperature = 500 * physic.MilliKelvin

	// Typical temperature conversion time.
	minSampleInterval = 100 * time.Millisecond

	// The minimum temperature the device can read.
	MinimumTemperature physic.Temperature = physic.ZeroCelsius - 55*physic.Kelvin
	// The maximum temperature the device can read.
	MaximumTemperature physic.Temperature = physic.ZeroCelsius + 125*physic.Kelvin
)

// Opts represents the channel parameters for the LM75B.
type Opts struct {
	// Bus is the name, alias or number passed to i2creg.Open. Empty selects
	// the first bus registered on the host.
	Bus string
	// Addr is the 7 bit device address. Zero means DefaultAddress.
	Addr i2c.Addr
	// Frequency is the bus clock. Open uses DefaultFrequency when zero,
	// NewI2C leaves the bus speed untouched.
	Frequency physic.Frequency
}

// DefaultOpts is the configuration used when Open is called with nil opts.
var DefaultOpts = Opts{Addr: DefaultAddress, Frequency: DefaultFrequency}

// Dev represents an LM75B sensor.
type Dev struct {
	d *i2c.Dev
	// closer is set when Open created the bus. A caller-owned bus is never
	// closed by the driver.
	closer io.Closer
	closed bool

	mu       sync.Mutex
	shutdown chan struct{}
	done     chan struct{}
}

// Open opens the I²C bus described by opts, sets its clock and returns a Dev
// that owns it. The bus is released by Close.
//
// Every failure is a *ChannelOpenError. If opts is nil, DefaultOpts is used.
func Open(opts *Opts) (*Dev, error) {
	o := DefaultOpts
	if opts != nil {
		o = *opts
	}
	if o.Frequency == 0 {
		o.Frequency = DefaultFrequency
	}
	b, err := i2creg.Open(o.Bus)
	if err != nil {
		return nil, &ChannelOpenError{Bus: o.Bus, Err: err}
	}
	dev, err := newDev(b, o)
	if err != nil {
		if errClose := b.Close(); errClose != nil {
			err = errors.Join(err, errClose)
		}
		return nil, &ChannelOpenError{Bus: o.Bus, Err: err}
	}
	dev.closer = b
	return dev, nil
}

// NewI2C returns a new LM75B sensor on a bus owned by the caller. If opts is
// nil, the device is expected at DefaultAddress and the bus speed is not
// changed.
func NewI2C(b i2c.Bus, opts *Opts) (*Dev, error) {
	o := Opts{}
	if opts != nil {
		o = *opts
	}
	dev, err := newDev(b, o)
	if err != nil {
		return nil, &ChannelOpenError{Bus: b.String(), Err: err}
	}
	return dev, nil
}

func newDev(b i2c.Bus, o Opts) (*Dev, error) {
	if o.Addr == 0 {
		o.Addr = DefaultAddress
	}
	if o.Frequency != 0 {
		if err := b.SetSpeed(o.Frequency); err != nil {
			return nil, err
		}
	}
	return &Dev{d: &i2c.Dev{Bus: b, Addr: uint16(o.Addr)}}, nil
}

// Decode converts the two temperature register bytes, most significant first,
// into a temperature. The value is a two's complement count of 0.5°C steps.
func Decode(raw [2]byte) physic.Temperature {
	return countToTemperature(int16(uint16(raw[0])<<8|uint16(raw[1])) >> _COUNT_SHIFT)
}

// countToTemperature returns the temperature from the 9 bit signed count.
func countToTemperature(count int16) physic.Temperature {
	return physic.ZeroCelsius + physic.Temperature(count)*_DEGREES_RESOLUTION
}

// readRegister selects the temperature register and reads it back in a
// second transaction. The caller must hold dev.mu.
func (dev *Dev) readRegister() ([2]byte, error) {
	var r [2]byte
	if dev.closed {
		return r, &CommunicationError{Op: "write", Err: ErrClosed}
	}
	if err := dev.d.Tx([]byte{_REGISTER_TEMPERATURE}, nil); err != nil {
		return r, &CommunicationError{Op: "write", Err: err}
	}
	if err := dev.d.Tx(nil, r[:]); err != nil {
		return r, &CommunicationError{Op: "read", Err: err}
	}
	return r, nil
}

// ReadRaw returns the undecoded 16 bit temperature register.
func (dev *Dev) ReadRaw() (uint16, error) {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	r, err := dev.readRegister()
	if err != nil {
		return 0, err
	}
	return uint16(r[0])<<8 | uint16(r[1]), nil
}

// ReadTemperature reads the current temperature.
//
// If either the register pointer write or the read fails, the returned error
// is a *CommunicationError and the temperature must be ignored.
func (dev *Dev) ReadTemperature() (physic.Temperature, error) {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	r, err := dev.readRegister()
	if err != nil {
		return 0, err
	}
	return Decode(r), nil
}

// IsAboveThreshold reports whether the current temperature is strictly
// greater than threshold.
//
// A failed read returns false: a sensor that can't be reached is treated as
// not exceeding the threshold. Use ReadTemperature to tell the two apart.
func (dev *Dev) IsAboveThreshold(threshold physic.Temperature) bool {
	t, err := dev.ReadTemperature()
	if err != nil {
		return false
	}
	return t > threshold
}

// Sense reads temperature from the device and writes the value to the specified
// env variable. Implements physic.SenseEnv.
func (dev *Dev) Sense(env *physic.Env) error {
	t, err := dev.ReadTemperature()
	if err == nil {
		env.Temperature = t
	}
	return err
}

// SenseContinuous continuously reads from the device and writes the value to
// the returned channel. Failed reads are skipped. Implements physic.SenseEnv.
// To terminate the continuous read, call Halt().
func (dev *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	if interval < minSampleInterval {
		return nil, errors.New("lm75b: invalid duration. minimum 100ms")
	}
	dev.mu.Lock()
	defer dev.mu.Unlock()
	if dev.closed {
		return nil, ErrClosed
	}
	if dev.shutdown != nil {
		return nil, errors.New("lm75b: SenseContinuous already running")
	}
	stop := make(chan struct{})
	done := make(chan struct{})
	dev.shutdown = stop
	dev.done = done
	ch := make(chan physic.Env, 16)
	go func() {
		defer close(done)
		defer close(ch)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				e := physic.Env{}
				if err := dev.Sense(&e); err != nil {
					continue
				}
				select {
				case ch <- e:
				case <-stop:
					return
				}
			}
		}
	}()
	return ch, nil
}

// Halt stops a SenseContinuous operation in progress and waits for its
// channel to be closed. Implements conn.Resource.
func (dev *Dev) Halt() error {
	dev.mu.Lock()
	stop, done := dev.shutdown, dev.done
	dev.shutdown, dev.done = nil, nil
	dev.mu.Unlock()
	if stop != nil {
		close(stop)
		<-done
	}
	return nil
}

// Close halts the device and releases the bus if Open created it. Calling
// Close more than once is a no-op.
func (dev *Dev) Close() error {
	if err := dev.Halt(); err != nil {
		return err
	}
	dev.mu.Lock()
	defer dev.mu.Unlock()
	if dev.closed {
		return nil
	}
	dev.closed = true
	c := dev.closer
	dev.closer = nil
	if c == nil {
		return nil
	}
	return c.Close()
}

// Precision returns the sensor's precision, or minimum value between steps the
// device reports here: 0.5°C.
func (dev *Dev) Precision(env *physic.Env) {
	env.Temperature = _DEGREES_RESOLUTION
	env.Pressure = 0
	env.Humidity = 0
}

func (dev *Dev) String() string {
	return "lm75b: " + dev.d.String()
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
var _ io.Closer = &Dev{}
