// Package soilsensor drives a resistive soil-moisture probe whose supply is
// switched from a GPIO and whose output is read on an ADC channel.
//
// The probe is powered only for the sampling window:
//
//	power high -> wait Settle -> sample -> power low
//
// Continuous excitation corrodes the electrodes, so Read always leaves the
// supply pin low on return.
package soilsensor

import (
	"time"

	"moisturemon/hal"
)

// Config controls timing. All fields are optional.
type Config struct {
	// Settle is the wait between powering the probe and sampling.
	// Default 1 s.
	Settle time.Duration
	// Sleep blocks for the settle time. Default time.Sleep.
	Sleep func(time.Duration)
}

// Device is one probe.
type Device struct {
	power hal.OutputPin
	adc   hal.ADC
	cfg   Config
}

// New creates a Device. Pins must already be configured by the platform.
// The supply is driven low immediately.
func New(power hal.OutputPin, adc hal.ADC) *Device {
	d := &Device{power: power, adc: adc}
	d.Configure(Config{})
	d.power.Low()
	return d
}

// Configure applies cfg, filling defaults for zero fields.
func (d *Device) Configure(cfg Config) {
	if cfg.Settle <= 0 {
		cfg.Settle = time.Second
	}
	if cfg.Sleep == nil {
		cfg.Sleep = time.Sleep
	}
	d.cfg = cfg
}

// Read powers the probe, waits for the output to settle, samples once and
// removes power.
func (d *Device) Read() int {
	d.power.High()
	d.cfg.Sleep(d.cfg.Settle)
	v := d.adc.Get()
	d.power.Low()
	return int(v)
}

// Off forces the probe supply low.
func (d *Device) Off() { d.power.Low() }
