// Package platform assembles the concrete peripherals for the build target.
// Exactly one provider file set is compiled in, selected by build tags:
// rp2040 (machine-backed) or host (inert fakes for tests and bench runs).
package platform

import (
	"io"

	"moisturemon/drivers/lcd"
	"moisturemon/hal"
)

// Platform bundles everything one wake cycle needs from the hardware.
type Platform struct {
	Board       string
	SensorPower hal.OutputPin
	SensorADC   hal.ADC
	Panel       lcd.Panel
	Radio       hal.Radio
	Power       hal.PowerControl
	Console     io.Writer
}
