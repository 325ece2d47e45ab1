//go:build !rp2040

package platform

import (
	"os"

	"moisturemon/services/config"
)

// Board names the embedded config document for this build.
const Board = "host"

// BootDelay is the pause before the first console line.
const BootDelay = 0

// New builds an inert bench platform. The probe sweeps from wet to dry
// across the awake window, so the final reading takes the alert path; the panel echoes rows to
// the console; the radio is always associated; deep sleep exits the process.
func New(s config.Settings) *Platform {
	pin := &FakePin{number: s.Pins.SensorPower}
	adc := &FakeADC{Power: pin, Samples: []uint16{1600, 2100, 2600, 3000, 3300}, Repeat: true}
	return &Platform{
		Board:       Board,
		SensorPower: pin,
		SensorADC:   adc,
		Panel:       NewConsolePanel(os.Stdout, s.Display.Cols),
		Radio:       &HostRadio{IP: "127.0.0.1"},
		Power:       &SimPower{Exit: os.Exit},
		Console:     os.Stdout,
	}
}
