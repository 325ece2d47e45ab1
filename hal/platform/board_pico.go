//go:build rp2040 && !nano_rp2040

package platform

import (
	"moisturemon/errcode"
	"moisturemon/hal"
	"moisturemon/services/config"
)

// Board names the embedded config document for this build.
const Board = "pico"

// noRadio stands in on boards without a Wi-Fi module; the alert path logs
// the failure and the wake cycle carries on to sleep.
type noRadio struct{}

func newRadio(config.WiFi) hal.Radio { return noRadio{} }

func (noRadio) Begin(string, string) error { return errcode.Unsupported }
func (noRadio) Status() hal.LinkStatus     { return hal.LinkFailed }
func (noRadio) LocalIP() string            { return "" }
func (noRadio) Disconnect()                {}
