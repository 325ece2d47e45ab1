//go:build nano_rp2040

package platform

import (
	"tinygo.org/x/drivers/netlink/probe"

	"moisturemon/hal"
	"moisturemon/services/config"
)

// Board names the embedded config document for this build.
const Board = "nano_rp2040"

// newRadio drives the on-board u-blox NINA-W102 through the wifinina driver
// selected by netlink/probe. The coprocessor is only brought up when an
// alert needs the network.
func newRadio(w config.WiFi) hal.Radio {
	return newNetRadio(func() (linker, addrer) {
		link, dev := probe.Probe()
		return link, dev
	}, w)
}
