//go:build rp2040

package platform

import (
	"device/arm"
	"device/rp"
	"time"

	"moisturemon/hal"
)

// The RP2040 has no RTC wake source. Deep sleep is a low-power wait followed
// by a system reset, so each wake is a fresh boot. The wake cause survives
// the reset in a watchdog scratch register, which power-on reset clears.
const (
	wakeMagic = 0x57414b00 // "WAK\0"
	wakeMask  = 0xffffff00
)

type rp2Power struct {
	cause hal.WakeCause
	armed time.Duration
}

func newPower() *rp2Power {
	p := &rp2Power{}
	if v := rp.WATCHDOG.SCRATCH4.Get(); v&wakeMask == wakeMagic {
		p.cause = hal.WakeCause(v &^ wakeMask)
	}
	rp.WATCHDOG.SCRATCH4.Set(0)
	return p
}

func (p *rp2Power) WakeCause() hal.WakeCause { return p.cause }

func (p *rp2Power) ArmTimerWake(d time.Duration) { p.armed = d }

func (p *rp2Power) DeepSleep() {
	if p.armed <= 0 {
		// No wake source: halt until power cycle.
		for {
			arm.Asm("wfi")
		}
	}
	time.Sleep(p.armed)
	rp.WATCHDOG.SCRATCH4.Set(wakeMagic | uint32(hal.WakeTimer))
	arm.SystemReset()
}
