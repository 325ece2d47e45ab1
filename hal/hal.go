// Package hal declares the hardware capabilities the monitor consumes.
// Concrete providers live in hal/platform and are selected by build tags.
package hal

import "time"

// OutputPin is a push-pull digital output.
type OutputPin interface {
	High()
	Low()
	Get() bool
}

// ADC yields one raw sample. Providers normalise to 12-bit resolution
// (0..4095) so calibration anchors are portable across boards.
type ADC interface {
	Get() uint16
}

// ADCMax is the largest normalised sample.
const ADCMax = 4095

// LinkStatus is the radio's association state.
type LinkStatus uint8

const (
	LinkIdle LinkStatus = iota
	LinkConnecting
	LinkConnected
	LinkFailed
)

func (s LinkStatus) String() string {
	switch s {
	case LinkIdle:
		return "idle"
	case LinkConnecting:
		return "connecting"
	case LinkConnected:
		return "connected"
	case LinkFailed:
		return "failed"
	}
	return "unknown"
}

// Radio is a station-mode Wi-Fi interface. Begin starts association and
// returns without waiting; callers poll Status.
type Radio interface {
	Begin(ssid, passphrase string) error
	Status() LinkStatus
	LocalIP() string
	Disconnect()
}

// WakeCause reports why the chip came out of deep sleep.
type WakeCause uint8

const (
	WakeUndefined WakeCause = iota // cold boot, not a deep-sleep wake
	WakeExt0                       // external signal via RTC_IO
	WakeExt1                       // external signal via RTC_CNTL
	WakeTimer
	WakeTouchpad
	WakeULP
)

// PowerControl is the platform sleep controller.
type PowerControl interface {
	WakeCause() WakeCause
	// ArmTimerWake registers a timer wake source for the next DeepSleep.
	ArmTimerWake(d time.Duration)
	// DeepSleep powers down. On hardware it does not return; the next
	// wake is a fresh boot.
	DeepSleep()
}
