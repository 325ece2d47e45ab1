// Package monitor is the wake-cycle controller: it measures, classifies,
// displays and alerts for a fixed number of iterations, then quiesces the
// peripherals and enters deep sleep.
//
// Boot is the whole program for one wake. On hardware DeepSleep does not
// return and the next wake starts again from Boot with no retained state.
package monitor

import (
	"context"
	"time"

	"moisturemon/hal"
	"moisturemon/logx"
	"moisturemon/moisture"
	"moisturemon/services/alert"
	"moisturemon/services/config"
	"moisturemon/x/conv"
	"moisturemon/x/timex"
)

// Sensor is a power-sequenced probe.
type Sensor interface {
	Read() int
	Off()
}

// Display is the character LCD.
type Display interface {
	Begin()
	WriteLine(row uint8, text string)
	PowerDown()
}

// Alerter sends the dry-soil alert.
type Alerter interface {
	Alert(ctx context.Context, r moisture.Reading) alert.Outcome
}

// Deps are the collaborators for one wake cycle.
type Deps struct {
	Sensor  Sensor
	Display Display
	Alerter Alerter
	Power   hal.PowerControl
	Log     *logx.Logger
	// Sleep paces iterations. Default time.Sleep.
	Sleep timex.Sleeper
}

const readingRow = 1

// Run takes s.Measurement.Iterations readings spread evenly over the awake
// budget. Only a Dry reading on the final iteration raises an alert.
func Run(ctx context.Context, s config.Settings, d Deps) []moisture.Reading {
	sleep := d.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	eval := s.Calibration.Evaluate
	if s.ClampPercent {
		eval = s.Calibration.EvaluateClamped
	}
	n := s.Measurement.Iterations
	pace := timex.Pace(s.Measurement.AwakeBudget, n)

	readings := make([]moisture.Reading, 0, n)
	for i := 0; i < n; i++ {
		raw := d.Sensor.Read()
		d.Log.Info("Value:", raw)

		r := eval(raw)
		readings = append(readings, r)
		line := r.Line()
		d.Log.Info(line)
		d.Display.WriteLine(readingRow, line)

		if i == n-1 && r.Level == moisture.Dry {
			out := d.Alerter.Alert(ctx, r)
			if out.Sent {
				d.Log.Info("Alert sent:", out.Text)
			} else {
				d.Log.Warn("Alert not delivered")
			}
		}

		sleep(pace)
	}
	return readings
}

// Boot runs one complete wake cycle and ends in deep sleep. The timer wake
// is armed before any peripheral is touched, and the shutdown sequence runs
// even if the measurement loop panics.
func Boot(ctx context.Context, s config.Settings, d Deps) (readings []moisture.Reading) {
	d.Log.Info(WakeMessage(d.Power.WakeCause()))
	d.Power.ArmTimerWake(s.Sleep.Duration)

	defer func() {
		defer d.Power.DeepSleep()
		if r := recover(); r != nil {
			d.Log.Error("wake cycle aborted:", r)
		}
		quiesce(d.Log, "sensor", d.Sensor.Off)
		quiesce(d.Log, "display", d.Display.PowerDown)
		d.Log.Info("Going to sleep now")
	}()

	d.Display.Begin()
	if s.Display.Title != "" {
		d.Display.WriteLine(0, s.Display.Title)
	}
	return Run(ctx, s, d)
}

// quiesce runs one shutdown step; a panic is logged so the remaining steps
// and deep sleep still run.
func quiesce(log *logx.Logger, what string, step func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error(what+" shutdown failed:", r)
		}
	}()
	step()
}

// WakeMessage renders the boot log line for c.
func WakeMessage(c hal.WakeCause) string {
	switch c {
	case hal.WakeExt0:
		return "Wakeup caused by external signal using RTC_IO"
	case hal.WakeExt1:
		return "Wakeup caused by external signal using RTC_CNTL"
	case hal.WakeTimer:
		return "Wakeup caused by timer"
	case hal.WakeTouchpad:
		return "Wakeup caused by touchpad"
	case hal.WakeULP:
		return "Wakeup caused by ULP program"
	}
	const prefix = "Wakeup was not caused by deep sleep: "
	var buf [48]byte
	return string(conv.AppendInt(append(buf[:0], prefix...), int(c)))
}
