// cmd/boardtest/main.go
//
// Bench bring-up for the probe and LCD: samples continuously and shows the
// raw value, percentage and band on both the console and the display.
// No alerting and no deep sleep.
package main

import (
	"fmt"
	"time"

	"moisturemon/drivers/lcd"
	"moisturemon/drivers/soilsensor"
	"moisturemon/hal/platform"
	"moisturemon/services/config"
)

// ---------- Configuration ----------

const (
	samplePeriod = 2 * time.Second

	// Cycles: 0 = loop forever
	cyclesToRun = 0
)

func main() {
	time.Sleep(platform.BootDelay)

	s, err := config.Load(platform.Board)
	if err != nil {
		println("config:", err.Error())
		return
	}
	p := platform.New(s)

	sensor := soilsensor.New(p.SensorPower, p.SensorADC)
	sensor.Configure(soilsensor.Config{Settle: s.Measurement.Settle})

	disp := lcd.New(p.Panel, s.Display.Cols, s.Display.Rows)
	disp.Begin()
	defer disp.PowerDown()

	fmt.Fprintf(p.Console, "boardtest on %s: air=%d water=%d interval=%d\n",
		p.Board, s.Calibration.Air, s.Calibration.Water, s.Calibration.Interval())

	for i := 0; cyclesToRun == 0 || i < cyclesToRun; i++ {
		raw := sensor.Read()
		r := s.Calibration.Evaluate(raw)

		fmt.Fprintf(p.Console, "#%d raw=%d pct=%d level=%s\n", i, r.Raw, r.Percent, r.Level)
		disp.WriteLine(0, fmt.Sprintf("raw %d", raw))
		disp.WriteLine(1, r.Line())

		time.Sleep(samplePeriod)
	}
}
