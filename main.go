package main

import (
	"context"
	"time"

	"moisturemon/drivers/lcd"
	"moisturemon/drivers/soilsensor"
	"moisturemon/hal/platform"
	"moisturemon/logx"
	"moisturemon/services/alert"
	"moisturemon/services/config"
	"moisturemon/services/mail"
	"moisturemon/services/monitor"
	"moisturemon/services/wifi"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(platform.BootDelay)

	s, err := config.Load(platform.Board)
	if err != nil {
		// Carry on with defaults: the cycle must still reach deep sleep.
		println("Error: config:", err.Error())
		s = config.Default()
	}

	p := platform.New(s)
	log := logx.New(p.Console)
	log.Info("boot", p.Board)
	if !s.AlertConfigured() {
		log.Warn("alert credentials not configured; dry alerts will fail")
	}

	sensor := soilsensor.New(p.SensorPower, p.SensorADC)
	sensor.Configure(soilsensor.Config{Settle: s.Measurement.Settle})

	link := wifi.New(p.Radio, alert.WifiConfig(s), log)
	mailer := &mail.Client{Timeout: s.Mail.Timeout}

	monitor.Boot(context.Background(), s, monitor.Deps{
		Sensor:  sensor,
		Display: lcd.New(p.Panel, s.Display.Cols, s.Display.Rows),
		Alerter: alert.New(s, link, mailer, log),
		Power:   p.Power,
		Log:     log,
	})
}
