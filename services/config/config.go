// Package config resolves the per-board settings embedded at build time.
//
// Each board has one YAML document. Load decodes it over Default, fills any
// zero fields back from Default and validates the result. The returned
// Settings value is passed into the control loop once and never mutated.
package config

import (
	"time"

	"gopkg.in/yaml.v3"

	"moisturemon/errcode"
	"moisturemon/hal"
	"moisturemon/moisture"
)

// Settings is the complete configuration for one wake cycle.
type Settings struct {
	Board        string               `yaml:"board"`
	Calibration  moisture.Calibration `yaml:"calibration"`
	ClampPercent bool                 `yaml:"clamp_percent"`
	Measurement  Measurement          `yaml:"measurement"`
	Sleep        Sleep                `yaml:"sleep"`
	Pins         Pins                 `yaml:"pins"`
	Display      Display              `yaml:"display"`
	WiFi         WiFi                 `yaml:"wifi"`
	Mail         Mail                 `yaml:"mail"`
	Console      Console              `yaml:"console"`
}

// Measurement paces the awake window.
type Measurement struct {
	Iterations  int           `yaml:"iterations"`
	AwakeBudget time.Duration `yaml:"awake_budget"`
	Settle      time.Duration `yaml:"settle"`
}

// Sleep is the deep-sleep duty cycle.
type Sleep struct {
	Duration time.Duration `yaml:"duration"`
}

// Pins are GPIO numbers in the board's native scheme.
type Pins struct {
	SensorPower int `yaml:"sensor_power"`
	SensorADC   int `yaml:"sensor_adc"`
}

// Display describes the I²C character LCD.
type Display struct {
	Bus     string `yaml:"bus"`
	Address uint8  `yaml:"address"`
	Cols    uint8  `yaml:"cols"`
	Rows    uint8  `yaml:"rows"`
	Title   string `yaml:"title"`
}

// WiFi holds station credentials and association pacing.
// AssociateTimeout of zero polls without bound.
type WiFi struct {
	SSID             string        `yaml:"ssid"`
	Passphrase       string        `yaml:"passphrase"`
	PollInterval     time.Duration `yaml:"poll_interval"`
	AssociateTimeout time.Duration `yaml:"associate_timeout"`
}

// Mail holds SMTP session and envelope settings.
type Mail struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	Email          string        `yaml:"email"`
	Password       string        `yaml:"password"`
	SenderName     string        `yaml:"sender_name"`
	Subject        string        `yaml:"subject"`
	RecipientName  string        `yaml:"recipient_name"`
	RecipientEmail string        `yaml:"recipient_email"`
	Timeout        time.Duration `yaml:"timeout"`
}

// Console is the UART mirror of the diagnostic log. Baud 0 disables it.
type Console struct {
	UART string `yaml:"uart"`
	Baud uint32 `yaml:"baud"`
	TX   int    `yaml:"tx"`
	RX   int    `yaml:"rx"`
}

// Default returns the reference settings.
func Default() Settings {
	return Settings{
		Calibration: moisture.Calibration{Air: 3207, Water: 1475},
		Measurement: Measurement{
			Iterations:  5,
			AwakeBudget: time.Minute,
			Settle:      time.Second,
		},
		Sleep: Sleep{Duration: 720 * time.Minute},
		Display: Display{
			Bus:     "i2c0",
			Address: 0x27,
			Cols:    16,
			Rows:    2,
			Title:   "Soil Moisture:",
		},
		WiFi: WiFi{
			PollInterval:     200 * time.Millisecond,
			AssociateTimeout: 30 * time.Second,
		},
		Mail: Mail{
			Host:       "smtp.gmail.com",
			Port:       465,
			SenderName: "Poinsettia",
			Subject:    "Please water me!",
			Timeout:    30 * time.Second,
		},
	}
}

// EmbeddedConfigLookup allows overriding how board documents are resolved.
var EmbeddedConfigLookup = func(board string) ([]byte, bool) {
	b, ok := embeddedConfigs[board]
	return b, ok
}

// Load resolves the embedded document for board.
func Load(board string) (Settings, error) {
	raw, ok := EmbeddedConfigLookup(board)
	if !ok || len(raw) == 0 {
		return Settings{}, &errcode.E{C: errcode.UnknownBoard, Op: "config.load", Msg: board}
	}
	s, err := Overlay(Default(), raw)
	if err != nil {
		return Settings{}, err
	}
	if s.Board == "" {
		s.Board = board
	}
	return s, nil
}

// Overlay decodes raw on top of base, restores defaults for zeroed fields
// and validates.
func Overlay(base Settings, raw []byte) (Settings, error) {
	s := base
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return Settings{}, &errcode.E{C: errcode.InvalidConfig, Op: "config.parse", Err: err}
	}
	s.ensureDefaults()
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s *Settings) ensureDefaults() {
	def := Default()

	if s.Measurement.Iterations == 0 {
		s.Measurement.Iterations = def.Measurement.Iterations
	}
	if s.Measurement.AwakeBudget == 0 {
		s.Measurement.AwakeBudget = def.Measurement.AwakeBudget
	}
	if s.Measurement.Settle == 0 {
		s.Measurement.Settle = def.Measurement.Settle
	}
	if s.Sleep.Duration == 0 {
		s.Sleep.Duration = def.Sleep.Duration
	}
	if s.Display.Bus == "" {
		s.Display.Bus = def.Display.Bus
	}
	if s.Display.Address == 0 {
		s.Display.Address = def.Display.Address
	}
	if s.Display.Cols == 0 {
		s.Display.Cols = def.Display.Cols
	}
	if s.Display.Rows == 0 {
		s.Display.Rows = def.Display.Rows
	}
	if s.WiFi.PollInterval == 0 {
		s.WiFi.PollInterval = def.WiFi.PollInterval
	}
	if s.Mail.Port == 0 {
		s.Mail.Port = def.Mail.Port
	}
	if s.Mail.Timeout == 0 {
		s.Mail.Timeout = def.Mail.Timeout
	}
}

// Validate reports the first invalid field.
func (s Settings) Validate() error {
	if err := s.Calibration.Validate(); err != nil {
		return err
	}
	var msg string
	switch {
	case s.Calibration.Air > hal.ADCMax || s.Calibration.Water < 0:
		msg = "calibration outside the ADC range"
	case s.Measurement.Iterations < 0:
		msg = "measurement.iterations must be positive"
	case s.Measurement.AwakeBudget < 0:
		msg = "measurement.awake_budget must be positive"
	case s.Sleep.Duration < 0:
		msg = "sleep.duration must be positive"
	case s.Display.Rows < 2:
		msg = "display.rows must be at least 2"
	case s.WiFi.AssociateTimeout < 0:
		msg = "wifi.associate_timeout must not be negative"
	case s.Mail.Port < 0 || s.Mail.Port > 65535:
		msg = "mail.port out of range"
	}
	if msg != "" {
		return &errcode.E{C: errcode.InvalidConfig, Op: "config.validate", Msg: msg}
	}
	return nil
}

// AlertConfigured reports whether credentials for the alert path are present.
func (s Settings) AlertConfigured() bool {
	return s.WiFi.SSID != "" && s.Mail.Host != "" && s.Mail.RecipientEmail != ""
}
