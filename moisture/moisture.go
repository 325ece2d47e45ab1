// Package moisture turns raw probe samples into a percentage and a
// three-band classification.
//
// A resistive probe reads high in dry soil and low in wet soil, so the
// "air" anchor is the larger raw value and maps to 0%, and the "water"
// anchor maps to 100%.
package moisture

import (
	"moisturemon/errcode"
	"moisturemon/x/conv"
	"moisturemon/x/mathx"
)

// Calibration holds the two raw anchor readings.
type Calibration struct {
	Air   int `yaml:"air"`   // probe held in air (driest)
	Water int `yaml:"water"` // probe in water (wettest)
}

// Validate requires Air > Water.
func (c Calibration) Validate() error {
	if c.Air <= c.Water {
		return &errcode.E{C: errcode.InvalidCalibration, Op: "moisture.calibration", Msg: "air must be greater than water"}
	}
	return nil
}

// Interval is the width of one classification band.
func (c Calibration) Interval() int { return (c.Air - c.Water) / 3 }

// Percent maps raw linearly so that Air is 0 and Water is 100.
// Readings outside the calibrated span extrapolate past [0,100].
func (c Calibration) Percent(raw int) int {
	return mathx.MapInt(raw, c.Air, c.Water, 0, 100)
}

// Classify partitions every integer raw value into exactly one Level.
func (c Calibration) Classify(raw int) Level {
	iv := c.Interval()
	switch {
	case raw <= c.Water+iv:
		return Wet
	case raw <= c.Air-iv:
		return Moist
	default:
		return Dry
	}
}

// Evaluate computes percentage and level for raw.
func (c Calibration) Evaluate(raw int) Reading {
	return Reading{Raw: raw, Percent: c.Percent(raw), Level: c.Classify(raw)}
}

// EvaluateClamped is Evaluate with the percentage limited to [0,100].
func (c Calibration) EvaluateClamped(raw int) Reading {
	r := c.Evaluate(raw)
	r.Percent = mathx.Clamp(r.Percent, 0, 100)
	return r
}

// Level is the moisture band.
type Level uint8

const (
	Wet Level = iota
	Moist
	Dry
)

func (l Level) String() string {
	switch l {
	case Wet:
		return "wet"
	case Moist:
		return "moist"
	case Dry:
		return "dry"
	}
	return "unknown"
}

// Label is the text shown on the display next to the percentage.
func (l Level) Label() string {
	switch l {
	case Wet:
		return "Wet!"
	case Moist:
		return "Moist"
	case Dry:
		return "Dry!"
	}
	return "?"
}

// Reading is one evaluated sample.
type Reading struct {
	Raw     int
	Percent int
	Level   Level
}

// AppendLine appends "<pct>% <label>" to dst.
func (r Reading) AppendLine(dst []byte) []byte {
	dst = conv.AppendInt(dst, r.Percent)
	dst = append(dst, '%', ' ')
	return append(dst, r.Level.Label()...)
}

// Line returns the display text for r.
func (r Reading) Line() string {
	var buf [24]byte
	return string(r.AppendLine(buf[:0]))
}

const alertPrefix = "Soil moisture is: "

// AlertText is the body of the dry-soil email.
func AlertText(r Reading) string {
	var buf [48]byte
	b := append(buf[:0], alertPrefix...)
	return string(r.AppendLine(b))
}
