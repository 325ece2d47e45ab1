// Package wifi brings the station link up for the alert and takes it down
// again afterwards.
package wifi

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"moisturemon/errcode"
	"moisturemon/hal"
	"moisturemon/logx"
)

// Config is the association policy.
type Config struct {
	SSID       string
	Passphrase string
	// PollInterval between status checks. Default 200 ms.
	PollInterval time.Duration
	// Timeout bounds the whole association. Zero polls until the radio
	// reports connected or failed, or ctx ends.
	Timeout time.Duration
}

// Link owns one radio for the duration of an alert.
type Link struct {
	radio hal.Radio
	cfg   Config
	log   *logx.Logger
	up    bool
}

// New returns a Link over radio.
func New(radio hal.Radio, cfg Config, log *logx.Logger) *Link {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 200 * time.Millisecond
	}
	return &Link{radio: radio, cfg: cfg, log: log}
}

// policy polls at a constant interval, capped by Timeout when set.
func (l *Link) policy(ctx context.Context) backoff.BackOff {
	var b backoff.BackOff = backoff.NewConstantBackOff(l.cfg.PollInterval)
	if l.cfg.Timeout > 0 {
		b = backoff.WithMaxRetries(b, uint64(l.cfg.Timeout/l.cfg.PollInterval))
	}
	return backoff.WithContext(b, ctx)
}

var errAssociating = errcode.Code("associating")

// Up starts association and waits for it to complete.
func (l *Link) Up(ctx context.Context) error {
	l.log.Raw("Connecting to AP")
	if err := l.radio.Begin(l.cfg.SSID, l.cfg.Passphrase); err != nil {
		l.log.Raw("\n")
		return errcode.Wrap(errcode.NetworkUnavailable, "wifi.up", err)
	}
	l.up = true

	op := func() error {
		switch l.radio.Status() {
		case hal.LinkConnected:
			return nil
		case hal.LinkFailed:
			return backoff.Permanent(errcode.NetworkUnavailable)
		}
		l.log.Raw(".")
		return errAssociating
	}
	err := backoff.Retry(op, l.policy(ctx))
	l.log.Raw("\n")

	switch {
	case err == nil:
		l.log.Info("WiFi connected.")
		l.log.Info("IP address:", l.radio.LocalIP())
		return nil
	case ctx.Err() != nil:
		return errcode.Wrap(errcode.Canceled, "wifi.up", ctx.Err())
	case err == errAssociating:
		return &errcode.E{C: errcode.AssocTimeout, Op: "wifi.up", Msg: "no association within " + l.cfg.Timeout.String()}
	}
	return errcode.Wrap(errcode.NetworkUnavailable, "wifi.up", err)
}

// Down disconnects. It is fire-and-forget and safe to call when the link
// never came up.
func (l *Link) Down() {
	if !l.up {
		return
	}
	l.radio.Disconnect()
	l.up = false
	l.log.Info("WiFi disconnected.")
}
