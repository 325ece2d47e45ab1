// Package alert sends the dry-soil email: network up, one send, network down.
// Every failure is logged and reported in the Outcome; nothing propagates,
// because the wake cycle must always reach deep sleep.
package alert

import (
	"context"

	"moisturemon/errcode"
	"moisturemon/logx"
	"moisturemon/moisture"
	"moisturemon/services/config"
	"moisturemon/services/mail"
	"moisturemon/services/wifi"
)

// Network is the link lifecycle used around a send.
type Network interface {
	Up(ctx context.Context) error
	Down()
}

// Sender delivers one message.
type Sender interface {
	Send(ctx context.Context, s mail.Session, m mail.Message) mail.Result
}

// Outcome reports what happened to one alert.
type Outcome struct {
	Text      string
	Attempted bool // a send was started
	Sent      bool
	Err       error
}

// Service composes and sends alerts.
type Service struct {
	Net      Network
	Mailer   Sender
	Session  mail.Session
	Envelope mail.Message // headers; Text is filled per alert
	Log      *logx.Logger
}

// New wires a Service from settings.
func New(s config.Settings, net Network, mailer Sender, log *logx.Logger) *Service {
	env := mail.Message{
		Sender:  mail.Address{Name: s.Mail.SenderName, Email: s.Mail.Email},
		Subject: s.Mail.Subject,
	}
	env.AddRecipient(s.Mail.RecipientName, s.Mail.RecipientEmail)
	return &Service{
		Net:    net,
		Mailer: mailer,
		Session: mail.Session{
			Server: mail.Server{Host: s.Mail.Host, Port: s.Mail.Port},
			Login:  mail.Login{Email: s.Mail.Email, Password: s.Mail.Password},
		},
		Envelope: env,
		Log:      log,
	}
}

// WifiConfig maps settings onto the link policy.
func WifiConfig(s config.Settings) wifi.Config {
	return wifi.Config{
		SSID:         s.WiFi.SSID,
		Passphrase:   s.WiFi.Passphrase,
		PollInterval: s.WiFi.PollInterval,
		Timeout:      s.WiFi.AssociateTimeout,
	}
}

// Alert sends one email for r.
func (a *Service) Alert(ctx context.Context, r moisture.Reading) Outcome {
	out := Outcome{Text: moisture.AlertText(r)}

	if err := a.Net.Up(ctx); err != nil {
		a.Log.Error("network unavailable, alert not sent:", err.Error())
		a.Net.Down()
		out.Err = err
		return out
	}
	defer a.Net.Down()

	a.Log.Info("Preparing to send email")
	msg := a.Envelope
	msg.Recipients = append([]mail.Address(nil), a.Envelope.Recipients...)
	msg.Text = out.Text

	out.Attempted = true
	res := a.Mailer.Send(ctx, a.Session, msg)
	for _, st := range res.Stages {
		a.Log.Info(st.String())
	}
	if !res.OK {
		a.Log.Error("Error sending Email,", res.Reason)
		out.Err = res.Err
		if out.Err == nil {
			out.Err = errcode.SMTPSend
		}
		return out
	}
	out.Sent = true
	return out
}
