// Package mail sends a single plain-text message over SMTP.
//
// Progress is reported synchronously: each stage is passed to the optional
// StatusFunc as it happens and collected in the returned Result, so callers
// can log the transcript without a callback registry.
package mail

import (
	"context"
	"crypto/tls"
	"mime"
	"net"
	netmail "net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"moisturemon/errcode"
)

// Server is the SMTP endpoint. Port 465 uses implicit TLS; other ports
// upgrade with STARTTLS when the server offers it.
type Server struct {
	Host string
	Port int
}

// Login is the account used for AUTH PLAIN. An empty Email skips AUTH; a
// set Email requires the server to offer it.
type Login struct {
	Email    string
	Password string
}

// Session is the connection configuration.
type Session struct {
	Server Server
	Login  Login
}

// Address is a display name plus mailbox.
type Address struct {
	Name  string
	Email string
}

func (a Address) String() string {
	return (&netmail.Address{Name: a.Name, Address: a.Email}).String()
}

// Message is one plain-text email.
type Message struct {
	Sender     Address
	Subject    string
	Recipients []Address
	Text       string
}

// AddRecipient appends a To: address.
func (m *Message) AddRecipient(name, email string) {
	m.Recipients = append(m.Recipients, Address{Name: name, Email: email})
}

// Stage names a step of the send.
type Stage string

const (
	StageConnect Stage = "connect"
	StageAuth    Stage = "auth"
	StageSend    Stage = "send"
	StageDone    Stage = "done"
)

// Status is one progress report.
type Status struct {
	Stage Stage
	Info  string
}

func (s Status) String() string { return string(s.Stage) + ": " + s.Info }

// StatusFunc receives progress as it happens.
type StatusFunc func(Status)

// Result is the outcome of Send. Reason is human-readable and empty on
// success; Stage is the last stage reached.
type Result struct {
	OK     bool
	Stage  Stage
	Reason string
	Err    error
	Stages []Status
}

// DialFunc opens the transport to addr ("host:port"). When implicitTLS is
// set the returned conn must already be TLS.
type DialFunc func(ctx context.Context, addr string, implicitTLS bool, cfg *tls.Config) (net.Conn, error)

// Client sends mail. The zero value is usable.
type Client struct {
	Dial      DialFunc
	Timeout   time.Duration // whole-session deadline; default 30 s
	LocalName string        // EHLO name; default "localhost"
	Status    StatusFunc
	Now       func() time.Time
}

const implicitTLSPort = 465

// Send connects, authenticates, delivers m and closes the session.
func (c *Client) Send(ctx context.Context, s Session, m Message) Result {
	var res Result
	report := func(st Stage, info string) {
		res.Stage = st
		ev := Status{Stage: st, Info: info}
		res.Stages = append(res.Stages, ev)
		if c.Status != nil {
			c.Status(ev)
		}
	}
	fail := func(code errcode.Code, err error) Result {
		res.Err = errcode.Wrap(code, "mail.send", err)
		res.Reason = err.Error()
		return res
	}

	if len(m.Recipients) == 0 {
		report(StageSend, "No recipients")
		return fail(errcode.SMTPSend, errNoRecipients)
	}

	host := s.Server.Host
	addr := net.JoinHostPort(host, strconv.Itoa(s.Server.Port))
	implicit := s.Server.Port == implicitTLSPort
	tlsCfg := &tls.Config{ServerName: host}

	deadline := c.deadline(ctx)
	ctx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	report(StageConnect, "Connecting to SMTP server "+addr)
	conn, err := c.dial(ctx, addr, implicit, tlsCfg)
	if err != nil {
		return fail(errcode.SMTPConnect, err)
	}
	_ = conn.SetDeadline(deadline)

	cl, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return fail(errcode.SMTPConnect, err)
	}
	defer cl.Close()

	if err := cl.Hello(c.localName()); err != nil {
		return fail(errcode.SMTPConnect, err)
	}
	if !implicit {
		if ok, _ := cl.Extension("STARTTLS"); ok {
			if err := cl.StartTLS(tlsCfg); err != nil {
				return fail(errcode.SMTPConnect, err)
			}
		}
	}
	report(StageConnect, "SMTP server connected")

	if s.Login.Email != "" {
		report(StageAuth, "Logging in as "+s.Login.Email)
		if ok, _ := cl.Extension("AUTH"); !ok {
			return fail(errcode.SMTPAuth, errAuthNotOffered)
		}
		if err := cl.Auth(smtp.PlainAuth("", s.Login.Email, s.Login.Password, host)); err != nil {
			return fail(errcode.SMTPAuth, err)
		}
	}

	report(StageSend, "Sending Email...")
	if err := c.deliver(cl, m); err != nil {
		return fail(errcode.SMTPSend, err)
	}
	_ = cl.Quit()

	report(StageDone, "Message sent success: 1")
	res.OK = true
	return res
}

func (c *Client) deliver(cl *smtp.Client, m Message) error {
	if err := cl.Mail(m.Sender.Email); err != nil {
		return err
	}
	for _, r := range m.Recipients {
		if err := cl.Rcpt(r.Email); err != nil {
			return err
		}
	}
	w, err := cl.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(c.compose(m)); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// compose renders headers and body with CRLF line endings.
func (c *Client) compose(m Message) []byte {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	to := make([]string, 0, len(m.Recipients))
	for _, r := range m.Recipients {
		to = append(to, r.String())
	}

	var b strings.Builder
	header := func(k, v string) {
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(v)
		b.WriteString("\r\n")
	}
	header("From", m.Sender.String())
	header("To", strings.Join(to, ", "))
	header("Subject", encodeHeader(m.Subject))
	// Without a synced clock the submission server stamps Date itself.
	if t := now(); clockSet(t) {
		header("Date", t.Format(time.RFC1123Z))
	}
	header("MIME-Version", "1.0")
	header("Content-Type", "text/plain; charset=utf-8")
	header("Content-Transfer-Encoding", "8bit")
	b.WriteString("\r\n")

	body := strings.ReplaceAll(m.Text, "\r\n", "\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	b.WriteString("\r\n")
	return []byte(b.String())
}

func encodeHeader(s string) string { return mime.QEncoding.Encode("utf-8", s) }

func (c *Client) dial(ctx context.Context, addr string, implicit bool, cfg *tls.Config) (net.Conn, error) {
	if c.Dial != nil {
		return c.Dial(ctx, addr, implicit, cfg)
	}
	d := &net.Dialer{Timeout: c.timeout()}
	if implicit {
		td := &tls.Dialer{NetDialer: d, Config: cfg}
		return td.DialContext(ctx, "tcp", addr)
	}
	return d.DialContext(ctx, "tcp", addr)
}

// clockFloor is earlier than any build of this firmware. A device clock
// before it has not been set since power-on.
var clockFloor = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

func clockSet(t time.Time) bool { return !t.Before(clockFloor) }

func (c *Client) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return 30 * time.Second
}

func (c *Client) deadline(ctx context.Context) time.Time {
	d := time.Now().Add(c.timeout())
	if cd, ok := ctx.Deadline(); ok && cd.Before(d) {
		return cd
	}
	return d
}

func (c *Client) localName() string {
	if c.LocalName != "" {
		return c.LocalName
	}
	return "localhost"
}

var (
	errNoRecipients   = errcode.Code("no_recipients")
	errAuthNotOffered = errcode.Code("auth_not_offered")
)
