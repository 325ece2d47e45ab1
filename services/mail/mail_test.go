package mail

import (
	"bufio"
	"context"
	"crypto/tls"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moisturemon/errcode"
)

// fakeSMTP is a single-connection SMTP responder.
type fakeSMTP struct {
	ln       net.Listener
	authCode string // reply to AUTH, default 235
	rcptCode string // reply to RCPT, default 250
	noAuth   bool   // omit AUTH from the EHLO reply

	mu   sync.Mutex
	cmds []string
	data string
	done chan struct{}
}

func startFake(t *testing.T) *fakeSMTP {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	f := &fakeSMTP{ln: ln, authCode: "235 2.7.0 Authentication successful", rcptCode: "250 OK", done: make(chan struct{})}
	t.Cleanup(func() { ln.Close() })
	go f.serve()
	return f
}

func (f *fakeSMTP) port() int { return f.ln.Addr().(*net.TCPAddr).Port }

func (f *fakeSMTP) serve() {
	defer close(f.done)
	conn, err := f.ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()
	r := bufio.NewReader(conn)
	reply := func(s string) { _, _ = conn.Write([]byte(s + "\r\n")) }

	reply("220 localhost ESMTP fake")
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\r\n")
		f.mu.Lock()
		f.cmds = append(f.cmds, line)
		f.mu.Unlock()

		verb := strings.ToUpper(strings.SplitN(line, " ", 2)[0])
		switch verb {
		case "EHLO":
			if f.noAuth {
				reply("250 localhost")
				break
			}
			reply("250-localhost")
			reply("250 AUTH PLAIN")
		case "AUTH":
			reply(f.authCode)
		case "MAIL":
			reply("250 OK")
		case "RCPT":
			reply(f.rcptCode)
		case "DATA":
			reply("354 End data with <CR><LF>.<CR><LF>")
			var b strings.Builder
			for {
				l, err := r.ReadString('\n')
				if err != nil {
					return
				}
				if l == ".\r\n" {
					break
				}
				b.WriteString(l)
			}
			f.mu.Lock()
			f.data = b.String()
			f.mu.Unlock()
			reply("250 OK queued")
		case "QUIT":
			reply("221 Bye")
			return
		default:
			reply("502 unimplemented")
		}
	}
}

func (f *fakeSMTP) wait(t *testing.T) {
	select {
	case <-f.done:
	case <-time.After(2 * time.Second):
		t.Fatal("fake SMTP server did not finish")
	}
}

func session(port int) Session {
	return Session{
		Server: Server{Host: "127.0.0.1", Port: port},
		Login:  Login{Email: "monitor@example.com", Password: "secret"},
	}
}

func alertMessage() Message {
	m := Message{
		Sender:  Address{Name: "Poinsettia", Email: "monitor@example.com"},
		Subject: "Please water me!",
		Text:    "Soil moisture is: 0% Dry!",
	}
	m.AddRecipient("Gardener", "gardener@example.com")
	return m
}

var fixedNow = func() time.Time { return time.Date(2026, 10, 16, 7, 30, 0, 0, time.UTC) }

func TestSendDeliversMessage(t *testing.T) {
	f := startFake(t)
	var seen []Status
	c := &Client{Timeout: 2 * time.Second, Now: fixedNow, Status: func(s Status) { seen = append(seen, s) }}

	res := c.Send(context.Background(), session(f.port()), alertMessage())
	f.wait(t)

	require.True(t, res.OK, res.Reason)
	assert.Empty(t, res.Reason)
	assert.NoError(t, res.Err)
	assert.Equal(t, StageDone, res.Stage)
	assert.Equal(t, res.Stages, seen)

	var stages []Stage
	for _, s := range res.Stages {
		stages = append(stages, s.Stage)
	}
	assert.Equal(t, []Stage{StageConnect, StageConnect, StageAuth, StageSend, StageDone}, stages)

	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Equal(t, "EHLO localhost", f.cmds[0])
	assert.True(t, strings.HasPrefix(f.cmds[1], "AUTH PLAIN "))
	assert.Equal(t, "MAIL FROM:<monitor@example.com>", strings.SplitN(f.cmds[2], " BODY", 2)[0])
	assert.Equal(t, "RCPT TO:<gardener@example.com>", f.cmds[3])

	assert.Contains(t, f.data, "From: \"Poinsettia\" <monitor@example.com>\r\n")
	assert.Contains(t, f.data, "To: \"Gardener\" <gardener@example.com>\r\n")
	assert.Contains(t, f.data, "Subject: Please water me!\r\n")
	assert.Contains(t, f.data, "Date: Fri, 16 Oct 2026 07:30:00 +0000\r\n")
	assert.Contains(t, f.data, "Content-Type: text/plain; charset=utf-8\r\n")
	assert.True(t, strings.HasSuffix(f.data, "\r\n\r\nSoil moisture is: 0% Dry!\r\n"))
}

func TestSendAuthFailure(t *testing.T) {
	f := startFake(t)
	f.authCode = "535 5.7.8 Username and Password not accepted"
	c := &Client{Timeout: 2 * time.Second}

	res := c.Send(context.Background(), session(f.port()), alertMessage())

	assert.False(t, res.OK)
	assert.Equal(t, StageAuth, res.Stage)
	assert.Equal(t, errcode.SMTPAuth, errcode.Of(res.Err))
	assert.Contains(t, res.Reason, "Username and Password not accepted")
}

func TestSendCredentialsRequireAuth(t *testing.T) {
	f := startFake(t)
	f.noAuth = true
	c := &Client{Timeout: 2 * time.Second}

	res := c.Send(context.Background(), session(f.port()), alertMessage())
	f.wait(t)

	assert.False(t, res.OK)
	assert.Equal(t, StageAuth, res.Stage)
	assert.Equal(t, errcode.SMTPAuth, errcode.Of(res.Err))
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, cmd := range f.cmds {
		assert.NotContains(t, cmd, "MAIL FROM")
	}
}

func TestSendWithoutLoginSkipsAuth(t *testing.T) {
	f := startFake(t)
	f.noAuth = true
	c := &Client{Timeout: 2 * time.Second}
	s := session(f.port())
	s.Login = Login{}

	res := c.Send(context.Background(), s, alertMessage())
	f.wait(t)

	require.True(t, res.OK, res.Reason)
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, cmd := range f.cmds {
		assert.False(t, strings.HasPrefix(cmd, "AUTH"))
	}
}

func TestSendRecipientRejected(t *testing.T) {
	f := startFake(t)
	f.rcptCode = "550 5.1.1 No such user"
	c := &Client{Timeout: 2 * time.Second}

	res := c.Send(context.Background(), session(f.port()), alertMessage())

	assert.False(t, res.OK)
	assert.Equal(t, StageSend, res.Stage)
	assert.Equal(t, errcode.SMTPSend, errcode.Of(res.Err))
	assert.Contains(t, res.Reason, "No such user")
}

func TestSendConnectFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	c := &Client{Timeout: time.Second}
	res := c.Send(context.Background(), session(port), alertMessage())

	assert.False(t, res.OK)
	assert.Equal(t, StageConnect, res.Stage)
	assert.Equal(t, errcode.SMTPConnect, errcode.Of(res.Err))
	assert.NotEmpty(t, res.Reason)
	assert.Contains(t, res.Stages[0].Info, "127.0.0.1:"+strconv.Itoa(port))
}

func TestSendUsesImplicitTLSOn465(t *testing.T) {
	var gotImplicit bool
	var gotAddr string
	c := &Client{Dial: func(_ context.Context, addr string, implicit bool, _ *tls.Config) (net.Conn, error) {
		gotAddr, gotImplicit = addr, implicit
		return nil, errcode.NetworkUnavailable
	}}

	res := c.Send(context.Background(), Session{Server: Server{Host: "smtp.gmail.com", Port: 465}}, alertMessage())

	assert.True(t, gotImplicit)
	assert.Equal(t, "smtp.gmail.com:465", gotAddr)
	assert.Equal(t, errcode.SMTPConnect, errcode.Of(res.Err))
}

// silentListener accepts one connection and never writes to it.
func silentListener(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	stop := make(chan struct{})
	t.Cleanup(func() {
		close(stop)
		ln.Close()
	})
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		<-stop
		conn.Close()
	}()
	return ln
}

func TestImplicitTLSDialHonoursTimeout(t *testing.T) {
	ln := silentListener(t)

	c := &Client{Timeout: 200 * time.Millisecond}
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		conn, err := c.dial(ctx, ln.Addr().String(), true, &tls.Config{ServerName: "127.0.0.1"})
		if conn != nil {
			conn.Close()
		}
		done <- err
	}()
	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("implicit TLS dial did not honour its deadline")
	}
}

func TestSendStalledHandshakeFailsConnect(t *testing.T) {
	ln := silentListener(t)

	c := &Client{Timeout: 200 * time.Millisecond, Dial: func(ctx context.Context, _ string, _ bool, cfg *tls.Config) (net.Conn, error) {
		td := &tls.Dialer{Config: cfg}
		return td.DialContext(ctx, "tcp", ln.Addr().String())
	}}
	start := time.Now()
	res := c.Send(context.Background(), Session{Server: Server{Host: "127.0.0.1", Port: 465}}, alertMessage())

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, StageConnect, res.Stage)
	assert.Equal(t, errcode.SMTPConnect, errcode.Of(res.Err))
}

func TestSendWithoutRecipients(t *testing.T) {
	c := &Client{}
	res := c.Send(context.Background(), session(1), Message{Text: "x"})
	assert.False(t, res.OK)
	assert.Equal(t, StageSend, res.Stage)
	assert.Equal(t, errcode.SMTPSend, errcode.Of(res.Err))
}

func TestComposeNormalisesLineEndings(t *testing.T) {
	c := &Client{Now: fixedNow}
	m := alertMessage()
	m.Text = "line one\nline two\r\nline three"
	out := string(c.compose(m))
	assert.True(t, strings.HasSuffix(out, "\r\n\r\nline one\r\nline two\r\nline three\r\n"))
	assert.NotContains(t, strings.ReplaceAll(out, "\r\n", ""), "\n")
}

func TestComposeOmitsDateWhenClockUnset(t *testing.T) {
	c := &Client{Now: func() time.Time { return time.Unix(12, 0) }}
	out := string(c.compose(alertMessage()))
	assert.NotContains(t, out, "Date:")
	assert.Contains(t, out, "Subject: Please water me!\r\n")

	c.Now = fixedNow
	assert.Contains(t, string(c.compose(alertMessage())), "Date: Fri, 16 Oct 2026 07:30:00 +0000\r\n")
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "auth: Logging in as a@b", Status{Stage: StageAuth, Info: "Logging in as a@b"}.String())
}
