//go:build !rp2040

package platform

import (
	"errors"
	"io"
	"sync"
	"time"

	"moisturemon/hal"
)

// ----------------------------- I²C (host) ------------------------------------

// HostI2C implements tinygo drivers.I2C and records traffic.
type HostI2C struct {
	mu     sync.Mutex
	writes int
	last   uint16
	LastW  []byte
}

func (h *HostI2C) Tx(addr uint16, w, r []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.writes++
	h.last = addr
	h.LastW = append(h.LastW[:0], w...)
	for i := range r {
		r[i] = 0
	}
	return nil
}

// Writes is the number of transactions seen.
func (h *HostI2C) Writes() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.writes
}

// LastAddr is the address of the most recent transaction.
func (h *HostI2C) LastAddr() uint16 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}

// ----------------------------- GPIO (host) -----------------------------------

// FakePin is an output pin that records every level it is driven to.
type FakePin struct {
	mu      sync.Mutex
	number  int
	level   bool
	history []bool
}

// NewFakePin returns a low pin with the given number.
func NewFakePin(n int) *FakePin { return &FakePin{number: n} }

func (p *FakePin) High() { p.set(true) }
func (p *FakePin) Low()  { p.set(false) }

func (p *FakePin) set(v bool) {
	p.mu.Lock()
	p.level = v
	p.history = append(p.history, v)
	p.mu.Unlock()
}

func (p *FakePin) Get() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

func (p *FakePin) Number() int { return p.number }

// History returns the levels driven so far, oldest first.
func (p *FakePin) History() []bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]bool(nil), p.history...)
}

// ----------------------------- ADC (host) ------------------------------------

// FakeADC returns scripted samples. When Power is set, the level of that pin
// at each sample is recorded in PoweredAtSample.
type FakeADC struct {
	mu              sync.Mutex
	Samples         []uint16
	Repeat          bool
	Power           hal.OutputPin
	PoweredAtSample []bool
	next            int
}

func (a *FakeADC) Get() uint16 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Power != nil {
		a.PoweredAtSample = append(a.PoweredAtSample, a.Power.Get())
	}
	if len(a.Samples) == 0 {
		return 0
	}
	i := a.next
	if i >= len(a.Samples) {
		if !a.Repeat {
			return a.Samples[len(a.Samples)-1]
		}
		i %= len(a.Samples)
	}
	a.next = i + 1
	return a.Samples[i]
}

// ----------------------------- Display (host) --------------------------------

// ConsolePanel echoes printed rows to w as "lcd[row]: text" lines.
type ConsolePanel struct {
	w    io.Writer
	cols uint8
	row  uint8
	On   bool
	Lit  bool
}

func NewConsolePanel(w io.Writer, cols uint8) *ConsolePanel {
	return &ConsolePanel{w: w, cols: cols}
}

func (c *ConsolePanel) ClearDisplay()        {}
func (c *ConsolePanel) SetCursor(_, y uint8) { c.row = y }
func (c *ConsolePanel) BacklightOn(on bool)  { c.Lit = on }
func (c *ConsolePanel) DisplayOn(on bool)    { c.On = on }

func (c *ConsolePanel) Print(b []byte) {
	line := make([]byte, 0, len(b)+9)
	line = append(line, "lcd["...)
	line = append(line, '0'+c.row)
	line = append(line, "]: "...)
	line = append(line, b...)
	line = append(line, '\n')
	_, _ = c.w.Write(line)
}

// ----------------------------- Radio (host) ----------------------------------

// HostRadio rides on the host's own network: association is immediate.
type HostRadio struct {
	mu     sync.Mutex
	IP     string
	status hal.LinkStatus
}

var errNoSSID = errors.New("empty ssid")

func (r *HostRadio) Begin(ssid, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ssid == "" {
		r.status = hal.LinkFailed
		return errNoSSID
	}
	r.status = hal.LinkConnected
	return nil
}

func (r *HostRadio) Status() hal.LinkStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

func (r *HostRadio) LocalIP() string { return r.IP }

func (r *HostRadio) Disconnect() {
	r.mu.Lock()
	r.status = hal.LinkIdle
	r.mu.Unlock()
}

// ----------------------------- Power (host) ----------------------------------

// SimPower records sleep-controller calls. DeepSleep calls Exit(0) when set,
// so on the bench the process ends where hardware would power down.
type SimPower struct {
	mu     sync.Mutex
	Cause  hal.WakeCause
	Armed  time.Duration
	Sleeps int
	Exit   func(code int)
}

func (p *SimPower) WakeCause() hal.WakeCause { return p.Cause }

func (p *SimPower) ArmTimerWake(d time.Duration) {
	p.mu.Lock()
	p.Armed = d
	p.mu.Unlock()
}

func (p *SimPower) DeepSleep() {
	p.mu.Lock()
	p.Sleeps++
	exit := p.Exit
	p.mu.Unlock()
	if exit != nil {
		exit(0)
	}
}

// SleepCount reports how many times DeepSleep was entered.
func (p *SimPower) SleepCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Sleeps
}
