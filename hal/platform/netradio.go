package platform

import (
	"net/netip"
	"sync"
	"time"

	"tinygo.org/x/drivers/netlink"

	"moisturemon/errcode"
	"moisturemon/hal"
	"moisturemon/services/config"
)

// linker is the part of netlink.Netlinker the radio drives.
type linker interface {
	NetConnect(params *netlink.ConnectParams) error
	NetDisconnect()
}

// addrer reports the station address once associated.
type addrer interface {
	Addr() (netip.Addr, error)
}

// openFunc brings up the coprocessor on first use.
type openFunc func() (linker, addrer)

// netRadio adapts a blocking netlink driver to the polled hal.Radio.
// NetConnect runs in the background with bounded attempts; while it is in
// flight the driver holds its own lock, so Disconnect only marks the
// attempt abandoned and the connect goroutine tears the link down itself.
type netRadio struct {
	open openFunc
	wifi config.WiFi

	mu         sync.Mutex
	link       linker
	addr       addrer
	status     hal.LinkStatus
	connecting bool
	abandoned  bool
	connected  bool
}

func newNetRadio(open openFunc, w config.WiFi) *netRadio {
	return &netRadio{open: open, wifi: w}
}

// connectParams bounds the driver's own retry loop by the association
// timeout. A zero timeout leaves the driver retrying until the link is
// abandoned.
func connectParams(ssid, passphrase string, timeout time.Duration) netlink.ConnectParams {
	p := netlink.ConnectParams{
		Ssid:           ssid,
		Passphrase:     passphrase,
		ConnectTimeout: netlink.DefaultConnectTimeout,
	}
	if timeout > 0 {
		if timeout < p.ConnectTimeout {
			p.ConnectTimeout = timeout
		}
		p.Retries = int((timeout + p.ConnectTimeout - 1) / p.ConnectTimeout)
	}
	return p
}

func (r *netRadio) Begin(ssid, passphrase string) error {
	if ssid == "" {
		return &errcode.E{C: errcode.InvalidConfig, Op: "wifi.begin", Msg: "empty ssid"}
	}
	r.mu.Lock()
	if r.connecting {
		r.mu.Unlock()
		return &errcode.E{C: errcode.NetworkUnavailable, Op: "wifi.begin", Msg: "previous connect still in progress"}
	}
	if r.link == nil {
		r.link, r.addr = r.open()
	}
	r.status = hal.LinkConnecting
	r.connecting = true
	r.abandoned = false
	link := r.link
	r.mu.Unlock()

	p := connectParams(ssid, passphrase, r.wifi.AssociateTimeout)
	go r.connect(link, &p)
	return nil
}

func (r *netRadio) connect(link linker, p *netlink.ConnectParams) {
	err := link.NetConnect(p)

	r.mu.Lock()
	r.connecting = false
	abandoned := r.abandoned
	r.abandoned = false
	switch {
	case abandoned:
		r.status = hal.LinkIdle
	case err != nil:
		r.status = hal.LinkFailed
	default:
		r.status = hal.LinkConnected
		r.connected = true
	}
	r.mu.Unlock()

	if abandoned && err == nil {
		link.NetDisconnect()
	}
}

func (r *netRadio) Status() hal.LinkStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

func (r *netRadio) LocalIP() string {
	r.mu.Lock()
	a := r.addr
	r.mu.Unlock()
	if a == nil {
		return ""
	}
	ip, err := a.Addr()
	if err != nil {
		return ""
	}
	return ip.String()
}

// Disconnect never blocks on the driver while a connect is in flight.
func (r *netRadio) Disconnect() {
	r.mu.Lock()
	r.status = hal.LinkIdle
	if r.connecting {
		r.abandoned = true
		r.mu.Unlock()
		return
	}
	wasUp := r.connected
	r.connected = false
	link := r.link
	r.mu.Unlock()

	if wasUp && link != nil {
		link.NetDisconnect()
	}
}
