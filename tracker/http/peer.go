package httpTracker

import (
	"fmt"
	"net"
	"net/netip"

	"github.com/anacrolix/dht/v2/krpc"

	"github.com/bencodec/torrent/bencode"
)

type Peer struct {
	IP   net.IP
	Port int
	ID   []byte
}

func (p Peer) ToNetipAddrPort() (addrPort netip.AddrPort, ok bool) {
	addr, ok := netip.AddrFromSlice(p.IP)
	addrPort = netip.AddrPortFrom(addr.Unmap(), uint16(p.Port))
	return
}

func (p Peer) String() string {
	loc := net.JoinHostPort(p.IP.String(), fmt.Sprintf("%d", p.Port))
	if len(p.ID) != 0 {
		return fmt.Sprintf("%x at %s", p.ID, loc)
	} else {
		return loc
	}
}

// Set from the non-compact form in BEP 3.
func (p *Peer) fromDict(v bencode.Value) error {
	ip, ok := v.Lookup("ip")
	if !ok {
		return fmt.Errorf("peer dict missing ip")
	}
	ipBytes, ok := ip.Bytes()
	if !ok {
		return fmt.Errorf("peer ip is %v", ip.Kind())
	}
	// Trackers may also give a DNS name here. Those are left unresolved.
	p.IP = net.ParseIP(string(ipBytes))
	if p.IP == nil {
		return fmt.Errorf("peer ip %q is not an IP address", ipBytes)
	}
	port, ok := v.Lookup("port")
	if !ok {
		return fmt.Errorf("peer dict missing port")
	}
	i, ok := port.Int()
	if !ok || i < 0 || i > 0xffff {
		return fmt.Errorf("bad peer port %v", port)
	}
	p.Port = int(i)
	if id, ok := v.Lookup("peer id"); ok {
		p.ID, ok = id.Bytes()
		if !ok {
			return fmt.Errorf("peer id is %v", id.Kind())
		}
	}
	return nil
}

func (p Peer) FromNodeAddr(na krpc.NodeAddr) Peer {
	p.IP = na.IP
	p.Port = na.Port
	return p
}
