// Package discovery finds the address the clock is reachable on.
package discovery

import (
	"fmt"
	"net"
)

// NoIP is shown when no usable address exists.
const NoIP = "NO IP"

// routeAddr is dialled over UDP to learn the outbound interface. No packet
// is sent.
const routeAddr = "8.8.8.8:80"

// Resolver looks up the local IPv4 address.
type Resolver struct {
	// Dial opens the route socket. Defaults to net.Dial.
	Dial func(network, address string) (net.Conn, error)
	// Interfaces lists interface addresses. Defaults to scanning net.Interfaces.
	Interfaces func() ([]net.Addr, error)
}

// LocalIPv4 returns the local IPv4 address as text, or NoIP.
func LocalIPv4() string {
	return (&Resolver{}).Lookup()
}

// Lookup prefers the address of the default route and falls back to the
// first usable interface address.
func (r *Resolver) Lookup() string {
	if ip, err := r.routeAddr(); err == nil {
		return ip.String()
	}
	list := r.Interfaces
	if list == nil {
		list = interfaceAddrs
	}
	addrs, err := list()
	if err != nil {
		return NoIP
	}
	if ip, ok := FirstIPv4(addrs); ok {
		return ip.String()
	}
	return NoIP
}

func (r *Resolver) routeAddr() (net.IP, error) {
	dial := r.Dial
	if dial == nil {
		dial = net.Dial
	}
	conn, err := dial("udp4", routeAddr)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	udp, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok || !usable(udp.IP) {
		return nil, fmt.Errorf("no usable route address")
	}
	return udp.IP, nil
}

// interfaceAddrs collects addresses of every interface that is up and not a
// loopback.
func interfaceAddrs() ([]net.Addr, error) {
	interfaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("failed to get network interfaces: %w", err)
	}

	var addrs []net.Addr
	for _, iface := range interfaces {
		if iface.Flags&net.FlagLoopback != 0 || iface.Flags&net.FlagUp == 0 {
			continue
		}
		a, err := iface.Addrs()
		if err != nil {
			continue
		}
		addrs = append(addrs, a...)
	}
	return addrs, nil
}

// FirstIPv4 returns the first IPv4 address that is neither loopback nor
// link-local.
func FirstIPv4(addrs []net.Addr) (net.IP, bool) {
	for _, addr := range addrs {
		var ip net.IP
		switch a := addr.(type) {
		case *net.IPNet:
			ip = a.IP
		case *net.IPAddr:
			ip = a.IP
		default:
			continue
		}
		if usable(ip) {
			return ip.To4(), true
		}
	}
	return nil, false
}

func usable(ip net.IP) bool {
	return ip.To4() != nil && !ip.IsLoopback() && !ip.IsLinkLocalUnicast() && !ip.IsUnspecified()
}
