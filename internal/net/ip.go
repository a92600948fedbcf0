package net

import (
	"errors"
	"fmt"
	"net"
)

// ErrNoLANAddress is returned when the machine has no IPv4 address a
// viewer on another machine could dial.
var ErrNoLANAddress = errors.New("no LAN IPv4 address")

// LANAddress picks the address to put in a share link. The source
// address of the default route wins when there is one; otherwise the
// interfaces are scanned, preferring private ranges.
func LANAddress() (net.IP, error) {
	if ip := routedIPv4(); ip != nil {
		return ip, nil
	}
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("list interfaces: %w", err)
	}
	var addrs []net.Addr
	for _, ifc := range ifaces {
		if ifc.Flags&net.FlagUp == 0 || ifc.Flags&net.FlagLoopback != 0 {
			continue
		}
		a, err := ifc.Addrs()
		if err != nil {
			continue
		}
		addrs = append(addrs, a...)
	}
	if ip := pickIPv4(addrs); ip != nil {
		return ip, nil
	}
	return nil, ErrNoLANAddress
}

// routedIPv4 asks the kernel which source address it would use for a
// public destination. Connecting a UDP socket sends no packet.
func routedIPv4() net.IP {
	conn, err := net.Dial("udp4", "8.8.8.8:80")
	if err != nil {
		return nil
	}
	defer conn.Close()
	ip := conn.LocalAddr().(*net.UDPAddr).IP.To4()
	if ip == nil || ip.IsLoopback() || ip.IsUnspecified() {
		return nil
	}
	return ip
}

// pickIPv4 returns the first private IPv4 in addrs, or failing that the
// first other non-loopback IPv4.
func pickIPv4(addrs []net.Addr) net.IP {
	var public net.IP
	for _, a := range addrs {
		var ip net.IP
		switch v := a.(type) {
		case *net.IPNet:
			ip = v.IP
		case *net.IPAddr:
			ip = v.IP
		}
		ip = ip.To4()
		if ip == nil || ip.IsLoopback() || ip.IsLinkLocalUnicast() {
			continue
		}
		if ip.IsPrivate() {
			return ip
		}
		if public == nil {
			public = ip
		}
	}
	return public
}

// ShareLink builds the link a viewer passes to "qpaint join".
func ShareLink(host string, port int) string {
	return fmt.Sprintf("%s%s", CustomURLScheme, net.JoinHostPort(host, fmt.Sprint(port)))
}
