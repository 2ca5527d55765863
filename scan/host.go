package scan

import (
	"context"
	"net"

	"github.com/google/gopacket/macs"
	"github.com/mostlygeek/arp"
)

type PortState uint8

const (
	PortUnknown PortState = iota
	PortOpen
	PortClosed
	PortFiltered
)

func (s PortState) String() string {
	switch s {
	case PortOpen:
		return "OPEN"
	case PortClosed:
		return "CLOSED"
	case PortFiltered:
		return "FILTERED"
	}
	return "UNKNOWN"
}

// Host is the resolved form of a Target's host.
type Host struct {
	Name         string
	IP           net.IP
	MAC          string
	Manufacturer string
}

// Resolver is satisfied by *net.Resolver.
type Resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// resolveHost turns a host name or IP literal into a single address. It runs once per scan,
// so a bad name fails the scan instead of showing up as every port closed.
func resolveHost(ctx context.Context, resolver Resolver, name string) (Host, error) {
	host := Host{Name: name}

	if name == "" {
		return host, &HostUnresolvedError{Host: name}
	}

	if ip := net.ParseIP(name); ip != nil {
		host.IP = ip
	} else {
		addrs, err := resolver.LookupIPAddr(ctx, name)
		if err != nil {
			return host, &HostUnresolvedError{Host: name, Err: err}
		}
		host.IP = pickAddr(addrs)
		if host.IP == nil {
			return host, &HostUnresolvedError{Host: name}
		}
	}

	host.lookupHardware()
	return host, nil
}

// pickAddr prefers the first IPv4 address.
func pickAddr(addrs []net.IPAddr) net.IP {
	var first net.IP
	for _, addr := range addrs {
		if addr.IP == nil {
			continue
		}
		if v4 := addr.IP.To4(); v4 != nil {
			return v4
		}
		if first == nil {
			first = addr.IP
		}
	}
	return first
}

// lookupHardware fills in the MAC and vendor when the host is in the local ARP cache.
func (h *Host) lookupHardware() {
	if h.IP.IsLoopback() || h.IP.IsUnspecified() || h.IP.To4() == nil {
		return
	}

	macStr := arp.Search(h.IP.String())
	if macStr == "" || macStr == "00:00:00:00:00:00" {
		return
	}

	mac, err := net.ParseMAC(macStr)
	if err != nil || len(mac) < 3 {
		return
	}

	h.MAC = mac.String()
	prefix := [3]byte{
		mac[0],
		mac[1],
		mac[2],
	}
	if manufacturer, ok := macs.ValidMACPrefixMap[prefix]; ok {
		h.Manufacturer = manufacturer
	}
}
