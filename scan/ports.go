package scan

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/gopacket/layers"
)

const (
	MinPort = 1
	MaxPort = 65535
)

var DefaultPorts []int

func init() {
	for port := 1; port <= 1024; port++ {
		DefaultPorts = append(DefaultPorts, port)
	}
}

// DescribePort returns the IANA service name registered for a TCP port, or an empty string.
func DescribePort(port int) string {
	if port < MinPort || port > MaxPort {
		return ""
	}
	// layers.TCPPort renders registered ports as "22(ssh)"
	s := layers.TCPPort(port).String()
	start := strings.IndexByte(s, '(')
	if start < 0 || !strings.HasSuffix(s, ")") {
		return ""
	}
	return s[start+1 : len(s)-1]
}

// ParsePorts parses a port selection such as "22,80,443,8080-8090".
// Ports are returned in selection order with duplicates removed. Every port is validated,
// so a selection that parses always scans without an InvalidRangeError.
func ParsePorts(selection string) ([]int, error) {
	selection = strings.TrimSpace(selection)
	if selection == "" {
		return nil, &InvalidRangeError{Reason: "no ports selected"}
	}

	seen := make(map[int]struct{})
	ports := []int{}
	add := func(port int) {
		if _, ok := seen[port]; ok {
			return
		}
		seen[port] = struct{}{}
		ports = append(ports, port)
	}

	for _, r := range strings.Split(selection, ",") {
		r = strings.TrimSpace(r)
		if r == "" {
			return nil, &InvalidRangeError{Reason: fmt.Sprintf("empty segment in '%s'", selection)}
		}
		if strings.Contains(r, "-") {
			parts := strings.Split(r, "-")
			if len(parts) != 2 {
				return nil, &InvalidRangeError{Reason: fmt.Sprintf("invalid port selection segment: '%s'", r)}
			}

			p1, err := parsePort(parts[0])
			if err != nil {
				return nil, err
			}

			p2, err := parsePort(parts[1])
			if err != nil {
				return nil, err
			}

			if p1 > p2 {
				return nil, &InvalidRangeError{Reason: fmt.Sprintf("range start greater than end: %d-%d", p1, p2)}
			}

			for i := p1; i <= p2; i++ {
				add(i)
			}
			continue
		}

		port, err := parsePort(r)
		if err != nil {
			return nil, err
		}
		add(port)
	}
	return ports, nil
}

func parsePort(s string) (int, error) {
	s = strings.TrimSpace(s)
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, &InvalidRangeError{Reason: fmt.Sprintf("invalid port number: '%s'", s)}
	}
	if port < MinPort || port > MaxPort {
		return 0, &InvalidRangeError{Port: port}
	}
	return port, nil
}
