package scan

import "fmt"

// Target is a single host and the ports to probe on it.
type Target struct {
	Host  string
	Ports []int
}

func NewTarget(host string, ports []int) Target {
	return Target{
		Host:  host,
		Ports: ports,
	}
}

// queue validates the selection and returns a private, deduplicated copy of the ports.
func (t Target) queue() ([]int, error) {
	if len(t.Ports) == 0 {
		return nil, &InvalidRangeError{Reason: fmt.Sprintf("no ports selected for '%s'", t.Host)}
	}

	seen := make(map[int]struct{}, len(t.Ports))
	ports := make([]int, 0, len(t.Ports))
	for _, port := range t.Ports {
		if port < MinPort || port > MaxPort {
			return nil, &InvalidRangeError{Port: port}
		}
		if _, ok := seen[port]; ok {
			continue
		}
		seen[port] = struct{}{}
		ports = append(ports, port)
	}
	return ports, nil
}
