package scan

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ProbeResult is the outcome of one connect attempt against one port.
type ProbeResult struct {
	Port    int
	Open    bool
	State   PortState
	Err     error
	Latency time.Duration
}

// Summary is built once a run has finished or been cancelled.
type Summary struct {
	RunID string
	Host  Host

	// Open holds the open ports, ascending.
	Open []ProbeResult
	// Results holds every completed probe, ascending by port.
	Results []ProbeResult

	Requested int
	Total     int
	OpenCount int
	Errored   int

	// Partial is set when the run was cancelled before every port was probed.
	Partial bool

	Latency  time.Duration
	Started  time.Time
	Duration time.Duration
}

func newSummary(runID string, host Host, requested int, results []ProbeResult, started time.Time) *Summary {
	sort.Slice(results, func(i, j int) bool {
		return results[i].Port < results[j].Port
	})

	s := &Summary{
		RunID:     runID,
		Host:      host,
		Open:      []ProbeResult{},
		Results:   results,
		Requested: requested,
		Total:     len(results),
		Partial:   len(results) < requested,
		Latency:   -1,
		Started:   started,
		Duration:  time.Since(started),
	}

	for _, r := range results {
		if r.Open {
			s.Open = append(s.Open, r)
			s.OpenCount++
		}
		if r.Err != nil {
			s.Errored++
		}
		// any answer, open or refused, means the host is up
		if r.Err == nil && (r.State == PortOpen || r.State == PortClosed) {
			if s.Latency < 0 || r.Latency < s.Latency {
				s.Latency = r.Latency
			}
		}
	}

	return s
}

func (s *Summary) IsHostUp() bool {
	return s.Latency > -1
}

func (s *Summary) OpenPorts() []int {
	ports := make([]int, 0, len(s.Open))
	for _, r := range s.Open {
		ports = append(ports, r.Port)
	}
	return ports
}

func (s *Summary) String() string {
	return s.Report(false)
}

// Report renders the summary as text. With showClosed set, closed, filtered and errored
// ports are listed alongside the open ones.
func (s *Summary) Report(showClosed bool) string {
	var text strings.Builder

	name := s.Host.Name
	if s.Host.IP != nil && s.Host.IP.String() != name {
		name = fmt.Sprintf("%s (%s)", name, s.Host.IP)
	}
	fmt.Fprintf(&text, "Scan results for host %s\n", name)

	if s.IsHostUp() {
		fmt.Fprintf(&text, "\tHost is up with %s latency\n", s.Latency.String())
	} else {
		fmt.Fprintf(&text, "\t%s\n", "Host did not respond")
	}

	if s.Host.MAC != "" {
		fmt.Fprintf(&text, "\t%s %s %s\n", pad("MAC:", 14), s.Host.MAC, s.Host.Manufacturer)
	}

	rows := s.Open
	if showClosed {
		rows = s.Results
	}

	if len(rows) > 0 {
		fmt.Fprintf(&text, "\t%s\t%s\t%s\n", "PORT", pad("STATE", 10), "SERVICE")
	}

	for _, r := range rows {
		state := r.State.String()
		if r.Err != nil {
			state = "ERROR"
		}
		service := DescribePort(r.Port)
		if r.Err != nil {
			service = r.Err.Error()
		}
		fmt.Fprintf(
			&text,
			"\t%s\t%s\t%s\n",
			pad(fmt.Sprintf("%d/tcp", r.Port), 10),
			pad(state, 10),
			service,
		)
	}

	fmt.Fprintf(
		&text,
		"\t%d/%d ports probed, %d open, %d errored in %s\n",
		s.Total,
		s.Requested,
		s.OpenCount,
		s.Errored,
		s.Duration.Round(time.Millisecond).String(),
	)

	if s.Partial {
		fmt.Fprintf(&text, "\tScan was interrupted, results are partial\n")
	}

	return text.String()
}

func pad(input string, length int) string {
	for len(input) < length {
		input += " "
	}
	return input
}
