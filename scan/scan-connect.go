package scan

import (
	"context"
	"errors"
	"net"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DialFunc matches (*net.Dialer).DialContext.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

type Option func(*ConnectScanner)

// WithDialFunc replaces the dialer used for probes.
func WithDialFunc(dial DialFunc) Option {
	return func(s *ConnectScanner) {
		s.dial = dial
	}
}

func WithResolver(resolver Resolver) Option {
	return func(s *ConnectScanner) {
		s.resolver = resolver
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *ConnectScanner) {
		s.log = logger
	}
}

// WithResultHandler registers a callback invoked once per completed probe, as soon as the
// result is known. Calls come from a single goroutine, never concurrently.
func WithResultHandler(handler func(ProbeResult)) Option {
	return func(s *ConnectScanner) {
		s.handler = handler
	}
}

// ConnectScanner probes ports with full TCP handshakes using a fixed pool of workers.
type ConnectScanner struct {
	config   Config
	dial     DialFunc
	resolver Resolver
	log      logrus.FieldLogger
	handler  func(ProbeResult)
}

func NewConnectScanner(config Config, opts ...Option) (*ConnectScanner, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	dialer := &net.Dialer{
		KeepAlive: -1,
	}

	s := &ConnectScanner{
		config:   config,
		dial:     dialer.DialContext,
		resolver: net.DefaultResolver,
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Scan probes every port of the target exactly once. If ctx is cancelled the scan stops
// early and the returned summary is marked partial; cancellation is not reported as an error.
func (s *ConnectScanner) Scan(ctx context.Context, target Target) (*Summary, error) {

	ports, err := target.queue()
	if err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	started := time.Now()
	log := s.log.WithFields(logrus.Fields{
		"run_id": runID,
		"host":   target.Host,
	})

	host, err := resolveHost(ctx, s.resolver, target.Host)
	if err != nil {
		if ctx.Err() != nil {
			log.Debugf("Scan cancelled while resolving host")
			return newSummary(runID, host, len(ports), []ProbeResult{}, started), nil
		}
		return nil, err
	}

	workers := s.config.Concurrency
	if workers > len(ports) {
		workers = len(ports)
	}

	log.WithFields(logrus.Fields{
		"ip":      host.IP.String(),
		"ports":   len(ports),
		"workers": workers,
		"timeout": s.config.Timeout.String(),
	}).Debugf("Starting connect scan")

	queue := make(chan int, len(ports))
	for _, port := range ports {
		queue <- port
	}
	close(queue)

	resultChan := make(chan ProbeResult, workers)

	g := &errgroup.Group{}
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for port := range queue {
				if err := ctx.Err(); err != nil {
					return err
				}
				result, ok := s.scanPort(ctx, host.IP, port)
				if !ok {
					return ctx.Err()
				}
				resultChan <- result
			}
			return nil
		})
	}

	go func() {
		if err := g.Wait(); err != nil {
			log.Debugf("Workers stopped early: %s", err)
		}
		close(resultChan)
	}()

	results := make([]ProbeResult, 0, len(ports))
	for result := range resultChan {
		if result.Err != nil {
			log.WithField("port", result.Port).Warnf("Probe failed: %s", result.Err)
		}
		results = append(results, result)
		if s.handler != nil {
			s.handler(result)
		}
	}

	summary := newSummary(runID, host, len(ports), results, started)

	log.WithFields(logrus.Fields{
		"probed":   summary.Total,
		"open":     summary.OpenCount,
		"errored":  summary.Errored,
		"partial":  summary.Partial,
		"duration": summary.Duration.String(),
	}).Debugf("Scan complete")

	return summary, nil
}

// scanPort performs a single connect probe. It returns false when the probe was abandoned
// because ctx was cancelled, in which case no result exists for the port.
func (s *ConnectScanner) scanPort(ctx context.Context, ip net.IP, port int) (ProbeResult, bool) {

	result := ProbeResult{
		Port: port,
	}

	probeCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	conn, err := s.dial(probeCtx, "tcp", net.JoinHostPort(ip.String(), strconv.Itoa(port)))
	result.Latency = time.Since(start)

	if err == nil {
		_ = conn.Close()
		result.Open = true
		result.State = PortOpen
		return result, true
	}

	if ctx.Err() != nil {
		return result, false
	}

	state, perr := classify(err)
	result.State = state
	result.Err = perr
	return result, true
}

// classify maps a failed dial to a port state. Refusals and timeouts are the expected
// answers from closed and filtered ports and carry no error.
func classify(err error) (PortState, error) {
	var netErr net.Error
	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return PortClosed, nil
	case errors.Is(err, context.DeadlineExceeded):
		return PortFiltered, nil
	case errors.As(err, &netErr) && netErr.Timeout():
		return PortFiltered, nil
	case strings.Contains(err.Error(), "refused"):
		return PortClosed, nil
	}
	return PortUnknown, &ProbeError{Kind: kindOf(err), Err: err}
}
