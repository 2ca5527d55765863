package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/liamg/sweep/scan"
	"github.com/liamg/sweep/version"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var debug bool
var timeoutMS = int(scan.DefaultTimeout / time.Millisecond)
var parallelism = scan.DefaultConcurrency
var portSelection = "1-1024"
var showClosed bool
var versionRequested bool

var (
	openStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	partialStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&versionRequested, "version", "", versionRequested, "Output version information and exit")
	rootCmd.PersistentFlags().BoolVarP(&debug, "verbose", "v", debug, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&showClosed, "show-closed", "", showClosed, "Include closed, filtered and errored ports in the final report")
	rootCmd.PersistentFlags().IntVarP(&timeoutMS, "timeout-ms", "t", timeoutMS, "Per-port connect timeout in MS")
	rootCmd.PersistentFlags().IntVarP(&parallelism, "workers", "w", parallelism, "Maximum number of ports probed at once")
	rootCmd.PersistentFlags().StringVarP(&portSelection, "ports", "p", portSelection, "Ports to scan. Comma separated, can use hyphens e.g. 22,80,443,8080-8090")
}

func createScanner(out io.Writer, timeout time.Duration, routines int) (scan.Scanner, error) {
	return scan.NewConnectScanner(
		scan.Config{
			Concurrency: routines,
			Timeout:     timeout,
		},
		scan.WithLogger(log.StandardLogger()),
		scan.WithResultHandler(func(result scan.ProbeResult) {
			if !result.Open {
				return
			}
			line := fmt.Sprintf("Discovered open port %d/tcp", result.Port)
			if service := scan.DescribePort(result.Port); service != "" {
				line = fmt.Sprintf("%s (%s)", line, service)
			}
			fmt.Fprintln(out, openStyle.Render(line))
		}),
	)
}

var rootCmd = &cobra.Command{
	Use:           "sweep [flags] <host>",
	Short:         "sweep is a concurrent TCP port scanner",
	Long:          `A bounded-concurrency TCP connect scanner for finding which ports on a host accept connections.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {

		if versionRequested {
			v := version.Version
			if v == "" {
				v = "development version"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sweep %s\n", v)
			return nil
		}

		if debug {
			log.SetLevel(log.DebugLevel)
		}

		if len(args) != 1 {
			return fmt.Errorf("please specify exactly one target host")
		}

		return run(cmd.Context(), cmd.OutOrStdout(), args[0])
	},
}

func run(ctx context.Context, out io.Writer, host string) error {

	ports, err := scan.ParsePorts(portSelection)
	if err != nil {
		return err
	}

	scanner, err := createScanner(out, time.Millisecond*time.Duration(timeoutMS), parallelism)
	if err != nil {
		return err
	}

	startTime := time.Now()

	fmt.Fprintf(out, "\nStarting scan of %s (%d ports) at %s\n\n", host, len(ports), startTime.Format(time.RFC1123))
	log.Debugf("Scanning %d ports with %d workers...", len(ports), parallelism)

	summary, err := scanner.Scan(ctx, scan.NewTarget(host, ports))
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprint(out, summary.Report(showClosed))

	if summary.Partial {
		fmt.Fprintln(out, partialStyle.Render(fmt.Sprintf("Scan interrupted after %s.", time.Since(startTime).String())))
		return nil
	}

	fmt.Fprintf(out, "Scan complete in %s.\n", time.Since(startTime).String())
	return nil
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		stop()
		os.Exit(1)
	}
}
