package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/root4loot/goutils/log"
	"github.com/root4loot/pageshot/pkg/pageshot"
)

const (
	author  = "@danielantonsen"
	version = "0.1.0"
	usage   = `USAGE:
  pageshot [options] [targetUrl] [label]

ARGUMENTS:
  targetUrl                      page to capture                                         (Default: http://localhost:3000)
  label                          tag appended to the filename                            (Default: none)

CONFIGURATIONS:
  -e,   --engine                 browser automation engine (rod, chromedp)               (Default: rod)
  -to,  --timeout                navigation and network-idle timeout (seconds)           (Default: 30)
  -cw,  --capture-width          viewport width                                          (Default: 1440)
  -ch,  --capture-height         viewport height                                         (Default: 900)
  -sf,  --scale-factor           device scale factor                                     (Default: 2)
  -ns,  --no-sandbox             run the browser without its sandbox                     (Default: false)
  -su,  --skip-unchanged         do not save when similar to the latest capture          (Default: false)
  -dt,  --duplicate-threshold    similarity percentage (1-100) counted as unchanged      (Default: 100)
                                 Applicable only when --skip-unchanged is enabled.

OUTPUT:
  -o,   --outfolder              save outputs to specified folder                        (Default: ./temporary screenshots)
  -im,  --imprint                add origin and label below the capture                  (Default: false)
        --debug                  enable debug mode
        --version                display version

ENVIRONMENT:
  PAGESHOT_BROWSER_PATH          browser executable to launch instead of the default
  PAGESHOT_NO_SANDBOX            same as --no-sandbox when true
`
)

type cli struct {
	Options   pageshot.Options
	TargetURL string
	Label     string
	Debug     bool
	Help      bool
	Version   bool
}

func init() {
	log.Init("pageshot")
}

func main() {
	cli, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		log.Error(err)
		fmt.Print(usage)
		os.Exit(2)
	}

	if cli.Help {
		fmt.Print(usage)
		os.Exit(0)
	}

	if cli.Version {
		fmt.Println("pageshot ", version, "by", author)
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.run(ctx); err != nil {
		handleCaptureError(cli.TargetURL, err)
		stop()
		os.Exit(1)
	}
}

func (cli *cli) run(ctx context.Context) error {
	shooter, err := pageshot.NewShooterWithOptions(cli.Options)
	if err != nil {
		return err
	}
	shooter.SetDebug(cli.Debug)

	result, err := shooter.Shoot(ctx, pageshot.Request{
		TargetURL: cli.TargetURL,
		Label:     cli.Label,
	})
	if err != nil {
		return err
	}

	if !result.Skipped {
		log.Resultf("Screenshot saved: %s", result.Path)
	}
	return nil
}

// parseFlags parses args into a cli. Positional arguments are the target URL
// and an optional label.
func parseFlags(args []string, output io.Writer) (*cli, error) {
	cli := &cli{Options: pageshot.NewOptions()}
	defaults := pageshot.NewOptions()

	var engine string

	fs := flag.NewFlagSet("pageshot", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {}

	// CONFIGURATIONS
	fs.StringVar(&engine, "engine", string(defaults.Engine), "")
	fs.StringVar(&engine, "e", string(defaults.Engine), "")
	fs.IntVar(&cli.Options.Timeout, "timeout", defaults.Timeout, "")
	fs.IntVar(&cli.Options.Timeout, "to", defaults.Timeout, "")
	fs.IntVar(&cli.Options.CaptureWidth, "capture-width", defaults.CaptureWidth, "")
	fs.IntVar(&cli.Options.CaptureWidth, "cw", defaults.CaptureWidth, "")
	fs.IntVar(&cli.Options.CaptureHeight, "capture-height", defaults.CaptureHeight, "")
	fs.IntVar(&cli.Options.CaptureHeight, "ch", defaults.CaptureHeight, "")
	fs.Float64Var(&cli.Options.DeviceScaleFactor, "scale-factor", defaults.DeviceScaleFactor, "")
	fs.Float64Var(&cli.Options.DeviceScaleFactor, "sf", defaults.DeviceScaleFactor, "")
	fs.BoolVar(&cli.Options.NoSandbox, "no-sandbox", defaults.NoSandbox, "")
	fs.BoolVar(&cli.Options.NoSandbox, "ns", defaults.NoSandbox, "")
	fs.BoolVar(&cli.Options.SkipUnchanged, "skip-unchanged", defaults.SkipUnchanged, "")
	fs.BoolVar(&cli.Options.SkipUnchanged, "su", defaults.SkipUnchanged, "")
	fs.IntVar(&cli.Options.SimilarityThreshold, "duplicate-threshold", defaults.SimilarityThreshold, "")
	fs.IntVar(&cli.Options.SimilarityThreshold, "dt", defaults.SimilarityThreshold, "")

	// OUTPUT
	fs.StringVar(&cli.Options.OutputDir, "outfolder", defaults.OutputDir, "")
	fs.StringVar(&cli.Options.OutputDir, "o", defaults.OutputDir, "")
	fs.BoolVar(&cli.Options.Imprint, "imprint", defaults.Imprint, "")
	fs.BoolVar(&cli.Options.Imprint, "im", defaults.Imprint, "")
	fs.BoolVar(&cli.Debug, "debug", false, "")
	fs.BoolVar(&cli.Help, "help", false, "")
	fs.BoolVar(&cli.Help, "h", false, "")
	fs.BoolVar(&cli.Version, "version", false, "")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			cli.Help = true
			return cli, nil
		}
		return nil, err
	}

	cli.Options.Engine = pageshot.Engine(strings.ToLower(engine))

	switch rest := fs.Args(); len(rest) {
	case 0:
	case 1:
		cli.TargetURL = rest[0]
	case 2:
		cli.TargetURL, cli.Label = rest[0], rest[1]
	default:
		return nil, fmt.Errorf("too many arguments: %s", strings.Join(rest[2:], " "))
	}

	if cli.TargetURL == "" {
		cli.TargetURL = pageshot.DefaultTargetURL
	}

	return cli, nil
}

func isDNSError(err error) bool {
	if err == nil {
		return false
	}

	errMessage := getFullErrorMessage(err)
	return strings.Contains(errMessage, "net::ERR_NAME_NOT_RESOLVED") ||
		strings.Contains(errMessage, "no such host")
}

func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	errMessage := getFullErrorMessage(err)
	return strings.Contains(errMessage, "context deadline exceeded") ||
		strings.Contains(errMessage, "timeout")
}

func getFullErrorMessage(err error) string {
	var sb strings.Builder
	for err != nil {
		sb.WriteString(err.Error())
		err = errors.Unwrap(err)
		if err != nil {
			sb.WriteString(" | ")
		}
	}
	return sb.String()
}

func handleCaptureError(target string, err error) {
	switch {
	case errors.Is(err, pageshot.ErrLaunch):
		log.Errorf("Could not start browser (set %s to use another executable): %v", pageshot.EnvBrowserPath, err)
	case isDNSError(err):
		log.Errorf("DNS lookup failed for %s: %v", target, err)
	case isTimeoutError(err):
		log.Errorf("Timed out waiting for %s to settle: %v", target, err)
	case errors.Is(err, pageshot.ErrNavigation):
		log.Errorf("Could not load %s: %v", target, err)
	default:
		log.Errorf("Error capturing screenshot for %s: %v", target, err)
	}
}
