package pageshot

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrLaunch marks a browser that could not be started or connected to.
	ErrLaunch = errors.New("browser launch failed")
	// ErrNavigation marks a target that could not be loaded or never settled.
	ErrNavigation = errors.New("navigation failed")
	// ErrInvalidURL marks a target that is not an absolute URL.
	ErrInvalidURL = errors.New("invalid target url")
)

// Capturer renders a page in a headless browser and returns a full-page PNG.
// Implementations own the browser for the duration of one call and release it
// before returning, whatever the outcome.
type Capturer interface {
	Capture(ctx context.Context, targetURL string) ([]byte, error)
}

// NewCapturer returns the Capturer for the engine selected in options.
func NewCapturer(options Options) (Capturer, error) {
	switch options.Engine {
	case EngineRod, "":
		return &rodCapturer{options: options}, nil
	case EngineChromedp:
		return &chromedpCapturer{options: options}, nil
	default:
		return nil, fmt.Errorf("unknown engine %q (want %q or %q)", options.Engine, EngineRod, EngineChromedp)
	}
}

func launchError(err error) error {
	return fmt.Errorf("%w: %w", ErrLaunch, err)
}

func navigationError(targetURL string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrNavigation, targetURL, err)
}
