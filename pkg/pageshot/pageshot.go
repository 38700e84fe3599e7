package pageshot

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/root4loot/goutils/log"
)

// Request describes one capture.
type Request struct {
	TargetURL string // Page to load, DefaultTargetURL when empty
	Label     string // Optional filename tag
}

// Result contains the result of a screenshot capture.
type Result struct {
	TargetURL string
	Path      string // File written, or the matching capture when Skipped
	Number    int    // Sequence number of Path
	Image     []byte // PNG as written
	Skipped   bool   // Capture matched the latest one with its label and was not saved
}

// Shooter captures pages and stores them as numbered files.
type Shooter struct {
	Options  Options
	capturer Capturer
}

func Init() {
	log.Init("pageshot")
	log.SetLevel(log.InfoLevel)
}

// NewShooter creates a Shooter with default options.
func NewShooter() (*Shooter, error) {
	return NewShooterWithOptions(NewOptions())
}

// NewShooterWithOptions creates a Shooter using the engine named in options.
func NewShooterWithOptions(options Options) (*Shooter, error) {
	capturer, err := NewCapturer(options)
	if err != nil {
		return nil, err
	}
	return NewShooterWithCapturer(options, capturer), nil
}

// NewShooterWithCapturer creates a Shooter around an existing Capturer.
func NewShooterWithCapturer(options Options, capturer Capturer) *Shooter {
	return &Shooter{Options: options, capturer: capturer}
}

// SetDebug enables or disables debug logging.
func (s *Shooter) SetDebug(debug bool) {
	if debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

// Shoot captures req.TargetURL and writes it to the next numbered file in the
// output folder. Nothing is written when the browser cannot be launched or
// the page cannot be loaded.
func (s *Shooter) Shoot(ctx context.Context, req Request) (*Result, error) {
	targetURL, err := NormalizeURL(req.TargetURL)
	if err != nil {
		return nil, err
	}

	if s.Options.SkipUnchanged && (s.Options.SimilarityThreshold < 1 || s.Options.SimilarityThreshold > 100) {
		return nil, fmt.Errorf("invalid similarity threshold: %d. Must be between 1 and 100", s.Options.SimilarityThreshold)
	}

	dir := s.Options.OutputDir
	if dir == "" {
		dir = DefaultOutputDir
	}

	if err := EnsureDir(dir); err != nil {
		return nil, err
	}

	next, err := NextNumber(dir)
	if err != nil {
		return nil, fmt.Errorf("scan output folder %q: %w", dir, err)
	}
	log.Debugf("Next capture in %q is %s", dir, Filename(next, req.Label))

	image, err := s.capturer.Capture(ctx, targetURL)
	if err != nil {
		return nil, err
	}

	result := &Result{TargetURL: targetURL, Image: image}

	if s.Options.Imprint {
		result.Image, err = Imprint(result.Image, targetURL, req.Label)
		if err != nil {
			return nil, fmt.Errorf("error adding text to image for %s: %w", targetURL, err)
		}
	}

	if s.Options.SkipUnchanged {
		if match, n := s.matchLatest(dir, req.Label, result.Image); match != "" {
			log.Resultf("%s is unchanged since %s, not saving", targetURL, match)
			result.Path, result.Number, result.Skipped = match, n, true
			return result, nil
		}
	}

	result.Path, result.Number, err = Save(dir, req.Label, result.Image)
	if err != nil {
		return nil, fmt.Errorf("error saving screenshot for %s: %w", targetURL, err)
	}

	return result, nil
}

// matchLatest compares image with the latest capture carrying the same label.
func (s *Shooter) matchLatest(dir, label string, image []byte) (string, int) {
	latest, err := LatestWithLabel(dir, label)
	if err != nil || latest == "" {
		return "", 0
	}

	previous, err := os.ReadFile(latest)
	if err != nil {
		log.Warnf("Could not read %s: %v", latest, err)
		return "", 0
	}

	if !IsSimilar(image, previous, s.Options.SimilarityThreshold) {
		return "", 0
	}

	n, _ := parseNumber(filepath.Base(latest))
	return latest, n
}

// NormalizeURL fills in the default target and an http scheme, and rejects
// targets without a host.
func NormalizeURL(target string) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return DefaultTargetURL, nil
	}

	if !strings.Contains(target, "://") {
		target = "http://" + target
	}

	u, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: %q has no host", ErrInvalidURL, target)
	}

	return u.String(), nil
}
