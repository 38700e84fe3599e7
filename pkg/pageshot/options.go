package pageshot

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/root4loot/goutils/log"
)

const (
	// EnvBrowserPath overrides the browser executable used by both engines.
	EnvBrowserPath = "PAGESHOT_BROWSER_PATH"
	// EnvNoSandbox disables the Chrome sandbox when set to a true value.
	EnvNoSandbox = "PAGESHOT_NO_SANDBOX"

	DefaultTargetURL = "http://localhost:3000"
	DefaultOutputDir = "temporary screenshots"

	defaultTimeout = 30 * time.Second
)

// Engine names a browser automation backend.
type Engine string

const (
	EngineRod      Engine = "rod"
	EngineChromedp Engine = "chromedp"
)

// Options contains the options for capturing and storing screenshots.
type Options struct {
	OutputDir           string        // Folder receiving numbered captures
	CaptureWidth        int           // Viewport width (CSS pixels)
	CaptureHeight       int           // Viewport height (CSS pixels)
	DeviceScaleFactor   float64       // Device pixel ratio
	Timeout             int           // Navigation and idle budget (seconds)
	IdleWindow          time.Duration // Quiet period that counts as network idle
	Engine              Engine        // Automation backend
	BrowserPath         string        // Browser executable, empty for lookup
	NoSandbox           bool          // Run Chrome without its sandbox
	Imprint             bool          // Stamp origin and label under the capture
	SkipUnchanged       bool          // Do not save when similar to the latest capture
	SimilarityThreshold int           // ssdeep score (1-100) treated as unchanged
}

// NewOptions returns an Options struct initialized with default values.
// Environment overrides are applied on top, after loading .env if present.
func NewOptions() Options {
	loadDotEnv()

	return Options{
		OutputDir:           DefaultOutputDir,
		CaptureWidth:        1440,
		CaptureHeight:       900,
		DeviceScaleFactor:   2,
		Timeout:             30,
		IdleWindow:          500 * time.Millisecond,
		Engine:              EngineRod,
		BrowserPath:         os.Getenv(EnvBrowserPath),
		NoSandbox:           envBool(EnvNoSandbox),
		Imprint:             false,
		SkipUnchanged:       false,
		SimilarityThreshold: 100,
	}
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return defaultTimeout
	}
	return time.Duration(o.Timeout) * time.Second
}

func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("Could not load .env: %v", err)
	}
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
