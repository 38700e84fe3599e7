package pageshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewOptions(t *testing.T) {
	t.Setenv(EnvBrowserPath, "")
	t.Setenv(EnvNoSandbox, "")

	options := NewOptions()

	assert.Equal(t, "temporary screenshots", options.OutputDir)
	assert.Equal(t, 1440, options.CaptureWidth)
	assert.Equal(t, 900, options.CaptureHeight)
	assert.Equal(t, 2.0, options.DeviceScaleFactor)
	assert.Equal(t, EngineRod, options.Engine)
	assert.Empty(t, options.BrowserPath)
	assert.False(t, options.NoSandbox)
	assert.False(t, options.Imprint)
	assert.False(t, options.SkipUnchanged)
}

func TestNewOptionsFromEnv(t *testing.T) {
	t.Setenv(EnvBrowserPath, "/usr/bin/chromium")
	t.Setenv(EnvNoSandbox, "true")

	options := NewOptions()

	assert.Equal(t, "/usr/bin/chromium", options.BrowserPath)
	assert.True(t, options.NoSandbox)
}

func TestOptionsTimeout(t *testing.T) {
	assert.Equal(t, 5*time.Second, Options{Timeout: 5}.timeout())
	assert.Equal(t, defaultTimeout, Options{}.timeout())
	assert.Equal(t, defaultTimeout, Options{Timeout: -1}.timeout())
}
