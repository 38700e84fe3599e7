package pageshot

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/root4loot/goutils/log"
)

// Long-lived connections never go idle; a dev server's hot-reload socket
// would otherwise hold the wait until timeout.
var idleExcludeTypes = []proto.NetworkResourceType{
	proto.NetworkResourceTypeWebSocket,
	proto.NetworkResourceTypeEventSource,
}

type rodCapturer struct {
	options Options
}

func (c *rodCapturer) Capture(ctx context.Context, targetURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.options.timeout())
	defer cancel()

	l := launcher.New().
		Context(ctx).
		Headless(true).
		NoSandbox(c.options.NoSandbox)

	if bin := c.browserBin(); bin != "" {
		l = l.Bin(bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		l.Kill()
		return nil, launchError(err)
	}
	defer l.Cleanup()

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, launchError(err)
	}
	defer func() {
		if err := browser.Close(); err != nil {
			log.Debugf("Closing browser failed, killing it: %v", err)
			l.Kill()
		}
	}()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, launchError(err)
	}
	page = page.Context(ctx)

	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             c.options.CaptureWidth,
		Height:            c.options.CaptureHeight,
		DeviceScaleFactor: c.options.DeviceScaleFactor,
		Mobile:            false,
	})
	if err != nil {
		return nil, fmt.Errorf("set viewport: %w", err)
	}

	waitIdle := page.WaitRequestIdle(c.options.IdleWindow, nil, nil, idleExcludeTypes)

	log.Debugf("Navigating to %s", targetURL)
	if err := page.Navigate(targetURL); err != nil {
		return nil, navigationError(targetURL, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, navigationError(targetURL, err)
	}

	waitIdle()
	if err := ctx.Err(); err != nil {
		return nil, navigationError(targetURL, err)
	}

	image, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("error capturing screenshot for %s: %w", targetURL, err)
	}

	return image, nil
}

func (c *rodCapturer) browserBin() string {
	if c.options.BrowserPath != "" {
		return c.options.BrowserPath
	}
	path, _ := launcher.LookPath()
	return path
}
