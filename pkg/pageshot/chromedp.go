package pageshot

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/root4loot/goutils/log"
)

// lifecycleNetworkAlmostIdle fires once no more than two connections have
// been open for 500ms.
const lifecycleNetworkAlmostIdle = "networkAlmostIdle"

type chromedpCapturer struct {
	options Options
}

func (c *chromedpCapturer) Capture(ctx context.Context, targetURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.options.timeout())
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:], c.customFlags()...)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	cctx, cancelContext := chromedp.NewContext(allocCtx)
	defer cancelContext()

	// The first Run starts the browser.
	if err := chromedp.Run(cctx); err != nil {
		return nil, launchError(err)
	}

	idle := newIdleWatch(cdp.FrameID(chromedp.FromContext(cctx).Target.TargetID))
	chromedp.ListenTarget(cctx, idle.handle)

	log.Debugf("Navigating to %s", targetURL)
	err := chromedp.Run(cctx,
		chromedp.EmulateViewport(
			int64(c.options.CaptureWidth),
			int64(c.options.CaptureHeight),
			chromedp.EmulateScale(c.options.DeviceScaleFactor),
		),
		page.SetLifecycleEventsEnabled(true),
		chromedp.Navigate(targetURL),
		chromedp.ActionFunc(idle.wait),
	)
	if err != nil {
		return nil, navigationError(targetURL, err)
	}

	var image []byte
	if err := chromedp.Run(cctx, chromedp.FullScreenshot(&image, 100)); err != nil {
		return nil, fmt.Errorf("error capturing screenshot for %s: %w", targetURL, err)
	}

	return image, nil
}

// customFlags returns chromedp.ExecAllocatorOptions based on the options.
func (c *chromedpCapturer) customFlags() []chromedp.ExecAllocatorOption {
	var flags []chromedp.ExecAllocatorOption

	flags = append(flags, chromedp.Flag("headless", true))

	if c.options.BrowserPath != "" {
		flags = append(flags, chromedp.ExecPath(c.options.BrowserPath))
	}

	if c.options.NoSandbox {
		flags = append(flags, chromedp.NoSandbox)
	}

	return flags
}

// idleWatch tracks networkAlmostIdle for the most recent document loader of
// the main frame. Events from about:blank are discarded when the next
// loader initializes.
type idleWatch struct {
	frame  cdp.FrameID
	mu     sync.Mutex
	loader cdp.LoaderID
	done   chan struct{}
	fired  bool
}

// newIdleWatch watches frame, which for a page target shares the target's ID.
func newIdleWatch(frame cdp.FrameID) *idleWatch {
	return &idleWatch{frame: frame, done: make(chan struct{})}
}

func (w *idleWatch) handle(ev interface{}) {
	e, ok := ev.(*page.EventLifecycleEvent)
	if !ok || e.FrameID != w.frame {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	switch e.Name {
	case "init":
		w.loader = e.LoaderID
		if w.fired {
			w.done = make(chan struct{})
			w.fired = false
		}
	case lifecycleNetworkAlmostIdle:
		if e.LoaderID == w.loader && !w.fired {
			w.fired = true
			close(w.done)
		}
	}
}

func (w *idleWatch) wait(ctx context.Context) error {
	w.mu.Lock()
	done := w.done
	w.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
