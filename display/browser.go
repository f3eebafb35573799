package display

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/chromedp/cdproto/inspector"
	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"

	"covid-visualizer/charts"
	"covid-visualizer/utils"
)

// Browser opens each chart in its own headful Chrome window and waits for
// the user to close it. The PNG is saved to disk first so the window can
// load it from a file URL.
type Browser struct {
	chromeBin string
	files     *Files
	logger    *utils.Logger
}

// NewBrowser creates a Browser launching chromeBin and staging images in dir.
func NewBrowser(chromeBin, dir string, logger *utils.Logger) (*Browser, error) {
	files, err := NewFiles(dir, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("[display] Using browser binary: %s", chromeBin)
	return &Browser{chromeBin: chromeBin, files: files, logger: logger}, nil
}

func (b *Browser) Show(ctx context.Context, a *charts.Artifact) error {
	path, err := b.files.write(ctx, a)
	if err != nil {
		return err
	}
	pageURL, err := fileURL(path)
	if err != nil {
		return err
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", false),
		chromedp.Flag("hide-scrollbars", false),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("no-default-browser-check", true),
		chromedp.Flag("allow-file-access-from-files", true),
		chromedp.WindowSize(a.Width, a.Height),
		chromedp.ExecPath(b.chromeBin),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelTab()

	closed := make(chan struct{})
	var once sync.Once
	markClosed := func() { once.Do(func() { close(closed) }) }

	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		if _, ok := ev.(*inspector.EventDetached); ok {
			markClosed()
		}
	})

	if err := chromedp.Run(tabCtx, chromedp.Navigate(pageURL)); err != nil {
		return fmt.Errorf("display: open %s: %w", a.Name, err)
	}

	tabID := chromedp.FromContext(tabCtx).Target.TargetID
	chromedp.ListenBrowser(tabCtx, func(ev interface{}) {
		if e, ok := ev.(*target.EventTargetDestroyed); ok && e.TargetID == tabID {
			markClosed()
		}
	})

	b.logger.Info("[display] Showing %q, close the window to continue", a.Title)

	select {
	case <-closed:
		return nil
	case <-tabCtx.Done():
		if err := ctx.Err(); err != nil {
			return err
		}
		return nil
	}
}

func (b *Browser) Close() error { return nil }

func fileURL(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("display: resolve %s: %w", path, err)
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}

// findChromeBinary locates a Chrome/Chromium binary. An explicit path wins.
func findChromeBinary(preferred string) string {
	if preferred != "" {
		return preferred
	}
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
