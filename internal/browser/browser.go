// Package browser owns the headless browser session used by one scrape.
//
// The pipeline talks to the browser only through the interfaces below; the
// production implementation wraps playwright-go (see playwright.go) and
// tests use the fakes in browsertest.
package browser

import "time"

// Launcher starts a browser driver process.
type Launcher interface {
	Launch() (Driver, error)
}

// Driver is a running driver process that can launch browsers.
type Driver interface {
	NewBrowser(opts LaunchOptions) (Browser, error)
	Stop() error
}

// Browser is a launched browser instance.
type Browser interface {
	NewContext(opts ContextOptions) (Context, error)
	Close() error
}

// Context is an isolated browsing context (cookies, storage, cache).
type Context interface {
	NewPage() (Page, error)
	Close() error
}

// Page is a single tab.
type Page interface {
	// Goto loads url and waits until the network is idle or timeout elapses.
	Goto(url string, timeout time.Duration) error
	// Query returns the first element matching selector. The element is
	// resolved lazily, so a missing match only surfaces on use.
	Query(selector string) Element
	// QueryAll returns every element currently matching selector.
	QueryAll(selector string) ([]Element, error)
	Keyboard() Keyboard
	// Content returns the serialized DOM.
	Content() (string, error)
	Close() error
}

// Element is a control or node on a page.
type Element interface {
	// WaitVisible blocks until the element is visible or timeout elapses.
	WaitVisible(timeout time.Duration) error
	Click() error
	ScrollIntoView() error
	InnerText() (string, error)
	// Children returns the descendants matching selector.
	Children(selector string) ([]Element, error)
}

// Keyboard sends key events to the focused element.
type Keyboard interface {
	Press(key string) error
	Type(text string, delay time.Duration) error
}

// LaunchOptions configures the browser process.
type LaunchOptions struct {
	Headless bool
	Args     []string
	Proxy    string
}

// ContextOptions configures a browsing context.
type ContextOptions struct {
	UserAgent string
}

// DefaultArgs are the chromium flags the portal scrape runs with.
var DefaultArgs = []string{
	"--no-sandbox",
	"--disable-setuid-sandbox",
	"--disable-dev-shm-usage",
	"--disable-accelerated-2d-canvas",
	"--no-first-run",
	"--no-zygote",
	"--single-process",
	"--disable-gpu",
}
