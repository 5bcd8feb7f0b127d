package browser

import (
	"context"
	"time"

	"sjsage522/propertydealworker/helpers"
	"sjsage522/propertydealworker/logger"
	"sjsage522/propertydealworker/pkg/errors"
)

// Options configures a Session
type Options struct {
	Launch            LaunchOptions
	Context           ContextOptions
	NavigationTimeout time.Duration
	SettleDelay       time.Duration
}

// Session is one driver process, browser, context and page, owned by a
// single scrape invocation.
type Session struct {
	launcher Launcher
	opts     Options
	log      *logger.Logger

	driver  Driver
	browser Browser
	context Context
	page    Page
}

// NewSession creates a session that has not been started yet
func NewSession(launcher Launcher, opts Options, log *logger.Logger) *Session {
	if log == nil {
		log = logger.ForComponent("session")
	}
	return &Session{
		launcher: launcher,
		opts:     opts,
		log:      log,
	}
}

// Start acquires driver, browser, context and page. On failure everything
// acquired so far is released before the BrowserInitError is returned.
func (s *Session) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.NewBrowserInit("launch", "context done before launch", err)
	}

	driver, err := s.launcher.Launch()
	if err != nil {
		return errors.NewBrowserInit("launch", "failed to start browser driver", err)
	}
	s.driver = driver

	browser, err := driver.NewBrowser(s.opts.Launch)
	if err != nil {
		s.Teardown()
		return errors.NewBrowserInit("browser", "failed to launch browser", err)
	}
	s.browser = browser

	// each session presents its own agent unless one is pinned
	contextOpts := s.opts.Context
	if contextOpts.UserAgent == "" {
		contextOpts.UserAgent = helpers.RandomUserAgent()
	}

	bctx, err := browser.NewContext(contextOpts)
	if err != nil {
		s.Teardown()
		return errors.NewBrowserInit("context", "failed to create browser context", err)
	}
	s.context = bctx

	page, err := bctx.NewPage()
	if err != nil {
		s.Teardown()
		return errors.NewBrowserInit("page", "failed to open page", err)
	}
	s.page = page

	s.log.Info().
		Bool("headless", s.opts.Launch.Headless).
		Bool("proxy", s.opts.Launch.Proxy != "").
		Msg("Browser initialized")
	return nil
}

// Page returns the session page, nil before Start
func (s *Session) Page() Page {
	return s.page
}

// Navigate loads url, waits for network idle and then the settle delay.
func (s *Session) Navigate(ctx context.Context, url string) error {
	if s.page == nil {
		return errors.NewNavigation(url, errors.NewBrowserInit("page", "session not started", nil))
	}

	s.log.Info().Str("url", url).Msg("Navigating")
	if err := s.page.Goto(url, s.opts.NavigationTimeout); err != nil {
		return errors.NewNavigation(url, err)
	}

	// network idle fires before client-side rendering is done
	if err := helpers.Sleep(ctx, s.opts.SettleDelay); err != nil {
		return errors.NewNavigation(url, err)
	}

	s.log.Info().Str("url", url).Msg("Page loaded")
	return nil
}

// Teardown releases page, context, browser and driver in that order. A
// failed release is logged and does not stop the remaining ones. Calling it
// again is a no-op.
func (s *Session) Teardown() {
	if s.page != nil {
		if err := s.page.Close(); err != nil {
			s.log.Error().Err(err).Msg("Failed to close page")
		}
		s.page = nil
	}
	if s.context != nil {
		if err := s.context.Close(); err != nil {
			s.log.Error().Err(err).Msg("Failed to close browser context")
		}
		s.context = nil
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			s.log.Error().Err(err).Msg("Failed to close browser")
		}
		s.browser = nil
	}
	if s.driver != nil {
		if err := s.driver.Stop(); err != nil {
			s.log.Error().Err(err).Msg("Failed to stop browser driver")
		}
		s.driver = nil
		s.log.Info().Msg("Browser session released")
	}
}
