package browser_test

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sjsage522/propertydealworker/internal/browser"
	"sjsage522/propertydealworker/internal/browser/browsertest"
	"sjsage522/propertydealworker/logger"
	"sjsage522/propertydealworker/pkg/errors"
)

func newSession(l *browsertest.Launcher) *browser.Session {
	return browser.NewSession(l, browser.Options{
		Launch:            browser.LaunchOptions{Headless: true, Args: browser.DefaultArgs, Proxy: "http://proxy:3128"},
		Context:           browser.ContextOptions{UserAgent: "test-agent"},
		NavigationTimeout: time.Second,
	}, logger.Nop())
}

func TestSessionStartAndTeardown(t *testing.T) {
	l := &browsertest.Launcher{}
	s := newSession(l)

	require.NoError(t, s.Start(context.Background()))
	assert.NotNil(t, s.Page())
	assert.True(t, l.LaunchOptions.Headless)
	assert.Equal(t, "http://proxy:3128", l.LaunchOptions.Proxy)
	assert.Equal(t, "test-agent", l.ContextOptions.UserAgent)

	s.Teardown()
	assert.Equal(t, []string{"page", "context", "browser", "driver"}, l.ReleasedResources())
	assert.Nil(t, s.Page())

	// second teardown releases nothing more
	s.Teardown()
	assert.Len(t, l.ReleasedResources(), 4)
}

func TestSessionPicksUserAgentWhenUnset(t *testing.T) {
	l := &browsertest.Launcher{}

	for i := 0; i < 2; i++ {
		s := browser.NewSession(l, browser.Options{}, logger.Nop())
		require.NoError(t, s.Start(context.Background()))
		assert.True(t, strings.HasPrefix(l.ContextOptions.UserAgent, "Mozilla/5.0 "), l.ContextOptions.UserAgent)
		s.Teardown()
	}
}

func TestSessionStartFailuresReleasePartialResources(t *testing.T) {
	boom := stderrors.New("boom")
	tests := []struct {
		name     string
		launcher *browsertest.Launcher
		released []string
	}{
		{"driver", &browsertest.Launcher{LaunchErr: boom}, nil},
		{"browser", &browsertest.Launcher{BrowserErr: boom}, []string{"driver"}},
		{"context", &browsertest.Launcher{ContextErr: boom}, []string{"browser", "driver"}},
		{"page", &browsertest.Launcher{PageErr: boom}, []string{"context", "browser", "driver"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(tt.launcher)
			err := s.Start(context.Background())

			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrorTypeBrowserInit))
			assert.ErrorIs(t, err, boom)
			assert.Equal(t, tt.released, tt.launcher.ReleasedResources())
		})
	}
}

func TestTeardownContinuesPastCloseErrors(t *testing.T) {
	l := &browsertest.Launcher{CloseErr: stderrors.New("already closed")}
	s := newSession(l)
	require.NoError(t, s.Start(context.Background()))

	s.Teardown()
	assert.Equal(t, []string{"page", "context", "browser", "driver"}, l.ReleasedResources())
}

func TestNavigate(t *testing.T) {
	page := browsertest.NewPage()
	l := &browsertest.Launcher{Page: page}
	s := newSession(l)
	require.NoError(t, s.Start(context.Background()))
	defer s.Teardown()

	require.NoError(t, s.Navigate(context.Background(), "https://portal.example.com"))
	assert.Equal(t, []string{"https://portal.example.com"}, page.Visited)
}

func TestNavigateFailure(t *testing.T) {
	page := browsertest.NewPage()
	page.GotoErr = stderrors.New("net::ERR_NAME_NOT_RESOLVED")
	s := newSession(&browsertest.Launcher{Page: page})
	require.NoError(t, s.Start(context.Background()))
	defer s.Teardown()

	err := s.Navigate(context.Background(), "https://portal.example.com")
	assert.True(t, errors.Is(err, errors.ErrorTypeNavigation))
}

func TestNavigateBeforeStart(t *testing.T) {
	s := newSession(&browsertest.Launcher{})
	err := s.Navigate(context.Background(), "https://portal.example.com")
	assert.True(t, errors.Is(err, errors.ErrorTypeNavigation))
}

func TestStartWithCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := &browsertest.Launcher{}
	err := newSession(l).Start(ctx)
	assert.True(t, errors.Is(err, errors.ErrorTypeBrowserInit))
	assert.Equal(t, 0, l.Launches)
}
