// Package browser drives the Chrome session the watcher reads the adoption
// page through: launch (or attach to) Chrome via Rod, navigate, and hand
// back the serialized DOM on each refresh.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"doggo-watch-backend/config"
)

// Session is an open page on a managed Chrome instance.
type Session struct {
	cfg     config.BrowserConfig
	browser *rod.Browser
	lnch    *launcher.Launcher
	page    *rod.Page
	url     string
}

// Open launches Chrome (or connects to the configured remote instance),
// opens a tab and navigates it to targetURL.
func Open(ctx context.Context, cfg config.BrowserConfig, targetURL string) (*Session, error) {
	s := &Session{cfg: cfg, url: targetURL}

	var controlURL string
	if cfg.RemoteURL != "" {
		controlURL = cfg.RemoteURL
	} else {
		s.lnch = launcher.New().Headless(true)
		u, err := s.lnch.Launch()
		if err != nil {
			return nil, fmt.Errorf("browser: launch chrome: %w", err)
		}
		controlURL = u
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		s.cleanup()
		return nil, fmt.Errorf("browser: connect: %w", err)
	}
	s.browser = b

	page, err := s.openPage()
	if err != nil {
		s.cleanup()
		return nil, err
	}
	s.page = page

	if err := s.navigate(ctx); err != nil {
		s.cleanup()
		return nil, err
	}
	return s, nil
}

func (s *Session) openPage() (*rod.Page, error) {
	if s.cfg.Stealth {
		page, err := stealth.Page(s.browser)
		if err != nil {
			return nil, fmt.Errorf("browser: create stealth tab: %w", err)
		}
		return page, nil
	}
	page, err := s.browser.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		return nil, fmt.Errorf("browser: create tab: %w", err)
	}
	return page, nil
}

func (s *Session) navigate(ctx context.Context) error {
	navCtx, cancel := context.WithTimeout(ctx, s.cfg.NavTimeout)
	defer cancel()

	if err := s.page.Context(navCtx).Navigate(s.url); err != nil {
		return fmt.Errorf("browser: navigate %s: %w", s.url, err)
	}
	if err := s.page.Context(navCtx).WaitLoad(); err != nil {
		return fmt.Errorf("browser: wait load %s: %w", s.url, err)
	}
	return settle(ctx, s.cfg.SettleDelay)
}

// ReadPage refreshes the tab and returns the full DOM as outer HTML.
func (s *Session) ReadPage(ctx context.Context) (string, error) {
	navCtx, cancel := context.WithTimeout(ctx, s.cfg.NavTimeout)
	defer cancel()

	if err := s.page.Context(navCtx).Reload(); err != nil {
		return "", fmt.Errorf("browser: reload %s: %w", s.url, err)
	}
	if err := s.page.Context(navCtx).WaitLoad(); err != nil {
		return "", fmt.Errorf("browser: wait load %s: %w", s.url, err)
	}
	if err := settle(ctx, s.cfg.SettleDelay); err != nil {
		return "", err
	}

	res, err := s.page.Context(navCtx).Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return "", fmt.Errorf("browser: get DOM: %w", err)
	}
	return res.Value.Str(), nil
}

// Close shuts down the tab and, for locally launched Chrome, the process.
func (s *Session) Close() error {
	return s.cleanup()
}

func (s *Session) cleanup() error {
	var firstErr error
	if s.page != nil {
		if err := s.page.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		s.page = nil
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		s.browser = nil
	}
	if s.lnch != nil {
		s.lnch.Cleanup()
		s.lnch = nil
	}
	return firstErr
}

// settle waits out the page's client-side rendering before the DOM is read.
func settle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
