package rod

import (
	"context"
	"sync"

	"github.com/96nitishkumar/hotelscraper"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultPageBudget is the number of pages one browser process serves
// before the session relaunches it.
const DefaultPageBudget = 75

// Session is the browser a scrape run fetches through. It is opened once
// per run, hands out one tab per fetch and is torn down by Close when the
// run ends, including when the run stops early.
//
// A renderer's memory does not return to baseline after its tabs close, so
// the session relaunches the browser once it has served PageBudget pages.
type Session struct {
	mu         sync.Mutex
	browser    *rod.Browser
	launcher   *launcher.Launcher
	served     int
	budget     int
	generation int
	headless   bool
	bin        string
	closed     bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithPageBudget sets how many pages a browser process serves before it is
// relaunched. Non-positive values keep DefaultPageBudget.
func WithPageBudget(n int) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.budget = n
		}
	}
}

// WithHeadless toggles headless mode. Defaults to true.
func WithHeadless(headless bool) SessionOption {
	return func(s *Session) {
		s.headless = headless
	}
}

// WithBrowserBin launches the browser binary at path instead of the one the
// launcher finds or downloads.
func WithBrowserBin(path string) SessionOption {
	return func(s *Session) {
		s.bin = path
	}
}

// OpenSession launches the browser for a run.
func OpenSession(opts ...SessionOption) (*Session, error) {
	s := &Session{
		budget:   DefaultPageBudget,
		headless: true,
	}
	for _, opt := range opts {
		opt(s)
	}

	b, l, err := s.launch()
	if err != nil {
		return nil, err
	}
	s.browser, s.launcher = b, l
	s.generation = 1
	return s, nil
}

// Page opens a blank tab bound to ctx. The caller closes it. A relaunch
// that fails leaves the current browser in service.
func (s *Session) Page(ctx context.Context) (*rod.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, hotelscraper.Errorf(hotelscraper.EINVALID, "browser session closed")
	}
	if s.served >= s.budget {
		if b, l, err := s.launch(); err == nil {
			s.shutdown()
			s.browser, s.launcher = b, l
			s.served = 0
			s.generation++
		}
	}

	page, err := s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, classify(ctx, err, "open tab")
	}
	s.served++
	return page.Context(ctx), nil
}

// Generation reports how many browser processes the session has launched.
func (s *Session) Generation() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Close tears the browser down. Close is safe to call multiple times.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.shutdown()
}

// LauncherPID returns the process ID of the browser launcher, or 0 once the
// session is closed.
func (s *Session) LauncherPID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.launcher == nil {
		return 0
	}
	return s.launcher.PID()
}

// launch starts and connects a browser with stability flags and the flags
// that hide the most obvious automation markers.
func (s *Session) launch() (*rod.Browser, *launcher.Launcher, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Set("disable-blink-features", "AutomationControlled").
		Set("window-size", "1366,900").
		Delete("enable-automation").
		Leakless(true).
		Headless(s.headless)
	if s.bin != "" {
		l = l.Bin(s.bin)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, nil, hotelscraper.WrapError(hotelscraper.EINTERNAL, err, "launch browser")
	}
	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, nil, hotelscraper.WrapError(hotelscraper.EINTERNAL, err, "connect to browser")
	}
	return b, l, nil
}

// shutdown closes the current browser and kills its process. mu must be held.
func (s *Session) shutdown() error {
	var err error
	if s.browser != nil {
		err = s.browser.Close()
		s.browser = nil
	}
	if s.launcher != nil {
		s.launcher.Kill()
		s.launcher = nil
	}
	return err
}
