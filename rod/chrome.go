package rod

import (
	"fmt"
	"strings"
	"sync"

	"github.com/fwojciec/siteaudit"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultRecycleAfter is the number of renders after which Chrome is
// restarted.
const DefaultRecycleAfter = 200

// Chrome owns a headless Chrome process and opens one tab per render.
// The process is restarted every recycleAfter renders so a crawl of a large
// site does not accumulate renderer memory. Tabs still open during a restart
// fail and the caller sees the error.
//
// Chrome is safe for concurrent use.
type Chrome struct {
	mu           sync.Mutex
	browser      *rod.Browser
	launcher     *launcher.Launcher
	flags        []string
	renders      int
	recycleAfter int
	closed       bool
}

// ChromeOption configures Chrome.
type ChromeOption func(*Chrome)

// WithRecycleAfter sets how many renders one Chrome process serves.
func WithRecycleAfter(n int) ChromeOption {
	return func(c *Chrome) {
		c.recycleAfter = n
	}
}

// WithFlags adds command-line switches such as "--no-sandbox" or
// "--proxy-server=host:3128".
func WithFlags(flags ...string) ChromeOption {
	return func(c *Chrome) {
		c.flags = append(c.flags, flags...)
	}
}

// StartChrome launches headless Chrome. Close must be called when it is no
// longer needed.
func StartChrome(opts ...ChromeOption) (*Chrome, error) {
	c := &Chrome{recycleAfter: DefaultRecycleAfter}
	for _, opt := range opts {
		opt(c)
	}
	if c.recycleAfter < 1 {
		c.recycleAfter = 1
	}

	browser, l, err := c.launch()
	if err != nil {
		return nil, err
	}
	c.browser, c.launcher = browser, l
	return c, nil
}

// Page opens a tab for one render, restarting Chrome first when the current
// process has served recycleAfter renders. A failed restart keeps the old
// process. The caller closes the page.
func (c *Chrome) Page() (*rod.Page, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, siteaudit.Errorf(siteaudit.EINVALID, "chrome is closed")
	}
	if c.renders >= c.recycleAfter {
		if browser, l, err := c.launch(); err == nil {
			c.shutdown()
			c.browser, c.launcher = browser, l
			c.renders = 0
		}
	}

	page, err := c.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("open tab: %w", err)
	}
	c.renders++
	return page, nil
}

// Renders returns the number of tabs opened on the current process.
func (c *Chrome) Renders() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.renders
}

// PID returns the process ID of the Chrome launcher, or 0 once closed.
func (c *Chrome) PID() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.launcher == nil {
		return 0
	}
	return c.launcher.PID()
}

// Close shuts Chrome down. Close is safe to call multiple times.
func (c *Chrome) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.shutdown()
}

func (c *Chrome) launch() (*rod.Browser, *launcher.Launcher, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("mute-audio").
		Leakless(true).
		Headless(true)
	for _, f := range c.flags {
		name, value := SplitFlag(f)
		if name == "" {
			continue
		}
		if value == "" {
			l = l.Set(flags.Flag(name))
		} else {
			l = l.Set(flags.Flag(name), value)
		}
	}

	u, err := l.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("launch chrome: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, nil, fmt.Errorf("connect to chrome: %w", err)
	}
	return browser, l, nil
}

// shutdown stops the current process. Must be called with mu held.
func (c *Chrome) shutdown() error {
	var err error
	if c.browser != nil {
		err = c.browser.Close()
		c.browser = nil
	}
	if c.launcher != nil {
		c.launcher.Kill()
		c.launcher = nil
	}
	return err
}

// SplitFlag splits a Chrome switch such as "--window-size=800,600" into its
// name and value. Leading dashes are dropped.
func SplitFlag(s string) (name, value string) {
	s = strings.TrimLeft(strings.TrimSpace(s), "-")
	name, value, _ = strings.Cut(s, "=")
	return name, value
}
