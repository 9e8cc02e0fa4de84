package surface

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

// ErrNoPrompt is returned when a prompt is answered while none is open
var ErrNoPrompt = errors.New("no confirmation prompt is open")

// Session owns the playwright driver, the browser and the single page reused by a run
type Session struct {
	*Page
	pw      *playwright.Playwright
	browser playwright.Browser
}

// LaunchOptions configures the browser started by Launch
type LaunchOptions struct {
	Headless      bool
	SlowMo        time.Duration
	ActionTimeout time.Duration
}

// Launch starts playwright and a Chromium browser with one page.
// The caller must Close the session, including when the run fails.
func Launch(opts LaunchOptions) (*Session, error) {
	// Browsers must already be installed: go run github.com/playwright-community/playwright-go/cmd/playwright install chromium
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		SlowMo:   playwright.Float(float64(opts.SlowMo.Milliseconds())),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	page, err := browser.NewPage()
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return &Session{
		Page:    NewPage(page, opts.ActionTimeout),
		pw:      pw,
		browser: browser,
	}, nil
}

// Close releases the page, the browser and the playwright driver
func (s *Session) Close() error {
	var errs []error
	if err := s.page.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close page: %w", err))
	}
	if err := s.browser.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close browser: %w", err))
	}
	if err := s.pw.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("stop playwright: %w", err))
	}
	return errors.Join(errs...)
}

// Page adapts a playwright page to Surface.
//
// Native dialogs are captured instead of auto-dismissed. A click that raises
// a dialog cannot complete until the dialog is answered, so Click returns as
// soon as a dialog opens and the click is settled by AcceptPrompt or
// DismissPrompt.
type Page struct {
	page    playwright.Page
	timeout *float64

	mu      sync.Mutex
	prompt  playwright.Dialog
	pending chan error
	opened  chan struct{}
}

var _ Surface = (*Page)(nil)

// NewPage wraps page. actionTimeout bounds each individual playwright action;
// zero leaves playwright's default.
func NewPage(page playwright.Page, actionTimeout time.Duration) *Page {
	p := &Page{
		page:   page,
		opened: make(chan struct{}, 1),
	}
	if actionTimeout > 0 {
		p.timeout = playwright.Float(float64(actionTimeout.Milliseconds()))
	}
	page.OnDialog(p.onDialog)
	return p
}

func (p *Page) onDialog(dialog playwright.Dialog) {
	p.mu.Lock()
	p.prompt = dialog
	p.mu.Unlock()

	select {
	case p.opened <- struct{}{}:
	default:
	}
}

// Open navigates to url
func (p *Page) Open(url string) error {
	if _, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   p.timeout,
	}); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// Title returns the document title
func (p *Page) Title() (string, error) {
	return p.page.Title()
}

// Count returns the number of matches
func (p *Page) Count(selector string) (int, error) {
	return p.page.Locator(selector).Count()
}

// first returns the first match and whether one exists. Locator reads block
// until an element appears, so callers check existence before reading.
func (p *Page) first(selector string) (playwright.Locator, bool, error) {
	locator := p.page.Locator(selector)
	n, err := locator.Count()
	if err != nil {
		return nil, false, err
	}
	return locator.First(), n > 0, nil
}

// Visible reports whether the first match is visible
func (p *Page) Visible(selector string) (bool, error) {
	return p.page.Locator(selector).First().IsVisible()
}

// Enabled reports whether the first match exists and is enabled
func (p *Page) Enabled(selector string) (bool, error) {
	locator, ok, err := p.first(selector)
	if err != nil || !ok {
		return false, err
	}
	return locator.IsEnabled(playwright.LocatorIsEnabledOptions{Timeout: p.timeout})
}

// Attribute returns the attribute of the first match
func (p *Page) Attribute(selector, name string) (string, error) {
	locator, ok, err := p.first(selector)
	if err != nil || !ok {
		return "", err
	}
	return locator.GetAttribute(name, playwright.LocatorGetAttributeOptions{Timeout: p.timeout})
}

// Text returns the rendered text of the first match
func (p *Page) Text(selector string) (string, error) {
	locator, ok, err := p.first(selector)
	if err != nil || !ok {
		return "", err
	}
	return locator.InnerText(playwright.LocatorInnerTextOptions{Timeout: p.timeout})
}

// Texts returns the rendered text of every match
func (p *Page) Texts(selector string) ([]string, error) {
	return p.page.Locator(selector).AllInnerTexts()
}

// Click clicks the first match
func (p *Page) Click(selector string) error {
	select {
	case <-p.opened:
	default:
	}

	done := make(chan error, 1)
	go func() {
		done <- p.page.Locator(selector).First().Click(playwright.LocatorClickOptions{Timeout: p.timeout})
	}()

	select {
	case err := <-done:
		return err
	case <-p.opened:
		p.mu.Lock()
		p.pending = done
		p.mu.Unlock()
		return nil
	}
}

// Fill replaces the value of the first match
func (p *Page) Fill(selector, value string) error {
	return p.page.Locator(selector).First().Fill(value, playwright.LocatorFillOptions{Timeout: p.timeout})
}

// SelectOption chooses the option at index of the first matching select
func (p *Page) SelectOption(selector string, index int) error {
	_, err := p.page.Locator(selector).First().SelectOption(
		playwright.SelectOptionValues{Indexes: &[]int{index}},
		playwright.LocatorSelectOptionOptions{Timeout: p.timeout},
	)
	return err
}

// PromptPresent reports whether a native dialog is waiting for an answer
func (p *Page) PromptPresent() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.prompt != nil, nil
}

// PromptMessage returns the message of the open dialog
func (p *Page) PromptMessage() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.prompt == nil {
		return "", ErrNoPrompt
	}
	return p.prompt.Message(), nil
}

// AcceptPrompt accepts the open dialog
func (p *Page) AcceptPrompt() error {
	return p.answer(func(d playwright.Dialog) error { return d.Accept() })
}

// DismissPrompt dismisses the open dialog
func (p *Page) DismissPrompt() error {
	return p.answer(func(d playwright.Dialog) error { return d.Dismiss() })
}

func (p *Page) answer(respond func(playwright.Dialog) error) error {
	p.mu.Lock()
	dialog, pending := p.prompt, p.pending
	p.prompt, p.pending = nil, nil
	p.mu.Unlock()

	if dialog == nil {
		return ErrNoPrompt
	}
	if err := respond(dialog); err != nil {
		return fmt.Errorf("failed to answer prompt: %w", err)
	}
	if pending != nil {
		if err := <-pending; err != nil {
			return fmt.Errorf("click behind prompt failed: %w", err)
		}
	}
	return nil
}
