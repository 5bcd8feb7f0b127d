// Package browsertest provides in-memory fakes of the browser interfaces.
package browsertest

import (
	"errors"
	"sync"
	"time"

	"sjsage522/propertydealworker/internal/browser"
)

// ErrNotVisible is returned when waiting for an element that never shows up
var ErrNotVisible = errors.New("element not visible")

// Launcher is a fake browser.Launcher that records which resources were
// released and in what order.
type Launcher struct {
	mu sync.Mutex

	// Page is handed out by the context; a blank one is created when nil
	Page *Page

	LaunchErr  error
	BrowserErr error
	ContextErr error
	PageErr    error
	// CloseErr is returned by every Close and Stop call
	CloseErr error

	Launches       int
	Released       []string
	LaunchOptions  browser.LaunchOptions
	ContextOptions browser.ContextOptions
}

var _ browser.Launcher = (*Launcher)(nil)

// Launch implements browser.Launcher
func (l *Launcher) Launch() (browser.Driver, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Launches++
	if l.LaunchErr != nil {
		return nil, l.LaunchErr
	}
	return &driver{l: l}, nil
}

// ReleasedResources returns a copy of the release log
func (l *Launcher) ReleasedResources() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.Released...)
}

func (l *Launcher) release(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Released = append(l.Released, name)
	return l.CloseErr
}

type driver struct{ l *Launcher }

func (d *driver) NewBrowser(opts browser.LaunchOptions) (browser.Browser, error) {
	d.l.mu.Lock()
	defer d.l.mu.Unlock()
	d.l.LaunchOptions = opts
	if d.l.BrowserErr != nil {
		return nil, d.l.BrowserErr
	}
	return &fakeBrowser{l: d.l}, nil
}

func (d *driver) Stop() error { return d.l.release("driver") }

type fakeBrowser struct{ l *Launcher }

func (b *fakeBrowser) NewContext(opts browser.ContextOptions) (browser.Context, error) {
	b.l.mu.Lock()
	defer b.l.mu.Unlock()
	b.l.ContextOptions = opts
	if b.l.ContextErr != nil {
		return nil, b.l.ContextErr
	}
	return &fakeContext{l: b.l}, nil
}

func (b *fakeBrowser) Close() error { return b.l.release("browser") }

type fakeContext struct{ l *Launcher }

func (c *fakeContext) NewPage() (browser.Page, error) {
	c.l.mu.Lock()
	defer c.l.mu.Unlock()
	if c.l.PageErr != nil {
		return nil, c.l.PageErr
	}
	if c.l.Page == nil {
		c.l.Page = NewPage()
	}
	return &pageHandle{Page: c.l.Page, l: c.l}, nil
}

func (c *fakeContext) Close() error { return c.l.release("context") }

type pageHandle struct {
	*Page
	l *Launcher
}

func (h *pageHandle) Close() error {
	h.Page.Close()
	return h.l.release("page")
}

// Page is a fake browser.Page. Every interaction is appended to an event
// log so tests can assert ordering.
type Page struct {
	mu       sync.Mutex
	elements map[string]*Element
	lists    map[string][]*Element
	events   []string

	HTML        string
	GotoErr     error
	ContentErr  error
	QueryAllErr error
	PressErr    map[string]error
	TypeErr     error
	Visited     []string
}

var _ browser.Page = (*Page)(nil)

// NewPage creates an empty page
func NewPage() *Page {
	return &Page{
		elements: make(map[string]*Element),
		lists:    make(map[string][]*Element),
		PressErr: make(map[string]error),
	}
}

// Add registers a visible element under selector
func (p *Page) Add(selector string) *Element {
	p.mu.Lock()
	defer p.mu.Unlock()
	el := &Element{page: p, selector: selector, Visible: true}
	p.elements[selector] = el
	return el
}

// SetTable renders rows so that QueryAll(rowSelector) returns one element
// per row whose Children(cellSelector) are the given cell texts.
func (p *Page) SetTable(rowSelector, cellSelector string, rows [][]string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var rowElements []*Element
	for _, cells := range rows {
		row := &Element{page: p, selector: rowSelector, Visible: true, children: make(map[string][]*Element)}
		for _, text := range cells {
			row.children[cellSelector] = append(row.children[cellSelector], &Element{page: p, selector: cellSelector, Visible: true, Text: text})
		}
		rowElements = append(rowElements, row)
	}
	p.lists[rowSelector] = rowElements
}

// Rows returns the row elements rendered for selector
func (p *Page) Rows(selector string) []*Element {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lists[selector]
}

// Events returns a copy of the interaction log
func (p *Page) Events() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

func (p *Page) record(event string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

// Goto implements browser.Page
func (p *Page) Goto(url string, timeout time.Duration) error {
	p.record("goto:" + url)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Visited = append(p.Visited, url)
	return p.GotoErr
}

// Query implements browser.Page
func (p *Page) Query(selector string) browser.Element {
	p.mu.Lock()
	defer p.mu.Unlock()
	if el, ok := p.elements[selector]; ok {
		return el
	}
	return &Element{page: p, selector: selector}
}

// QueryAll implements browser.Page
func (p *Page) QueryAll(selector string) ([]browser.Element, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.QueryAllErr != nil {
		return nil, p.QueryAllErr
	}
	return toElements(p.lists[selector]), nil
}

// Keyboard implements browser.Page
func (p *Page) Keyboard() browser.Keyboard {
	return &keyboard{page: p}
}

// Content implements browser.Page
func (p *Page) Content() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.HTML, p.ContentErr
}

// Close implements browser.Page
func (p *Page) Close() error {
	p.record("close")
	return nil
}

// Element is a fake browser.Element
type Element struct {
	page     *Page
	selector string
	children map[string][]*Element

	Visible  bool
	Text     string
	ClickErr error
	TextErr  error
}

// WaitVisible implements browser.Element
func (e *Element) WaitVisible(timeout time.Duration) error {
	if !e.Visible {
		return ErrNotVisible
	}
	return nil
}

// Click implements browser.Element
func (e *Element) Click() error {
	if e.ClickErr != nil {
		return e.ClickErr
	}
	e.page.record("click:" + e.selector)
	return nil
}

// ScrollIntoView implements browser.Element
func (e *Element) ScrollIntoView() error {
	e.page.record("scroll:" + e.selector)
	return nil
}

// InnerText implements browser.Element
func (e *Element) InnerText() (string, error) {
	return e.Text, e.TextErr
}

// Children implements browser.Element
func (e *Element) Children(selector string) ([]browser.Element, error) {
	return toElements(e.children[selector]), nil
}

// Cell returns the i-th child under selector, for tests that tweak one cell
func (e *Element) Cell(selector string, i int) *Element {
	return e.children[selector][i]
}

func toElements(in []*Element) []browser.Element {
	out := make([]browser.Element, 0, len(in))
	for _, el := range in {
		out = append(out, el)
	}
	return out
}

type keyboard struct{ page *Page }

func (k *keyboard) Press(key string) error {
	k.page.mu.Lock()
	err := k.page.PressErr[key]
	k.page.mu.Unlock()
	if err != nil {
		return err
	}
	k.page.record("press:" + key)
	return nil
}

func (k *keyboard) Type(text string, delay time.Duration) error {
	k.page.mu.Lock()
	err := k.page.TypeErr
	k.page.mu.Unlock()
	if err != nil {
		return err
	}
	k.page.record("type:" + text)
	return nil
}
