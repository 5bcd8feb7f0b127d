package browser

import (
	"time"

	pw "github.com/playwright-community/playwright-go"

	"sjsage522/propertydealworker/helpers"
)

// PlaywrightLauncher starts a playwright driver and launches chromium
type PlaywrightLauncher struct {
	// Install downloads the driver and chromium before the first run
	Install bool
}

// Launch starts the playwright driver process
func (l PlaywrightLauncher) Launch() (Driver, error) {
	if l.Install {
		if err := pw.Install(&pw.RunOptions{Browsers: []string{"chromium"}}); err != nil {
			return nil, err
		}
	}

	instance, err := pw.Run()
	if err != nil {
		return nil, err
	}
	return &playwrightDriver{pw: instance}, nil
}

type playwrightDriver struct {
	pw *pw.Playwright
}

func (d *playwrightDriver) NewBrowser(opts LaunchOptions) (Browser, error) {
	launchOptions := pw.BrowserTypeLaunchOptions{
		Headless: pw.Bool(opts.Headless),
		Args:     opts.Args,
	}
	if opts.Proxy != "" {
		launchOptions.Proxy = &pw.Proxy{Server: opts.Proxy}
	}

	b, err := d.pw.Chromium.Launch(launchOptions)
	if err != nil {
		return nil, err
	}
	return &playwrightBrowser{browser: b}, nil
}

func (d *playwrightDriver) Stop() error {
	return d.pw.Stop()
}

type playwrightBrowser struct {
	browser pw.Browser
}

func (b *playwrightBrowser) NewContext(opts ContextOptions) (Context, error) {
	var contextOptions pw.BrowserNewContextOptions
	if opts.UserAgent != "" {
		contextOptions.UserAgent = pw.String(opts.UserAgent)
	}

	c, err := b.browser.NewContext(contextOptions)
	if err != nil {
		return nil, err
	}
	return &playwrightContext{context: c}, nil
}

func (b *playwrightBrowser) Close() error {
	return b.browser.Close()
}

type playwrightContext struct {
	context pw.BrowserContext
}

func (c *playwrightContext) NewPage() (Page, error) {
	p, err := c.context.NewPage()
	if err != nil {
		return nil, err
	}
	return &playwrightPage{page: p}, nil
}

func (c *playwrightContext) Close() error {
	return c.context.Close()
}

type playwrightPage struct {
	page pw.Page
}

func (p *playwrightPage) Goto(url string, timeout time.Duration) error {
	_, err := p.page.Goto(url, pw.PageGotoOptions{
		WaitUntil: pw.WaitUntilStateNetworkidle,
		Timeout:   pw.Float(helpers.Millis(timeout)),
	})
	return err
}

func (p *playwrightPage) Query(selector string) Element {
	return &playwrightElement{locator: p.page.Locator(selector).First()}
}

func (p *playwrightPage) QueryAll(selector string) ([]Element, error) {
	locators, err := p.page.Locator(selector).All()
	if err != nil {
		return nil, err
	}
	return wrapLocators(locators), nil
}

func (p *playwrightPage) Keyboard() Keyboard {
	return &playwrightKeyboard{keyboard: p.page.Keyboard()}
}

func (p *playwrightPage) Content() (string, error) {
	return p.page.Content()
}

func (p *playwrightPage) Close() error {
	return p.page.Close()
}

type playwrightElement struct {
	locator pw.Locator
}

func (e *playwrightElement) WaitVisible(timeout time.Duration) error {
	return e.locator.WaitFor(pw.LocatorWaitForOptions{
		State:   pw.WaitForSelectorStateVisible,
		Timeout: pw.Float(helpers.Millis(timeout)),
	})
}

func (e *playwrightElement) Click() error {
	return e.locator.Click()
}

func (e *playwrightElement) ScrollIntoView() error {
	return e.locator.ScrollIntoViewIfNeeded()
}

func (e *playwrightElement) InnerText() (string, error) {
	return e.locator.InnerText()
}

func (e *playwrightElement) Children(selector string) ([]Element, error) {
	locators, err := e.locator.Locator(selector).All()
	if err != nil {
		return nil, err
	}
	return wrapLocators(locators), nil
}

func wrapLocators(locators []pw.Locator) []Element {
	elements := make([]Element, 0, len(locators))
	for _, l := range locators {
		elements = append(elements, &playwrightElement{locator: l})
	}
	return elements
}

type playwrightKeyboard struct {
	keyboard pw.Keyboard
}

func (k *playwrightKeyboard) Press(key string) error {
	return k.keyboard.Press(key)
}

func (k *playwrightKeyboard) Type(text string, delay time.Duration) error {
	return k.keyboard.Type(text, pw.KeyboardTypeOptions{
		Delay: pw.Float(helpers.Millis(delay)),
	})
}
