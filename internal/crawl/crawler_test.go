package crawl

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Blittyyy/interviewiq-scraper/internal/browser"
)

type fakeDriver struct {
	pages    map[string]string
	errs     map[string]error
	sessions []*fakeSession
	newErr   error
}

func (d *fakeDriver) NewSession(_ context.Context) (browser.Session, error) {
	if d.newErr != nil {
		return nil, d.newErr
	}
	s := &fakeSession{driver: d}
	d.sessions = append(d.sessions, s)
	return s, nil
}

func (d *fakeDriver) Close() {}

func (d *fakeDriver) openSessions() int {
	open := 0
	for _, s := range d.sessions {
		if !s.closed {
			open++
		}
	}
	return open
}

type fakeSession struct {
	driver *fakeDriver
	closed bool
}

func (s *fakeSession) FetchHTML(_ context.Context, pageURL string, _ browser.FetchOptions) (string, error) {
	if err, ok := s.driver.errs[pageURL]; ok {
		return "", err
	}
	html, ok := s.driver.pages[pageURL]
	if !ok {
		return "", fmt.Errorf("no such page %s", pageURL)
	}
	return html, nil
}

func (s *fakeSession) RenderPDF(_ context.Context, _ string, _ browser.PDFOptions) ([]byte, error) {
	return []byte("%PDF-1.4"), nil
}

func (s *fakeSession) Close() { s.closed = true }

const seedHTML = `<html><body>
<nav><a href="#top">Top</a></nav>
<main>
  <p>Acme builds robots.</p>
  <a href="/about">About us</a>
  <a href="/careers">Careers</a>
  <a href="https://external.com/about">Partner</a>
  <a href="/random-page">Something</a>
  <a href="/about">About again</a>
</main>
</body></html>`

func TestDiscoverLinksSameOriginAndKeywords(t *testing.T) {
	t.Parallel()

	base, err := url.Parse("https://example.com")
	require.NoError(t, err)

	links := DiscoverLinks(seedHTML, base, RelevantKeywords, 5)
	assert.Equal(t, []string{
		"https://example.com/about",
		"https://example.com/careers",
	}, links)
}

func TestDiscoverLinksCap(t *testing.T) {
	t.Parallel()

	html := `<html><body>` +
		`<a href="/about">a</a><a href="/team">b</a><a href="/careers">c</a>` +
		`<a href="/news">d</a><a href="/blog">e</a><a href="/products">f</a>` +
		`</body></html>`
	base, err := url.Parse("https://example.com")
	require.NoError(t, err)

	links := DiscoverLinks(html, base, RelevantKeywords, 2)
	assert.Len(t, links, 2)
	assert.Equal(t, "https://example.com/about", links[0])
}

func TestDiscoverLinksExcludesSeedAndFragments(t *testing.T) {
	t.Parallel()

	html := `<html><body>` +
		`<a href="https://example.com/about">seed-like keyword page</a>` +
		`<a href="https://example.com/about#jobs">fragment variant</a>` +
		`</body></html>`
	base, err := url.Parse("https://example.com/about")
	require.NoError(t, err)

	// The seed itself never re-enters the candidate set, fragment or not.
	links := DiscoverLinks(html, base, RelevantKeywords, 5)
	assert.Empty(t, links)
}

func TestCrawlHappyPath(t *testing.T) {
	t.Parallel()

	driver := &fakeDriver{pages: map[string]string{
		"https://example.com":         seedHTML,
		"https://example.com/about":   `<html><body><main>Founded in 2015.</main></body></html>`,
		"https://example.com/careers": `<html><body><main>Join our team.</main></body></html>`,
	}}
	c := New(driver, Config{}, nil)

	records, err := c.Crawl(context.Background(), "https://example.com")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "https://example.com", records[0].URL)
	assert.Equal(t, "https://example.com/about", records[1].URL)
	assert.Equal(t, "https://example.com/careers", records[2].URL)
	assert.Equal(t, "Founded in 2015.", records[1].Content)
	assert.Equal(t, 0, driver.openSessions())
}

func TestCrawlSkipsFailedPages(t *testing.T) {
	t.Parallel()

	driver := &fakeDriver{
		pages: map[string]string{
			"https://example.com":         seedHTML,
			"https://example.com/careers": `<html><body><main>Join our team.</main></body></html>`,
		},
		errs: map[string]error{
			"https://example.com/about": errors.New("navigation timeout"),
		},
	}
	c := New(driver, Config{}, nil)

	records, err := c.Crawl(context.Background(), "https://example.com")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "https://example.com", records[0].URL)
	assert.Equal(t, "https://example.com/careers", records[1].URL)
}

func TestCrawlSeedFailureIsFatal(t *testing.T) {
	t.Parallel()

	driver := &fakeDriver{errs: map[string]error{
		"https://example.com": errors.New("connection refused"),
	}}
	c := New(driver, Config{}, nil)

	_, err := c.Crawl(context.Background(), "https://example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed page")
	assert.Equal(t, 0, driver.openSessions())
}

func TestCrawlRejectsInvalidSeed(t *testing.T) {
	t.Parallel()

	c := New(&fakeDriver{}, Config{}, nil)
	for _, seed := range []string{"", "not a url at all://", "ftp://example.com", "/relative"} {
		_, err := c.Crawl(context.Background(), seed)
		assert.ErrorIs(t, err, ErrInvalidSeed, "seed %q", seed)
	}
}

func TestCrawlBoundedSize(t *testing.T) {
	t.Parallel()

	var html string
	pages := map[string]string{}
	for i := 0; i < 20; i++ {
		u := fmt.Sprintf("https://example.com/about-%d", i)
		html += fmt.Sprintf(`<a href="/about-%d">x</a>`, i)
		pages[u] = `<html><body><main>page</main></body></html>`
	}
	pages["https://example.com"] = `<html><body>` + html + `</body></html>`

	c := New(&fakeDriver{pages: pages}, Config{MaxDiscoveredPages: 5}, nil)
	records, err := c.Crawl(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(records), 1+5)
}
