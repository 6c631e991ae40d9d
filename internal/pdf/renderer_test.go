package pdf

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Blittyyy/interviewiq-scraper/internal/browser"
)

type stubDriver struct {
	renderErr error
	newErr    error
	sessions  []*stubSession
}

func (d *stubDriver) NewSession(_ context.Context) (browser.Session, error) {
	if d.newErr != nil {
		return nil, d.newErr
	}
	s := &stubSession{renderErr: d.renderErr}
	d.sessions = append(d.sessions, s)
	return s, nil
}

func (d *stubDriver) Close() {}

type stubSession struct {
	renderErr error
	closed    bool
}

func (s *stubSession) FetchHTML(_ context.Context, _ string, _ browser.FetchOptions) (string, error) {
	return "", errors.New("not used")
}

func (s *stubSession) RenderPDF(_ context.Context, _ string, _ browser.PDFOptions) ([]byte, error) {
	if s.renderErr != nil {
		return nil, s.renderErr
	}
	return []byte("%PDF-1.4 stub"), nil
}

func (s *stubSession) Close() { s.closed = true }

func TestRenderRejectsEmptyHTML(t *testing.T) {
	t.Parallel()

	r := New(&stubDriver{})
	_, err := r.Render(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyHTML)
}

func TestRenderHappyPath(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{}
	r := New(driver)
	data, err := r.Render(context.Background(), "<html><body>Hi</body></html>")
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	require.Len(t, driver.sessions, 1)
	assert.True(t, driver.sessions[0].closed, "session must be closed after render")
}

func TestRenderFailureClosesSession(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{renderErr: errors.New("browser crashed")}
	r := New(driver)
	_, err := r.Render(context.Background(), "<html></html>")
	require.Error(t, err)
	require.Len(t, driver.sessions, 1)
	assert.True(t, driver.sessions[0].closed, "session must be closed on failure")
}
