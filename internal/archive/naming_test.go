package archive

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectName(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"pages/example.com/abc.html",
		ObjectName("pages", "https://Example.com/about", "abc"),
	)
	assert.Equal(t,
		"raw/example.com/abc.html",
		ObjectName("/raw/", "https://example.com", "abc"),
	)
	assert.Equal(t,
		"pages/unknown/abc.html",
		ObjectName("", "://not a url", "abc"),
	)
}

func TestNoOpSave(t *testing.T) {
	t.Parallel()

	assert.NoError(t, NoOp{}.Save(context.Background(), "pages/x.html", []byte("<html>")))
}
