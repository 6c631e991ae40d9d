package archive

import (
	"fmt"
	"net/url"
	"strings"
)

// ObjectName builds a stable object path for one archived page:
// <prefix>/<host>/<id>.html.
func ObjectName(prefix, pageURL, id string) string {
	host := "unknown"
	if u, err := url.Parse(pageURL); err == nil && u.Hostname() != "" {
		host = strings.ToLower(u.Hostname())
	}
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = "pages"
	}
	return fmt.Sprintf("%s/%s/%s.html", prefix, host, id)
}
