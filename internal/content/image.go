package content

import (
	"net/url"
	"strconv"
	"strings"
)

// ImageURL adds CDN transform parameters to an asset URL. Width, height and
// quality are only set when positive, quality capped at 100. Parameters already on
// the URL are kept, and the encoded query is sorted so equal inputs give equal
// URLs.
func ImageURL(assetURL string, width, height, quality int) string {
	assetURL = strings.TrimSpace(assetURL)
	if assetURL == "" {
		return ""
	}

	u, err := url.Parse(assetURL)
	if err != nil {
		return assetURL
	}

	q := u.Query()
	if width > 0 {
		q.Set("w", strconv.Itoa(width))
	}
	if height > 0 {
		q.Set("h", strconv.Itoa(height))
	}
	if quality > 0 {
		q.Set("q", strconv.Itoa(min(quality, 100)))
	}
	q.Set("fit", "crop")
	q.Set("auto", "format")
	u.RawQuery = q.Encode()

	return u.String()
}
