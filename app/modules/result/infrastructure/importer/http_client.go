package importer

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// newDownloadClient returns an *http.Client with a timeout and a redirect
// limit for fetching results sheets.
func newDownloadClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = downloadTimeout
	}
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}
}

func newDownloadRequest(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/csv, application/vnd.openxmlformats-officedocument.spreadsheetml.sheet, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	return req, nil
}
