package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"TabularLoader/internal/domain"
	"TabularLoader/internal/fetcher"
)

const defaultUserAgent = "TabularLoader/1.0"

var dataLinkSuffixes = []string{".csv", ".txt", ".tsv"}

// HTTPFetcher downloads resources over HTTP(S). When the server answers with an
// HTML landing page, the first link to a data file is followed once.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	logger    *slog.Logger
}

var _ fetcher.Fetcher = (*HTTPFetcher)(nil)

// NewHTTPFetcher wires an HTTP client; a nil client means no timeout.
func NewHTTPFetcher(client *http.Client, userAgent string, logger *slog.Logger) *HTTPFetcher {
	if client == nil {
		client = &http.Client{}
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &HTTPFetcher{client: client, userAgent: userAgent, logger: logger}
}

// Schemes lists the URI schemes served by this fetcher.
func (h *HTTPFetcher) Schemes() []string {
	return []string{"http", "https"}
}

// Fetch issues a single GET; failures are surfaced, not retried.
func (h *HTTPFetcher) Fetch(ctx context.Context, locator string) (io.ReadCloser, error) {
	resp, err := h.get(ctx, locator)
	if err != nil {
		return nil, err
	}
	if !isHTML(resp) {
		return resp.Body, nil
	}

	link, err := findDataLink(resp)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	h.debug("following data link", "page", locator, "link", link)

	next, err := h.get(ctx, link)
	if err != nil {
		return nil, err
	}
	if isHTML(next) {
		next.Body.Close()
		return nil, fmt.Errorf("%w: %s is an HTML page, not delimited text", domain.ErrDecode, link)
	}
	return next.Body, nil
}

func (h *HTTPFetcher) get(ctx context.Context, locator string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request %s: %v", domain.ErrResourceUnreachable, locator, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s returned %s", domain.ErrResourceUnreachable, locator, resp.Status)
	}

	return resp, nil
}

func isHTML(resp *http.Response) bool {
	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

func findDataLink(resp *http.Response) (string, error) {
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: parse landing page: %v", domain.ErrDecode, err)
	}

	base := resp.Request.URL
	var link string
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil || !hasDataSuffix(ref.Path) {
			return true
		}
		link = base.ResolveReference(ref).String()
		return false
	})

	if link == "" {
		return "", fmt.Errorf("%w: landing page %s has no link to a data file", domain.ErrDecode, base)
	}
	return link, nil
}

func hasDataSuffix(path string) bool {
	path = strings.ToLower(path)
	for _, suffix := range dataLinkSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

func (h *HTTPFetcher) debug(msg string, args ...interface{}) {
	if h.logger != nil {
		h.logger.Debug(msg, args...)
	}
}
