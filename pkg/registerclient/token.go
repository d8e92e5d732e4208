package registerclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/net/html"
)

// TokenProvider supplies the anti-forgery token sent with a submission.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenProvider returning a fixed token.
type StaticToken string

// Token returns t.
func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}

// ErrTokenNotFound is returned when the page carries no csrf-token meta tag.
var ErrTokenNotFound = errors.New("csrf-token meta tag not found")

// PageTokenProvider reads the token from the csrf-token meta tag of the
// registration page. The page also sets the nonce cookie the token is bound
// to, so its http.Client must share a cookie jar with the submitting Client.
type PageTokenProvider struct {
	httpClient *http.Client
	pageURL    string
}

// NewPageTokenProvider creates a PageTokenProvider fetching pageURL.
func NewPageTokenProvider(pageURL string, httpClient *http.Client) *PageTokenProvider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &PageTokenProvider{httpClient: httpClient, pageURL: pageURL}
}

// Token fetches the page and extracts the token.
func (p *PageTokenProvider) Token(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Accept", "text/html")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("could not fetch registration page: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch registration page failed: status %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", fmt.Errorf("could not parse registration page: %w", err)
	}

	token, ok := findMetaToken(doc)
	if !ok {
		return "", ErrTokenNotFound
	}

	return token, nil
}

func findMetaToken(n *html.Node) (string, bool) {
	if n.Type == html.ElementNode && n.Data == "meta" && attr(n, "name") == "csrf-token" {
		return attr(n, "content"), true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if token, ok := findMetaToken(c); ok {
			return token, true
		}
	}

	return "", false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}

	return ""
}
