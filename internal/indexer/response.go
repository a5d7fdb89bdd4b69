package indexer

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/MrSnakeDoc/sift/internal/domain"
)

// Expected media types for CheckResponse.
const (
	ExpectAny  = ""
	ExpectJSON = "json"
	ExpectXML  = "xml"
)

// CheckResponse applies the site independent response rules: rejected
// credentials and login pages are auth errors, other non-2xx statuses are
// transport errors and HTML where a structured payload was expected is a
// parse error.
func CheckResponse(resp *Response, expect string) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return domain.NewAuthError(resp.StatusCode, "credentials rejected")
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return domain.NewTransportError(resp.StatusCode, fmt.Errorf("unexpected status %s", http.StatusText(resp.StatusCode)))
	}

	if expect == ExpectAny || !looksLikeHTML(resp) {
		return nil
	}
	if IsLoginPage(resp.Body) {
		return domain.NewAuthError(resp.StatusCode, "indexer returned a login page")
	}
	return domain.NewParseError(fmt.Sprintf("expected %s, got html", expect), nil)
}

// IsLoginPage reports whether body is an HTML page asking for credentials.
func IsLoginPage(body []byte) bool {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return false
	}
	if doc.Find(`input[type="password"]`).Length() > 0 {
		return true
	}
	login := false
	doc.Find("form").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		action, _ := s.Attr("action")
		action = strings.ToLower(action)
		if strings.Contains(action, "login") || strings.Contains(action, "takelogin") {
			login = true
			return false
		}
		return true
	})
	return login
}

func looksLikeHTML(resp *Response) bool {
	if strings.Contains(strings.ToLower(resp.ContentType()), "text/html") {
		return true
	}
	head := bytes.ToLower(bytes.TrimSpace(resp.Body))
	if len(head) > 64 {
		head = head[:64]
	}
	return bytes.HasPrefix(head, []byte("<!doctype html")) || bytes.HasPrefix(head, []byte("<html"))
}
