package indexer

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrSnakeDoc/sift/internal/domain"
)

func resp(status int, contentType, body string) *Response {
	h := make(http.Header)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return &Response{StatusCode: status, Header: h, Body: []byte(body)}
}

const loginPage = `<!DOCTYPE html><html><body>
<form action="/takelogin.php" method="post"><input name="username"><input type="password" name="password"></form>
</body></html>`

func TestCheckResponse(t *testing.T) {
	tests := []struct {
		name   string
		resp   *Response
		expect string
		want   domain.ErrorKind
	}{
		{"ok json", resp(200, "application/json", `[]`), ExpectJSON, domain.ErrKindNone},
		{"forbidden", resp(403, "", ""), ExpectJSON, domain.ErrKindAuth},
		{"server error", resp(502, "", ""), ExpectJSON, domain.ErrKindTransport},
		{"login page", resp(200, "text/html", loginPage), ExpectJSON, domain.ErrKindAuth},
		{"html without login", resp(200, "", "<html><body>maintenance</body></html>"), ExpectXML, domain.ErrKindParse},
		{"html accepted", resp(200, "text/html", loginPage), ExpectAny, domain.ErrKindNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.KindOf(CheckResponse(tt.resp, tt.expect)))
		})
	}
}

func TestIsLoginPage(t *testing.T) {
	assert.True(t, IsLoginPage([]byte(loginPage)))
	assert.True(t, IsLoginPage([]byte(`<form action="login.php"></form>`)))
	assert.False(t, IsLoginPage([]byte(`<html><body><table></table></body></html>`)))
}
