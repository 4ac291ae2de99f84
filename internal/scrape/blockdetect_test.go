package scrape

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectBlock(t *testing.T) {
	tests := []struct {
		name   string
		status int
		header http.Header
		body   string
		want   BlockType
	}{
		{name: "cloudflare ray header", status: 403, header: http.Header{"Cf-Ray": {"abc"}}, want: BlockCloudflare},
		{name: "cloudflare server 503", status: 503, header: http.Header{"Server": {"cloudflare"}}, want: BlockCloudflare},
		{name: "challenge page", status: 200, body: "<p>Checking your browser before accessing</p>", want: BlockCloudflare},
		{name: "recaptcha", status: 200, body: `<div class="g-recaptcha"></div>`, want: BlockCaptcha},
		{name: "js shell", status: 200, body: "<noscript>Please enable JavaScript</noscript>", want: BlockJSShell},
		{name: "meta refresh", status: 200, body: `<meta http-equiv="refresh" content="0;url=/x">`, want: BlockJSShell},
		{name: "access denied", status: 403, body: "<h1>Access Denied</h1>", want: BlockDenied},
		{name: "normal page", status: 200, body: "<html><body><h1>Trail Shoes</h1>" + strings.Repeat("<p>text</p>", 300) + "</body></html>", want: BlockNone},
		{name: "small normal page", status: 200, body: "<h1>Hi</h1>", want: BlockNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := tt.header
			if h == nil {
				h = http.Header{}
			}
			blocked, got := DetectBlock(&http.Response{StatusCode: tt.status, Header: h}, []byte(tt.body))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want != BlockNone, blocked)
		})
	}
}

func TestDetectBlock_NilResponse(t *testing.T) {
	blocked, got := DetectBlock(nil, []byte("captcha"))
	assert.False(t, blocked)
	assert.Equal(t, BlockNone, got)
}
