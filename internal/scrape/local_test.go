package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!doctype html>
<html lang="en">
<head>
  <title> Trail Running Shoes | Example Shop </title>
  <meta name="description" content="Shop lightweight trail running shoes.">
  <style>body{}</style>
</head>
<body>
  <nav><a href="/">Home</a></nav>
  <main>
    <h1>Trail Running Shoes</h1>
    <p>Grip and   comfort for every trail.</p>
    <h2>Why choose us</h2>
    <ul><li>Free returns</li><li><p>Fast shipping</p></li></ul>
    <blockquote>Best shoes I've owned.</blockquote>
    <script>track()</script>
  </main>
  <footer>Copyright</footer>
</body>
</html>`

func TestExtractHTML(t *testing.T) {
	page, err := ExtractHTML([]byte(samplePage))
	require.NoError(t, err)

	assert.Equal(t, "Trail Running Shoes | Example Shop", page.Title)
	assert.Equal(t, "Shop lightweight trail running shoes.", page.MetaDescription)
	assert.Equal(t, "en", page.Language)
	assert.Equal(t, "# Trail Running Shoes\n\n"+
		"Grip and comfort for every trail.\n\n"+
		"## Why choose us\n\n"+
		"- Free returns\n"+
		"- Fast shipping\n"+
		"> Best shoes I've owned.", page.Markdown)
	assert.NotContains(t, page.Markdown, "Copyright")
	assert.NotContains(t, page.Markdown, "track()")
}

func TestLocalScraper_Scrape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "SEOAuditor")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	page, err := NewLocalScraper().Scrape(context.Background(), srv.URL+"/shoes")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/shoes", page.URL)
	assert.Equal(t, 200, page.StatusCode)
	assert.Equal(t, "local_http", page.Source)
	assert.Contains(t, page.HTML, "<main>")
}

func TestLocalScraper_Latin1(t *testing.T) {
	body := []byte("<html><body><p>Caf\xe9 cr\xe8me</p></body></html>")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	page, err := NewLocalScraper().Scrape(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Café crème", page.Markdown)
}

func TestLocalScraper_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "not found", status: 404, body: "<p>missing</p>", wantErr: "status 404"},
		{name: "captcha", status: 200, body: "<div>captcha</div>", wantErr: "blocked (captcha)"},
		{name: "empty", status: 200, body: "<html><body></body></html>", wantErr: "empty page"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewLocalScraper().Scrape(context.Background(), srv.URL)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDecodeCharset_Unsupported(t *testing.T) {
	_, err := decodeCharset([]byte("x"), "text/html; charset=klingon")
	require.Error(t, err)

	out, err := decodeCharset([]byte("x"), "")
	require.NoError(t, err)
	assert.Equal(t, "x", string(out))
}
