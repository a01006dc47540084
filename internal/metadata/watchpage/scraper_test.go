package watchpage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<html><body>
<ul class="providers">
  <li><a href="/watch/netflix?movie=27205">Netflix</a></li>
  <li><a href="/watch/apple?movie=27205"> Apple TV </a></li>
  <li><a href="/watch/empty"><img src="/x.png"></a></li>
  <li><a href="/movie/27205">Inception</a></li>
  <li><a href="https://example.com/watch">External</a></li>
</ul>
</body></html>`

func TestScraper_DirectLinks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		w.Write([]byte(samplePage))
	}))
	defer server.Close()

	s, err := NewScraper("https://www.themoviedb.org", 5*time.Second, zerolog.Nop())
	require.NoError(t, err)

	links, err := s.DirectLinks(context.Background(), server.URL+"/movie/27205/watch?locale=IT")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"Netflix":  "https://www.themoviedb.org/watch/netflix?movie=27205",
		"Apple TV": "https://www.themoviedb.org/watch/apple?movie=27205",
	}, links)
}

func TestScraper_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	s, err := NewScraper("https://www.themoviedb.org", 5*time.Second, zerolog.Nop())
	require.NoError(t, err)

	_, err = s.DirectLinks(context.Background(), server.URL)
	assert.Error(t, err)
}
