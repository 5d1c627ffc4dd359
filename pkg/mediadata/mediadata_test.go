package mediadata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseISODuration(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "PT3M33S", want: 213},
		{in: "PT1H2M3S", want: 3723},
		{in: "PT45S", want: 45},
		{in: "PT2H", want: 7200},
		{in: "PT0S", want: 0},
		{in: "P1DT2H", wantErr: true},
		{in: "3:33", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseISODuration(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveUnknownHost(t *testing.T) {
	r := NewResolver(&Config{})

	_, err := r.Resolve(context.Background(), "vimeo", "123", "")
	assert.ErrorIs(t, err, ErrUnknownHost)
}

func TestResolveYoutubeInvalidId(t *testing.T) {
	r := NewResolver(&Config{YoutubeKey: "key"})

	for _, id := range []string{"", "short", "way too long to be an id", "bad id 1234"} {
		_, err := r.Resolve(context.Background(), HostYoutube, id, "")
		assert.ErrorIs(t, err, ErrInvalidId, "id %q", id)
	}
}

func TestResolveYoutube(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "dQw4w9WgXcQ", req.URL.Query().Get("id"))
		assert.Equal(t, "key", req.URL.Query().Get("key"))
		fmt.Fprint(w, `{"items":[{"kind":"youtube#video","snippet":{"title":"a classic"},"contentDetails":{"duration":"PT3M33S"},"status":{"embeddable":true}}]}`)
	}))
	defer srv.Close()

	r := NewResolver(&Config{YoutubeKey: "key"})
	r.youtubeAPIURL = srv.URL

	media, err := r.Resolve(context.Background(), HostYoutube, "dQw4w9WgXcQ", "")
	require.NoError(t, err)
	assert.Equal(t, Media{Title: "a classic", Duration: 213}, media)
}

func TestResolveYoutubeNotEmbeddable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		fmt.Fprint(w, `{"items":[{"kind":"youtube#video","snippet":{"title":"locked down"},"contentDetails":{"duration":"PT1M"},"status":{"embeddable":false}}]}`)
	}))
	defer srv.Close()

	r := NewResolver(&Config{YoutubeKey: "key"})
	r.youtubeAPIURL = srv.URL

	_, err := r.Resolve(context.Background(), HostYoutube, "dQw4w9WgXcQ", "")
	assert.ErrorIs(t, err, ErrNotEmbeddable)
}

func TestResolveYoutubeNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		fmt.Fprint(w, `{"items":[]}`)
	}))
	defer srv.Close()

	r := NewResolver(&Config{YoutubeKey: "key"})
	r.youtubeAPIURL = srv.URL

	_, err := r.Resolve(context.Background(), HostYoutube, "dQw4w9WgXcQ", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveYoutubeUpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	r := NewResolver(&Config{YoutubeKey: "key"})
	r.youtubeAPIURL = srv.URL

	_, err := r.Resolve(context.Background(), HostYoutube, "dQw4w9WgXcQ", "")

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, HostYoutube, statusErr.Host)
	assert.Equal(t, http.StatusForbidden, statusErr.Status)
}

func TestResolveYoutubeFromPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/dQw4w9WgXcQ", req.URL.Path)
		fmt.Fprint(w, `<html><head><title>a classic</title><meta itemprop="duration" content="PT3M33S"></head><body></body></html>`)
	}))
	defer srv.Close()

	// no api key configured forces the page scrape
	r := NewResolver(&Config{})
	r.youtubePageURL = srv.URL

	media, err := r.Resolve(context.Background(), HostYoutube, "dQw4w9WgXcQ", "")
	require.NoError(t, err)
	assert.Equal(t, Media{Title: "a classic", Duration: 213}, media)
}

func TestResolveStreamable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/moo", req.URL.Path)
		fmt.Fprint(w, `{"title":"a short clip","files":{"original":{"duration":12.4}}}`)
	}))
	defer srv.Close()

	r := NewResolver(&Config{})
	r.streamableURL = srv.URL

	media, err := r.Resolve(context.Background(), HostStreamable, "moo", "")
	require.NoError(t, err)
	assert.Equal(t, Media{Title: "a short clip", Duration: 13}, media)
}

func TestResolveTwitch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/clips", req.URL.Path)
		assert.Equal(t, "clipid", req.URL.Query().Get("id"))
		assert.Equal(t, "Bearer token", req.Header.Get("Authorization"))
		assert.Equal(t, "clientid", req.Header.Get("Client-Id"))
		fmt.Fprint(w, `{"data":[{"title":"a twitch clip","duration":29.1}]}`)
	}))
	defer srv.Close()

	r := NewResolver(&Config{TwitchClientId: "clientid"})
	r.helixURL = srv.URL

	media, err := r.Resolve(context.Background(), HostTwitch, "clipid", "Bearer token")
	require.NoError(t, err)
	assert.Equal(t, Media{Title: "a twitch clip", Duration: 30}, media)
}

func TestResolveTwitchNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		fmt.Fprint(w, `{"data":[]}`)
	}))
	defer srv.Close()

	r := NewResolver(&Config{})
	r.helixURL = srv.URL

	_, err := r.Resolve(context.Background(), HostTwitch, "clipid", "")
	assert.ErrorIs(t, err, ErrNotFound)
}
