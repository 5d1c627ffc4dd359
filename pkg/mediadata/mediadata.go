package mediadata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const (
	HostYoutube    = "youtube"
	HostStreamable = "streamable"
	HostTwitch     = "twitch"
)

var (
	ErrUnknownHost   = errors.New("invalid host")
	ErrInvalidId     = errors.New("invalid media id")
	ErrNotFound      = errors.New("media not found")
	ErrNotEmbeddable = errors.New("media is not embeddable")
)

// StatusError carries the status an upstream catalog api responded with.
type StatusError struct {
	Host   string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s responded with %d", e.Host, e.Status)
}

// Media is the uniform shape every host resolves to.
type Media struct {
	Title    string
	Duration int
}

type Config struct {
	YoutubeKey     string
	TwitchClientId string
}

type resolveFunc func(ctx context.Context, id, authorization string) (Media, error)

type Resolver struct {
	youtubeKey     string
	twitchClientId string
	youtubeAPIURL  string
	youtubePageURL string
	streamableURL  string
	helixURL       string
	httpClient     *http.Client
	hosts          map[string]resolveFunc
}

func NewResolver(cfg *Config) *Resolver {
	r := &Resolver{
		youtubeKey:     cfg.YoutubeKey,
		twitchClientId: cfg.TwitchClientId,
		youtubeAPIURL:  "https://www.googleapis.com/youtube/v3/videos",
		youtubePageURL: "https://youtu.be",
		streamableURL:  "https://api.streamable.com/videos",
		helixURL:       "https://api.twitch.tv/helix",
		httpClient:     &http.Client{Timeout: 10 * time.Second},
	}

	r.hosts = map[string]resolveFunc{
		HostYoutube:    r.resolveYoutube,
		HostStreamable: r.resolveStreamable,
		HostTwitch:     r.resolveTwitch,
	}

	return r
}

// Resolve looks up title, duration and availability for a media id on the
// given host.
func (r *Resolver) Resolve(ctx context.Context, host, id, authorization string) (Media, error) {
	resolve, ok := r.hosts[host]
	if !ok {
		return Media{}, ErrUnknownHost
	}

	return resolve(ctx, id, authorization)
}
