package mediadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
)

var youtubeIdRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

func (r *Resolver) resolveYoutube(ctx context.Context, id, authorization string) (Media, error) {
	if !youtubeIdRegex.MatchString(id) {
		return Media{}, fmt.Errorf("%w: bad youtube id", ErrInvalidId)
	}

	if r.youtubeKey == "" {
		return r.youtubeFromPage(ctx, id)
	}

	url := fmt.Sprintf("%s?part=snippet%%2C+contentDetails%%2C+status&id=%s&key=%s", r.youtubeAPIURL, id, r.youtubeKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Media{}, err
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return Media{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Media{}, &StatusError{Host: HostYoutube, Status: resp.StatusCode}
	}

	var result struct {
		Items []struct {
			Kind    string `json:"kind"`
			Snippet struct {
				Title string `json:"title"`
			} `json:"snippet"`
			ContentDetails struct {
				Duration string `json:"duration"`
			} `json:"contentDetails"`
			Status struct {
				Embeddable bool `json:"embeddable"`
			} `json:"status"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Media{}, err
	}

	if len(result.Items) != 1 {
		return Media{}, fmt.Errorf("%w: youtube id not found", ErrNotFound)
	}

	item := result.Items[0]
	if item.Kind != "youtube#video" {
		return Media{}, fmt.Errorf("%w: not of type youtube#video", ErrNotFound)
	}
	if !item.Status.Embeddable {
		return Media{}, ErrNotEmbeddable
	}

	duration, err := parseISODuration(item.ContentDetails.Duration)
	if err != nil {
		return Media{}, err
	}

	return Media{
		Title:    item.Snippet.Title,
		Duration: duration,
	}, nil
}
