package mediadata

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
)

func (r *Resolver) resolveTwitch(ctx context.Context, id, authorization string) (Media, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.helixURL+"/clips?id="+id, nil)
	if err != nil {
		return Media{}, err
	}
	req.Header.Set("Authorization", authorization)
	req.Header.Set("Client-ID", r.twitchClientId)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return Media{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Media{}, &StatusError{Host: HostTwitch, Status: resp.StatusCode}
	}

	var result struct {
		Data []struct {
			Title    string  `json:"title"`
			Duration float64 `json:"duration"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Media{}, err
	}

	if len(result.Data) != 1 {
		return Media{}, fmt.Errorf("%w: clip not found", ErrNotFound)
	}

	clip := result.Data[0]
	return Media{
		Title:    clip.Title,
		Duration: int(math.Ceil(clip.Duration)),
	}, nil
}
