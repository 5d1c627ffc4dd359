package mediadata

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
)

func (r *Resolver) resolveStreamable(ctx context.Context, id, authorization string) (Media, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.streamableURL+"/"+id, nil)
	if err != nil {
		return Media{}, err
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return Media{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Media{}, &StatusError{Host: HostStreamable, Status: resp.StatusCode}
	}

	var result struct {
		Title string `json:"title"`
		Files struct {
			Original struct {
				Duration float64 `json:"duration"`
			} `json:"original"`
		} `json:"files"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Media{}, err
	}

	return Media{
		Title:    result.Title,
		Duration: int(math.Ceil(result.Files.Original.Duration)),
	}, nil
}
