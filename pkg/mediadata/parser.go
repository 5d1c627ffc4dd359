package mediadata

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"

	"golang.org/x/net/html"
)

var isoDurationRegex = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

func parseISODuration(duration string) (int, error) {
	match := isoDurationRegex.FindStringSubmatch(duration)
	if match == nil {
		return 0, fmt.Errorf("invalid iso 8601 duration: %q", duration)
	}

	hours, _ := strconv.Atoi(match[1])
	minutes, _ := strconv.Atoi(match[2])
	seconds, _ := strconv.Atoi(match[3])

	return hours*3600 + minutes*60 + seconds, nil
}

// youtubeFromPage scrapes title and duration off the watch page. Used when no
// data api key is configured.
func (r *Resolver) youtubeFromPage(ctx context.Context, id string) (Media, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.youtubePageURL+"/"+id, nil)
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

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return Media{}, err
	}

	title := getTitle(doc)
	rawDuration := getMetaContent(doc, "duration")
	if title == "" || rawDuration == "" {
		return Media{}, fmt.Errorf("%w: youtube id not found", ErrNotFound)
	}

	duration, err := parseISODuration(rawDuration)
	if err != nil {
		return Media{}, err
	}

	return Media{
		Title:    title,
		Duration: duration,
	}, nil
}

func getTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
		return n.FirstChild.Data
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title := getTitle(c); title != "" {
			return title
		}
	}
	return ""
}

func getMetaContent(n *html.Node, itemprop string) string {
	if n.Type == html.ElementNode && n.Data == "meta" {
		matched := false
		content := ""
		for _, attr := range n.Attr {
			if attr.Key == "itemprop" && attr.Val == itemprop {
				matched = true
			}
			if attr.Key == "content" {
				content = attr.Val
			}
		}
		if matched {
			return content
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if content := getMetaContent(c, itemprop); content != "" {
			return content
		}
	}
	return ""
}
