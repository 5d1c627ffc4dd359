package twitchauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

var ErrUserNotFound = errors.New("user not found")

// StatusError carries the status the twitch api responded with, so callers
// can propagate it instead of guessing.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("twitch api responded with status %d", e.Status)
}

type User struct {
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"profile_image_url"`
}

type Token struct {
	AccessToken string `json:"access_token"`
	ClientId    string `json:"client_id"`
}

type Config struct {
	ClientId     string
	ClientSecret string
	RedirectURI  string
	Scope        string
}

type Client struct {
	clientId     string
	clientSecret string
	redirectURI  string
	scope        string
	helixURL     string
	oauthURL     string
	httpClient   *http.Client
}

func NewClient(cfg *Config) *Client {
	return &Client{
		clientId:     cfg.ClientId,
		clientSecret: cfg.ClientSecret,
		redirectURI:  cfg.RedirectURI,
		scope:        cfg.Scope,
		helixURL:     "https://api.twitch.tv/helix",
		oauthURL:     "https://id.twitch.tv/oauth2",
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) SignInURL() string {
	return fmt.Sprintf("%s/authorize?response_type=code&client_id=%s&redirect_uri=%s&scope=%s",
		c.oauthURL, c.clientId, url.QueryEscape(c.redirectURI), url.QueryEscape(c.scope))
}

// GetUser resolves the bearer credential to the twitch user it belongs to.
func (c *Client) GetUser(ctx context.Context, authorization string) (User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.helixURL+"/users", nil)
	if err != nil {
		return User{}, err
	}
	req.Header.Set("Authorization", authorization)
	req.Header.Set("Client-ID", c.clientId)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return User{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return User{}, &StatusError{Status: resp.StatusCode}
	}

	var result struct {
		Data []User `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return User{}, err
	}

	if len(result.Data) == 0 {
		return User{}, ErrUserNotFound
	}

	return result.Data[0], nil
}

// ExchangeCode trades an oauth authorization code for an access token.
func (c *Client) ExchangeCode(ctx context.Context, code string) (Token, error) {
	url := fmt.Sprintf("%s/token?client_id=%s&client_secret=%s&code=%s&grant_type=authorization_code&redirect_uri=%s",
		c.oauthURL, c.clientId, c.clientSecret, code, c.redirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return Token{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Token{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Token{}, &StatusError{Status: resp.StatusCode}
	}

	var token Token
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return Token{}, err
	}
	token.ClientId = c.clientId

	return token, nil
}
