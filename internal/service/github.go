// Package service contains the application's business logic between handlers
// and repositories.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"devlink/internal/cache"
	"devlink/internal/models"
	"devlink/internal/observability"
)

const githubAPIBase = "https://api.github.com"

// GithubRepo is the subset of the GitHub repository payload the API exposes.
type GithubRepo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	HTMLURL     string `json:"html_url"`
	Stargazers  int    `json:"stargazers_count"`
	Watchers    int    `json:"watchers_count"`
	Forks       int    `json:"forks_count"`
	Language    string `json:"language"`
}

// GithubClient fetches a user's public repositories from the GitHub API.
type GithubClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewGithubClient returns a client authenticating with token when non-empty.
func NewGithubClient(token string) *GithubClient {
	return &GithubClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    githubAPIBase,
		token:      token,
	}
}

// NewGithubClientWithBase returns a client against a custom API base URL.
// Intended for tests.
func NewGithubClientWithBase(baseURL, token string) *GithubClient {
	c := NewGithubClient(token)
	c.baseURL = baseURL
	return c
}

// ListRepos returns the user's five most recently created public repos.
// Any upstream failure surfaces as a not-found to the client, matching the
// API contract for unknown GitHub usernames.
func (g *GithubClient) ListRepos(ctx context.Context, username string) ([]GithubRepo, error) {
	repos := []GithubRepo{}
	key := cache.GithubKey(username)

	err := cache.Aside(ctx, key, &repos, cache.GithubTTL, func() error {
		url := fmt.Sprintf("%s/users/%s/repos?per_page=5&sort=created&direction=desc", g.baseURL, username)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return models.NewInternalError(err)
		}
		req.Header.Set("Accept", "application/vnd.github.v3+json")
		if g.token != "" {
			req.Header.Set("Authorization", "token "+g.token)
		}

		resp, err := g.httpClient.Do(req)
		if err != nil {
			observability.GithubLookupFailures.WithLabelValues("transport").Inc()
			return models.NewUpstreamError("No Github profile found")
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			observability.GithubLookupFailures.WithLabelValues(fmt.Sprintf("status_%d", resp.StatusCode)).Inc()
			return models.NewUpstreamError("No Github profile found")
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			observability.GithubLookupFailures.WithLabelValues("read").Inc()
			return models.NewUpstreamError("No Github profile found")
		}
		if err := json.Unmarshal(body, &repos); err != nil {
			observability.GithubLookupFailures.WithLabelValues("decode").Inc()
			return models.NewUpstreamError("No Github profile found")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return repos, nil
}
