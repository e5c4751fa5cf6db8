package github

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"
)

// ErrNotFound means the profile lookup got a non-success response: the
// username does not exist upstream.
var ErrNotFound = errors.New("github user not found")

// Repo is the slice of the repository payload the aggregator cares about.
type Repo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	HTMLURL     string `json:"html_url"`
	Fork        bool   `json:"fork"`
	Private     bool   `json:"private"`
}

// Client fetches from the GitHub REST API. It is an interface so the
// aggregator can run against a fake in tests without network access.
type Client interface {
	// FetchProfile returns the raw profile payload, or ErrNotFound on a
	// non-success response. Transport failures come back as plain errors.
	FetchProfile(username string) (map[string]interface{}, error)
	// FetchRepos returns up to the 10 most recently updated repositories.
	FetchRepos(username string) ([]Repo, error)
	// FetchRepoTopics returns the topic tags of one repository.
	FetchRepoTopics(username, repo string) ([]string, error)
}

type httpClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient returns the production client. GITHUB_API_URL overrides the
// endpoint, which the integration tests use to point at a local server.
func NewHTTPClient() Client {
	base := os.Getenv("GITHUB_API_URL")
	if base == "" {
		base = "https://api.github.com"
	}
	return &httpClient{
		baseURL: base,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *httpClient) get(path string, out interface{}) (int, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, fmt.Errorf("github api returned %d for %s", resp.StatusCode, path)
	}

	return resp.StatusCode, json.NewDecoder(resp.Body).Decode(out)
}

func (c *httpClient) FetchProfile(username string) (map[string]interface{}, error) {
	var profile map[string]interface{}
	status, err := c.get("/users/"+username, &profile)
	if err != nil {
		if status >= 400 {
			// upstream answered, just not with the user
			return nil, ErrNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (c *httpClient) FetchRepos(username string) ([]Repo, error) {
	var repos []Repo
	if _, err := c.get("/users/"+username+"/repos?sort=updated&per_page=10", &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

func (c *httpClient) FetchRepoTopics(username, repo string) ([]string, error) {
	var detail struct {
		Topics []string `json:"topics"`
	}
	if _, err := c.get("/repos/"+username+"/"+repo, &detail); err != nil {
		return nil, err
	}
	return detail.Topics, nil
}
