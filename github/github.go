package github

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"devfolio/cache"
	"devfolio/models"
)

// ErrUpstream means the user exists but a follow-up request failed.
var ErrUpstream = errors.New("github upstream request failed")

const maxRepos = 10

type GithubModule struct {
	client   Client
	cacheTTL time.Duration // <= 0 disables the response cache
}

// AggregateResult pairs the raw profile with the repositories reshaped into
// the portfolio's project format.
type AggregateResult struct {
	GithubProfile map[string]interface{} `json:"githubProfile"`
	Projects      []models.Project       `json:"projects"`
}

func NewGithubModule(client Client, cacheTTL time.Duration) *GithubModule {
	return &GithubModule{client: client, cacheTTL: cacheTTL}
}

func (g *GithubModule) RegisterRoutes(router *gin.Engine) {
	router.GET("/github/:username", g.aggregate)
}

func (g *GithubModule) aggregate(c *gin.Context) {
	username := strings.TrimSpace(c.Param("username"))
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username is required"})
		return
	}

	if g.cacheTTL > 0 {
		if cached, found := cache.Read(username, g.cacheTTL); found {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
			return
		}
	}

	result, err := g.Aggregate(username)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "GitHub user not found"})
		case errors.Is(err, ErrUpstream):
			log.Printf("github aggregation for %s: %v", username, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch repositories from GitHub"})
		default:
			log.Printf("github aggregation for %s: %v", username, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	if g.cacheTTL > 0 {
		// only successful aggregations count as a cache miss; errors above
		// return without the header
		c.Header("X-Cache", "MISS")
		if payload, err := json.Marshal(result); err == nil {
			if err := cache.Write(username, payload); err != nil {
				log.Printf("github cache write for %s: %v", username, err)
			}
		}
	}

	c.JSON(http.StatusOK, result)
}

// Aggregate fetches the profile and repository list, drops forks and private
// repositories, enriches the rest with topic tags fetched concurrently, and
// maps each survivor to a project record. A failed topic fetch degrades to an
// empty topic set instead of failing the batch.
func (g *GithubModule) Aggregate(username string) (*AggregateResult, error) {
	profile, err := g.client.FetchProfile(username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: profile: %v", ErrUpstream, err)
	}

	repos, err := g.client.FetchRepos(username)
	if err != nil {
		return nil, fmt.Errorf("%w: repos: %v", ErrUpstream, err)
	}
	if len(repos) > maxRepos {
		repos = repos[:maxRepos]
	}

	var eligible []Repo
	for _, r := range repos {
		if r.Fork || r.Private {
			continue
		}
		eligible = append(eligible, r)
	}

	topics := make([][]string, len(eligible))
	var wg sync.WaitGroup
	for i, r := range eligible {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			ts, err := g.client.FetchRepoTopics(username, name)
			if err != nil {
				return // no topics for this repo, keep going
			}
			topics[i] = ts
		}(i, r.Name)
	}
	wg.Wait()

	projects := make([]models.Project, 0, len(eligible))
	for i, r := range eligible {
		projects = append(projects, models.Project{
			Title:       repoTitle(r.Name),
			Description: buildDescription(username, r, topics[i]),
			Image:       fmt.Sprintf("https://opengraph.githubassets.com/1/%s/%s", username, r.Name),
			Github:      r.HTMLURL,
		})
	}

	return &AggregateResult{GithubProfile: profile, Projects: projects}, nil
}

// repoTitle turns "my-cool_project" into "my cool project".
func repoTitle(name string) string {
	return strings.NewReplacer("-", " ", "_", " ").Replace(name)
}

func buildDescription(username string, r Repo, topics []string) string {
	desc := strings.TrimSpace(r.Description)

	if len(topics) > 0 {
		line := "Technologies: " + strings.Join(topics, ", ")
		if desc != "" {
			desc = desc + "\n\n" + line
		} else {
			desc = line
		}
	}

	if desc == "" {
		desc = "A project repository by " + username
	}

	return desc
}
