// Package github fetches a user's repository list from the GitHub REST API and
// decodes it into the declared model.Repository shape.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	gh "github.com/google/go-github/v82/github"
	"github.com/rs/zerolog"

	"github.com/maxviazov/recent-repos/internal/config"
	"github.com/maxviazov/recent-repos/internal/filter"
	"github.com/maxviazov/recent-repos/internal/model"
)

// Domain-level errors surfaced to the service layer.
var (
	ErrUpstream       = errors.New("upstream request failed")
	ErrInvalidPayload = errors.New("invalid repository payload")
)

// Client is what the pipeline needs from the repository-listing API.
type Client interface {
	ListUserRepositories(ctx context.Context, user string) ([]model.Repository, error)
	Ping(ctx context.Context) error
}

type client struct {
	gh       *gh.Client
	validate *validator.Validate
	log      zerolog.Logger
}

// New builds a client against cfg.BaseURL. httpClient may be nil.
func New(cfg config.GitHubConfig, httpClient *http.Client, logger zerolog.Logger) (Client, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	base := cfg.BaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid github base url: %w", err)
	}

	c := gh.NewClient(httpClient)
	c.BaseURL = baseURL
	if cfg.UserAgent != "" {
		c.UserAgent = cfg.UserAgent
	}

	l := logger.With().Str("module", "github").Str("component", "client").Logger()
	return &client{gh: c, validate: validator.New(), log: l}, nil
}

// ListUserRepositories requests the first page of the user's repositories.
// Every record must carry name, updated_at and clone_url, otherwise the whole
// list is rejected with ErrInvalidPayload.
func (c *client) ListUserRepositories(ctx context.Context, user string) ([]model.Repository, error) {
	start := time.Now()
	req, err := c.gh.NewRequest(http.MethodGet, fmt.Sprintf("users/%s/repos", url.PathEscape(user)), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	var repos []model.Repository
	resp, err := c.gh.Do(ctx, req, &repos)
	if err != nil {
		return nil, classify(err)
	}

	for i := range repos {
		if err := c.validate.Struct(repos[i]); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrInvalidPayload, i, err)
		}
		updated, err := filter.ParseTimestamp(repos[i].UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrInvalidPayload, i, err)
		}
		repos[i].Updated = updated
	}

	c.log.Debug().
		Str("user", user).
		Int("status", resp.StatusCode).
		Int("count", len(repos)).
		Dur("took", time.Since(start)).
		Msg("repositories fetched")
	return repos, nil
}

// Ping checks that the API root answers.
func (c *client) Ping(ctx context.Context) error {
	req, err := c.gh.NewRequest(http.MethodGet, "", nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if _, err := c.gh.Do(ctx, req, nil); err != nil {
		return classify(err)
	}
	return nil
}

// classify maps go-github errors onto the package's sentinel errors.
func classify(err error) error {
	var errResp *gh.ErrorResponse
	if errors.As(err, &errResp) {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return fmt.Errorf("%w: %v", ErrUpstream, err)
}
