package github_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/recent-repos/internal/config"
	"github.com/maxviazov/recent-repos/internal/github"
)

func newClient(t *testing.T, h http.HandlerFunc) github.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := github.New(config.GitHubConfig{BaseURL: srv.URL, UserAgent: "tests", Timeout: 2 * time.Second}, srv.Client(), zerolog.Nop())
	require.NoError(t, err)
	return c
}

func TestListUserRepositories_OK(t *testing.T) {
	var gotPath, gotAgent string
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"name":"hello","description":"first","updated_at":"2024-06-01T12:34:56Z","clone_url":"https://github.com/octocat/hello.git","stargazers_count":3},
			{"name":"null-desc","description":null,"updated_at":"2023-01-01T00:00:00Z","clone_url":"https://github.com/octocat/null-desc.git"}
		]`))
	})

	repos, err := c.ListUserRepositories(context.Background(), "octocat")
	require.NoError(t, err)

	assert.Equal(t, "/users/octocat/repos", gotPath)
	assert.Equal(t, "tests", gotAgent)
	require.Len(t, repos, 2)
	assert.Equal(t, "hello", repos[0].Name)
	assert.Equal(t, "first", repos[0].DescriptionText())
	assert.True(t, repos[0].Updated.Equal(time.Date(2024, 6, 1, 12, 34, 56, 0, time.UTC)))
	assert.Nil(t, repos[1].Description)
	assert.Equal(t, "", repos[1].DescriptionText())
}

func TestListUserRepositories_EscapesUser(t *testing.T) {
	var gotPath string
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`[]`))
	})

	repos, err := c.ListUserRepositories(context.Background(), "a/b c")
	require.NoError(t, err)
	assert.Empty(t, repos)
	assert.Equal(t, "/users/a%2Fb%20c/repos", gotPath)
}

func TestListUserRepositories_Failures(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"not found", http.StatusNotFound, `{"message":"Not Found"}`, github.ErrUpstream},
		{"server error", http.StatusInternalServerError, `oops`, github.ErrUpstream},
		{"not json", http.StatusOK, `<html>maintenance</html>`, github.ErrInvalidPayload},
		{"object instead of array", http.StatusOK, `{"message":"hi"}`, github.ErrInvalidPayload},
		{"missing clone_url", http.StatusOK, `[{"name":"a","updated_at":"2024-01-01T00:00:00Z"}]`, github.ErrInvalidPayload},
		{"missing name", http.StatusOK, `[{"updated_at":"2024-01-01T00:00:00Z","clone_url":"https://e.com/a.git"}]`, github.ErrInvalidPayload},
		{"bad updated_at", http.StatusOK, `[{"name":"a","updated_at":"soon","clone_url":"https://e.com/a.git"}]`, github.ErrInvalidPayload},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})
			_, err := c.ListUserRepositories(context.Background(), "octocat")
			assert.True(t, errors.Is(err, tc.wantErr), "want %v, got %v", tc.wantErr, err)
		})
	}
}

func TestListUserRepositories_ContextCancelled(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.ListUserRepositories(ctx, "octocat")
	assert.True(t, errors.Is(err, github.ErrUpstream), "got %v", err)
}

func TestPing(t *testing.T) {
	healthy := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	assert.NoError(t, healthy.Ping(context.Background()))

	down := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	assert.True(t, errors.Is(down.Ping(context.Background()), github.ErrUpstream))
}

func TestNew_InvalidBaseURL(t *testing.T) {
	_, err := github.New(config.GitHubConfig{BaseURL: "://nope"}, nil, zerolog.Nop())
	assert.Error(t, err)
}
