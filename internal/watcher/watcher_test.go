package watcher

import (
	"VideoForge/internal/notify"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/google/go-github/v66/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	repos    []string
	issues   map[string][]Issue
	failRepo string
}

func (f *fakeLister) ListRepos(context.Context, string) ([]string, error) {
	return f.repos, nil
}

func (f *fakeLister) ListOpenIssues(_ context.Context, _ string, repo string) ([]Issue, error) {
	if repo == f.failRepo {
		return nil, errors.New("rate limited")
	}
	return f.issues[repo], nil
}

type issueRecorder struct {
	mu     sync.Mutex
	events []notify.IssueEvent
	fail   bool
}

func (r *issueRecorder) VideoSubmitted(context.Context, notify.VideoSubmittedEvent) error { return nil }

func (r *issueRecorder) IssueOpened(_ context.Context, ev notify.IssueEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("discord down")
	}
	r.events = append(r.events, ev)
	return nil
}

func (r *issueRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func newLister() *fakeLister {
	return &fakeLister{
		repos: []string{"app", "broken", "site"},
		issues: map[string][]Issue{
			"app":  {{ID: 1, Number: 1, Title: "crash on start"}, {ID: 2, Number: 2, Title: "typo"}},
			"site": {{ID: 3, Number: 7, Title: "404 on /about"}},
		},
		failRepo: "broken",
	}
}

func TestPollWithoutDedupReannounces(t *testing.T) {
	rec := &issueRecorder{}
	w := NewIssueWatcher(newLister(), rec, nil, "octo", time.Minute)

	assert.Equal(t, 3, w.Poll(context.Background()))
	assert.Equal(t, 3, w.Poll(context.Background()))
	assert.Equal(t, 6, rec.count())
}

func TestPollWithDedupAnnouncesOnce(t *testing.T) {
	rec := &issueRecorder{}
	lister := newLister()
	w := NewIssueWatcher(lister, rec, NewMemorySeenStore(), "octo", time.Minute)

	assert.Equal(t, 3, w.Poll(context.Background()))
	assert.Equal(t, 0, w.Poll(context.Background()))

	lister.issues["app"] = append(lister.issues["app"], Issue{ID: 9, Number: 3, Title: "new"})
	assert.Equal(t, 1, w.Poll(context.Background()))
	assert.Equal(t, 4, rec.count())
}

func TestFailedNotificationIsRetried(t *testing.T) {
	rec := &issueRecorder{fail: true}
	w := NewIssueWatcher(newLister(), rec, NewMemorySeenStore(), "octo", time.Minute)

	assert.Equal(t, 0, w.Poll(context.Background()))
	rec.fail = false
	assert.Equal(t, 3, w.Poll(context.Background()))
}

func TestRunStopsOnCancel(t *testing.T) {
	rec := &issueRecorder{}
	w := NewIssueWatcher(newLister(), rec, NewMemorySeenStore(), "octo", 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return rec.count() == 3 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestGitHubListerPaginates(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	mux.HandleFunc("/users/octo/repos", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `[{"name":"second"}]`)
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<%s/users/octo/repos?page=2>; rel="next"`, server.URL))
		fmt.Fprint(w, `[{"name":"first"}]`)
	})
	mux.HandleFunc("/repos/octo/first/issues", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "open", r.URL.Query().Get("state"))
		fmt.Fprint(w, `[{"id":11,"number":4,"title":"bug","html_url":"https://github.com/octo/first/issues/4","created_at":"2024-05-01T10:00:00Z"}]`)
	})

	client := github.NewClient(nil)
	base, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base
	lister := NewGitHubListerWithClient(client)

	repos, err := lister.ListRepos(context.Background(), "octo")
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, repos)

	issues, err := lister.ListOpenIssues(context.Background(), "octo", "first")
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, int64(11), issues[0].ID)
	assert.Equal(t, 4, issues[0].Number)
	assert.Equal(t, "https://github.com/octo/first/issues/4", issues[0].URL)
	assert.Equal(t, 2024, issues[0].CreatedAt.Year())
}
