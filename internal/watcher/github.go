package watcher

import (
	"context"
	"net/http"
	"time"

	"github.com/google/go-github/v66/github"
)

// Issue 只保留通知需要的字段
type Issue struct {
	ID        int64
	Number    int
	Title     string
	URL       string
	CreatedAt time.Time
}

// IssueLister 代码托管平台的只读接口
type IssueLister interface {
	ListRepos(ctx context.Context, owner string) ([]string, error)
	ListOpenIssues(ctx context.Context, owner, repo string) ([]Issue, error)
}

type GitHubLister struct {
	client *github.Client
}

// NewGitHubLister token为空时匿名访问（速率限制很低）
func NewGitHubLister(token string, httpClient *http.Client) *GitHubLister {
	client := github.NewClient(httpClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return &GitHubLister{client: client}
}

// NewGitHubListerWithClient 测试时传入指向httptest的client
func NewGitHubListerWithClient(client *github.Client) *GitHubLister {
	return &GitHubLister{client: client}
}

func (g *GitHubLister) ListRepos(ctx context.Context, owner string) ([]string, error) {
	opts := &github.RepositoryListByUserOptions{ListOptions: github.ListOptions{PerPage: 100}}
	var names []string
	for {
		repos, resp, err := g.client.Repositories.ListByUser(ctx, owner, opts)
		if err != nil {
			return nil, err
		}
		for _, r := range repos {
			names = append(names, r.GetName())
		}
		if resp.NextPage == 0 {
			return names, nil
		}
		opts.Page = resp.NextPage
	}
}

func (g *GitHubLister) ListOpenIssues(ctx context.Context, owner, repo string) ([]Issue, error) {
	opts := &github.IssueListByRepoOptions{
		State:       "open",
		ListOptions: github.ListOptions{PerPage: 100},
	}
	var out []Issue
	for {
		issues, resp, err := g.client.Issues.ListByRepo(ctx, owner, repo, opts)
		if err != nil {
			return nil, err
		}
		for _, is := range issues {
			out = append(out, Issue{
				ID:        is.GetID(),
				Number:    is.GetNumber(),
				Title:     is.GetTitle(),
				URL:       is.GetHTMLURL(),
				CreatedAt: is.GetCreatedAt().Time,
			})
		}
		if resp.NextPage == 0 {
			return out, nil
		}
		opts.Page = resp.NextPage
	}
}
