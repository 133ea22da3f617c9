// Package watcher 定时轮询GitHub，把打开的issue转发到聊天频道
package watcher

import (
	"VideoForge/internal/notify"
	"VideoForge/pkg/logger"
	"context"
	"time"
)

const DefaultInterval = 300 * time.Second

type IssueWatcher struct {
	lister   IssueLister
	notifier notify.Notifier
	// 为nil时不去重，每一轮都重新通知所有打开的issue
	seen     SeenStore
	owner    string
	interval time.Duration
}

func NewIssueWatcher(lister IssueLister, notifier notify.Notifier, seen SeenStore, owner string, interval time.Duration) *IssueWatcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &IssueWatcher{
		lister:   lister,
		notifier: notifier,
		seen:     seen,
		owner:    owner,
		interval: interval,
	}
}

// Run 启动后立即轮询一次，之后按固定间隔轮询，ctx取消后退出
func (w *IssueWatcher) Run(ctx context.Context) {
	logCtx := logger.Log.WithField("owner", w.owner).WithField("interval", w.interval.String())
	logCtx.Info("issue监听已启动")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		w.safePoll(ctx)
		select {
		case <-ctx.Done():
			logCtx.Info("issue监听已停止")
			return
		case <-ticker.C:
		}
	}
}

// 单轮panic不影响后续轮询
func (w *IssueWatcher) safePoll(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.WithField("panic", r).Error("issue轮询panic，下一轮继续")
		}
	}()
	w.Poll(ctx)
}

// Poll 执行一轮：1、列出所有仓库 2、逐个仓库列出打开的issue 3、跳过已通知的并逐条通知
// 单个仓库或单条通知出错只记日志，继续处理后面的；返回本轮通知的条数
func (w *IssueWatcher) Poll(ctx context.Context) int {
	repos, err := w.lister.ListRepos(ctx, w.owner)
	if err != nil {
		logger.Log.WithError(err).WithField("owner", w.owner).Error("获取仓库列表失败")
		return 0
	}

	announced := 0
	for _, repo := range repos {
		if ctx.Err() != nil {
			return announced
		}
		logCtx := logger.Log.WithField("repo", repo)
		issues, err := w.lister.ListOpenIssues(ctx, w.owner, repo)
		if err != nil {
			logCtx.WithError(err).Error("获取issue失败")
			continue
		}
		for _, is := range issues {
			if w.announce(ctx, repo, is) {
				announced++
			}
		}
	}
	if announced > 0 {
		logger.Log.WithField("announced", announced).Info("本轮issue通知完成")
	}
	return announced
}

// 先通知再标记，通知失败的issue下一轮还会再试
func (w *IssueWatcher) announce(ctx context.Context, repo string, is Issue) bool {
	logCtx := logger.Log.WithField("repo", repo).WithField("issue", is.Number)
	if w.seen != nil {
		seen, err := w.seen.Seen(ctx, repo, is.ID)
		if err != nil {
			logCtx.WithError(err).Warn("查询issue通知记录失败")
			return false
		}
		if seen {
			return false
		}
	}

	err := w.notifier.IssueOpened(ctx, notify.IssueEvent{
		Repo:      repo,
		Number:    is.Number,
		Title:     is.Title,
		URL:       is.URL,
		CreatedAt: is.CreatedAt,
	})
	if err != nil {
		logCtx.WithError(err).Error("issue通知发送失败")
		return false
	}

	if w.seen != nil {
		if err := w.seen.Mark(ctx, repo, is.ID); err != nil {
			logCtx.WithError(err).Warn("记录issue通知失败")
		}
	}
	return true
}
