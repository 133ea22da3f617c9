package watcher

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/go-redis/redis/v8"
)

// SeenStore 记录已经通知过的issue，每个仓库一个集合
type SeenStore interface {
	Seen(ctx context.Context, repo string, issueID int64) (bool, error)
	Mark(ctx context.Context, repo string, issueID int64) error
}

type redisSeenStore struct {
	rdb *redis.Client
}

func NewRedisSeenStore(rdb *redis.Client) SeenStore {
	return &redisSeenStore{rdb: rdb}
}

func seenKey(repo string) string {
	return fmt.Sprintf("watcher:issues:seen:%s", repo)
}

func (s *redisSeenStore) Seen(ctx context.Context, repo string, issueID int64) (bool, error) {
	return s.rdb.SIsMember(ctx, seenKey(repo), strconv.FormatInt(issueID, 10)).Result()
}

func (s *redisSeenStore) Mark(ctx context.Context, repo string, issueID int64) error {
	return s.rdb.SAdd(ctx, seenKey(repo), strconv.FormatInt(issueID, 10)).Err()
}

// MemorySeenStore 没有Redis时使用，进程重启后会重新通知一遍
type MemorySeenStore struct {
	mu   sync.Mutex
	seen map[string]map[int64]struct{}
}

func NewMemorySeenStore() *MemorySeenStore {
	return &MemorySeenStore{seen: make(map[string]map[int64]struct{})}
}

func (s *MemorySeenStore) Seen(_ context.Context, repo string, issueID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[repo][issueID]
	return ok, nil
}

func (s *MemorySeenStore) Mark(_ context.Context, repo string, issueID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen[repo] == nil {
		s.seen[repo] = make(map[int64]struct{})
	}
	s.seen[repo][issueID] = struct{}{}
	return nil
}
