// Package assets 保存从聊天频道下载下来的交付物（剪辑成片、封面）
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidRef = errors.New("invalid asset ref")

// Store 只认“引用”（相对路径/对象名），不关心底层是本地磁盘还是对象存储
type Store interface {
	Put(ctx context.Context, ref string, r io.Reader) error
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// NewRef 由原始附件名生成引用：<videoID>/<kind>/<uuid>-<清洗后的文件名>
// 加uuid前缀是为了同名附件互不覆盖
func NewRef(videoID uint64, kind, originalName string) string {
	name := filepath.Base(strings.TrimSpace(originalName))
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		name = "attachment"
	}
	return fmt.Sprintf("%d/%s/%s-%s", videoID, kind, uuid.NewString(), name)
}

// LocalStore 把素材写到本地目录下
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{root: abs}, nil
}

// 引用必须落在root里面，防止../穿越
func (s *LocalStore) path(ref string) (string, error) {
	if ref == "" || filepath.IsAbs(ref) {
		return "", ErrInvalidRef
	}
	p := filepath.Join(s.root, filepath.FromSlash(ref))
	rel, err := filepath.Rel(s.root, p)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", ErrInvalidRef
	}
	return p, nil
}

// Put 先写临时文件再rename，下载中途失败不会留下半个文件
func (s *LocalStore) Put(ctx context.Context, ref string, r io.Reader) error {
	p, err := s.path(ref)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), ".part-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, readerWithContext(ctx, r)); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), p)
}

func (s *LocalStore) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	p, err := s.path(ref)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return ctxReader{ctx: ctx, r: r}
}
