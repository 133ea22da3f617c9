package assets

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
)

// GCSStore 把素材写进GCS bucket，引用即对象名
type GCSStore struct {
	client *storage.Client
	bucket string
}

// NewGCSStore 使用默认凭据（GOOGLE_APPLICATION_CREDENTIALS）创建客户端
func NewGCSStore(ctx context.Context, bucket string) (*GCSStore, error) {
	if bucket == "" {
		return nil, errors.New("gcs bucket is required")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("init gcs client: %w", err)
	}
	return &GCSStore{client: client, bucket: bucket}, nil
}

func (s *GCSStore) Put(ctx context.Context, ref string, r io.Reader) error {
	if ref == "" {
		return ErrInvalidRef
	}
	// 中途出错要先cancel再Close，否则Writer会把半截数据当成完整对象提交
	wctx, cancel := context.WithCancel(ctx)
	defer cancel()
	w := s.client.Bucket(s.bucket).Object(ref).NewWriter(wctx)
	if _, err := io.Copy(w, r); err != nil {
		cancel()
		_ = w.Close()
		return fmt.Errorf("gcs write %s: %w", ref, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("gcs close %s: %w", ref, err)
	}
	return nil
}

func (s *GCSStore) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	if ref == "" {
		return nil, ErrInvalidRef
	}
	rc, err := s.client.Bucket(s.bucket).Object(ref).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcs read %s: %w", ref, err)
	}
	return rc, nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}
