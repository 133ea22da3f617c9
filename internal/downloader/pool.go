// Package downloader 把附件下载放到固定大小的后台协程池里，网关的消息处理不需要等网络IO
package downloader

import (
	"VideoForge/internal/assets"
	"VideoForge/internal/model"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrPoolStopped = errors.New("download pool stopped")

// Task 一次附件下载
type Task struct {
	ID      uuid.UUID
	VideoID uint64
	Kind    model.AssetKind
	URL     string
	Ref     string
}

// Result 每个Task都会产生一个Result，成功时Err为nil
type Result struct {
	Task     Task
	Bytes    int64
	Duration time.Duration
	Err      error
}

// ResultHandler 由状态机提供，下载结果通过它回流
type ResultHandler func(Result)

type Pool struct {
	size    int
	tasks   chan Task
	store   assets.Store
	client  *http.Client
	timeout time.Duration

	mu      sync.RWMutex
	stopped bool
	started bool
	wg      sync.WaitGroup
	once    sync.Once
}

type Option func(*Pool)

// WithHTTPClient 替换默认http客户端，测试用
func WithHTTPClient(c *http.Client) Option {
	return func(p *Pool) {
		if c != nil {
			p.client = c
		}
	}
}

// NewPool size<=0时退回5个worker；timeout是单个下载的上限
func NewPool(size int, store assets.Store, timeout time.Duration, opts ...Option) *Pool {
	if size <= 0 {
		size = 5
	}
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	p := &Pool{
		size:    size,
		tasks:   make(chan Task, size*2),
		store:   store,
		client:  &http.Client{},
		timeout: timeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start 启动worker，只有第一次调用生效
func (p *Pool) Start(handler ResultHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.stopped {
		return
	}
	p.started = true
	p.wg.Add(p.size)
	for i := 0; i < p.size; i++ {
		go p.worker(handler)
	}
}

func (p *Pool) worker(handler ResultHandler) {
	defer p.wg.Done()
	for task := range p.tasks {
		res := p.run(task)
		if handler != nil {
			handler(res)
		}
	}
}

// Submit 队列满时阻塞到有空位为止；池停止后返回ErrPoolStopped
func (p *Pool) Submit(task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrPoolStopped
	}
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	p.tasks <- task
	return nil
}

// Stop 不再接收新任务，等队列里的任务全部跑完
func (p *Pool) Stop() {
	p.once.Do(func() {
		p.mu.Lock()
		p.stopped = true
		close(p.tasks)
		started := p.started
		p.mu.Unlock()
		if started {
			p.wg.Wait()
		}
	})
}

func (p *Pool) run(task Task) Result {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	n, err := p.fetch(ctx, task)
	return Result{Task: task, Bytes: n, Duration: time.Since(start), Err: err}
}

// 以流的方式边下边写，不把整个视频读进内存
func (p *Pool) fetch(ctx context.Context, task Task) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, task.URL, nil)
	if err != nil {
		return 0, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("download %s: unexpected status %d", task.URL, resp.StatusCode)
	}
	counter := &countingReader{r: resp.Body}
	if err := p.store.Put(ctx, task.Ref, counter); err != nil {
		return counter.n, err
	}
	return counter.n, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(b []byte) (int, error) {
	n, err := c.r.Read(b)
	c.n += int64(n)
	return n, err
}
