package data

import (
	"VideoForge/internal/repository"
	"context"

	"gorm.io/gorm"
)

// UnitOfWork 定义了我们事务管理器的接口
type UnitOfWork interface {
	// Execute 将一个函数包裹在数据库事务中执行。
	// 它会为这个函数提供能在事务中工作的 Repositories。
	Execute(ctx context.Context, fn func(repos *TransactionalRepositories) error) error
}

// TransactionalRepositories 持有所有需要在同一个事务中操作的 Repository。
type TransactionalRepositories struct {
	VideoRepo  repository.VideoRepository
	RatingRepo repository.RatingRepository
}

// db是事务的入口和管理者
type gormUnitOfWork struct {
	db         *gorm.DB
	videoRepo  repository.VideoRepository
	ratingRepo repository.RatingRepository
}

// NewUnitOfWork 创建一个新的、基于GORM的“工作单元”。
// 注意，它接收的是原始的、非事务的 repositories。
func NewUnitOfWork(db *gorm.DB, videoRepo repository.VideoRepository, ratingRepo repository.RatingRepository) UnitOfWork {
	return &gormUnitOfWork{
		db:         db,
		videoRepo:  videoRepo,
		ratingRepo: ratingRepo,
	}
}

// 契约：fn func(repos *TransactionalRepositories) error
// 返回error则回滚，返回nil则提交
func (u *gormUnitOfWork) Execute(ctx context.Context, fn func(repos *TransactionalRepositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 临时创建“一次性”的、绑定了特定事务的Repo副本
		transactionalRepos := &TransactionalRepositories{
			VideoRepo:  u.videoRepo.WithTx(tx),
			RatingRepo: u.ratingRepo.WithTx(tx),
		}
		return fn(transactionalRepos)
	})
}
