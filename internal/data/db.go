package data

import (
	"VideoForge/internal/model"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenDB 根据driver打开数据库
// mysql是线上用的；sqlite是纯Go实现（不需要cgo），本地跑和测试用
func OpenDB(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		// dsn格式：用户名:密码@tcp(地址:端口号)/数据库名?charset=utf8mb4&parseTime=True&loc=Local
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// sqlite同一时刻只允许一个写者，连接池限制成1，顺便保证:memory:库在连接之间共享
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// Migrate 没有这个表就创建，没有属性列则创建列，没有约束则增加约束；不会主动删除和修改
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(model.All()...)
}
