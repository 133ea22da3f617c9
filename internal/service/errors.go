package service

import (
	"errors"
	"fmt"
)

var (
	ErrVideoNotFound  = errors.New("视频不存在")
	ErrNotPublishable = errors.New("视频还不能发布")
	ErrForbidden      = errors.New("没有权限")
	ErrUsernameTaken  = errors.New("用户名已存在")
	ErrBadCredentials = errors.New("用户名或密码错误")
	// 进程没有配置上传通道或素材存储
	ErrPublishDisabled = errors.New("发布功能未启用")
	// 进程没有下载协程池（比如网页进程），不能处理附件
	ErrNoDispatcher = errors.New("下载协程池未启用")
)

// ValidationError 调用方传入的参数不合法，不会产生任何写入
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
