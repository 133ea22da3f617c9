package service

import (
	"VideoForge/internal/model"
	"VideoForge/internal/repository"
	"VideoForge/pkg/logger"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenTTL = 72 * time.Hour

// 用户服务接口：1、注册 2、登录 3、查看资料 4、启动时确保管理员存在
type UserService interface {
	Register(ctx context.Context, username, password string) (*model.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	Profile(ctx context.Context, userID uint64) (*model.User, error)
	EnsureAdmin(ctx context.Context, username, password string) error
}

// 用户服务包装
type userService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
}

// 包装函数
func NewUserService(userRepo repository.UserRepository, jwtSecret string) UserService {
	return &userService{userRepo: userRepo, jwtSecret: []byte(jwtSecret)}
}

type credentials struct {
	Username string `field:"username" validate:"required,max=80"`
	Password string `field:"password" validate:"required,min=6,max=72"`
}

// 注册逻辑：1、检查是否重名 2、密码加密存储 3、插入数据库，并发注册撞上唯一索引时同样返回重名
func (s *userService) Register(ctx context.Context, username, password string) (*model.User, error) {
	return s.create(ctx, username, password, false)
}

func (s *userService) create(ctx context.Context, username, password string, admin bool) (*model.User, error) {
	username = strings.TrimSpace(username)
	if err := validateStruct(credentials{Username: username, Password: password}); err != nil {
		return nil, err
	}
	_, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	newUser := &model.User{
		Username: username,
		Password: string(hashedPassword),
		IsAdmin:  admin,
	}
	if err := s.userRepo.Create(ctx, newUser); err != nil {
		var mysqlErr *mysql.MySQLError
		// 1062 是 MySQL 中 "Duplicate entry" 的错误码
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return newUser, nil
}

// 登录逻辑：1、检查库中是否有该用户名 2、加密后密码和输入密码比对 3、生成jwt签名
// 用户不存在和密码错误返回同一个错误，不泄露用户名是否存在
func (s *userService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrBadCredentials
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrBadCredentials
	}
	return s.issueToken(user)
}

// token对象的Payload，不能将密码放在其中，Payload不加密
func (s *userService) issueToken(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"is_admin": user.IsAdmin,
		"exp":      now.Add(tokenTTL).Unix(),
		"iat":      now.Unix(),
	}
	// token加上Header，算法信息HS256，对称加密
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *userService) Profile(ctx context.Context, userID uint64) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrForbidden
	}
	return user, err
}

// EnsureAdmin 管理员账号不存在时创建；已存在的同名账号不做修改
func (s *userService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	_, err := s.create(ctx, username, password, true)
	if errors.Is(err, ErrUsernameTaken) {
		return nil
	}
	if err != nil {
		return err
	}
	logger.Log.WithField("username", username).Info("已创建管理员账号")
	return nil
}
