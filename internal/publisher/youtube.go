// Package publisher 把剪辑完成的视频上传到YouTube
package publisher

import (
	"VideoForge/pkg/logger"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// YouTube分类“People & Blogs”
const categoryPeopleBlogs = "22"

type Credits struct {
	Maker          string
	Editor         string
	ThumbnailMaker string
}

type Upload struct {
	Title       string
	Description string
	Credits     Credits
	Video       io.Reader
	Thumbnail   io.Reader // 可以为nil
}

// FullDescription 在简介末尾追加署名
func (u Upload) FullDescription() string {
	var b strings.Builder
	b.WriteString(u.Description)
	b.WriteString("\n\nCredits:\n")
	fmt.Fprintf(&b, "Created by: %s\n", orUnknown(u.Credits.Maker))
	fmt.Fprintf(&b, "Edited by: %s\n", orUnknown(u.Credits.Editor))
	fmt.Fprintf(&b, "Thumbnail by: %s", orUnknown(u.Credits.ThumbnailMaker))
	return b.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

type YouTube struct {
	svc     *youtube.Service
	tags    []string
	privacy string
}

// NewYouTube 从tokenPath读取已授权用户的token（client_id、client_secret、refresh_token），
// access token过期后由oauth2自动刷新
func NewYouTube(ctx context.Context, tokenPath string, tags []string, privacy string) (*YouTube, error) {
	raw, err := os.ReadFile(tokenPath)
	if err != nil {
		return nil, fmt.Errorf("read youtube token: %w", err)
	}
	ts, err := TokenSource(ctx, raw)
	if err != nil {
		return nil, err
	}
	return New(ctx, tags, privacy, option.WithTokenSource(ts))
}

// New 直接用ClientOption构造，测试时可以传入WithEndpoint、WithHTTPClient
func New(ctx context.Context, tags []string, privacy string, opts ...option.ClientOption) (*YouTube, error) {
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("youtube client: %w", err)
	}
	if privacy == "" {
		privacy = "private"
	}
	return &YouTube{svc: svc, tags: tags, privacy: privacy}, nil
}

type authorizedUser struct {
	RefreshToken string   `json:"refresh_token"`
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	TokenURI     string   `json:"token_uri"`
	Scopes       []string `json:"scopes"`
}

// TokenSource 解析授权用户token文件
func TokenSource(ctx context.Context, raw []byte) (oauth2.TokenSource, error) {
	var u authorizedUser
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("parse youtube token: %w", err)
	}
	if u.RefreshToken == "" || u.ClientID == "" || u.ClientSecret == "" {
		return nil, errors.New("youtube token needs refresh_token, client_id and client_secret")
	}
	scopes := u.Scopes
	if len(scopes) == 0 {
		scopes = []string{youtube.YoutubeUploadScope}
	}
	endpoint := google.Endpoint
	if u.TokenURI != "" {
		endpoint.TokenURL = u.TokenURI
	}
	cfg := &oauth2.Config{
		ClientID:     u.ClientID,
		ClientSecret: u.ClientSecret,
		Endpoint:     endpoint,
		Scopes:       scopes,
	}
	// 不带旧的access token，第一次调用就刷新，避免拿到没有过期时间的token一直不刷新
	return cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: u.RefreshToken}), nil
}

// Publish 上传视频并设置封面：1、videos.insert 2、thumbnails.set
// 封面失败只记日志，视频已经上传成功，返回的id仍然有效
func (y *YouTube) Publish(ctx context.Context, up Upload) (string, error) {
	if up.Video == nil {
		return "", errors.New("no video stream")
	}
	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       up.Title,
			Description: up.FullDescription(),
			Tags:        y.tags,
			CategoryId:  categoryPeopleBlogs,
		},
		Status: &youtube.VideoStatus{PrivacyStatus: y.privacy},
	}
	resp, err := y.svc.Videos.Insert([]string{"snippet", "status"}, video).
		Context(ctx).
		Media(up.Video).
		Do()
	if err != nil {
		return "", fmt.Errorf("youtube upload: %w", err)
	}

	logCtx := logger.Log.WithField("youtube_id", resp.Id)
	logCtx.Info("视频上传成功")

	if up.Thumbnail != nil {
		if _, err := y.svc.Thumbnails.Set(resp.Id).Context(ctx).Media(up.Thumbnail).Do(); err != nil {
			logCtx.WithError(err).Warn("封面设置失败")
		}
	}
	return resp.Id, nil
}
