package model

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Status string

// 流水线只能往前走：submitted → edited → thumbnail_added → published
// 两个failed状态是素材下载失败时的终点，需要人工处理
const (
	StatusSubmitted       Status = "submitted"
	StatusEdited          Status = "edited"
	StatusThumbnailAdded  Status = "thumbnail_added"
	StatusPublished       Status = "published"
	StatusEditFailed      Status = "edit_failed"
	StatusThumbnailFailed Status = "thumbnail_failed"
)

var titleCaser = cases.Title(language.English)

// Display 给聊天界面展示用，比如 thumbnail_added → Thumbnail Added
func (s Status) Display() string {
	return titleCaser.String(strings.ReplaceAll(string(s), "_", " "))
}

// Next 返回线性流水线里的下一个状态，没有下一个返回false
func (s Status) Next() (Status, bool) {
	switch s {
	case StatusSubmitted:
		return StatusEdited, true
	case StatusEdited:
		return StatusThumbnailAdded, true
	case StatusThumbnailAdded:
		return StatusPublished, true
	}
	return "", false
}

// AssetKind 区分两个监听频道对应的交付物
type AssetKind string

const (
	AssetEdited    AssetKind = "edited"
	AssetThumbnail AssetKind = "thumbnail"
)

// Transition 描述一次由附件触发的状态推进
type Transition struct {
	Kind AssetKind
	From Status
	To   Status
	// 下载失败时回落到的状态
	Failed Status
}

func TransitionFor(kind AssetKind) (Transition, error) {
	switch kind {
	case AssetEdited:
		return Transition{Kind: kind, From: StatusSubmitted, To: StatusEdited, Failed: StatusEditFailed}, nil
	case AssetThumbnail:
		return Transition{Kind: kind, From: StatusEdited, To: StatusThumbnailAdded, Failed: StatusThumbnailFailed}, nil
	}
	return Transition{}, fmt.Errorf("unknown asset kind %q", kind)
}

// VideoRequest 一条视频在剪辑流水线中的记录
// 剪辑师和剪辑素材、封面作者和封面素材都是成对写入的，不会出现只有一半的情况
type VideoRequest struct {
	BaseModel
	Title       string `gorm:"size:100;not null"`
	Description string `gorm:"type:text;not null"`
	StorageLink string `gorm:"size:200;not null"` // 原始素材的外部链接（网盘）
	Maker       string `gorm:"size:100;not null;index"`

	Editor            *string `gorm:"size:100;index"`
	ThumbnailMaker    *string `gorm:"size:100"`
	EditedAssetRef    *string `gorm:"size:200"`
	ThumbnailAssetRef *string `gorm:"size:200"`

	// 状态索引服务于“某状态下最早的一条”这个查询
	Status Status `gorm:"size:50;not null;index"`
}

func (VideoRequest) TableName() string {
	return "video_requests"
}

// Publishable 只有封面已经添加且两份素材都在，才能发布
func (v *VideoRequest) Publishable() bool {
	return v.Status == StatusThumbnailAdded && v.EditedAssetRef != nil && v.ThumbnailAssetRef != nil
}
