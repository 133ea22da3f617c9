package dto

import (
	"VideoForge/internal/model"
	"time"
)

type VideoResponse struct {
	ID             uint64       `json:"id"`
	CreatedAt      time.Time    `json:"created_at"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	StorageLink    string       `json:"storage_link"`
	Maker          string       `json:"maker"`
	Editor         *string      `json:"editor"`
	ThumbnailMaker *string      `json:"thumbnail_maker"`
	Status         model.Status `json:"status"`
	StatusDisplay  string       `json:"status_display"`
	// 素材引用是内部路径，只告诉前端有没有
	HasEditedAsset    bool `json:"has_edited_asset"`
	HasThumbnailAsset bool `json:"has_thumbnail_asset"`
}

// ToVideoResponse 是一个转换函数，把DB模型转换为API响应模型
func ToVideoResponse(video *model.VideoRequest) VideoResponse {
	return VideoResponse{
		ID:                video.ID,
		CreatedAt:         video.CreatedAt,
		Title:             video.Title,
		Description:       video.Description,
		StorageLink:       video.StorageLink,
		Maker:             video.Maker,
		Editor:            video.Editor,
		ThumbnailMaker:    video.ThumbnailMaker,
		Status:            video.Status,
		StatusDisplay:     video.Status.Display(),
		HasEditedAsset:    video.EditedAssetRef != nil,
		HasThumbnailAsset: video.ThumbnailAssetRef != nil,
	}
}

func ToVideoResponses(videos []model.VideoRequest) []VideoResponse {
	// 创建一个有预估容量的切片，空列表序列化成[]而不是null
	response := make([]VideoResponse, 0, len(videos))
	for i := range videos {
		response = append(response, ToVideoResponse(&videos[i]))
	}
	return response
}

type VideoPage struct {
	Items   []VideoResponse `json:"items"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	PerPage int             `json:"per_page"`
	Pages   int64           `json:"pages"`
}

func ToVideoPage(videos []model.VideoRequest, total int64, page, perPage int) VideoPage {
	var pages int64
	if perPage > 0 {
		pages = (total + int64(perPage) - 1) / int64(perPage)
	}
	return VideoPage{
		Items:   ToVideoResponses(videos),
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   pages,
	}
}
