package dto

import (
	"VideoForge/internal/model"
	"time"
)

// UserInfo 是在DTO中使用的、简化的用户信息
type UserInfo struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

type CommentResponse struct {
	ID        uint64    `json:"id"`
	VideoID   uint64    `json:"video_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Author    UserInfo  `json:"author"`
}

func ToCommentResponse(comment *model.Comment) CommentResponse {
	resp := CommentResponse{
		ID:        comment.ID,
		VideoID:   comment.VideoID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		Author:    UserInfo{ID: comment.UserID},
	}
	// User没有被Preload时只返回ID
	if comment.User.ID != 0 {
		resp.Author.Username = comment.User.Username
	}
	return resp
}

func ToCommentResponses(comments []model.Comment) []CommentResponse {
	response := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		response = append(response, ToCommentResponse(&comments[i]))
	}
	return response
}
