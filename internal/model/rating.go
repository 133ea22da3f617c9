package model

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// 评分人对剪辑师的评分，uniqueIndex保证同一对(editor, rater)只有一行，新评分覆盖旧评分
type EditorRating struct {
	ID        uint64 `gorm:"primarykey"`
	EditorID  string `gorm:"size:100;not null;uniqueIndex:idx_editor_rater"`
	RaterID   string `gorm:"size:100;not null;uniqueIndex:idx_editor_rater"`
	Rating    int    `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (EditorRating) TableName() string {
	return "editor_ratings"
}
