package model

// 网页端视频下的评论，只有一级，不做楼中楼
type Comment struct {
	BaseModel
	VideoID uint64 `gorm:"not null;index"` // index索引，加速按视频查询
	UserID  uint64 `gorm:"not null;index"`
	// TEXT是MySQL中的一种文本类型，专门用于存储非常长的字符串
	Content string `gorm:"type:text;not null"`

	User User `gorm:"foreignKey:UserID"`
}

func (Comment) TableName() string {
	return "comments"
}
