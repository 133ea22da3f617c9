package model

type User struct {
	BaseModel        // 包括 ID, CreatedAt, UpdatedAt, DeleteAt
	Username  string `gorm:"size:80;unique;not null"`
	Password  string `gorm:"not null"`
	IsAdmin   bool   `gorm:"default:false"`
}
