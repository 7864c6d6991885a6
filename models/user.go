package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User 代表拍賣系統中的使用者
// 除了登入用的帳號密碼外，還包含電子郵件與自我介紹
type User struct {
	gorm.Model

	ID           uuid.UUID `gorm:"type:uuid;primaryKey;<-:create"`
	Username     string    `gorm:"type:varchar(255);not null;uniqueIndex;<-:create"`
	Email        string    `gorm:"type:varchar(255);not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Description  string    `gorm:"type:text"`
}

// BeforeCreate 在建立時產生使用者的 UUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
