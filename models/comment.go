package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuctionComment 代表刊登物品的留言
// 依照建立時間排序顯示，建立後不可變更也不會被刪除
type AuctionComment struct {
	gorm.Model

	ID               uuid.UUID `gorm:"type:uuid;primaryKey;<-:create"`
	Body             string    `gorm:"type:text;not null;<-:create"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;<-:create"`
	AuctionListingID uuid.UUID `gorm:"type:uuid;not null;<-:create"`

	// 外鍵關聯
	User           User
	AuctionListing AuctionListing
}

// BeforeCreate 在建立時產生留言的 UUID
func (c *AuctionComment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
