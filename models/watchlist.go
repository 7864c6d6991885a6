package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuctionWatchList 代表使用者的追蹤清單項目
// 每個 (刊登物品, 使用者) 組合至多一筆，由服務層在寫入前檢查
type AuctionWatchList struct {
	gorm.Model

	ID               uuid.UUID `gorm:"type:uuid;primaryKey;<-:create"`
	AuctionListingID uuid.UUID `gorm:"type:uuid;not null;<-:create"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;<-:create"`

	// 外鍵關聯
	User           User
	AuctionListing AuctionListing
}

// BeforeCreate 在建立時產生追蹤紀錄的 UUID
func (w *AuctionWatchList) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
