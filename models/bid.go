package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuctionBid 代表刊登物品的出價紀錄
// 紀錄出價金額、出價者與出價的刊登物品，建立後不可變更
type AuctionBid struct {
	gorm.Model

	ID               uuid.UUID `gorm:"type:uuid;primaryKey;<-:create"`
	Value            float64   `gorm:"type:numeric;not null;<-:create"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;<-:create"`
	AuctionListingID uuid.UUID `gorm:"type:uuid;not null;<-:create"`

	// 外鍵關聯
	User           User
	AuctionListing AuctionListing
}

// BeforeCreate 在建立時產生出價紀錄的 UUID
func (b *AuctionBid) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
