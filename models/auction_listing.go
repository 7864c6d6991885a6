package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuctionListing 代表拍賣系統中的刊登物品
// 包含物品資訊、起標價、分類與拍賣是否已結束
// 刊登後只會被更新一次（結標時把 Closed 設為 true），不會被刪除
type AuctionListing struct {
	gorm.Model

	ID          uuid.UUID `gorm:"type:uuid;primaryKey;<-:create"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;<-:create"`
	Title       string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text;not null"`
	StartingBid float64   `gorm:"type:numeric;not null"`
	ListingURL  string    `gorm:"type:text"`
	Category    string    `gorm:"type:varchar(255)"`
	Closed      bool      `gorm:"not null;default:false"`

	// 外鍵關聯
	User     User
	Bids     []AuctionBid     `gorm:"foreignKey:AuctionListingID"`
	Comments []AuctionComment `gorm:"foreignKey:AuctionListingID"`
}

// BeforeCreate 在建立時產生刊登物品的 UUID
func (l *AuctionListing) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
