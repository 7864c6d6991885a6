package api

import (
	"time"

	"github.com/google/uuid"

	"gavel/models"
)

type MessageView struct {
	Message string `json:"message"`
}

type ErrorView struct {
	Error string `json:"error"`
}

// LoginView 未登入（或登入失敗）時回覆的登入頁載荷
type LoginView struct {
	View    string `json:"view"`
	Message string `json:"message"`
}

// ListingView 刊登物品的檢視模型
// Watched 與 Owner 是針對觀看者即時計算的旗標，不會寫回資料庫
type ListingView struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartingBid float64   `json:"startingBid"`
	ListingURL  string    `json:"listingURL"`
	Category    string    `json:"category"`
	Closed      bool      `json:"closed"`
	Watched     bool      `json:"watched"`
	Owner       bool      `json:"owner"`
}

func newListingView(listing models.AuctionListing, watched, owner bool) ListingView {
	return ListingView{
		ID:          listing.ID,
		Title:       listing.Title,
		Description: listing.Description,
		StartingBid: listing.StartingBid,
		ListingURL:  listing.ListingURL,
		Category:    listing.Category,
		Closed:      listing.Closed,
		Watched:     watched,
		Owner:       owner,
	}
}

// IndexView 首頁與追蹤清單共用的列表載荷
type IndexView struct {
	Rows      []ListingView `json:"rows"`
	Watchlist bool          `json:"watchlist"`
}

type CategoriesView struct {
	Rows []string `json:"rows"`
}

type CommentView struct {
	User      string    `json:"user"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// DetailView 刊登物品的詳細頁載荷
// BidWon 只在物品已結標且觀看者是最高出價者時出現
type DetailView struct {
	Item       ListingView   `json:"item"`
	HighestBid float64       `json:"highestBid"`
	Comments   []CommentView `json:"comments"`
	BidWon     *bool         `json:"bidWon,omitempty"`
}
