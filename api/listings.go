package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"gavel/models"
)

// Index 列出所有仍在拍賣中的刊登物品
// (GET /)
func (impl *ServerImpl) Index(c *gin.Context) {
	impl.index(c, "", false)
}

// IndexByCategory 列出指定分類中仍在拍賣的刊登物品
// (GET /category/:category)
func (impl *ServerImpl) IndexByCategory(c *gin.Context) {
	impl.index(c, c.Param("category"), false)
}

// Watchlist 列出觀看者追蹤中、仍在拍賣的刊登物品
// (GET /watchlist)
func (impl *ServerImpl) Watchlist(c *gin.Context) {
	impl.index(c, "", true)
}

// index 依條件列出未結標的刊登物品，並為每一列計算 watched 與 owner 旗標
func (impl *ServerImpl) index(c *gin.Context, category string, watchlistOnly bool) {
	const op = "Index"

	user, _, err := impl.currentUser(c)
	if err != nil {
		renderInternalError(c, op, err)
		return
	}
	if user == nil {
		renderLoginRequired(c)
		return
	}

	query := impl.db.Where("closed = ?", false)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	var listings []models.AuctionListing
	if result := query.Find(&listings); result.Error != nil {
		renderInternalError(c, op, result.Error)
		return
	}

	rows := make([]ListingView, 0, len(listings))
	for _, listing := range listings {
		watched, err := impl.isWatched(listing.ID, user.ID)
		if err != nil {
			renderInternalError(c, op, err)
			return
		}
		if watchlistOnly && !watched {
			continue
		}
		rows = append(rows, newListingView(listing, watched, listing.UserID == user.ID))
	}
	c.JSON(http.StatusOK, IndexView{Rows: rows, Watchlist: watchlistOnly})
}

// Categories 列出所有出現過的分類，依字典序排序
// 包含已結標物品的分類，登入與否皆可查詢
// (GET /categories)
func (impl *ServerImpl) Categories(c *gin.Context) {
	const op = "Categories"

	var categories []string
	if result := impl.db.Model(&models.AuctionListing{}).
		Distinct("category").
		Order("category").
		Pluck("category", &categories); result.Error != nil {
		renderInternalError(c, op, result.Error)
		return
	}
	c.JSON(http.StatusOK, CategoriesView{Rows: categories})
}

type CreateListingRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartingBid string `json:"starting_bid"`
	URL         string `json:"url"`
	Category    string `json:"category"`
}

// CreateListing 建立新的刊登物品
// 起標價以字串傳入，缺漏與無法解析分別回覆不同訊息
// (POST /auctions)
func (impl *ServerImpl) CreateListing(c *gin.Context) {
	const op = "CreateListing"

	user, _, err := impl.currentUser(c)
	if err != nil {
		renderInternalError(c, op, err)
		return
	}
	if user == nil {
		renderLoginRequired(c)
		return
	}

	var request CreateListingRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		renderError(c, http.StatusBadRequest, err.Error())
		return
	}
	if request.StartingBid == "" {
		renderError(c, http.StatusBadRequest, MsgBidValueMissing)
		return
	}
	startingBid, err := strconv.ParseFloat(request.StartingBid, 64)
	if err != nil {
		renderError(c, http.StatusBadRequest, MsgInvalidStartingBid)
		return
	}

	listing := models.AuctionListing{
		UserID:      user.ID,
		Title:       request.Title,
		Description: impl.htmlChecker.Sanitize(request.Description),
		StartingBid: startingBid,
		ListingURL:  request.URL,
		Category:    request.Category,
	}
	if result := impl.db.Create(&listing); result.Error != nil {
		renderInternalError(c, op, result.Error)
		return
	}

	c.Header("Location", "/auctions/"+listing.ID.String())
	c.JSON(http.StatusCreated, MessageView{Message: MsgListingCreated})
}

// ListingDetail 取得刊登物品的詳細資訊
// (GET /auctions/:id)
func (impl *ServerImpl) ListingDetail(c *gin.Context) {
	const op = "ListingDetail"

	user, _, err := impl.currentUser(c)
	if err != nil {
		renderInternalError(c, op, err)
		return
	}
	if user == nil {
		renderLoginRequired(c)
		return
	}

	listing, ok := impl.findListing(c, op)
	if !ok {
		return
	}

	// 目前最高出價，沒有任何出價時以起標價為比較基準
	topBid, highest, err := impl.highestBid(impl.db, listing)
	if err != nil {
		renderInternalError(c, op, err)
		return
	}

	// 留言依建立時間由舊到新
	var comments []models.AuctionComment
	if result := impl.db.Preload("User").
		Where("auction_listing_id = ?", listing.ID).
		Order("created_at asc").
		Find(&comments); result.Error != nil {
		renderInternalError(c, op, result.Error)
		return
	}

	// 結標後才判斷觀看者是否得標
	var bidWon *bool
	if listing.Closed && topBid != nil && topBid.UserID == user.ID {
		bidWon = lo.ToPtr(true)
	}

	watched, err := impl.isWatched(listing.ID, user.ID)
	if err != nil {
		renderInternalError(c, op, err)
		return
	}

	c.JSON(http.StatusOK, DetailView{
		Item:       newListingView(*listing, watched, listing.UserID == user.ID),
		HighestBid: highest,
		Comments: lo.Map(comments, func(comment models.AuctionComment, _ int) CommentView {
			return CommentView{
				User:      comment.User.Username,
				Comment:   comment.Body,
				CreatedAt: comment.CreatedAt,
			}
		}),
		BidWon: bidWon,
	})
}

// CloseListing 結束拍賣
// 物品不存在與物品非本人刊登回覆相同的404，重複結標會靜默成功
// (POST /auctions/:id/close)
func (impl *ServerImpl) CloseListing(c *gin.Context) {
	const op = "CloseListing"

	user, _, err := impl.currentUser(c)
	if err != nil {
		renderInternalError(c, op, err)
		return
	}
	if user == nil {
		renderLoginRequired(c)
		return
	}

	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		renderError(c, http.StatusNotFound, MsgItemNotFound)
		return
	}
	var listing models.AuctionListing
	if result := impl.db.Where("id = ? AND user_id = ?", listingID, user.ID).First(&listing); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			renderError(c, http.StatusNotFound, MsgItemNotFound)
			return
		}
		renderInternalError(c, op, result.Error)
		return
	}

	if result := impl.db.Model(&listing).Update("closed", true); result.Error != nil {
		renderInternalError(c, op, result.Error)
		return
	}
	renderMessage(c, MsgListingClosed)
}

// findListing 解析路徑中的刊登物品ID並載入資料
// 物品不存在（或ID格式錯誤）時直接渲染404
func (impl *ServerImpl) findListing(c *gin.Context, op string) (*models.AuctionListing, bool) {
	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		renderError(c, http.StatusNotFound, MsgItemNotFound)
		return nil, false
	}

	listing := models.AuctionListing{ID: listingID}
	if result := impl.db.First(&listing); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			renderError(c, http.StatusNotFound, MsgItemNotFound)
			return nil, false
		}
		renderInternalError(c, op, result.Error)
		return nil, false
	}
	return &listing, true
}

// highestBid 回傳刊登物品目前的最高出價紀錄與比較基準
// 沒有任何出價時回傳 nil 與起標價
func (impl *ServerImpl) highestBid(db *gorm.DB, listing *models.AuctionListing) (*models.AuctionBid, float64, error) {
	var bid models.AuctionBid
	result := db.Where("auction_listing_id = ?", listing.ID).Order("value desc").First(&bid)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, listing.StartingBid, nil
		}
		return nil, 0, result.Error
	}
	return &bid, bid.Value, nil
}

// isWatched 檢查刊登物品是否在使用者的追蹤清單中
func (impl *ServerImpl) isWatched(listingID, userID uuid.UUID) (bool, error) {
	var count int64
	result := impl.db.Model(&models.AuctionWatchList{}).
		Where("auction_listing_id = ? AND user_id = ?", listingID, userID).
		Count(&count)
	return count > 0, result.Error
}
