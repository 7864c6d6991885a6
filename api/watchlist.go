package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"gavel/models"
)

// Watch 將刊登物品加入觀看者的追蹤清單
// (POST /auctions/:id/watch)
func (impl *ServerImpl) Watch(c *gin.Context) {
	const op = "Watch"

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

	watched, err := impl.isWatched(listing.ID, user.ID)
	if err != nil {
		renderInternalError(c, op, err)
		return
	}
	if watched {
		renderError(c, http.StatusBadRequest, MsgAlreadyInWatchlist)
		return
	}

	row := models.AuctionWatchList{
		AuctionListingID: listing.ID,
		UserID:           user.ID,
	}
	if result := impl.db.Create(&row); result.Error != nil {
		renderInternalError(c, op, result.Error)
		return
	}
	renderMessage(c, MsgWatched)
}

// Unwatch 將刊登物品自觀看者的追蹤清單移除
// (DELETE /auctions/:id/watch)
func (impl *ServerImpl) Unwatch(c *gin.Context) {
	const op = "Unwatch"

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

	var row models.AuctionWatchList
	if result := impl.db.Where("auction_listing_id = ? AND user_id = ?", listing.ID, user.ID).First(&row); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			renderError(c, http.StatusBadRequest, MsgNotInWatchlist)
			return
		}
		renderInternalError(c, op, result.Error)
		return
	}
	if result := impl.db.Delete(&row); result.Error != nil {
		renderInternalError(c, op, result.Error)
		return
	}
	renderMessage(c, MsgUnwatched)
}
