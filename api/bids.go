package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	redisAdapter "gavel/adapters/redis"
	"gavel/models"
)

type PlaceBidRequest struct {
	Amount string `json:"bid_amount"`
}

// PlaceBid 對刊登物品出價
// 出價必須嚴格大於目前最高出價（沒有任何出價時為起標價），相等也會被拒絕。
// 從讀取最高價到寫入出價之間，以 Redis 分散式鎖對單一物品序列化，
// 避免兩個並發出價都通過檢查。
// (POST /auctions/:id/bids)
func (impl *ServerImpl) PlaceBid(c *gin.Context) {
	const op = "PlaceBid"

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

	var request PlaceBidRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		renderError(c, http.StatusBadRequest, MsgInvalidBidValue)
		return
	}
	amount, err := strconv.ParseFloat(request.Amount, 64)
	if err != nil {
		renderError(c, http.StatusBadRequest, MsgInvalidBidValue)
		return
	}

	// 取得該物品的出價鎖
	dMutex := redisAdapter.NewAutoRenewMutex(
		impl.redisClient,
		fmt.Sprintf("%sauction:%s:lock", impl.config.Redis.KeyPrefix, listing.ID),
		redisAdapter.WithAutoRenewMutexExpiry(impl.config.Auction.BidLockExpiry),
	)
	lockCtx, err := dMutex.Lock(c.Request.Context())
	if err != nil {
		renderInternalError(c, op, err)
		return
	}
	defer func() {
		if _, err := dMutex.Unlock(); err != nil {
			slog.Warn("Fail to release bid lock", slog.String("op", op), slog.Any("error", err))
		}
	}()

	db := impl.db.WithContext(lockCtx)
	_, highest, err := impl.highestBid(db, listing)
	if err != nil {
		renderInternalError(c, op, err)
		return
	}
	if amount <= highest {
		renderError(c, http.StatusBadRequest, bidTooLowMessage(highest))
		return
	}

	bid := models.AuctionBid{
		Value:            amount,
		UserID:           user.ID,
		AuctionListingID: listing.ID,
	}
	if result := db.Create(&bid); result.Error != nil {
		renderInternalError(c, op, result.Error)
		return
	}
	slog.Info("Higher bid occurs",
		slog.String("listingID", listing.ID.String()),
		slog.String("userID", user.ID.String()),
		slog.Float64("bid", amount),
	)
	renderMessage(c, MsgBidPlaced)
}
