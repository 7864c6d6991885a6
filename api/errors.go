package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// 回應給使用者的訊息文案，沿用前端模板既有的字串，不可隨意改動
const (
	MsgNotLoggedIn        = "User not logged in."
	MsgBadCredentials     = "Invalid username and/or password."
	MsgPasswordMismatch   = "Passwords must match."
	MsgUsernameTaken      = "Username already taken."
	MsgItemNotFound       = "Requested Item doesn't exist"
	MsgBidValueMissing    = "Bid value missing"
	MsgInvalidStartingBid = "Invalid bid value."
	MsgInvalidBidValue    = "Invalid Bid Value."
	MsgAlreadyInWatchlist = "Requested Item already in watchlist"
	MsgNotInWatchlist     = "Requested Item not in watchlist"

	MsgLoggedIn       = "Successfully logged in"
	MsgLoggedOut      = "Successfully logged out."
	MsgRegistered     = "Successfully registered and logged in"
	MsgListingCreated = "Successfully created listing."
	MsgBidPlaced      = "Successfully placed bid."
	MsgWatched        = "Successfully added to watchlist."
	MsgUnwatched      = "Successfully removed from watchlist."
	MsgCommentAdded   = "Successfully added a comment."
	MsgListingClosed  = "Successfully closed the listing."
)

// bidTooLowMessage 組出出價過低的提示訊息
// 金額以最短的十進位表示法呈現（15 而不是 15.000000）
func bidTooLowMessage(highest float64) string {
	return "Bid value must be greater than " + strconv.FormatFloat(highest, 'f', -1, 64)
}

func renderMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageView{Message: message})
}

func renderError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorView{Error: message})
}

// renderLoginRequired 未登入時渲染登入頁
func renderLoginRequired(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, LoginView{View: "login", Message: MsgNotLoggedIn})
}

// renderInternalError 記錄非預期的錯誤，對外只回覆固定訊息
func renderInternalError(c *gin.Context, op string, err error) {
	slog.Error("Unexpected server error", slog.String("op", op), slog.Any("error", err))
	c.JSON(http.StatusInternalServerError, ErrorView{Error: "internal server error"})
}
