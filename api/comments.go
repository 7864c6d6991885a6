package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gavel/models"
)

type AddCommentRequest struct {
	Comment string `json:"comment"`
}

// AddComment 對刊登物品留言
// 已結標的物品仍然可以留言，內容不限長度
// (POST /auctions/:id/comments)
func (impl *ServerImpl) AddComment(c *gin.Context) {
	const op = "AddComment"

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

	var request AddCommentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		renderError(c, http.StatusBadRequest, err.Error())
		return
	}

	comment := models.AuctionComment{
		Body:             impl.htmlChecker.Sanitize(request.Comment),
		UserID:           user.ID,
		AuctionListingID: listing.ID,
	}
	if result := impl.db.Create(&comment); result.Error != nil {
		renderInternalError(c, op, result.Error)
		return
	}
	renderMessage(c, MsgCommentAdded)
}
