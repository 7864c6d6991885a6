package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"gavel/adapters/session"
	"gavel/models"
)

type RegisterRequest struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Confirmation string `json:"confirmation"`
	Description  string `json:"description"`
}

// Register 建立新使用者並直接登入
// (POST /register)
func (impl *ServerImpl) Register(c *gin.Context) {
	const op = "Register"

	var request RegisterRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		renderError(c, http.StatusBadRequest, err.Error())
		return
	}

	// 兩次輸入的密碼必須一致，不一致時不建立任何資料
	if request.Password != request.Confirmation {
		renderError(c, http.StatusBadRequest, MsgPasswordMismatch)
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		renderInternalError(c, op, err)
		return
	}

	user := models.User{
		Username:     request.Username,
		Email:        request.Email,
		PasswordHash: string(passwordHash),
		Description:  request.Description,
	}
	// 使用者名稱的唯一性交給資料庫的唯一索引把關
	if result := impl.db.Create(&user); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			renderError(c, http.StatusBadRequest, MsgUsernameTaken)
			return
		}
		renderInternalError(c, op, result.Error)
		return
	}

	// 註冊成功後直接建立會話
	sess, err := session.GetSession(c)
	if err != nil {
		renderInternalError(c, op, err)
		return
	}
	session.SetPrincipal(sess, user.ID)
	if err := sess.Save(); err != nil {
		renderInternalError(c, op, err)
		return
	}
	renderMessage(c, MsgRegistered)
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login 驗證帳號密碼並建立會話
// 帳號不存在與密碼錯誤回覆相同的訊息，避免洩漏帳號是否存在
// (POST /login)
func (impl *ServerImpl) Login(c *gin.Context) {
	const op = "Login"

	var request LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		renderError(c, http.StatusBadRequest, err.Error())
		return
	}

	var user models.User
	if result := impl.db.Where("username = ?", request.Username).First(&user); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, LoginView{View: "login", Message: MsgBadCredentials})
			return
		}
		renderInternalError(c, op, result.Error)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(request.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, LoginView{View: "login", Message: MsgBadCredentials})
		return
	}

	sess, err := session.GetSession(c)
	if err != nil {
		renderInternalError(c, op, err)
		return
	}
	session.SetPrincipal(sess, user.ID)
	if err := sess.Save(); err != nil {
		renderInternalError(c, op, err)
		return
	}
	renderMessage(c, MsgLoggedIn)
}

// Logout 清除會話中的登入者資訊
// 未登入的呼叫者也能登出，結果相同
// (POST /logout)
func (impl *ServerImpl) Logout(c *gin.Context) {
	const op = "Logout"

	sess, err := session.GetSession(c)
	if err != nil {
		renderInternalError(c, op, err)
		return
	}
	session.ClearPrincipal(sess)
	if err := sess.Save(); err != nil {
		renderInternalError(c, op, err)
		return
	}
	renderMessage(c, MsgLoggedOut)
}
