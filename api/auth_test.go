package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gavel/models"
)

func TestRegister(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		_, router := newTestServer(t)
		client := newTestClient(t, router)

		recorder := client.do(http.MethodPost, "/register", gin.H{
			"username":     "alice",
			"email":        "alice@example.com",
			"password":     "secret",
			"confirmation": "secret",
		})
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, MsgRegistered, decodeJSON[MessageView](t, recorder).Message)

		// 註冊後直接是登入狀態
		recorder = client.do(http.MethodGet, "/", nil)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("password_mismatch", func(t *testing.T) {
		impl, router := newTestServer(t)
		client := newTestClient(t, router)

		recorder := client.do(http.MethodPost, "/register", gin.H{
			"username":     "alice",
			"email":        "alice@example.com",
			"password":     "secret",
			"confirmation": "different",
		})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, MsgPasswordMismatch, decodeJSON[ErrorView](t, recorder).Error)

		// 不會留下任何使用者
		var count int64
		require.NoError(t, impl.db.Model(&models.User{}).Count(&count).Error)
		assert.EqualValues(t, 0, count)
	})

	t.Run("username_taken", func(t *testing.T) {
		_, router := newTestServer(t)
		newTestClient(t, router).register("alice")

		recorder := newTestClient(t, router).do(http.MethodPost, "/register", gin.H{
			"username":     "alice",
			"email":        "other@example.com",
			"password":     "secret",
			"confirmation": "secret",
		})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, MsgUsernameTaken, decodeJSON[ErrorView](t, recorder).Error)
	})
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantCode int
	}{
		{name: "success", username: "alice", password: "secret", wantCode: http.StatusOK},
		{name: "wrong_password", username: "alice", password: "nope", wantCode: http.StatusUnauthorized},
		{name: "unknown_user", username: "nobody", password: "secret", wantCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, router := newTestServer(t)
			newTestClient(t, router).register("alice")

			client := newTestClient(t, router)
			recorder := client.do(http.MethodPost, "/login", gin.H{
				"username": tt.username,
				"password": tt.password,
			})
			assert.Equal(t, tt.wantCode, recorder.Code)

			if tt.wantCode == http.StatusOK {
				assert.Equal(t, MsgLoggedIn, decodeJSON[MessageView](t, recorder).Message)
				recorder = client.do(http.MethodGet, "/", nil)
				assert.Equal(t, http.StatusOK, recorder.Code)
				return
			}
			// 帳號不存在與密碼錯誤回覆相同的登入頁載荷
			view := decodeJSON[LoginView](t, recorder)
			assert.Equal(t, "login", view.View)
			assert.Equal(t, MsgBadCredentials, view.Message)
		})
	}
}

func TestLogout(t *testing.T) {
	_, router := newTestServer(t)
	client := newTestClient(t, router)
	client.register("alice")

	recorder := client.do(http.MethodPost, "/logout", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, MsgLoggedOut, decodeJSON[MessageView](t, recorder).Message)

	// 登出後需要登入的頁面改回覆登入頁
	recorder = client.do(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	view := decodeJSON[LoginView](t, recorder)
	assert.Equal(t, "login", view.View)
	assert.Equal(t, MsgNotLoggedIn, view.Message)

	// 未登入狀態下登出也會成功
	recorder = client.do(http.MethodPost, "/logout", nil)
	assert.Equal(t, http.StatusOK, recorder.Code)
}
