package api

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	redisAdapter "gavel/adapters/redis"
	"gavel/adapters/session"
	"gavel/models"
)

// session 資料在 Redis 中的 key 前綴（接在 Redis.KeyPrefix 之後）
const sessionStoreKeyPrefix = "session:"

// SessionMiddleware 建立以 Redis 為後端的 session middleware
// session 的存活時間與 cookie 的過期時間一致
func (impl *ServerImpl) SessionMiddleware() gin.HandlerFunc {
	store := redisAdapter.NewStore(
		impl.redisClient,
		redisAdapter.WithStorePrefix(impl.config.Redis.KeyPrefix+sessionStoreKeyPrefix),
		redisAdapter.WithStoreTTL(impl.config.Session.CookieMaxAge),
	)

	opts := []session.MiddlewareOption{}
	if impl.config.Session.KeyForCookie != "" {
		opts = append(opts, session.WithSessionKeyForCookie(impl.config.Session.KeyForCookie))
	}
	if impl.config.Session.CookieMaxAge > 0 {
		opts = append(opts, session.WithCookieMaxAge(impl.config.Session.CookieMaxAge))
	}
	return session.GinMiddleware(store, opts...)
}

// currentUser 解析目前請求的登入使用者
// 未登入（或 session 指向已不存在的使用者）時回傳 nil，不視為錯誤
func (impl *ServerImpl) currentUser(c *gin.Context) (*models.User, session.ISession, error) {
	const op = "currentUser"

	sess, err := session.GetSession(c)
	if err != nil {
		return nil, nil, fmt.Errorf("[%s] Fail to get session, err=%w", op, err)
	}

	userID, ok := session.Principal(sess)
	if !ok {
		return nil, sess, nil
	}

	user := models.User{ID: userID}
	if result := impl.db.First(&user); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, sess, nil
		}
		return nil, sess, fmt.Errorf("[%s] Fail to load user, err=%w", op, result.Error)
	}
	return &user, sess, nil
}
