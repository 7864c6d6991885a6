package session

import (
	"github.com/google/uuid"
)

// session 中儲存登入者資訊的 key
const principalKey = "principal-user-id"

// SetPrincipal 將登入者的使用者 ID 寫入 session
func SetPrincipal(s ISession, userID uuid.UUID) {
	s.Set(principalKey, userID.String())
}

// Principal 從 session 取出登入者的使用者 ID
// 未登入或內容無法解析時回傳 false
func Principal(s ISession) (uuid.UUID, bool) {
	raw := s.Get(principalKey)
	if raw == "" {
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}

// ClearPrincipal 將登入者資訊從 session 移除
func ClearPrincipal(s ISession) {
	s.Delete(principalKey)
}
