package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"gavel/adapters/session"
	"gavel/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestServer 建立一個以記憶體資料庫與 miniredis 為後端的測試伺服器
func newTestServer(t *testing.T) (*ServerImpl, *gin.Engine) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 記憶體資料庫只存在於單一連線上
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.AuctionListing{},
		&models.AuctionBid{},
		&models.AuctionWatchList{},
		&models.AuctionComment{},
	))

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	impl := &ServerImpl{
		db:          db,
		redisClient: redisClient,
		htmlChecker: bluemonday.UGCPolicy(),
		config: ServerConfig{
			Redis:   RedisConfig{KeyPrefix: "gavel:"},
			Session: SessionConfig{CookieMaxAge: time.Hour},
			Auction: AuctionConfig{BidLockExpiry: 2 * time.Second},
		},
	}

	router := gin.New()
	router.Use(impl.SessionMiddleware())
	impl.RegisterRoutes(router)
	return impl, router
}

// testClient 模擬一個會保留 session cookie 的瀏覽器
type testClient struct {
	t      *testing.T
	router *gin.Engine
	cookie string
}

func newTestClient(t *testing.T, router *gin.Engine) *testClient {
	return &testClient{t: t, router: router}
}

func (tc *testClient) do(method, path string, body any) *httptest.ResponseRecorder {
	tc.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(tc.t, err)
		reader = bytes.NewReader(raw)
	}
	request := httptest.NewRequest(method, path, reader)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if tc.cookie != "" {
		request.Header.Set("Cookie", tc.cookie)
	}

	recorder := httptest.NewRecorder()
	tc.router.ServeHTTP(recorder, request)

	// 保留 session cookie 供後續請求使用
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == session.DefaultSessionKeyForCookie {
			tc.cookie = cookie.Name + "=" + cookie.Value
		}
	}
	return recorder
}

// register 註冊並登入一個新使用者
func (tc *testClient) register(username string) {
	tc.t.Helper()
	recorder := tc.do(http.MethodPost, "/register", gin.H{
		"username":     username,
		"email":        username + "@example.com",
		"password":     "secret",
		"confirmation": "secret",
	})
	require.Equal(tc.t, http.StatusOK, recorder.Code)
}

// createListing 建立刊登物品並回傳其ID
func (tc *testClient) createListing(title, category, startingBid string) string {
	tc.t.Helper()
	recorder := tc.do(http.MethodPost, "/auctions", gin.H{
		"title":        title,
		"description":  "description of " + title,
		"starting_bid": startingBid,
		"category":     category,
	})
	require.Equal(tc.t, http.StatusCreated, recorder.Code)
	location := recorder.Result().Header.Get("Location")
	require.NotEmpty(tc.t, location)
	return strings.TrimPrefix(location, "/auctions/")
}

func decodeJSON[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()
	var value T
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &value))
	return value
}
