package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"gavel/models"
)

type ServerImpl struct {
	db          *gorm.DB
	redisClient *redis.Client
	htmlChecker *bluemonday.Policy

	config ServerConfig
}

func NewServer(config ServerConfig) (*ServerImpl, error) {
	const op = "NewServer"

	// 初始化資料庫連線
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable&search_path=%s", config.DB.User, config.DB.Password, config.DB.Host, config.DB.Port, config.DB.Database, config.DB.Schema)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		NamingStrategy: schema.NamingStrategy{
			TablePrefix: config.DB.Schema + ".",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("[%s] Fail to connect to database, err=%w", op, err)
	}

	// 建立資料表
	if err := db.AutoMigrate(
		&models.User{},
		&models.AuctionListing{},
		&models.AuctionBid{},
		&models.AuctionWatchList{},
		&models.AuctionComment{},
	); err != nil {
		return nil, fmt.Errorf("[%s] Fail to migrate schema, err=%w", op, err)
	}

	// 初始化Redis連線
	redisClient := redis.NewClient(&redis.Options{
		Addr:     config.Redis.Addr,
		Password: config.Redis.Password,
		DB:       config.Redis.DB,
	})

	return &ServerImpl{
		db:          db,
		redisClient: redisClient,
		htmlChecker: bluemonday.UGCPolicy(),
		config:      config,
	}, nil
}

func (impl *ServerImpl) Close() {
	if sqlDB, err := impl.db.DB(); err == nil {
		sqlDB.Close()
	}
	impl.redisClient.Close()
}

// RegisterRoutes 註冊拍賣服務的所有路由
func (impl *ServerImpl) RegisterRoutes(router *gin.Engine) {
	router.POST("/register", impl.Register)
	router.POST("/login", impl.Login)
	router.POST("/logout", impl.Logout)

	router.GET("/", impl.Index)
	router.GET("/category/:category", impl.IndexByCategory)
	router.GET("/watchlist", impl.Watchlist)
	router.GET("/categories", impl.Categories)

	router.POST("/auctions", impl.CreateListing)
	router.GET("/auctions/:id", impl.ListingDetail)
	router.POST("/auctions/:id/bids", impl.PlaceBid)
	router.POST("/auctions/:id/watch", impl.Watch)
	router.DELETE("/auctions/:id/watch", impl.Unwatch)
	router.POST("/auctions/:id/comments", impl.AddComment)
	router.POST("/auctions/:id/close", impl.CloseListing)
}
