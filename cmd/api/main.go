package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/coffeecarriers/coffee-carriers/internal/auth"
	"github.com/coffeecarriers/coffee-carriers/internal/blog"
	"github.com/coffeecarriers/coffee-carriers/internal/catalog"
	"github.com/coffeecarriers/coffee-carriers/internal/config"
	"github.com/coffeecarriers/coffee-carriers/internal/httpx"
	"github.com/coffeecarriers/coffee-carriers/internal/maker"
	"github.com/coffeecarriers/coffee-carriers/internal/order"
	"github.com/coffeecarriers/coffee-carriers/internal/review"
	"github.com/coffeecarriers/coffee-carriers/internal/sipper"
	"github.com/coffeecarriers/coffee-carriers/internal/user"
)

type services struct {
	auth    *auth.Service
	orders  *order.Service
	catalog *catalog.Service
	blog    *blog.Service
	reviews *review.Service
	makers  maker.Repository
	sippers sipper.Repository
	users   user.Repository
	catRepo catalog.Repository
}

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal("postgres connect", zap.Error(err))
	}
	defer pool.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal("redis connect", zap.Error(err))
	}

	users := user.NewPGRepo(pool)
	makers := maker.NewPGRepo(pool)
	sippers := sipper.NewPGRepo(pool)
	catalogRepo := catalog.NewPGRepo(pool)
	orders := order.NewPGRepo(pool)
	reviews := review.NewPGRepo(pool)
	posts := blog.NewPGRepo(pool)
	sessions := auth.NewRedisSessions(rdb, cfg.SessionTTL)

	svcs := services{
		auth:    auth.NewService(users, makers, sippers, sessions),
		orders:  order.NewService(orders, catalogRepo),
		catalog: catalog.NewService(catalogRepo),
		blog:    blog.NewService(posts),
		reviews: review.NewService(reviews),
		makers:  makers,
		sippers: sippers,
		users:   users,
		catRepo: catalogRepo,
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := newRouter(logger, svcs)

	logger.Info("api listening", zap.String("addr", cfg.HTTPAddr))
	if err := r.Run(cfg.HTTPAddr); err != nil {
		logger.Fatal("server", zap.Error(err))
	}
}

func newRouter(logger *zap.Logger, svcs services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(logger), httpx.Authenticate(svcs.auth))

	r.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.POST("/auth/register", registerHandler(svcs.auth))
	r.POST("/auth/login", loginHandler(svcs.auth))
	r.POST("/auth/logout", logoutHandler(svcs.auth))
	r.GET("/auth/me", httpx.RequireAuth(), meHandler())

	r.GET("/makers", listMakersHandler(svcs.makers))
	r.GET("/makers/nearby", nearbyMakersHandler(svcs.makers))
	r.GET("/makers/:id", getMakerHandler(svcs.makers))
	r.GET("/makers/:id/products", makerProductsHandler(svcs.catRepo))
	r.GET("/makers/:id/reviews", makerReviewsHandler(svcs.reviews))
	r.PATCH("/studio/profile", httpx.RequireRole(auth.RoleMaker), updateMakerProfileHandler(svcs.makers))

	r.GET("/products", listProductsHandler(svcs.catRepo))
	r.POST("/products", httpx.RequireAuth(), createProductHandler(svcs.catalog))
	r.PATCH("/products/:id", httpx.RequireAuth(), updateProductHandler(svcs.catalog))
	r.DELETE("/products/:id", httpx.RequireAuth(), deleteProductHandler(svcs.catalog))

	r.POST("/orders", httpx.RequireAuth(), createOrderHandler(svcs.orders))
	r.GET("/orders", httpx.RequireAuth(), listOrdersHandler(svcs.orders))
	r.GET("/orders/:id", httpx.RequireAuth(), getOrderHandler(svcs.orders))
	r.PATCH("/orders/:id/status", httpx.RequireAuth(), updateOrderStatusHandler(svcs.orders))

	r.GET("/blog", listBlogHandler(svcs.blog))
	r.POST("/blog", httpx.RequireAuth(), createBlogPostHandler(svcs.blog))

	admin := r.Group("/admin", httpx.RequireRole(auth.RoleAdmin))
	admin.GET("/blog", adminBlogQueueHandler(svcs.blog))
	admin.PATCH("/blog/:id", adminModerateBlogHandler(svcs.blog))
	admin.GET("/users", adminListUsersHandler(svcs.users))
	admin.PATCH("/users/:id", adminUpdateUserHandler(svcs.users))

	r.POST("/reviews", httpx.RequireAuth(), createReviewHandler(svcs.reviews))

	r.GET("/favorites", httpx.RequireRole(auth.RoleSipper), listFavoritesHandler(svcs.sippers))
	r.POST("/favorites", httpx.RequireRole(auth.RoleSipper), addFavoriteHandler(svcs.sippers))
	r.DELETE("/favorites/:makerId", httpx.RequireRole(auth.RoleSipper), removeFavoriteHandler(svcs.sippers))

	return r
}
