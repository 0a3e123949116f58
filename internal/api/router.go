package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"recipe-assistant/internal/api/handlers"
	"recipe-assistant/internal/api/handlers/health"
	"recipe-assistant/internal/api/middleware"
	"recipe-assistant/internal/core/ai/service"
	"recipe-assistant/internal/core/chat"
	"recipe-assistant/internal/core/comment"
	"recipe-assistant/internal/core/favorite"
	"recipe-assistant/internal/core/guide"
	"recipe-assistant/internal/core/image"
	"recipe-assistant/internal/core/push"
	"recipe-assistant/internal/core/query"
	"recipe-assistant/internal/core/recipe"
	"recipe-assistant/internal/core/user"
	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/pkg/common"
)

const (
	defaultRequestTimeout = 120 * time.Second
	// 請求體大小限制 (10MB)
	defaultMaxBodySize = 10 << 20
)

// Services 路由使用的所有服務
type Services struct {
	DB         *gorm.DB
	AI         *service.Service
	Chat       *chat.Service
	Parser     *guide.Parser
	Checker    *guide.Checker
	Vocabulary *guide.Vocabulary
	Queries    *query.History
	Recipes    *recipe.Service
	Users      *user.Service
	Comments   *comment.Service
	Favorites  *favorite.Service
	Push       *push.Service
	Images     *image.Service
}

// NewServices 以資料庫與 AI 服務組裝其餘服務
func NewServices(cfg *config.Config, db *gorm.DB, aiService *service.Service, vocab *guide.Vocabulary) *Services {
	checker := guide.NewChecker(vocab)
	parser := guide.NewParser(guide.WithChecker(checker))
	pushService := push.NewService(db, push.LogSender{})

	return &Services{
		DB:         db,
		AI:         aiService,
		Chat:       chat.NewService(db, aiService, parser, cfg.Chat.HistorySize),
		Parser:     parser,
		Checker:    checker,
		Vocabulary: vocab,
		Queries:    query.NewHistory(cfg.Chat.QueryHistorySize),
		Recipes:    recipe.NewService(db),
		Users:      user.NewService(db),
		Comments:   comment.NewService(db, pushService),
		Favorites:  favorite.NewService(db),
		Push:       pushService,
		Images:     image.NewService(db, cfg.Upload.Dir, cfg.Upload.MaxBytes),
	}
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, svc *Services) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())

	allowOrigins := cfg.Server.AllowOrigins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"*"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: !containsWildcard(allowOrigins),
		MaxAge:           12 * time.Hour,
	}))

	maxBody := cfg.Server.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodySize
	}
	router.Use(middleware.BodySizeLimit(maxBody))

	if cfg.RateLimit.Enabled && cfg.RateLimit.Requests > 0 && cfg.RateLimit.Window > 0 {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	router.Use(middleware.Deduplication(cfg.DedupWindow))

	timeout := cfg.Server.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	router.Use(middleware.RequestContext(timeout))

	// 健康檢查所需的依賴
	router.Use(func(c *gin.Context) {
		c.Set(health.ConfigKey, cfg)
		if svc.DB != nil {
			c.Set(health.DBKey, svc.DB)
		}
		if svc.AI != nil {
			c.Set(health.QueueKey, health.QueueStatusFunc(svc.AI.QueueStatus))
		}
		c.Next()
	})

	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, common.FailureFromError(common.ErrNotFound))
	})

	registerRoutes(router.Group("/api"), svc)

	common.LogInfo("Router setup completed successfully",
		zap.Duration("timeout", timeout),
		zap.Int64("max_body_size", maxBody),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Strings("allow_origins", allowOrigins),
	)
	return router
}

func registerRoutes(api *gin.RouterGroup, svc *Services) {
	aiHandler := handlers.NewAIHandler(svc.Chat, svc.Parser, svc.Queries)
	aiGroup := api.Group("/ai")
	{
		aiGroup.GET("/recipe", aiHandler.HandleRecipe)
		aiGroup.GET("/recipe-steps", aiHandler.HandleRecipeSteps)
		aiGroup.GET("/ingredient-substitute", aiHandler.HandleIngredientSubstitute)
	}

	guideHandler := handlers.NewGuideHandler(svc.Parser, svc.Checker, svc.Vocabulary)
	guideGroup := api.Group("/guide")
	{
		guideGroup.POST("/parse", guideHandler.HandleParse)
		guideGroup.POST("/check", guideHandler.HandleCheck)
		guideGroup.GET("/vocabulary", guideHandler.HandleVocabulary)
	}

	chatHandler := handlers.NewChatHandler(svc.Chat, svc.Queries)
	chatGroup := api.Group("/chat")
	{
		chatGroup.POST("/ask", chatHandler.HandleAsk)
		chatGroup.POST("/ask/legacy", chatHandler.HandleAskLegacy)
		chatGroup.POST("/ask-with-context", chatHandler.HandleAskWithContext)
		chatGroup.GET("/history", chatHandler.HandleHistory)
	}

	recipeHandler := handlers.NewRecipeHandler(svc.Recipes, svc.Parser)
	recipeGroup := api.Group("/recipes")
	{
		recipeGroup.GET("", recipeHandler.HandleList)
		recipeGroup.POST("", recipeHandler.HandleCreate)
		recipeGroup.GET("/search", recipeHandler.HandleSearch)
		recipeGroup.GET("/filter", recipeHandler.HandleFilterByDifficulty)
		recipeGroup.GET("/cooking-time", recipeHandler.HandleFilterByCookingTime)
		recipeGroup.POST("/recommend", recipeHandler.HandleRecommend)
		recipeGroup.POST("/from-guide", recipeHandler.HandleFromGuide)
		recipeGroup.GET("/:id", recipeHandler.HandleGet)
		recipeGroup.PUT("/:id", recipeHandler.HandleUpdate)
		recipeGroup.DELETE("/:id", recipeHandler.HandleDelete)
	}

	userHandler := handlers.NewUserHandler(svc.Users)
	userGroup := api.Group("/users")
	{
		userGroup.POST("/signup", userHandler.HandleSignup)
		userGroup.GET("", userHandler.HandleList)
		userGroup.POST("", userHandler.HandleSignup)
		userGroup.GET("/:id", userHandler.HandleGet)
		userGroup.PUT("/:id", userHandler.HandleUpdate)
		userGroup.DELETE("/:id", userHandler.HandleDelete)
	}

	commentHandler := handlers.NewCommentHandler(svc.Comments)
	api.GET("/comments/:recipeId", commentHandler.HandleListByRecipe)
	api.POST("/comments", commentHandler.HandleAdd)
	api.DELETE("/comments/:commentId", commentHandler.HandleDelete)
	api.GET("/replies/:commentId", commentHandler.HandleListReplies)
	api.POST("/replies/:commentId", commentHandler.HandleReply)

	favoriteHandler := handlers.NewFavoriteHandler(svc.Favorites)
	favoriteGroup := api.Group("/favorites")
	{
		favoriteGroup.GET("", favoriteHandler.HandleListAll)
		favoriteGroup.POST("", favoriteHandler.HandleAdd)
		favoriteGroup.DELETE("", favoriteHandler.HandleRemove)
		favoriteGroup.GET("/users/:userId", favoriteHandler.HandleListByUser)
		favoriteGroup.GET("/:favoriteId", favoriteHandler.HandleGet)
	}

	pushHandler := handlers.NewPushHandler(svc.Push)
	pushGroup := api.Group("/push")
	{
		pushGroup.POST("/subscribe/:userId", pushHandler.HandleSubscribe)
		pushGroup.POST("/test/:userId", pushHandler.HandleTest)
		pushGroup.POST("/send-to-all", pushHandler.HandleSendToAll)
	}

	imageHandler := handlers.NewImageHandler(svc.Images)
	imageGroup := api.Group("/images")
	{
		imageGroup.POST("/cover", imageHandler.HandleUploadCover)
		imageGroup.GET("/:coverId", imageHandler.HandleGetCover)
	}
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
