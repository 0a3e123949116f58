package health

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"recipe-assistant/internal/core/ai/queue"
	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/infrastructure/database"
	"recipe-assistant/internal/pkg/common"
)

// 路由注入到 gin.Context 的鍵
const (
	ConfigKey = "config"
	DBKey     = "db"
	QueueKey  = "queue_status"
)

// QueueStatusFunc 取得 AI 隊列狀態，未使用隊列時返回 nil
type QueueStatusFunc func() *queue.Status

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Database  string                 `json:"database"`
	Runtime   map[string]interface{} `json:"runtime"`
	Queue     *queue.Status          `json:"queue,omitempty"`
}

// HealthCheck 健康檢查處理器
func HealthCheck(c *gin.Context) {
	cfg, ok := c.MustGet(ConfigKey).(*config.Config)
	if !ok {
		common.LogError("Invalid configuration type in context")
		c.JSON(http.StatusInternalServerError, common.FailureFromError(common.ErrInternalError))
		return
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   cfg.App.Version,
		Database:  databaseState(c),
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}
	if status, ok := c.Get(QueueKey); ok {
		if fn, ok := status.(QueueStatusFunc); ok {
			response.Queue = fn()
		}
	}
	if response.Database != "up" {
		response.Status = "degraded"
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("status", response.Status),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 資料庫可用時才算就緒
func ReadinessCheck(c *gin.Context) {
	if state := databaseState(c); state != "up" {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "not ready",
			"database": state,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// LivenessCheck 存活檢查處理器
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

func databaseState(c *gin.Context) string {
	v, ok := c.Get(DBKey)
	if !ok {
		return "unconfigured"
	}
	db, ok := v.(*gorm.DB)
	if !ok || db == nil {
		return "unconfigured"
	}
	if err := database.Ping(c.Request.Context(), db); err != nil {
		common.LogWarn("資料庫檢查失敗", zap.Error(err))
		return "down"
	}
	return "up"
}
