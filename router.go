package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"notionsync/logger"
	"notionsync/models"
	"notionsync/store"
)

type Syncer interface {
	Sync(ctx context.Context, rows []models.Row) (*models.SyncBatch, error)
}

type BatchReader interface {
	Batch(ctx context.Context, id string) (*models.SyncBatch, error)
	LastResult(ctx context.Context, school string) (*models.SyncResult, error)
}

type HistoryReader interface {
	History(ctx context.Context, school string, limit int) ([]models.SyncLog, error)
}

// Server 路由依赖，Batches 和 History 可以为空
type Server struct {
	Sync    Syncer
	Batches BatchReader
	History HistoryReader
	Log     logger.Logger
}

// SetupRouter 注册所有路由
func SetupRouter(s *Server) *gin.Engine {
	s.Log = logger.OrDefault(s.Log)
	r := gin.New()
	r.Use(gin.Recovery(), LoggerMiddleware(s.Log))

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Root endpoint.")
	})

	//同步到 Notion 的路由组
	g1 := r.Group("/update-notion")
	{
		g1.POST("", func(c *gin.Context) {
			body, err := c.GetRawData()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": models.MsgExpectedArray})
				return
			}
			rows, err := models.NormalizeRows(body)
			if err != nil {
				writeValidationError(c, err)
				return
			}
			s.runSync(c, rows)
		})

		//从csv文件批量导入
		g1.POST("/csv", func(c *gin.Context) {
			header, err := c.FormFile("file")
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "missing csv file in form field \"file\""})
				return
			}
			file, err := header.Open()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open uploaded file"})
				return
			}
			defer file.Close()

			items, err := models.ReadCSVRows(file)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			rows, err := models.ValidateRows(items)
			if err != nil {
				writeValidationError(c, err)
				return
			}
			s.runSync(c, rows)
		})
	}

	if s.Batches != nil {
		r.GET("/batches/:id", func(c *gin.Context) {
			batch, err := s.Batches.Batch(c.Request.Context(), c.Param("id"))
			if err != nil {
				s.writeLookupError(c, "batch", err)
				return
			}
			c.JSON(http.StatusOK, batch)
		})
		r.GET("/schools/:school/last", func(c *gin.Context) {
			result, err := s.Batches.LastResult(c.Request.Context(), c.Param("school"))
			if err != nil {
				s.writeLookupError(c, "result", err)
				return
			}
			c.JSON(http.StatusOK, result)
		})
	}

	if s.History != nil {
		r.GET("/schools/:school/history", func(c *gin.Context) {
			limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
			if err != nil || limit < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
				return
			}
			logs, err := s.History.History(c.Request.Context(), c.Param("school"), limit)
			if err != nil {
				s.writeLookupError(c, "history", err)
				return
			}
			c.JSON(http.StatusOK, logs)
		})
	}

	return r
}

func (s *Server) runSync(c *gin.Context, rows []models.Row) {
	batch, err := s.Sync.Sync(c.Request.Context(), rows)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"res":       fmt.Sprintf("Successfully processed %d request(s).", len(batch.Results)),
		"batchId":   batch.ID,
		"succeeded": batch.Succeeded,
		"failed":    batch.Failed,
		"results":   batch.Results,
	})
}

func writeValidationError(c *gin.Context, err error) {
	var invalid *models.InvalidRowsError
	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error(), "invalid": invalid.Rows})
	case errors.Is(err, models.ErrBadRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": models.MsgExpectedArray})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

func (s *Server) writeLookupError(c *gin.Context, what string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
		return
	}
	s.Log.Error("lookup failed", "what", what, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read " + what})
}

// LoggerMiddleware 每个请求输出一行结构化日志
func LoggerMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		log.Info("request completed",
			"method", c.Request.Method,
			"path", path,
			"status_code", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"body_size", c.Writer.Size(),
		)
	}
}
