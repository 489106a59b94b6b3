package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"notionsync/logger"
	"notionsync/models"
	"notionsync/notion"
	"notionsync/store"
)

func main() {
	//读取 .env，不存在时忽略
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("读取 .env 失败: %v", err)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := models.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Fatalf("日志配置错误: %v", err)
	}
	appLog := logger.NewLogger(&logger.Config{
		Level:      level,
		Output:     os.Stdout,
		JSON:       cfg.Log.JSON,
		TimeFormat: time.RFC3339,
	})
	if level != logger.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	client, err := notion.NewClient(notion.Options{
		BaseURL:  cfg.Notion.BaseURL,
		Token:    cfg.Notion.Token,
		Version:  cfg.Notion.Version,
		Timeout:  cfg.Notion.Timeout,
		Paginate: cfg.Notion.Paginate,
		Debug:    cfg.Notion.Debug,
		Log:      appLog.With("component", "notion"),
	})
	if err != nil {
		log.Fatalf("创建 Notion 客户端失败: %v", err)
	}

	server := &Server{Log: appLog}
	var recorders []models.Recorder

	// 初始化 MySQL（可选）
	if cfg.MysqlDSN != "" {
		db, err := store.InitMySQL(cfg.MysqlDSN)
		if err != nil {
			log.Fatalf("数据库连接失败: %v", err)
		}
		mysqlStore := store.NewMySQLStore(db)
		if err := mysqlStore.Migrate(context.Background()); err != nil {
			log.Fatalf("数据库迁移失败: %v", err)
		}
		recorders = append(recorders, mysqlStore)
		server.History = mysqlStore
		appLog.Info("sync history enabled", "store", "mysql")
	}

	// 初始化 Redis（可选）
	if cfg.Redis.Addr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rdb, err := store.InitRedis(ctx, cfg.Redis)
		cancel()
		if err != nil {
			log.Fatalf("Redis 连接失败: %v", err)
		}
		redisStore := store.NewRedisStore(rdb, cfg.Redis.BatchTTL)
		recorders = append(recorders, redisStore)
		server.Batches = redisStore
		appLog.Info("batch results enabled", "store", "redis", "ttl", cfg.Redis.BatchTTL)
	}

	server.Sync = models.NewSynchronizer(client, cfg.Notion.DatabaseID, appLog, recorders...)

	r := SetupRouter(server)
	appLog.Info("server is running", "url", "http://localhost:"+cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed to start on port %s: %v", cfg.Port, err)
	}
}
