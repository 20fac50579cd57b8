package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dongha22/strategiccategory/internal/api"
	"github.com/dongha22/strategiccategory/internal/config"
	"github.com/dongha22/strategiccategory/internal/importer"
	"github.com/dongha22/strategiccategory/internal/metrics"
	"github.com/dongha22/strategiccategory/internal/model"
	"github.com/dongha22/strategiccategory/internal/parser"
	"github.com/dongha22/strategiccategory/internal/reconcile"
	memstore "github.com/dongha22/strategiccategory/internal/service/store"
	"github.com/dongha22/strategiccategory/internal/store"
)

var (
	_ api.DataStore = (*store.Store)(nil)
	_ api.DataStore = (*memstore.MemoryStore)(nil)
)

// Server HTTP服务器
type Server struct {
	router  *gin.Engine
	store   api.DataStore
	closer  func() error
	metrics *metrics.Ingest
	log     *slog.Logger
	http    *http.Server
}

// Options 服务器选项
type Options struct {
	Memory bool // 使用内存存储，不落盘
	Logger *slog.Logger
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig, opts Options) (*Server, error) {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	var ds api.DataStore
	closer := func() error { return nil }
	if opts.Memory {
		ds = memstore.NewMemoryStore()
	} else {
		if _, err := config.EnsureDataDir(cfg); err != nil {
			return nil, fmt.Errorf("failed to prepare data dir: %w", err)
		}
		sqliteStore, err := store.New(config.DBPath(cfg))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		ds = sqliteStore
		closer = sqliteStore.Close
	}

	return newServer(cfg, ds, closer, log)
}

// NewServerWithStore 使用给定存储创建服务器（测试用）
func NewServerWithStore(cfg *config.AppConfig, ds api.DataStore) (*Server, error) {
	return newServer(cfg, ds, func() error { return nil }, slog.Default())
}

func newServer(cfg *config.AppConfig, ds api.DataStore, closer func() error, log *slog.Logger) (*Server, error) {
	policy, err := reconcile.ParsePolicy(cfg.Ingest.PerformancePolicy)
	if err != nil {
		_ = closer()
		return nil, err
	}
	fy := model.FiscalYear(cfg.Ingest.ThisYear)
	m := metrics.New()

	coordinator := importer.NewCoordinator(ds,
		importer.WithLogger(log),
		importer.WithMetrics(m),
		importer.WithDefaults(policy, fy),
		importer.WithReadOptions(parser.ReadOptions{FallbackEncoding: cfg.Ingest.CSVFallbackEncoding}),
	)
	handler := api.NewHandler(ds, coordinator, api.Options{
		FiscalYear:     fy,
		MaxUploadBytes: int64(cfg.Ingest.MaxUploadMB) << 20,
		Logger:         log,
	})

	s := &Server{
		router:  gin.New(),
		store:   ds,
		closer:  closer,
		metrics: m,
		log:     log,
	}
	s.router.Use(gin.Recovery(), requestLogger(log))
	s.setupRoutes(cfg.Server.DevMode, handler)
	return s, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes(devMode bool, handler *api.Handler) {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// API 路由
	apiGroup := s.router.Group("/api")
	{
		handler.RegisterRoutes(apiGroup)
	}

	// 指标
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	s.router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	if devMode {
		// 开发模式：代理到前端开发服务器
		s.router.NoRoute(func(c *gin.Context) {
			c.Redirect(http.StatusTemporaryRedirect, "http://localhost:5173"+c.Request.URL.Path)
		})
	}
}

// Handler 返回底层 http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run 启动服务器，阻塞直到 Shutdown
func (s *Server) Run(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 优雅关闭并释放存储
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.http != nil {
		err = s.http.Shutdown(ctx)
	}
	if cerr := s.closer(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// GetStore 获取存储（用于测试）
func (s *Server) GetStore() api.DataStore {
	return s.store
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("http",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)))
	}
}
