// Package api 提供看板数据、上传与模板下载的 HTTP 接口
package api

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/dongha22/strategiccategory/internal/importer"
	"github.com/dongha22/strategiccategory/internal/model"
	"github.com/dongha22/strategiccategory/internal/service/excel"
)

// DataStore 接口层所需的存储操作（SQLite 与内存实现均满足）
type DataStore interface {
	importer.Repository
	GetCategoryData(ctx context.Context, c model.ProductCategory) (model.CategoryData, error)
	UpsertMonthlyPerformance(ctx context.Context, c model.ProductCategory, p model.MonthlyPerformance) error
	UpsertCustomer(ctx context.Context, c model.ProductCategory, customer model.CustomerData) (model.CustomerData, error)
	DeleteCustomer(ctx context.Context, c model.ProductCategory, customerID string) error
	UpsertFacilitator(ctx context.Context, c model.ProductCategory, f model.Facilitator) error
	ClearCategory(ctx context.Context, c model.ProductCategory) error
	Status(ctx context.Context) ([]model.CategoryStats, error)
	LastImport(ctx context.Context) (*model.ImportLogEntry, error)
}

// Options 处理器选项
type Options struct {
	FiscalYear     model.FiscalYear
	MaxUploadBytes int64
	Logger         *slog.Logger
}

// Handler API 处理器
type Handler struct {
	store     DataStore
	importer  *importer.Coordinator
	templates *excel.TemplateExporter
	exporter  *excel.Exporter
	fy        model.FiscalYear
	maxUpload int64
	log       *slog.Logger
}

// NewHandler 创建 API 处理器
func NewHandler(store DataStore, coordinator *importer.Coordinator, opts Options) *Handler {
	fy := opts.FiscalYear
	if fy == 0 {
		fy = model.DefaultFiscalYear
	}
	maxUpload := opts.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = 32 << 20
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		store:     store,
		importer:  coordinator,
		templates: excel.NewTemplateExporter(fy),
		exporter:  excel.NewExporter(),
		fy:        fy,
		maxUpload: maxUpload,
		log:       log,
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 数据集查询
	router.GET("/dataset", h.GetDataset)
	router.GET("/categories/:category", h.GetCategory)
	router.GET("/categories/:category/summary", h.GetSummary)

	// 数据导入
	router.POST("/upload/:kind", h.Upload)

	// 数据维护
	router.PUT("/categories/:category/months/:month", h.UpsertMonth)
	router.PUT("/categories/:category/customers", h.UpsertCustomer)
	router.DELETE("/categories/:category/customers/:id", h.DeleteCustomer)
	router.PUT("/categories/:category/facilitators", h.UpsertFacilitator)
	router.DELETE("/categories/:category", h.ClearCategory)

	// 模板与导出
	router.GET("/templates/:shape", h.DownloadTemplate)
	router.GET("/export", h.Export)
}
