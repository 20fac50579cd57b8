package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dongha22/strategiccategory/internal/model"
	"github.com/dongha22/strategiccategory/internal/parser"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Initialized bool                  `json:"initialized"` // 是否有任何已上报数据或客户
	FiscalYear  int                   `json:"fiscalYear"`
	Categories  []model.CategoryStats `json:"categories"`
	LastImport  *model.ImportLogEntry `json:"lastImport"`
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	ctx := c.Request.Context()
	stats, err := h.store.Status(ctx)
	if err != nil {
		storeError(c, err)
		return
	}
	last, err := h.store.LastImport(ctx)
	if err != nil {
		storeError(c, err)
		return
	}

	initialized := false
	for _, s := range stats {
		if s.ReportedThrough > 0 || s.Customers > 0 {
			initialized = true
		}
	}
	success(c, StatusResponse{
		Initialized: initialized,
		FiscalYear:  h.fy.Year(),
		Categories:  stats,
		LastImport:  last,
	})
}

// GetDataset 获取全部品类数据
// GET /api/dataset
func (h *Handler) GetDataset(c *gin.Context) {
	ds, err := h.store.LoadDataset(c.Request.Context())
	if err != nil {
		storeError(c, err)
		return
	}
	success(c, ds)
}

// GetCategory 获取单个品类
// GET /api/categories/:category
func (h *Handler) GetCategory(c *gin.Context) {
	category, ok := h.category(c)
	if !ok {
		return
	}
	cd, err := h.store.GetCategoryData(c.Request.Context(), category)
	if err != nil {
		storeError(c, err)
		return
	}
	success(c, cd)
}

type summaryResponse struct {
	Category        model.ProductCategory `json:"category"`
	ReportedThrough int                   `json:"reportedThrough"`
	Summaries       []model.PeriodSummary `json:"summaries"`
}

// GetSummary 上半年 / 下半年 / 全年汇总
// GET /api/categories/:category/summary
func (h *Handler) GetSummary(c *gin.Context) {
	category, ok := h.category(c)
	if !ok {
		return
	}
	cd, err := h.store.GetCategoryData(c.Request.Context(), category)
	if err != nil {
		storeError(c, err)
		return
	}
	success(c, summaryResponse{
		Category:        category,
		ReportedThrough: model.MaxReportedMonth(cd.Performance),
		Summaries:       model.Summarize(cd.Performance),
	})
}

type monthRequest struct {
	LastYearActual float64  `json:"lastYearActual"`
	ThisYearTarget float64  `json:"thisYearTarget"`
	ThisYearActual *float64 `json:"thisYearActual"`
}

// UpsertMonth 更新单月实绩
// PUT /api/categories/:category/months/:month
func (h *Handler) UpsertMonth(c *gin.Context) {
	category, ok := h.category(c)
	if !ok {
		return
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > model.MonthsPerYear {
		errorResponse(c, http.StatusBadRequest, CodeInvalidParams, "월은 1~12 사이여야 합니다")
		return
	}
	var req monthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, CodeInvalidParams, "요청 형식 오류")
		return
	}

	p := model.MonthlyPerformance{
		Month:          month,
		LastYearActual: req.LastYearActual,
		ThisYearTarget: req.ThisYearTarget,
		ThisYearActual: req.ThisYearActual,
	}
	if err := h.store.UpsertMonthlyPerformance(c.Request.Context(), category, p); err != nil {
		storeError(c, err)
		return
	}
	success(c, p)
}

// UpsertCustomer 新增或更新客户（id 为空时新增）
// PUT /api/categories/:category/customers
func (h *Handler) UpsertCustomer(c *gin.Context) {
	category, ok := h.category(c)
	if !ok {
		return
	}
	var req model.CustomerData
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		errorResponse(c, http.StatusBadRequest, CodeInvalidParams, "고객사명은 필수입니다")
		return
	}
	if req.Shares == nil {
		req.Shares = model.EmptyShares(h.fy)
	}
	saved, err := h.store.UpsertCustomer(c.Request.Context(), category, req)
	if err != nil {
		storeError(c, err)
		return
	}
	success(c, saved)
}

// DeleteCustomer 删除客户
// DELETE /api/categories/:category/customers/:id
func (h *Handler) DeleteCustomer(c *gin.Context) {
	category, ok := h.category(c)
	if !ok {
		return
	}
	if err := h.store.DeleteCustomer(c.Request.Context(), category, c.Param("id")); err != nil {
		storeError(c, err)
		return
	}
	success(c, nil)
}

// UpsertFacilitator 设置负责人
// PUT /api/categories/:category/facilitators
func (h *Handler) UpsertFacilitator(c *gin.Context) {
	category, ok := h.category(c)
	if !ok {
		return
	}
	var req model.Facilitator
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, CodeInvalidParams, "요청 형식 오류")
		return
	}
	if err := h.store.UpsertFacilitator(c.Request.Context(), category, req); err != nil {
		storeError(c, err)
		return
	}
	success(c, req)
}

// ClearCategory 清空品类
// DELETE /api/categories/:category
func (h *Handler) ClearCategory(c *gin.Context) {
	category, ok := h.category(c)
	if !ok {
		return
	}
	if err := h.store.ClearCategory(c.Request.Context(), category); err != nil {
		storeError(c, err)
		return
	}
	success(c, nil)
}

// category 按别名解析路径中的品类，失败时已写出响应
func (h *Handler) category(c *gin.Context) (model.ProductCategory, bool) {
	raw := c.Param("category")
	category, ok := parser.ResolveCategory(raw)
	if !ok {
		errorResponse(c, http.StatusNotFound, CodeUnknownCategory,
			fmt.Sprintf("unknown category %q (accepted: %s)", raw, strings.Join(model.FileTokens(), ", ")))
		return "", false
	}
	return category, true
}
