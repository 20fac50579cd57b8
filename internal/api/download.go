package api

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/dongha22/strategiccategory/internal/model"
	"github.com/dongha22/strategiccategory/internal/parser"
	"github.com/dongha22/strategiccategory/internal/service/excel"
)

// DownloadTemplate 下载上传模板
// GET /api/templates/:shape?format=csv|xlsx&category=
func (h *Handler) DownloadTemplate(c *gin.Context) {
	shape, ok := excel.ParseTemplateShape(c.Param("shape"))
	if !ok {
		errorResponse(c, http.StatusNotFound, CodeInvalidParams, fmt.Sprintf("unknown template %q", c.Param("shape")))
		return
	}
	format, ok := excel.ParseTemplateFormat(c.Query("format"))
	if !ok {
		errorResponse(c, http.StatusBadRequest, CodeInvalidParams, fmt.Sprintf("unsupported format %q", c.Query("format")))
		return
	}

	var category model.ProductCategory
	var categories []model.ProductCategory
	if raw := c.Query("category"); raw != "" {
		category, ok = parser.ResolveCategory(raw)
		if !ok {
			errorResponse(c, http.StatusNotFound, CodeUnknownCategory, fmt.Sprintf("unknown category %q", raw))
			return
		}
		categories = []model.ProductCategory{category}
	}

	var buf bytes.Buffer
	var err error
	switch format {
	case excel.FormatXLSX:
		err = h.templates.WriteXLSX(&buf, shape, categories)
	default:
		err = h.templates.WriteCSV(&buf, shape)
	}
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, CodeExport, err.Error())
		return
	}

	c.Header("Content-Disposition", contentDisposition(excel.TemplateFilename(shape, category, format)))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// Export 导出数据集为 xlsx
// GET /api/export
func (h *Handler) Export(c *gin.Context) {
	ds, err := h.store.LoadDataset(c.Request.Context())
	if err != nil {
		storeError(c, err)
		return
	}
	f, err := h.exporter.Export(ds)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, CodeExport, err.Error())
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, CodeExport, err.Error())
		return
	}
	filename := fmt.Sprintf("strategic-category-%d.xlsx", h.fy.Year())
	c.Header("Content-Disposition", contentDisposition(filename))
	c.Data(http.StatusOK, excel.FormatXLSX.ContentType(), buf.Bytes())
}

func contentDisposition(filename string) string {
	return fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", filename, url.PathEscape(filename))
}
