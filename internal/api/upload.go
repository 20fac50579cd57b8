package api

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dongha22/strategiccategory/internal/importer"
	"github.com/dongha22/strategiccategory/internal/model"
	"github.com/dongha22/strategiccategory/internal/reconcile"
)

// Upload 上传文件并导入 (默认 SSE 流式响应；stream=false 时返回导入报告)
// POST /api/upload/:kind
func (h *Handler) Upload(c *gin.Context) {
	kind, ok := model.ParseUploadKind(c.Param("kind"))
	if !ok {
		errorResponse(c, http.StatusBadRequest, CodeInvalidParams, fmt.Sprintf("unknown upload kind %q", c.Param("kind")))
		return
	}

	var policy reconcile.Policy
	if raw := c.Query("policy"); raw != "" {
		p, err := reconcile.ParsePolicy(raw)
		if err != nil {
			errorResponse(c, http.StatusBadRequest, CodeInvalidParams, err.Error())
			return
		}
		policy = p
	}

	// 解析 multipart form
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	form, err := c.MultipartForm()
	if err != nil {
		errorResponse(c, http.StatusBadRequest, CodeInvalidParams, "잘못된 업로드 요청입니다")
		return
	}
	headers := append(form.File["files"], form.File["file"]...)
	if len(headers) == 0 {
		errorResponse(c, http.StatusBadRequest, CodeInvalidParams, "업로드된 파일이 없습니다")
		return
	}

	files := make([]importer.FileInput, 0, len(headers))
	for _, fh := range headers {
		data, err := readUpload(fh)
		if err != nil {
			errorResponse(c, http.StatusBadRequest, CodeInvalidParams, fmt.Sprintf("%s: %v", fh.Filename, err))
			return
		}
		files = append(files, importer.FileInput{Name: fh.Filename, Data: data})
	}

	opts := importer.ImportOptions{
		Files:      files,
		Kind:       kind,
		Policy:     policy,
		FiscalYear: h.fy,
	}

	if c.Query("stream") == "false" {
		report, err := h.importer.Apply(c.Request.Context(), opts)
		if err != nil {
			errorResponse(c, http.StatusInternalServerError, CodeImport, err.Error())
			return
		}
		success(c, report)
		return
	}

	// 设置 SSE 响应头
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		errorResponse(c, http.StatusInternalServerError, CodeImport, "스트리밍 응답을 지원하지 않습니다")
		return
	}
	c.Status(http.StatusOK)

	for event := range h.importer.Import(c.Request.Context(), opts) {
		eventData, err := json.Marshal(event)
		if err != nil {
			h.log.Warn("marshal progress event failed", "err", err)
			continue
		}
		// SSE 格式: data: {json}\n\n
		fmt.Fprintf(c.Writer, "data: %s\n\n", eventData)
		flusher.Flush()
	}
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
