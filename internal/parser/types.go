package parser

import (
	"time"

	"github.com/dongha22/strategiccategory/internal/model"
)

// Shape 工作表内容形态
type Shape string

const (
	ShapeSales       Shape = "sales"
	ShapePerformance Shape = "performance"
	ShapeCustomer    Shape = "customer"
	ShapeUnknown     Shape = "unknown"
)

// SheetRecognitionResult Sheet 识别结果
type SheetRecognitionResult struct {
	SheetName  string                `json:"sheetName"`
	Shape      Shape                 `json:"shape"`
	Confidence float64               `json:"confidence"` // 置信度 0-1
	Category   model.ProductCategory `json:"category,omitempty"`
	Columns    map[Field]int         `json:"-"`
}

// SheetResult 单个 sheet 的处理结果
type SheetResult struct {
	SheetName    string                `json:"sheetName"`
	Category     model.ProductCategory `json:"category,omitempty"`
	Shape        Shape                 `json:"shape"`
	Status       model.FileStatus      `json:"status"`
	ImportedRows int                   `json:"importedRows"`
	DroppedRows  int                   `json:"droppedRows"`
	Warnings     []string              `json:"warnings,omitempty"`
}

// FileResult 单个文件的处理结果
type FileResult struct {
	Filename     string                  `json:"filename"`
	Shape        Shape                   `json:"shape"`
	Role         model.FileRole          `json:"role,omitempty"`
	Categories   []model.ProductCategory `json:"categories,omitempty"`
	Status       model.FileStatus        `json:"status"`
	ImportedRows int                     `json:"importedRows"`
	DroppedRows  int                     `json:"droppedRows"`
	Warnings     []string                `json:"warnings,omitempty"`
	Errors       []string                `json:"errors,omitempty"`
	Sheets       []SheetResult           `json:"sheets,omitempty"`
	Duration     time.Duration           `json:"duration"`
}

// ImportReport 导入报告
type ImportReport struct {
	BatchID       string                  `json:"batchId"`
	TotalFiles    int                     `json:"totalFiles"`
	ImportedFiles int                     `json:"importedFiles"`
	SkippedFiles  int                     `json:"skippedFiles"`
	ErrorFiles    int                     `json:"errorFiles"`
	ImportedRows  int                     `json:"importedRows"`
	Categories    []model.ProductCategory `json:"categories"`
	Duration      time.Duration           `json:"duration"`
	Files         []FileResult            `json:"files"`
}
