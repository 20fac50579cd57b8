package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dongha22/strategiccategory/internal/model"
)

var (
	// ErrUnknownCategory 无法识别品类
	ErrUnknownCategory = errors.New("unknown category")
	// ErrReadFailed 文件读取或解码失败
	ErrReadFailed = errors.New("failed to read file")
	// ErrUnsupportedFormat 不支持的文件格式
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrEmptySheet 没有可用的数据行
	ErrEmptySheet = errors.New("sheet has no data rows")
)

// CategoryError 文件名中缺少品类标记
type CategoryError struct {
	Filename string
	Accepted []string
}

func (e *CategoryError) Error() string {
	return fmt.Sprintf("파일명에서 카테고리를 인식할 수 없습니다: %s (파일명에 %s 중 하나를 포함해주세요)",
		e.Filename, strings.Join(e.Accepted, ", "))
}

func (e *CategoryError) Unwrap() error {
	return ErrUnknownCategory
}

// NewCategoryError 构造带可接受标记列表的品类错误
func NewCategoryError(filename string) *CategoryError {
	return &CategoryError{Filename: filename, Accepted: model.FileTokens()}
}

func readFailed(filename string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrReadFailed, filename, err)
}
