package parser

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/dongha22/strategiccategory/internal/model"
)

type categoryAlias struct {
	alias    string
	category model.ProductCategory
}

// categoryAliases 品类别名表
//
// 文件名匹配按声明顺序取第一个命中的子串：
// 完整名称在前，短别名 "sun" 与单字 "선" 放在最后。
// "선크림" 需要排在 "크림" 之前。
var categoryAliases = []categoryAlias{
	{"sun care", model.CategorySunCare},
	{"suncare", model.CategorySunCare},
	{"sun-care", model.CategorySunCare},
	{"sun_care", model.CategorySunCare},
	{"선케어", model.CategorySunCare},
	{"선크림", model.CategorySunCare},
	{"foundation", model.CategoryFoundation},
	{"파운데이션", model.CategoryFoundation},
	{"essence", model.CategoryEssence},
	{"에센스", model.CategoryEssence},
	{"cream", model.CategoryCream},
	{"크림", model.CategoryCream},
	{"sun", model.CategorySunCare},
	{"선", model.CategorySunCare},
}

// CategoryResolver 品类识别器
type CategoryResolver struct {
	aliases []categoryAlias
}

// NewCategoryResolver 创建识别器
func NewCategoryResolver() *CategoryResolver {
	return &CategoryResolver{aliases: categoryAliases}
}

var defaultResolver = NewCategoryResolver()

// ResolveCategory 使用默认别名表识别品类标签
func ResolveCategory(label string) (model.ProductCategory, bool) {
	return defaultResolver.Resolve(label)
}

// ResolveCategoryFromFilename 使用默认别名表从文件名识别品类
func ResolveCategoryFromFilename(filename string) (model.ProductCategory, bool) {
	return defaultResolver.ResolveFromFilename(filename)
}

// Resolve 大小写不敏感的精确匹配（sheet 名等标签）
func (r *CategoryResolver) Resolve(label string) (model.ProductCategory, bool) {
	key := normalizeLabel(label)
	if key == "" {
		return "", false
	}
	for _, a := range r.aliases {
		if a.alias == key {
			return a.category, true
		}
	}
	return "", false
}

// ResolveFromFilename 去掉扩展名后做子串匹配，先声明者优先
func (r *CategoryResolver) ResolveFromFilename(filename string) (model.ProductCategory, bool) {
	base := filepath.Base(filename)
	switch strings.ToLower(filepath.Ext(base)) {
	case ".csv", ".xlsx", ".xls":
		base = base[:len(base)-len(filepath.Ext(base))]
	}
	key := normalizeLabel(base)
	if key == "" {
		return "", false
	}
	for _, a := range r.aliases {
		if strings.Contains(key, a.alias) {
			return a.category, true
		}
	}
	return "", false
}

// RequireCategoryFromFilename 文件名必须带品类标记，否则返回 *CategoryError
func RequireCategoryFromFilename(filename string) (model.ProductCategory, error) {
	if c, ok := ResolveCategoryFromFilename(filename); ok {
		return c, nil
	}
	return "", NewCategoryError(filename)
}

// normalizeLabel macOS 上传的文件名为 NFD 形式的韩文，统一为 NFC 后再比较
func normalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(s)))
}
