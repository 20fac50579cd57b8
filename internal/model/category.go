package model

// ProductCategory 产品品类（固定闭集）
type ProductCategory string

const (
	CategorySunCare    ProductCategory = "Sun Care"
	CategoryFoundation ProductCategory = "Foundation"
	CategoryEssence    ProductCategory = "Essence"
	CategoryCream      ProductCategory = "Cream"
)

// Categories 全部品类，顺序即展示与合并顺序
var Categories = []ProductCategory{
	CategorySunCare,
	CategoryFoundation,
	CategoryEssence,
	CategoryCream,
}

// categoryFileTokens 模板文件名中使用的品类标记（上传时可由文件名反解）
var categoryFileTokens = map[ProductCategory]string{
	CategorySunCare:    "suncare",
	CategoryFoundation: "foundation",
	CategoryEssence:    "essence",
	CategoryCream:      "cream",
}

// Valid 是否为已知品类
func (c ProductCategory) Valid() bool {
	_, ok := categoryFileTokens[c]
	return ok
}

// FileToken 文件名标记
func (c ProductCategory) FileToken() string {
	return categoryFileTokens[c]
}

// FileTokens 全部文件名标记（用于错误提示）
func FileTokens() []string {
	out := make([]string, 0, len(Categories))
	for _, c := range Categories {
		out = append(out, categoryFileTokens[c])
	}
	return out
}
