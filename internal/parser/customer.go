package parser

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/dongha22/strategiccategory/internal/model"
)

// CustomerUpload 单个品类的客户与综合份额
type CustomerUpload struct {
	Category       model.ProductCategory
	Customers      []model.CustomerData
	AggregateShare []model.MarketShare
	DroppedRows    int
}

// ClassifyStatus 经营状态：先判 Thriving，再判 Challenged，其余 Stable
//
// shareChange 为最新季度与上年基期的 Cosmax 份额差。
func ClassifyStatus(growth, shareChange float64) model.CustomerStatus {
	if growth > 15 && shareChange > 0 {
		return model.StatusThriving
	}
	if growth < -5 || shareChange < -5 {
		return model.StatusChallenged
	}
	return model.StatusStable
}

// ParseCustomerRows 解析客户份额行；客户名为空的行丢弃
//
// 份额缺失时：基期取 30 / 25，各季度沿用上一期；others = 100 - cosmax - kolmar。
func ParseCustomerRows(rows []Row, fy model.FiscalYear) (customers []model.CustomerData, dropped int) {
	mapper := NewFieldMapper(fy)
	periods := fy.SharePeriods()

	for idx, r := range rows {
		name := ExtractText(r, staticAliases[FieldName], "")
		if name == "" {
			dropped++
			continue
		}

		revenue := ExtractNumber(r, staticAliases[FieldRevenueYTD], 0)
		growth := ExtractNumber(r, staticAliases[FieldGrowth], 0)

		shares := make([]model.MarketShare, len(periods))
		cosmax, kolmar := float64(DefaultCosmaxShare), float64(DefaultKolmarShare)
		for p, label := range periods {
			if v, ok := ExtractShare(r, mapper.ShareAliases(Cosmax, p)); ok {
				cosmax = v
			}
			if v, ok := ExtractShare(r, mapper.ShareAliases(Kolmar, p)); ok {
				kolmar = v
			}
			shares[p] = model.MarketShare{
				Period: label,
				Cosmax: cosmax,
				Kolmar: kolmar,
				Others: decimal.NewFromInt(100).Sub(decimal.NewFromFloat(cosmax)).Sub(decimal.NewFromFloat(kolmar)).InexactFloat64(),
			}
		}
		shareChange := shares[len(shares)-1].Cosmax - shares[0].Cosmax

		customers = append(customers, model.CustomerData{
			ID:         fmt.Sprintf("c-%d", idx),
			Name:       name,
			RevenueYTD: math.Round(revenue),
			Growth:     decimal.NewFromFloat(growth).Round(1).InexactFloat64(),
			Status:     ClassifyStatus(growth, shareChange),
			Shares:     shares,
			Products:   []model.Product{},
		})
	}
	return customers, dropped
}

// AggregateShare 各期间对全部客户做简单平均（保留 1 位小数）
func AggregateShare(customers []model.CustomerData) []model.MarketShare {
	if len(customers) == 0 {
		return []model.MarketShare{}
	}
	n := decimal.NewFromInt(int64(len(customers)))
	hundred := decimal.NewFromInt(100)

	out := make([]model.MarketShare, len(customers[0].Shares))
	for p := range out {
		cosmax, kolmar := decimal.Zero, decimal.Zero
		for _, c := range customers {
			if p < len(c.Shares) {
				cosmax = cosmax.Add(decimal.NewFromFloat(c.Shares[p].Cosmax))
				kolmar = kolmar.Add(decimal.NewFromFloat(c.Shares[p].Kolmar))
			}
		}
		avgC := cosmax.Div(n)
		avgK := kolmar.Div(n)
		out[p] = model.MarketShare{
			Period: customers[0].Shares[p].Period,
			Cosmax: avgC.Round(1).InexactFloat64(),
			Kolmar: avgK.Round(1).InexactFloat64(),
			Others: hundred.Sub(avgC).Sub(avgK).Round(1).InexactFloat64(),
		}
	}
	return out
}

// ParseCustomerSheet 解析单个 sheet 的客户行，品类由调用方给定
func ParseCustomerSheet(category model.ProductCategory, sheet Sheet, fy model.FiscalYear) CustomerUpload {
	customers, dropped := ParseCustomerRows(sheet.Rows, fy)
	return CustomerUpload{
		Category:       category,
		Customers:      customers,
		AggregateShare: AggregateShare(customers),
		DroppedRows:    dropped,
	}
}

// ParseCustomerFile 文件名带品类标记的客户文件（严格：无品类即报错，只读第一个 sheet）
func ParseCustomerFile(filename string, data []byte, fy model.FiscalYear, opts ReadOptions) (*CustomerUpload, error) {
	category, err := RequireCategoryFromFilename(filename)
	if err != nil {
		return nil, err
	}
	wb, err := OpenWorkbook(filename, data, opts)
	if err != nil {
		return nil, err
	}
	sheet, err := wb.FirstSheet()
	if err != nil {
		return nil, err
	}
	upload := ParseCustomerSheet(category, sheet, fy)
	return &upload, nil
}

// ParseCustomerWorkbook 每个 sheet 一个品类（宽松：无法识别的 sheet 跳过并记录警告）
//
// 没有解析出客户的品类不出现在结果中。
func ParseCustomerWorkbook(wb *Workbook, fy model.FiscalYear) (map[model.ProductCategory]CustomerUpload, []string) {
	out := make(map[model.ProductCategory]CustomerUpload)
	var warnings []string
	for _, sheet := range wb.Sheets {
		category, ok := ResolveCategory(sheet.Name)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown category sheet: %s", sheet.Name))
			continue
		}
		upload := ParseCustomerSheet(category, sheet, fy)
		if len(upload.Customers) > 0 {
			out[category] = upload
		}
	}
	return out, warnings
}
