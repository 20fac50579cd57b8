package model

// CustomerStatus 客户经营状态
type CustomerStatus string

const (
	StatusThriving   CustomerStatus = "Thriving"
	StatusStable     CustomerStatus = "Stable"
	StatusChallenged CustomerStatus = "Challenged"
)

// TotalCustomerLabel 销售文件中未标注客户的行（文件级合计）
const TotalCustomerLabel = "_total_"

// MarketShare 某一期间的制造商份额（百分比）
//
// Others 由 100 - Cosmax - Kolmar 推导，不做校验，可能为负。
type MarketShare struct {
	Period string  `json:"period" db:"period"`
	Cosmax float64 `json:"cosmax" db:"cosmax"`
	Kolmar float64 `json:"kolmar" db:"kolmar"`
	Others float64 `json:"others" db:"others"`
}

// Product 客户下的产品明细
type Product struct {
	ID      string  `json:"id" db:"id"`
	Name    string  `json:"name" db:"name"`
	Revenue float64 `json:"revenue" db:"revenue"`
	Growth  float64 `json:"growth" db:"growth"`
	Share   float64 `json:"share" db:"share"`
}

// CustomerData 客户数据
type CustomerData struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	RevenueLastYear float64        `json:"revenueLastYear"`
	RevenueYTD      float64        `json:"revenueYTD"`
	Growth          float64        `json:"growth"`
	Status          CustomerStatus `json:"status"`
	Shares          []MarketShare  `json:"shares"`
	Products        []Product      `json:"products"`
}

// FacilitatorRole 负责人角色
type FacilitatorRole string

const (
	RoleMarketing          FacilitatorRole = "마케팅"
	RoleResearch           FacilitatorRole = "연구소"
	RoleStrategicMarketing FacilitatorRole = "전략마케팅"
)

// FacilitatorRoles 固定的负责人角色
var FacilitatorRoles = []FacilitatorRole{RoleMarketing, RoleResearch, RoleStrategicMarketing}

// Facilitator 品类负责人
type Facilitator struct {
	Role FacilitatorRole `json:"role" db:"role"`
	Name string          `json:"name" db:"name"`
}

// ValidRole 角色是否合法
func ValidRole(role FacilitatorRole) bool {
	for _, r := range FacilitatorRoles {
		if r == role {
			return true
		}
	}
	return false
}

// EmptyShares 生成份额全为 0 的期间序列
func EmptyShares(fy FiscalYear) []MarketShare {
	periods := fy.SharePeriods()
	out := make([]MarketShare, len(periods))
	for i, p := range periods {
		out[i] = MarketShare{Period: p}
	}
	return out
}
