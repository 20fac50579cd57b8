package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dongha22/strategiccategory/internal/model"
	"github.com/dongha22/strategiccategory/internal/reconcile"
	sqlstore "github.com/dongha22/strategiccategory/internal/store"
)

// MemoryStore 内存数据存储（测试与 --memory 模式）
type MemoryStore struct {
	mu      sync.RWMutex
	data    model.Dataset
	imports []model.ImportLogEntry
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: model.NewDataset()}
}

func (s *MemoryStore) category(c model.ProductCategory) (model.CategoryData, error) {
	cd, ok := s.data[c]
	if !ok {
		return cd, fmt.Errorf("%w: %s", sqlstore.ErrUnknownCategory, c)
	}
	return cd, nil
}

// LoadDataset 返回数据集副本
func (s *MemoryStore) LoadDataset(_ context.Context) (model.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Clone(), nil
}

// GetCategoryData 返回品类副本
func (s *MemoryStore) GetCategoryData(_ context.Context, c model.ProductCategory) (model.CategoryData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cd, err := s.category(c)
	if err != nil {
		return cd, err
	}
	return cd.Clone(), nil
}

// ReplacePerformance 整体替换品类的 12 个月
func (s *MemoryStore) ReplacePerformance(_ context.Context, c model.ProductCategory, perf []model.MonthlyPerformance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cd, err := s.category(c)
	if err != nil {
		return err
	}
	cd.Performance = reconcile.ReplacePerformance(cd.Performance, perf)
	s.data[c] = cd
	return nil
}

// UpsertMonthlyPerformance 更新单个月份
func (s *MemoryStore) UpsertMonthlyPerformance(_ context.Context, c model.ProductCategory, p model.MonthlyPerformance) error {
	if p.Month < 1 || p.Month > model.MonthsPerYear {
		return fmt.Errorf("%w: month %d", sqlstore.ErrInvalid, p.Month)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cd, err := s.category(c)
	if err != nil {
		return err
	}
	cd.Performance = model.FillMonths(cd.Performance)
	cd.Performance[p.Month-1] = model.ClonePerformance([]model.MonthlyPerformance{p})[0]
	s.data[c] = cd
	return nil
}

// ReplaceCustomers 整体替换客户与综合份额，客户 id 重新生成
func (s *MemoryStore) ReplaceCustomers(_ context.Context, c model.ProductCategory, set model.CustomerSet) (model.CustomerSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cd, err := s.category(c)
	if err != nil {
		return set, err
	}
	out := set.Clone()
	if out.TopCustomers == nil {
		out.TopCustomers = []model.CustomerData{}
	}
	if out.Top20AggregateShare == nil {
		out.Top20AggregateShare = []model.MarketShare{}
	}
	for i := range out.TopCustomers {
		out.TopCustomers[i].ID = uuid.NewString()
		normalizeCustomer(&out.TopCustomers[i])
	}
	cd.Customers = out
	s.data[c] = cd
	return out.Clone(), nil
}

// UpsertCustomer 新增或更新单个客户
func (s *MemoryStore) UpsertCustomer(_ context.Context, c model.ProductCategory, customer model.CustomerData) (model.CustomerData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cd, err := s.category(c)
	if err != nil {
		return customer, err
	}
	cd.Customers = cd.Customers.Clone()
	normalizeCustomer(&customer)

	if customer.ID == "" {
		customer.ID = uuid.NewString()
		cd.Customers.TopCustomers = append(cd.Customers.TopCustomers, customer)
		s.data[c] = cd
		return customer, nil
	}
	for i := range cd.Customers.TopCustomers {
		if cd.Customers.TopCustomers[i].ID == customer.ID {
			cd.Customers.TopCustomers[i] = customer
			s.data[c] = cd
			return customer, nil
		}
	}
	return customer, fmt.Errorf("%w: customer %s", sqlstore.ErrNotFound, customer.ID)
}

// DeleteCustomer 删除客户
func (s *MemoryStore) DeleteCustomer(_ context.Context, c model.ProductCategory, customerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cd, err := s.category(c)
	if err != nil {
		return err
	}
	kept := make([]model.CustomerData, 0, len(cd.Customers.TopCustomers))
	for _, cu := range cd.Customers.TopCustomers {
		if cu.ID != customerID {
			kept = append(kept, cu)
		}
	}
	if len(kept) == len(cd.Customers.TopCustomers) {
		return fmt.Errorf("%w: customer %s", sqlstore.ErrNotFound, customerID)
	}
	cd.Customers.TopCustomers = kept
	s.data[c] = cd
	return nil
}

// UpsertFacilitator 设置某角色的负责人
func (s *MemoryStore) UpsertFacilitator(_ context.Context, c model.ProductCategory, f model.Facilitator) error {
	if !model.ValidRole(f.Role) {
		return fmt.Errorf("%w: facilitator role %q", sqlstore.ErrInvalid, f.Role)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cd, err := s.category(c)
	if err != nil {
		return err
	}
	out := make([]model.Facilitator, 0, len(cd.Facilitators)+1)
	replaced := false
	for _, existing := range cd.Facilitators {
		if existing.Role == f.Role {
			existing.Name = f.Name
			replaced = true
		}
		out = append(out, existing)
	}
	if !replaced {
		out = append(out, f)
	}
	cd.Facilitators = out
	s.data[c] = cd
	return nil
}

// ClearCategory 清空品类
func (s *MemoryStore) ClearCategory(_ context.Context, c model.ProductCategory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.category(c); err != nil {
		return err
	}
	s.data[c] = model.NewCategoryData(c)
	return nil
}

// Status 各品类的数据概况
func (s *MemoryStore) Status(_ context.Context) ([]model.CategoryStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.CategoryStats, 0, len(model.Categories))
	for _, c := range model.Categories {
		cd := s.data[c]
		out = append(out, model.CategoryStats{
			Category:        c,
			ReportedThrough: model.MaxReportedMonth(cd.Performance),
			Customers:       len(cd.Customers.TopCustomers),
			Facilitators:    len(cd.Facilitators),
		})
	}
	return out, nil
}

// CreateImportLog 创建导入日志
func (s *MemoryStore) CreateImportLog(_ context.Context, batchID, kind string, fileCount int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := int64(len(s.imports) + 1)
	s.imports = append(s.imports, model.ImportLogEntry{
		ID:        id,
		BatchID:   batchID,
		Kind:      kind,
		FileCount: fileCount,
		Status:    "processing",
		StartedAt: time.Now().Format(time.DateTime),
	})
	return id, nil
}

// FinishImportLog 完成导入日志
func (s *MemoryStore) FinishImportLog(_ context.Context, id int64, imported, skipped, failed int, status, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id < 1 || int(id) > len(s.imports) {
		return fmt.Errorf("%w: import log %d", sqlstore.ErrNotFound, id)
	}
	e := &s.imports[id-1]
	e.ImportedFiles = imported
	e.SkippedFiles = skipped
	e.ErrorFiles = failed
	e.Status = status
	e.Message = message
	e.FinishedAt = time.Now().Format(time.DateTime)
	return nil
}

// LastImport 最近一次导入
func (s *MemoryStore) LastImport(_ context.Context) (*model.ImportLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.imports) == 0 {
		return nil, nil
	}
	e := s.imports[len(s.imports)-1]
	return &e, nil
}

func normalizeCustomer(c *model.CustomerData) {
	if c.Status == "" {
		c.Status = model.StatusStable
	}
	if c.Shares == nil {
		c.Shares = []model.MarketShare{}
	}
	if c.Products == nil {
		c.Products = []model.Product{}
	}
}
