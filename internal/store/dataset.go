package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dongha22/strategiccategory/internal/model"
	"github.com/dongha22/strategiccategory/internal/reconcile"
)

// GetCategoryData 读取单个品类；月度实绩以逐字段合并方式补齐为 12 个月
func (s *Store) GetCategoryData(ctx context.Context, c model.ProductCategory) (model.CategoryData, error) {
	cd := model.NewCategoryData(c)

	perf, err := s.ListPerformance(ctx, c)
	if err != nil {
		return cd, err
	}
	cd.Performance = reconcile.MergePerformanceFields(cd.Performance, perf)

	if cd.Customers, err = s.ListCustomers(ctx, c); err != nil {
		return cd, err
	}
	if cd.Facilitators, err = s.ListFacilitators(ctx, c); err != nil {
		return cd, err
	}
	return cd, nil
}

// LoadDataset 读取全部品类，没有数据的品类返回空骨架
func (s *Store) LoadDataset(ctx context.Context) (model.Dataset, error) {
	ds := make(model.Dataset, len(model.Categories))
	for _, c := range model.Categories {
		cd, err := s.GetCategoryData(ctx, c)
		if err != nil {
			return nil, err
		}
		ds[c] = cd
	}
	return ds, nil
}

// ClearCategory 清空品类的实绩、客户、份额与负责人
func (s *Store) ClearCategory(ctx context.Context, c model.ProductCategory) error {
	id, err := s.idOf(c)
	if err != nil {
		return err
	}
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, table := range []string{"monthly_performance", "customers", "market_shares", "facilitators"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE category_id = ?`, id); err != nil {
				return fmt.Errorf("failed to clear %s for %s: %w", table, c, err)
			}
		}
		return nil
	})
}

// Status 各品类的数据概况
func (s *Store) Status(ctx context.Context) ([]model.CategoryStats, error) {
	var out []model.CategoryStats
	for _, c := range model.Categories {
		id, err := s.idOf(c)
		if err != nil {
			return nil, err
		}
		st := model.CategoryStats{Category: c}
		if err := s.db.GetContext(ctx, &st.ReportedThrough, `
			SELECT COALESCE(MAX(month), 0) FROM monthly_performance
			WHERE category_id = ? AND this_year_actual IS NOT NULL
		`, id); err != nil {
			return nil, fmt.Errorf("failed to read status for %s: %w", c, err)
		}
		if err := s.db.GetContext(ctx, &st.Customers, `SELECT COUNT(*) FROM customers WHERE category_id = ?`, id); err != nil {
			return nil, fmt.Errorf("failed to count customers for %s: %w", c, err)
		}
		if err := s.db.GetContext(ctx, &st.Facilitators, `SELECT COUNT(*) FROM facilitators WHERE category_id = ?`, id); err != nil {
			return nil, fmt.Errorf("failed to count facilitators for %s: %w", c, err)
		}
		out = append(out, st)
	}
	return out, nil
}
