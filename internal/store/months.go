package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dongha22/strategiccategory/internal/model"
)

const upsertMonthSQL = `
	INSERT INTO monthly_performance (category_id, month, last_year_actual, this_year_target, this_year_actual)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(category_id, month) DO UPDATE SET
		last_year_actual = excluded.last_year_actual,
		this_year_target = excluded.this_year_target,
		this_year_actual = excluded.this_year_actual,
		updated_at = CURRENT_TIMESTAMP
`

// ListPerformance 读取品类的月度实绩（只含已存储的月份）
func (s *Store) ListPerformance(ctx context.Context, c model.ProductCategory) ([]model.MonthlyPerformance, error) {
	id, err := s.idOf(c)
	if err != nil {
		return nil, err
	}
	var rows []model.MonthlyPerformance
	if err := s.db.SelectContext(ctx, &rows, `
		SELECT month, last_year_actual, this_year_target, this_year_actual
		FROM monthly_performance WHERE category_id = ? ORDER BY month
	`, id); err != nil {
		return nil, fmt.Errorf("failed to list performance for %s: %w", c, err)
	}
	return rows, nil
}

// ReplacePerformance 在一个事务中整体替换品类的 12 个月
func (s *Store) ReplacePerformance(ctx context.Context, c model.ProductCategory, perf []model.MonthlyPerformance) error {
	id, err := s.idOf(c)
	if err != nil {
		return err
	}
	full := model.FillMonths(perf)
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM monthly_performance WHERE category_id = ?`, id); err != nil {
			return fmt.Errorf("failed to clear performance for %s: %w", c, err)
		}
		for _, p := range full {
			if _, err := tx.ExecContext(ctx, upsertMonthSQL, id, p.Month, p.LastYearActual, p.ThisYearTarget, p.ThisYearActual); err != nil {
				return fmt.Errorf("failed to insert month %d for %s: %w", p.Month, c, err)
			}
		}
		return nil
	})
}

// UpsertMonthlyPerformance 更新单个月份
func (s *Store) UpsertMonthlyPerformance(ctx context.Context, c model.ProductCategory, p model.MonthlyPerformance) error {
	id, err := s.idOf(c)
	if err != nil {
		return err
	}
	if p.Month < 1 || p.Month > model.MonthsPerYear {
		return fmt.Errorf("%w: month %d", ErrInvalid, p.Month)
	}
	if _, err := s.db.ExecContext(ctx, upsertMonthSQL, id, p.Month, p.LastYearActual, p.ThisYearTarget, p.ThisYearActual); err != nil {
		return fmt.Errorf("failed to upsert month %d for %s: %w", p.Month, c, err)
	}
	return nil
}
