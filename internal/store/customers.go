package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dongha22/strategiccategory/internal/model"
)

type customerRow struct {
	ID              string  `db:"id"`
	Name            string  `db:"name"`
	RevenueLastYear float64 `db:"revenue_last_year"`
	RevenueYTD      float64 `db:"revenue_ytd"`
	Growth          float64 `db:"growth"`
	Status          string  `db:"status"`
	Position        int     `db:"position"`
}

type shareRow struct {
	CustomerID *string `db:"customer_id"`
	model.MarketShare
}

type productRow struct {
	CustomerID string `db:"customer_id"`
	model.Product
}

// ListCustomers 读取品类的客户（含份额与产品）与综合份额
func (s *Store) ListCustomers(ctx context.Context, c model.ProductCategory) (model.CustomerSet, error) {
	set := model.CustomerSet{TopCustomers: []model.CustomerData{}, Top20AggregateShare: []model.MarketShare{}}
	id, err := s.idOf(c)
	if err != nil {
		return set, err
	}

	var customers []customerRow
	if err := s.db.SelectContext(ctx, &customers, `
		SELECT id, name, revenue_last_year, revenue_ytd, growth, status, position
		FROM customers WHERE category_id = ? ORDER BY position, name
	`, id); err != nil {
		return set, fmt.Errorf("failed to list customers for %s: %w", c, err)
	}

	var shares []shareRow
	if err := s.db.SelectContext(ctx, &shares, `
		SELECT customer_id, period, cosmax, kolmar, others
		FROM market_shares WHERE category_id = ? ORDER BY position
	`, id); err != nil {
		return set, fmt.Errorf("failed to list shares for %s: %w", c, err)
	}

	var products []productRow
	if err := s.db.SelectContext(ctx, &products, `
		SELECT p.customer_id, p.id, p.name, p.revenue, p.growth, p.share
		FROM products p JOIN customers cu ON cu.id = p.customer_id
		WHERE cu.category_id = ? ORDER BY p.position
	`, id); err != nil {
		return set, fmt.Errorf("failed to list products for %s: %w", c, err)
	}

	byCustomer := make(map[string][]model.MarketShare)
	for _, sh := range shares {
		if sh.CustomerID == nil {
			set.Top20AggregateShare = append(set.Top20AggregateShare, sh.MarketShare)
			continue
		}
		byCustomer[*sh.CustomerID] = append(byCustomer[*sh.CustomerID], sh.MarketShare)
	}
	productsOf := make(map[string][]model.Product)
	for _, p := range products {
		productsOf[p.CustomerID] = append(productsOf[p.CustomerID], p.Product)
	}

	for _, cu := range customers {
		cd := model.CustomerData{
			ID:              cu.ID,
			Name:            cu.Name,
			RevenueLastYear: cu.RevenueLastYear,
			RevenueYTD:      cu.RevenueYTD,
			Growth:          cu.Growth,
			Status:          model.CustomerStatus(cu.Status),
			Shares:          byCustomer[cu.ID],
			Products:        productsOf[cu.ID],
		}
		if cd.Shares == nil {
			cd.Shares = []model.MarketShare{}
		}
		if cd.Products == nil {
			cd.Products = []model.Product{}
		}
		set.TopCustomers = append(set.TopCustomers, cd)
	}
	return set, nil
}

// ReplaceCustomers 在一个事务中整体替换品类的客户与综合份额，客户 id 重新生成
func (s *Store) ReplaceCustomers(ctx context.Context, c model.ProductCategory, set model.CustomerSet) (model.CustomerSet, error) {
	id, err := s.idOf(c)
	if err != nil {
		return set, err
	}
	out := set.Clone()
	err = s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM customers WHERE category_id = ?`, id); err != nil {
			return fmt.Errorf("failed to clear customers for %s: %w", c, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM market_shares WHERE category_id = ?`, id); err != nil {
			return fmt.Errorf("failed to clear shares for %s: %w", c, err)
		}
		for i := range out.TopCustomers {
			out.TopCustomers[i].ID = uuid.NewString()
			if err := insertCustomer(ctx, tx, id, i, out.TopCustomers[i]); err != nil {
				return err
			}
		}
		return insertShares(ctx, tx, id, nil, out.Top20AggregateShare)
	})
	if err != nil {
		return set, err
	}
	return out, nil
}

// UpsertCustomer 新增或更新单个客户；ID 为空时生成新 id
func (s *Store) UpsertCustomer(ctx context.Context, c model.ProductCategory, cd model.CustomerData) (model.CustomerData, error) {
	id, err := s.idOf(c)
	if err != nil {
		return cd, err
	}
	err = s.withTx(ctx, func(tx *sqlx.Tx) error {
		position := 0
		if cd.ID == "" {
			cd.ID = uuid.NewString()
			if err := tx.GetContext(ctx, &position, `SELECT COUNT(*) FROM customers WHERE category_id = ?`, id); err != nil {
				return fmt.Errorf("failed to count customers: %w", err)
			}
		} else {
			err := tx.GetContext(ctx, &position, `SELECT position FROM customers WHERE id = ? AND category_id = ?`, cd.ID, id)
			if err != nil {
				return fmt.Errorf("%w: customer %s", ErrNotFound, cd.ID)
			}
			if _, err := tx.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, cd.ID); err != nil {
				return fmt.Errorf("failed to replace customer %s: %w", cd.ID, err)
			}
		}
		return insertCustomer(ctx, tx, id, position, cd)
	})
	return cd, err
}

// DeleteCustomer 删除客户（份额与产品级联删除）
func (s *Store) DeleteCustomer(ctx context.Context, c model.ProductCategory, customerID string) error {
	id, err := s.idOf(c)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ? AND category_id = ?`, customerID, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer %s: %w", customerID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: customer %s", ErrNotFound, customerID)
	}
	return nil
}

func insertCustomer(ctx context.Context, tx *sqlx.Tx, categoryID int64, position int, cd model.CustomerData) error {
	status := cd.Status
	if status == "" {
		status = model.StatusStable
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO customers (id, category_id, name, revenue_last_year, revenue_ytd, growth, status, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, cd.ID, categoryID, cd.Name, cd.RevenueLastYear, cd.RevenueYTD, cd.Growth, string(status), position); err != nil {
		return fmt.Errorf("failed to insert customer %s: %w", cd.Name, err)
	}
	customerID := cd.ID
	if err := insertShares(ctx, tx, categoryID, &customerID, cd.Shares); err != nil {
		return err
	}
	for i, p := range cd.Products {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO products (id, customer_id, position, name, revenue, growth, share)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, p.ID, cd.ID, i, p.Name, p.Revenue, p.Growth, p.Share); err != nil {
			return fmt.Errorf("failed to insert product %s: %w", p.Name, err)
		}
	}
	return nil
}

func insertShares(ctx context.Context, tx *sqlx.Tx, categoryID int64, customerID *string, shares []model.MarketShare) error {
	aggregate := customerID == nil
	for i, sh := range shares {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO market_shares (category_id, customer_id, period, position, cosmax, kolmar, others, is_aggregate)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, categoryID, customerID, sh.Period, i, sh.Cosmax, sh.Kolmar, sh.Others, aggregate); err != nil {
			return fmt.Errorf("failed to insert share %s: %w", sh.Period, err)
		}
	}
	return nil
}
