package store

import (
	"context"
	"fmt"

	"github.com/dongha22/strategiccategory/internal/model"
)

// ListFacilitators 读取品类负责人
func (s *Store) ListFacilitators(ctx context.Context, c model.ProductCategory) ([]model.Facilitator, error) {
	id, err := s.idOf(c)
	if err != nil {
		return nil, err
	}
	out := []model.Facilitator{}
	if err := s.db.SelectContext(ctx, &out, `
		SELECT role, name FROM facilitators WHERE category_id = ? ORDER BY role
	`, id); err != nil {
		return nil, fmt.Errorf("failed to list facilitators for %s: %w", c, err)
	}
	return out, nil
}

// UpsertFacilitator 设置某角色的负责人
func (s *Store) UpsertFacilitator(ctx context.Context, c model.ProductCategory, f model.Facilitator) error {
	id, err := s.idOf(c)
	if err != nil {
		return err
	}
	if !model.ValidRole(f.Role) {
		return fmt.Errorf("%w: facilitator role %q", ErrInvalid, f.Role)
	}
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO facilitators (category_id, role, name) VALUES (?, ?, ?)
		ON CONFLICT(category_id, role) DO UPDATE SET name = excluded.name
	`, id, string(f.Role), f.Name); err != nil {
		return fmt.Errorf("failed to upsert facilitator %s for %s: %w", f.Role, c, err)
	}
	return nil
}
