package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dongha22/strategiccategory/internal/model"
)

// CreateImportLog 创建导入日志，返回 import_log_id
func (s *Store) CreateImportLog(ctx context.Context, batchID, kind string, fileCount int) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO import_logs (batch_id, kind, file_count, status)
		VALUES (?, ?, ?, 'processing')
	`, batchID, kind, fileCount)
	if err != nil {
		return 0, fmt.Errorf("failed to create import log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get import log id: %w", err)
	}
	return id, nil
}

// FinishImportLog 完成导入日志更新
func (s *Store) FinishImportLog(ctx context.Context, id int64, imported, skipped, failed int, status, message string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE import_logs SET
			imported_files = ?,
			skipped_files = ?,
			error_files = ?,
			status = ?,
			message = ?,
			finished_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, imported, skipped, failed, status, message, id)
	if err != nil {
		return fmt.Errorf("failed to update import log: %w", err)
	}
	return nil
}

// LastImport 最近一次导入，没有时返回 nil
func (s *Store) LastImport(ctx context.Context) (*model.ImportLogEntry, error) {
	var entry model.ImportLogEntry
	err := s.db.GetContext(ctx, &entry, `
		SELECT id, batch_id, kind, file_count, imported_files, skipped_files, error_files,
		       status, message, started_at, finished_at
		FROM import_logs ORDER BY id DESC LIMIT 1
	`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read last import: %w", err)
	}
	return &entry, nil
}
