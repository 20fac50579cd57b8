package store

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/dongha22/strategiccategory/internal/model"
)

//go:embed schema.sql
var schemaFS embed.FS

var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("not found")
	// ErrUnknownCategory 品类不存在
	ErrUnknownCategory = errors.New("unknown category")
	// ErrInvalid 参数不合法（月份越界、未知角色）
	ErrInvalid = errors.New("invalid value")
)

// Store SQLite 数据库存储层
type Store struct {
	db         *sqlx.DB
	categoryID map[model.ProductCategory]int64
}

// New 创建新的 Store 实例
func New(dbPath string) (*Store, error) {
	// 确保 data 目录存在
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sqlx.Open("sqlite3", "file:"+dbPath+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite 建议单连接
	db.SetMaxIdleConns(1)

	store := &Store{db: db, categoryID: make(map[model.ProductCategory]int64)}

	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := store.seedCategories(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to seed categories: %w", err)
	}

	return store, nil
}

// initSchema 初始化数据库结构
func (s *Store) initSchema() error {
	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema.sql: %w", err)
	}
	if _, err := s.db.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// seedCategories 写入固定品类并缓存 id
func (s *Store) seedCategories() error {
	for i, c := range model.Categories {
		if _, err := s.db.Exec(`
			INSERT INTO categories (name, position) VALUES (?, ?)
			ON CONFLICT(name) DO UPDATE SET position = excluded.position
		`, string(c), i); err != nil {
			return err
		}
	}

	var rows []struct {
		ID   int64  `db:"id"`
		Name string `db:"name"`
	}
	if err := s.db.Select(&rows, `SELECT id, name FROM categories`); err != nil {
		return err
	}
	for _, r := range rows {
		s.categoryID[model.ProductCategory(r.Name)] = r.ID
	}
	return nil
}

func (s *Store) idOf(c model.ProductCategory) (int64, error) {
	id, ok := s.categoryID[c]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCategory, c)
	}
	return id, nil
}

// Close 关闭数据库连接
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DB 获取原始数据库连接
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// withTx 在事务中执行 fn，出错回滚
func (s *Store) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
