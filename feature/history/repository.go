package history

import (
	"context"
	"errors"
	"fmt"

	"stock-sync/core/database"

	"gorm.io/gorm"
)

// DefaultListLimit bounds List when no limit is given.
const DefaultListLimit = 20

// Repository stores cycle runs with GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a repository over db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the cycle table.
func (r *Repository) Migrate() error {
	if err := r.db.AutoMigrate(&CycleRun{}); err != nil {
		return fmt.Errorf("migrate %s: %w", TableName, err)
	}
	return nil
}

// Check returns the columns the cycle table is missing.
func (r *Repository) Check() ([]string, error) {
	return database.MissingColumns(r.db, TableName, requiredColumns)
}

// Save inserts run.
func (r *Repository) Save(ctx context.Context, run *CycleRun) error {
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("save cycle %s: %w", run.CycleID, err)
	}
	return nil
}

// Get returns the run of cycleID.
func (r *Repository) Get(ctx context.Context, cycleID string) (CycleRun, bool, error) {
	var run CycleRun
	err := r.db.WithContext(ctx).Where("cycle_id = ?", cycleID).First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return CycleRun{}, false, nil
	}
	if err != nil {
		return CycleRun{}, false, fmt.Errorf("get cycle %s: %w", cycleID, err)
	}
	return run, true, nil
}

// Latest returns the most recent run.
func (r *Repository) Latest(ctx context.Context) (CycleRun, bool, error) {
	runs, err := r.List(ctx, 1)
	if err != nil || len(runs) == 0 {
		return CycleRun{}, false, err
	}
	return runs[0], true, nil
}

// List returns up to limit runs, newest first.
func (r *Repository) List(ctx context.Context, limit int) ([]CycleRun, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	var runs []CycleRun
	err := r.db.WithContext(ctx).
		Order("generated_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("list cycles: %w", err)
	}
	return runs, nil
}
