package book

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, b *Book) error
	ListAll(ctx context.Context) ([]Book, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
	TotalSize(ctx context.Context) (int64, error)
	StoredNames(ctx context.Context) ([]string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, b *Book) error {
	return r.db.WithContext(ctx).Create(b).Error
}

// ListAll returns every book ordered by creation time, newest first.
// Ties on created_at have no defined relative order.
func (r *repository) ListAll(ctx context.Context) ([]Book, error) {
	var books []Book
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&books).Error
	return books, err
}

// UpdateStatus touches only the status column.
func (r *repository) UpdateStatus(ctx context.Context, id string, status Status) error {
	res := r.db.WithContext(ctx).Model(&Book{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBookNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Book{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBookNotFound
	}
	return nil
}

func (r *repository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&Book{}).Error
}

// TotalSize is the aggregate stored size in bytes. Derived, never stored.
func (r *repository) TotalSize(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&Book{}).
		Select("COALESCE(SUM(file_size), 0)").Scan(&total).Error
	return total, err
}

// StoredNames lists every object key referenced by a row. Used by the
// reconcile job to find orphaned blobs.
func (r *repository) StoredNames(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&Book{}).Pluck("file_name", &names).Error
	return names, err
}
