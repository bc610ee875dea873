package book

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status tracks reading progress for a single book.
type Status string

const (
	StatusNotStarted Status = "not-started"
	StatusStarted    Status = "started"
	StatusDone       Status = "done"
)

// Valid reports whether s is one of the three defined statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusStarted, StatusDone:
		return true
	}
	return false
}

// Book is one catalog entry: an uploaded PDF plus its reading status.
// StoredName is the object-store key and is distinct from the
// user-facing title, so identical filenames never collide.
type Book struct {
	ID         string    `gorm:"column:id;primaryKey" json:"id"`
	Title      string    `gorm:"column:title" json:"title"`
	StoredName string    `gorm:"column:file_name" json:"file_name"`
	SizeBytes  int64     `gorm:"column:file_size" json:"file_size"`
	Status     Status    `gorm:"column:status" json:"status"`
	PublicURL  string    `gorm:"column:file_url" json:"file_url"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Book) TableName() string { return "books" }

// BeforeCreate assigns the row id at insert time. Callers never set it.
func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}
