// internal/domain/template/entity.go
package template

import (
	"database/sql"
	"time"
)

type MessageTemplate struct {
	ID         string         `json:"id" db:"id"`
	UserID     sql.NullString `json:"user_id,omitempty" db:"user_id"`
	Name       string         `json:"name" db:"name"`
	Content    string         `json:"content" db:"content"`
	Category   sql.NullString `json:"category,omitempty" db:"category"`
	IsActive   bool           `json:"is_active" db:"is_active"`
	UsageCount int64          `json:"usage_count" db:"usage_count"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at" db:"updated_at"`
}

type CreateTemplateRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Content  string `json:"content" binding:"required"`
	Category string `json:"category" binding:"max=100"`
	IsActive bool   `json:"is_active"`
	UserID   string `json:"user_id"`
}

type UpdateTemplateRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=255"`
	Content  *string `json:"content"`
	Category *string `json:"category" binding:"omitempty,max=100"`
	IsActive *bool   `json:"is_active"`
}
