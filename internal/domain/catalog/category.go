package catalog

import (
	"strings"

	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// Category groups products, e.g. Rings > Engagement Rings
type Category struct {
	shared.BaseAggregateRoot
	Code        string     `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string     `gorm:"type:varchar(100);not null"`
	Description string     `gorm:"type:text"`
	ParentID    *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a category, optionally under a parent
func NewCategory(code, name string, parentID *uuid.UUID) (*Category, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Category code must be 1-50 characters")
	}
	c := &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
	}
	if err := c.Update(name, "", parentID); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces name, description and parent
func (c *Category) Update(name, description string, parentID *uuid.UUID) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Category name must be 1-100 characters")
	}
	if parentID != nil && *parentID == c.ID {
		return shared.NewDomainError("INVALID_PARENT", "Category cannot be its own parent")
	}
	c.Name = name
	c.Description = strings.TrimSpace(description)
	c.ParentID = parentID
	c.Touch()
	return nil
}
