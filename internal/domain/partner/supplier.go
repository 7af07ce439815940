package partner

import (
	"regexp"
	"strings"

	"github.com/gemline/backoffice/internal/domain/shared"
)

var supplierEmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Supplier is a vendor the chain buys finished pieces or stones from
type Supplier struct {
	shared.BaseAggregateRoot
	Code             string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name             string `gorm:"type:varchar(200);not null"`
	ContactName      string `gorm:"type:varchar(200)"`
	Email            string `gorm:"type:varchar(200)"`
	Phone            string `gorm:"type:varchar(50)"`
	Address          string `gorm:"type:varchar(500)"`
	PaymentTermsDays int    `gorm:"not null;default:30"`
	IsActive         bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// SupplierContact holds the editable contact details
type SupplierContact struct {
	Name             string
	ContactName      string
	Email            string
	Phone            string
	Address          string
	PaymentTermsDays int
}

// NewSupplier creates an active supplier
func NewSupplier(code string, contact SupplierContact) (*Supplier, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" || len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Supplier code must be 1-50 characters")
	}
	s := &Supplier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		IsActive:          true,
	}
	if err := s.Update(contact); err != nil {
		return nil, err
	}
	return s, nil
}

// Update replaces the contact details
func (s *Supplier) Update(c SupplierContact) error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}
	email := strings.ToLower(strings.TrimSpace(c.Email))
	if email != "" && !supplierEmailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	if c.PaymentTermsDays < 0 || c.PaymentTermsDays > 365 {
		return shared.NewDomainError("INVALID_PAYMENT_TERMS", "Payment terms must be between 0 and 365 days")
	}
	s.Name = name
	s.ContactName = strings.TrimSpace(c.ContactName)
	s.Email = email
	s.Phone = strings.TrimSpace(c.Phone)
	s.Address = strings.TrimSpace(c.Address)
	s.PaymentTermsDays = c.PaymentTermsDays
	s.Touch()
	return nil
}

// Deactivate blocks new purchase orders to the supplier
func (s *Supplier) Deactivate() error {
	if !s.IsActive {
		return shared.NewDomainError("INVALID_STATE", "Supplier is already inactive")
	}
	s.IsActive = false
	s.Touch()
	return nil
}
