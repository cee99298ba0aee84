package types

import (
	"time"
)

// Owner belongs to exactly one company. CompanyID is a lookup field kept in
// sync by the repo; mutation always goes through the owning company.
type Owner struct {
	ID                   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name                 string    `gorm:"not null;column:name" json:"name"`
	SocialSecurityNumber string    `gorm:"not null;column:social_security_number" json:"social_security_number"`
	CompanyID            uint      `gorm:"not null;index;column:company_id" json:"company_id"`
	CreatedAt            time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt            time.Time `gorm:"not null" json:"updated_at"`
}

func (Owner) TableName() string {
	return "owner"
}
