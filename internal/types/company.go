package types

import (
	"time"
)

// Company is the aggregate root. It exclusively owns its Owners; an owner
// row never outlives its company.
type Company struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"not null;column:name" json:"name"`
	Country   string    `gorm:"column:country" json:"country"`
	Email     string    `gorm:"column:email" json:"email"`
	Version   int64     `gorm:"not null;default:0;column:version" json:"-"`
	Owners    []Owner   `gorm:"foreignKey:CompanyID" json:"owners"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Company) TableName() string {
	return "company"
}
