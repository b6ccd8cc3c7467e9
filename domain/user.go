package domain

import (
	"time"

	"gorm.io/gorm"
)

type AccountKind string

const (
	AccountKindPerson  AccountKind = "person"
	AccountKindCompany AccountKind = "company"
)

type User struct {
	ID          uint        `gorm:"primaryKey"`
	FullName    string      `gorm:"column:full_name;not null"`
	Email       string      `gorm:"column:email;unique;not null"`
	AccountKind AccountKind `gorm:"column:account_kind;default:person"`
	Role        string      `gorm:"column:role;default:customer"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string {
	return "users"
}
