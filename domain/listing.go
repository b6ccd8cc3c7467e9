package domain

import (
	"time"

	"gorm.io/datatypes"
)

// CREATE TABLE public.listings (
//     id               BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     owner_id         BIGINT NOT NULL REFERENCES users(id),
//     kind             TEXT NOT NULL,
//     title            TEXT NOT NULL,
//     description      TEXT,
//     category         TEXT NOT NULL,
//     condition        TEXT,
//     price            NUMERIC NOT NULL DEFAULT 0,
//     additional_price NUMERIC NOT NULL DEFAULT 0,
//     location         TEXT,
//     images           JSONB,
//     status           TEXT NOT NULL DEFAULT 'active',
//     created_at       TIMESTAMPTZ DEFAULT NOW()
// );

type ListingKind string

const (
	ListingKindGood    ListingKind = "good"
	ListingKindService ListingKind = "service"
)

type ListingStatus string

const (
	ListingStatusActive   ListingStatus = "active"
	ListingStatusInactive ListingStatus = "inactive"
	ListingStatusReserved ListingStatus = "reserved"
	ListingStatusTraded   ListingStatus = "traded"
)

type Listing struct {
	ID              uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID         uint           `gorm:"column:owner_id;not null;index" json:"owner_id"`
	Kind            ListingKind    `gorm:"column:kind;type:text;not null" json:"kind"`
	Title           string         `gorm:"column:title;type:text;not null" json:"title"`
	Description     string         `gorm:"column:description;type:text" json:"description"`
	Category        string         `gorm:"column:category;type:text;not null;index" json:"category"`
	Condition       *string        `gorm:"column:condition;type:text" json:"condition,omitempty"`
	Price           float64        `gorm:"column:price;type:numeric" json:"price"`
	AdditionalPrice float64        `gorm:"column:additional_price;type:numeric" json:"additional_price"`
	Location        string         `gorm:"column:location;type:text" json:"location"`
	Images          datatypes.JSON `gorm:"column:images;type:jsonb" json:"images"`
	Status          ListingStatus  `gorm:"column:status;type:text;not null;default:active" json:"status"`
	CreatedAt       time.Time      `gorm:"column:created_at" json:"created_at"`
}

func (Listing) TableName() string {
	return "listings"
}

func (l Listing) IsActive() bool {
	return l.Status == ListingStatusActive
}
