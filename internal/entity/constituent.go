package entity

import "time"

// Constituent is a member of the tracked index. Symbols are unique and upper-case;
// a symbol that leaves the index is deactivated, never deleted.
type Constituent struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Symbol      string     `gorm:"type:varchar(10);uniqueIndex;not null" json:"symbol"`
	CompanyName string     `gorm:"type:varchar(255)" json:"company_name"`
	Sector      string     `gorm:"type:varchar(100)" json:"sector"`
	Weight      float64    `gorm:"not null" json:"weight"`
	IsActive    bool       `gorm:"not null;index" json:"is_active"`
	AddedDate   *time.Time `gorm:"type:date" json:"added_date,omitempty"`
	RemovedDate *time.Time `gorm:"type:date" json:"removed_date,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Constituent) TableName() string { return "index_constituents" }
