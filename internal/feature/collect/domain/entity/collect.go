// Package entity defines the domain models for the collect (watchlist) feature.
package entity

import "time"

// Collect is one watched stock. The database owns the surrogate ID and both
// timestamps; callers only ever supply the ts_code.
//
// TsCode is unique at the storage level so that two concurrent adds for the
// same new code cannot produce duplicate rows.
type Collect struct {
	ID        uint      `gorm:"primaryKey"`
	TsCode    string    `gorm:"size:20;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Collect) TableName() string {
	return "collect"
}
