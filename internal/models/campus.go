package models

import (
	"time"

	"gorm.io/gorm"
)

type Campus struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	Name    string `json:"name" gorm:"not null;size:100;uniqueIndex"`
	Code    string `json:"code" gorm:"not null;size:10;uniqueIndex"`
	Address string `json:"address" gorm:"size:255"`
	City    string `json:"city" gorm:"size:100"`

	IsActive bool `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Campus) TableName() string {
	return "campuses"
}
