package models

import "gorm.io/gorm"

type PropertyImage struct {
	gorm.Model
	PropertyID uint   `json:"propertyID" gorm:"not null;index"`
	URL        string `json:"url" gorm:"not null;size:512"`
	Caption    string `json:"caption" gorm:"size:256"`
}
