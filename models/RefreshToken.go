package models

import "gorm.io/gorm"

// RefreshToken rows are deleted together with their user, which revokes
// every session the user still holds.
type RefreshToken struct {
	gorm.Model
	UserID uint   `json:"userID" gorm:"not null;index"`
	Token  string `json:"-" gorm:"uniqueIndex;size:512"`
}
