package models

import "gorm.io/gorm"

type Review struct {
	gorm.Model
	GuestID    uint   `json:"guestID" gorm:"not null;uniqueIndex:idx_review_property_guest"`
	PropertyID uint   `json:"propertyID" gorm:"not null;uniqueIndex:idx_review_property_guest"`
	Stars      int    `json:"stars" gorm:"not null;check:stars >= 1 AND stars <= 5"`
	Comment    string `json:"comment" gorm:"size:512"`

	Guest    *User     `json:"guest,omitempty" gorm:"foreignKey:GuestID"`
	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
}
