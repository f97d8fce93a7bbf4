package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Property struct {
	gorm.Model
	HostID       uint           `json:"hostID" gorm:"index"`
	Title        string         `json:"title" gorm:"size:64"`
	Description  string         `json:"description" gorm:"type:text"`
	City         string         `json:"city" gorm:"index"`
	Address      string         `json:"address"`
	PropertyType string         `json:"propertyType" gorm:"type:varchar(20);default:'apartment'"` // apartment, house, studio
	Rules        string         `json:"rules" gorm:"type:varchar(30);default:'pets_allowed'"`     // no_smoking, pets_allowed
	NightlyPrice float64        `json:"nightlyPrice"`
	MaxGuests    int            `json:"maxGuests"`
	Bedrooms     int            `json:"bedrooms"`
	Bathrooms    int            `json:"bathrooms"`
	Amenities    datatypes.JSON `json:"amenities"`
	IsActive     *bool          `json:"isActive" gorm:"default:true"`
	IsApproved   *bool          `json:"isApproved" gorm:"default:false;index"` // admin moderation flag

	Host     *User           `json:"host,omitempty" gorm:"foreignKey:HostID;references:ID"`
	Images   []PropertyImage `json:"images,omitempty" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
	Bookings []Booking       `json:"bookings,omitempty" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
	Reviews  []Review        `json:"reviews,omitempty" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
}
