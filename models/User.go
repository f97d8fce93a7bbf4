package models

import (
	"gorm.io/gorm"
)

const (
	RoleGuest = "guest"
	RoleHost  = "host"
	RoleAdmin = "admin"
)

type User struct {
	gorm.Model
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email" gorm:"uniqueIndex"`
	Password    string `json:"-"`
	PhoneNumber string `json:"phoneNumber"`
	AvatarURL   string `json:"avatarURL"`
	Role        string `json:"role" gorm:"type:varchar(20);default:guest;index"` // guest, host, admin
	IsActive    *bool  `json:"isActive" gorm:"default:true"`                     // false when blocked by an admin

	Properties    []Property     `json:"properties,omitempty" gorm:"foreignKey:HostID;references:ID;constraint:OnDelete:CASCADE"`
	Bookings      []Booking      `json:"bookings,omitempty" gorm:"foreignKey:GuestID;references:ID;constraint:OnDelete:CASCADE"`
	Reviews       []Review       `json:"reviews,omitempty" gorm:"foreignKey:GuestID;references:ID;constraint:OnDelete:CASCADE"`
	RefreshTokens []RefreshToken `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}
