package models

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Phone        string    `gorm:"uniqueIndex;not null" json:"phone"`
	PasswordHash string    `gorm:"not null" json:"-"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	HNNumber     string    `gorm:"column:hn_number" json:"hn_number,omitempty"`
	Temple       string    `json:"temple,omitempty"`
	Email        string    `json:"email,omitempty"`
	Consent      bool      `gorm:"not null;default:false" json:"consent"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	BloodPressureRecords []BloodPressureRecord `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	BloodSugarRecords    []BloodSugarRecord    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// FullName joins the optional name parts, skipping empty ones.
func (user User) FullName() string {
	switch {
	case user.FirstName == "":
		return user.LastName
	case user.LastName == "":
		return user.FirstName
	default:
		return user.FirstName + " " + user.LastName
	}
}
