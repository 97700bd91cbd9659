package entity

import "time"

// User roles
const (
	RoleSuperAdmin       = "super_admin"
	RoleBrandAdmin       = "brand_admin"
	RoleBrandUser        = "brand_user"
	RoleDistributorAdmin = "distributor_admin"
	RoleDistributorUser  = "distributor_user"
	RoleManufacturer     = "manufacturer"
)

// User statuses
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User is a portal account scoped to a brand and/or distributor.
type User struct {
	ID            string     `json:"id" gorm:"primaryKey;size:36"`
	Email         string     `json:"email" gorm:"size:200;not null;uniqueIndex"`
	Name          string     `json:"name" gorm:"size:200;not null"`
	Role          string     `json:"role" gorm:"size:32;not null;default:brand_user"`
	BrandID       *string    `json:"brand_id" gorm:"size:36;index"`
	DistributorID *string    `json:"distributor_id" gorm:"size:36;index"`
	Status        string     `json:"status" gorm:"size:20;not null;default:active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}
