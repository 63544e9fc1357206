package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Permission is an atomic capability key (e.g. financial_approve).
type Permission struct {
	gorm.Model
	Name     string `gorm:"uniqueIndex;type:varchar(64);not null;comment:permission key"`
	Describe string `gorm:"type:text;comment:what the key allows"`
}

// Role is a named bundle of permission keys. Users reference a role row;
// a role referenced by any user cannot be deleted.
type Role struct {
	gorm.Model
	Name        string       `gorm:"uniqueIndex;type:varchar(32);not null;comment:role name"`
	Permissions []Permission `gorm:"many2many:role_permissions"`
}

// Optional fields for user
type UserAttribute struct {
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Avatar string `json:"avatar"`
}

// User is the basic entity of the system
type User struct {
	gorm.Model
	Name     string  `gorm:"uniqueIndex;type:varchar(64);not null;comment:login name"`
	Nickname string  `gorm:"type:varchar(64);comment:display name"`
	Password *string `gorm:"type:varchar(256);comment:bcrypt hash"`
	RoleID   uint    `gorm:"not null;comment:global role"`
	Role     Role
	// Owner marks the super admin. Owner together with the admin role
	// bypasses every permission check.
	Owner bool `gorm:"not null;default:false;comment:super admin flag"`

	// Permissions are granted directly to the user, on top of the role bundle.
	Permissions []Permission `gorm:"many2many:user_permissions"`

	Attributes  datatypes.JSONType[UserAttribute] `gorm:"comment:extra attributes (email, phone, avatar)"`
	Assignments []PersonnelAssignment
}
