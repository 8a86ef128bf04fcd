package model

import (
	"errors"
	"time"
)

// UserModel 用户数据模型
// 提交人/审核人外键的参考数据,账号管理不在本服务范围内
type UserModel struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName string    `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName  string    `gorm:"type:varchar(100);not null" json:"last_name"`
	Email     string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Role      string    `gorm:"type:varchar(64);not null;index" json:"role"`
	IsActive  bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// FullName 用户全名
func (um *UserModel) FullName() string {
	return um.FirstName + " " + um.LastName
}

// Validate 验证用户模型
func (um *UserModel) Validate() error {
	if um.Email == "" {
		return errors.New("user email is required")
	}
	if um.Role == "" {
		return errors.New("user role is required")
	}
	return nil
}
