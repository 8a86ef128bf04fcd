package repository

import (
	"github.com/mautops/election-gin/internal/model"
	"gorm.io/gorm"
)

// UserRepository 用户仓储接口
type UserRepository interface {
	Save(user *model.UserModel) error
	FindByID(id int) (*model.UserModel, error)
	FindByEmail(email string) (*model.UserModel, error)
	FindAll() ([]*model.UserModel, error)
	FindByRole(role string) ([]*model.UserModel, error)
}

// userRepository 用户仓储实现
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Save 保存用户
func (r *userRepository) Save(user *model.UserModel) error {
	return r.db.Save(user).Error
}

// FindByID 根据 ID 查找用户
func (r *userRepository) FindByID(id int) (*model.UserModel, error) {
	var user model.UserModel
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail 根据邮箱查找用户
func (r *userRepository) FindByEmail(email string) (*model.UserModel, error) {
	var user model.UserModel
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindAll 查找所有用户
func (r *userRepository) FindAll() ([]*model.UserModel, error) {
	var users []*model.UserModel
	err := r.db.Order("last_name ASC, first_name ASC").Find(&users).Error
	return users, err
}

// FindByRole 根据角色查找用户
func (r *userRepository) FindByRole(role string) ([]*model.UserModel, error) {
	var users []*model.UserModel
	err := r.db.Where("role = ? AND is_active = ?", role, true).
		Order("last_name ASC, first_name ASC").
		Find(&users).Error
	return users, err
}
