package repository

import (
	"github.com/sdgmon/portal-go/internal/domain/user"
	"gorm.io/gorm"
)

type UserRepo interface {
	GetAllUsers() ([]user.User, error)
	GetUserByEmail(email string) (user.User, error)
	GetUserByID(id uint) (user.User, error)
	FindActiveByRole(role user.Role) ([]user.User, error)
	SaveUser(user *user.User) error
	DeleteUser(id uint) error
	WithTx(tx *gorm.DB) UserRepo
}

type DBUserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *DBUserRepo {
	return &DBUserRepo{db: db}
}

func (r *DBUserRepo) GetAllUsers() ([]user.User, error) {
	var users []user.User
	if err := r.db.Order("u_id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *DBUserRepo) GetUserByEmail(email string) (user.User, error) {
	var u user.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		return u, err
	}
	return u, nil
}

func (r *DBUserRepo) GetUserByID(id uint) (user.User, error) {
	var u user.User
	if err := r.db.First(&u, id).Error; err != nil {
		return u, err
	}
	return u, nil
}

// FindActiveByRole returns the pool the assignment service picks from, in a
// fixed order so tie-breaks are deterministic.
func (r *DBUserRepo) FindActiveByRole(role user.Role) ([]user.User, error) {
	var users []user.User
	err := r.db.Where("role = ? AND is_active = ?", role, true).Order("u_id").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *DBUserRepo) SaveUser(u *user.User) error {
	return r.db.Save(u).Error
}

func (r *DBUserRepo) DeleteUser(id uint) error {
	return r.db.Delete(&user.User{}, id).Error
}

func (r *DBUserRepo) WithTx(tx *gorm.DB) UserRepo {
	if tx == nil {
		return r
	}
	return &DBUserRepo{db: tx}
}
