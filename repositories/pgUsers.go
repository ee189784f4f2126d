package repositories

import (
	"context"
	"errors"
	"fmt"

	"hotel-server/db"
	"hotel-server/entities"

	"gorm.io/gorm"
)

type userPgRepository struct {
	db db.Database
}

func NewUserPgRepository(database db.Database) UserRepository {
	return &userPgRepository{db: database}
}

func (r *userPgRepository) Create(ctx context.Context, user *entities.User) error {
	if err := r.db.GetDB().WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *userPgRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*entities.User, error) {
	var user entities.User
	err := r.db.GetDB().WithContext(ctx).
		Where("email = ? OR username = ?", email, username).
		First(&user).Error
	if err != nil {
		return nil, wrapLookup("find user", err)
	}
	return &user, nil
}

func (r *userPgRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	var user entities.User
	err := r.db.GetDB().WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, wrapLookup("find user", err)
	}
	return &user, nil
}

func (r *userPgRepository) UpdateToken(ctx context.Context, id, token string) error {
	res := r.db.GetDB().WithContext(ctx).Model(&entities.User{}).Where("id = ?", id).Update("token", token)
	if res.Error != nil {
		return fmt.Errorf("update token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func wrapLookup(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
