package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/adminpanel/identity-api/internal/core/domain"
	"github.com/adminpanel/identity-api/internal/core/ports"
)

type userModel struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Email        string    `gorm:"size:180;not null;uniqueIndex"`
	Username     string    `gorm:"size:180;not null;uniqueIndex"`
	PasswordHash string    `gorm:"not null"`
	FirstName    string    `gorm:"size:100"`
	LastName     string    `gorm:"size:100"`
	Roles        []string  `gorm:"serializer:json;not null"`
	IsActive     bool      `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null;index;autoCreateTime:false"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (userModel) TableName() string { return "users" }

func toModel(u *domain.User) *userModel {
	return &userModel{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Roles:        domain.NormalizeRoles(u.Roles),
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (m *userModel) toDomain() *domain.User {
	return &domain.User{
		ID:           m.ID,
		Email:        m.Email,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Roles:        domain.NormalizeRoles(m.Roles),
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

// UserRepository implements ports.UserRepository with gorm.
type UserRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db, now: time.Now}
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username = ?", username)
}

func (r *UserRepository) Save(ctx context.Context, user *domain.User) error {
	db := r.db.WithContext(ctx)

	if user.ID == 0 {
		exists, err := r.exists(ctx, "email = ?", user.Email)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrDuplicateEmail
		}

		user.Touch(r.now().UTC())
		m := toModel(user)
		if err := db.Create(m).Error; err != nil {
			return translate("insert user", err)
		}
		user.ID = m.ID
		return nil
	}

	user.Touch(r.now().UTC())
	m := toModel(user)
	res := db.Model(&userModel{ID: user.ID}).Select("*").Omit("id").Updates(m)
	if res.Error != nil {
		return translate("update user", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, user *domain.User) error {
	res := r.db.WithContext(ctx).Delete(&userModel{}, user.ID)
	if res.Error != nil {
		return fmt.Errorf("delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

var sortColumns = map[string]string{
	ports.SortByID:        "id",
	ports.SortByEmail:     "email",
	ports.SortByUsername:  "username",
	ports.SortByCreatedAt: "created_at",
}

func (r *UserRepository) FindAll(ctx context.Context, sort ports.SortOption) ([]*domain.User, error) {
	q := r.db.WithContext(ctx)
	if col, ok := sortColumns[sort.Field]; ok {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: sort.Desc})
	}

	var models []userModel
	if err := q.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}

	users := make([]*domain.User, 0, len(models))
	for i := range models {
		users = append(users, models[i].toDomain())
	}
	return users, nil
}

func (r *UserRepository) first(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	var m userModel
	err := r.db.WithContext(ctx).Where(query, arg).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return m.toDomain(), nil
}

func (r *UserRepository) exists(ctx context.Context, query string, arg interface{}) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&userModel{}).Where(query, arg).Limit(1).Count(&n).Error; err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

func translate(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicateKey
	}
	return fmt.Errorf("%s: %w", op, err)
}
