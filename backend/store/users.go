package store

import (
	"context"
	"errors"
	"fmt"

	"quizmaster/backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// UpdateProfileParams lists the optional profile changes. Nil fields are left
// as they are.
type UpdateProfileParams struct {
	Email *string
	Name  *string
}

// UserStore persists User rows. Email uniqueness is enforced by the unique
// index, not by a prior lookup.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	err := s.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrEmailTaken
	}
	return err
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return findByEmail(s.db.WithContext(ctx), email)
}

// UpsertGoogleUser returns the user for a verified Google identity, creating
// a passwordless row on first sight. An existing name is never replaced; a
// missing one is filled from name.
func (s *UserStore) UpsertGoogleUser(ctx context.Context, email, name string) (*models.User, bool, error) {
	var (
		user    *models.User
		created bool
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inserted, err := insertIfAbsent(tx, &models.User{Email: email, Name: &name})
		if err != nil {
			return err
		}
		created = inserted

		user, err = findByEmail(tx, email)
		if err != nil {
			return err
		}

		if !user.HasName() {
			user.Name = &name
			return tx.Model(user).Update("name", name).Error
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return user, created, nil
}

// UpdateProfile applies params to the user identified by email.
func (s *UserStore) UpdateProfile(ctx context.Context, email string, params UpdateProfileParams) (*models.User, error) {
	var user *models.User

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		user, err = findByEmail(tx, email)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if params.Email != nil && *params.Email != user.Email {
			var others int64
			if err := tx.Model(&models.User{}).
				Where("email = ? AND id <> ?", *params.Email, user.ID).
				Count(&others).Error; err != nil {
				return err
			}
			if others > 0 {
				return ErrEmailTaken
			}
			updates["email"] = *params.Email
		}
		if params.Name != nil {
			updates["name"] = *params.Name
		}
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(user).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailTaken
			}
			return err
		}

		if params.Email != nil {
			user.Email = *params.Email
		}
		if params.Name != nil {
			name := *params.Name
			user.Name = &name
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the user and every attempt it owns.
func (s *UserStore) Delete(ctx context.Context, email string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := findByEmail(tx, email)
		if err != nil {
			return err
		}
		// Select("Attempts") deletes the children even where the database
		// does not enforce ON DELETE CASCADE.
		return tx.Select("Attempts").Delete(user).Error
	})
}

func findByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// insertIfAbsent inserts user unless its email exists. It does not abort the
// surrounding transaction on conflict.
func insertIfAbsent(tx *gorm.DB, user *models.User) (bool, error) {
	result := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}).Create(user)
	if result.Error != nil {
		return false, fmt.Errorf("insert user: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
