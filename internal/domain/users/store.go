package users

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ErrNotFound is returned by Store lookups when no user matches.
var ErrNotFound = errors.New("user not found")

// Store is the narrow persistence surface the billing reducer consumes:
// two point reads and a merge-write of selected columns. Nothing else
// in this package touches transactions or batch writes.
type Store interface {
	FindByID(id uint) (*User, error)
	FindByStripeCustomerID(customerID string) (*User, error)
	ApplyPatch(id uint, patch map[string]interface{}) error
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) FindByID(id uint) (*User, error) {
	var user User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// FindByStripeCustomerID resolves the provider customer id to a user.
// The column carries a unique index, but if two users ever end up
// sharing one customer the first row wins and the conflict is logged;
// reconciliation is not attempted here.
func (s *GormStore) FindByStripeCustomerID(customerID string) (*User, error) {
	var matches []User
	if err := s.db.Where("stripe_customer_id = ?", customerID).Limit(2).Find(&matches).Error; err != nil {
		return nil, fmt.Errorf("find user by stripe customer: %w", err)
	}
	if len(matches) == 0 {
		return nil, ErrNotFound
	}
	if len(matches) > 1 {
		log.Warn().
			Str("stripe_customer_id", customerID).
			Uint("user_id", matches[0].ID).
			Msg("multiple users share one stripe customer id, using first match")
	}
	return &matches[0], nil
}

// ApplyPatch merge-writes the given columns, leaving all others
// untouched. updated_at is maintained by gorm.
func (s *GormStore) ApplyPatch(id uint, patch map[string]interface{}) error {
	if err := s.db.Model(&User{}).Where("id = ?", id).Updates(patch).Error; err != nil {
		return fmt.Errorf("patch user %d: %w", id, err)
	}
	return nil
}
