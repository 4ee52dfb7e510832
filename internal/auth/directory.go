package auth

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yashwanthpalsu/YAR/internal/reminder"
)

// Directory resolves users to their verified contact fields. Unverified
// contacts come back empty, which the coordinator reads as "skip this
// channel".
type Directory struct {
	DB *gorm.DB
}

var _ reminder.Directory = (*Directory)(nil)

func (d *Directory) Contact(ctx context.Context, userID uint64) (reminder.Contact, error) {
	var u User
	if err := d.DB.WithContext(ctx).First(&u, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return reminder.Contact{}, fmt.Errorf("user %d not found", userID)
		}
		return reminder.Contact{}, fmt.Errorf("load user %d: %w", userID, err)
	}

	var c reminder.Contact
	if u.EmailVerified {
		c.Email = u.Email
	}
	if u.PhoneVerified && u.Phone != nil {
		c.Phone = *u.Phone
	}
	return c, nil
}
