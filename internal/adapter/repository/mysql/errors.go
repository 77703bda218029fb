package mysql

import (
	"errors"

	"fleet-schedule-backend/internal/domain"

	"gorm.io/gorm"
)

// notFound maps gorm's miss onto the domain sentinel so callers above the
// adapter never import gorm.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
