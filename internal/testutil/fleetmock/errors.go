package fleetmock

import (
	"fmt"

	"fleet-schedule-backend/internal/domain"
)

var notFound = fmt.Errorf("fleetmock: %w", domain.ErrNotFound)
