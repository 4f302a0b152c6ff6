package categories

import (
	"fmt"
	"strings"

	"github.com/odyssey-erp/itstock/internal/shared"
)

// ErrNameRequired is returned when a blank label is submitted over the API.
var ErrNameRequired = fmt.Errorf("categories: name is required: %w", shared.ErrValidation)

// ErrConfirmationRequired guards destructive removal.
var ErrConfirmationRequired = fmt.Errorf("categories: removal must be confirmed: %w", shared.ErrValidation)

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}
	return nil
}
