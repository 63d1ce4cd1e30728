package normalizer

import (
	"errors"
	"strings"

	"storefront/internal/models"
)

// Validation errors.
var (
	ErrMalformedRecord   = errors.New("malformed upstream record")
	ErrMissingIdentifier = errors.New("record has no identifier")
	ErrMissingName       = errors.New("record has no name")
	ErrMissingPrice      = errors.New("record has no parseable price")
)

// Validator classifies raw records before transformation.
type Validator struct{}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate returns nil for a complete record. Recoverable problems return an error
// for which Recoverable reports true; the record is still normalized with defaults.
func (v *Validator) Validate(raw *models.RawProduct) error {
	base := raw.Base()

	if raw.Malformed || base == nil {
		if strings.TrimSpace(raw.RecoveredID) == "" {
			return ErrMissingIdentifier
		}

		return ErrMalformedRecord
	}

	// A record without id or databaseId cannot be linked or looked up again,
	// so it is dropped even when its other fields are complete.
	if strings.TrimSpace(base.ID) == "" && base.DatabaseID <= 0 {
		return ErrMissingIdentifier
	}

	if strings.TrimSpace(base.Name) == "" {
		return ErrMissingName
	}

	if LowestPrice(firstNonEmpty(base.Price, base.SalePrice, base.RegularPrice)) <= 0 &&
		raw.Variable == nil && raw.Grouped == nil {
		return ErrMissingPrice
	}

	return nil
}

// Recoverable reports whether a record failing with err can still be normalized.
func Recoverable(err error) bool {
	return err == nil || !errors.Is(err, ErrMissingIdentifier)
}
