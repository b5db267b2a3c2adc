package services

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"stagebook/internal/common"

	"github.com/shopspring/decimal"
)

func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return common.NewValidationError(field, "is required")
	}
	return nil
}

func oneOf(field, value string, allowed []string) error {
	if !slices.Contains(allowed, value) {
		return common.NewValidationError(field, "must be one of: "+strings.Join(allowed, ", "))
	}
	return nil
}

func optionalClock(field string, value *string) error {
	if value != nil && !common.IsClock(*value) {
		return common.NewValidationError(field, "must be a time in HH:MM format")
	}
	return nil
}

func nonNegativeInt(field string, value *int) error {
	if value != nil && *value < 0 {
		return common.NewValidationError(field, "cannot be negative")
	}
	return nil
}

func nonNegativeMoney(field string, value *decimal.Decimal) error {
	if value == nil {
		return nil
	}
	if value.IsNegative() {
		return common.NewValidationError(field, "cannot be negative")
	}
	if value.Exponent() < -2 && !value.Equal(value.Round(2)) {
		return common.NewValidationError(field, "cannot have more than two decimal places")
	}
	return nil
}

// jsonShape checks raw is a JSON value opening with open ('{' or '['). JSON null collapses to nil.
func jsonShape(field string, raw json.RawMessage, open byte) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}
	if !json.Valid(raw) || trimmed[0] != open {
		kind := "an object"
		if open == '[' {
			kind = "an array"
		}
		return nil, common.NewValidationError(field, fmt.Sprintf("must be %s", kind))
	}
	return raw, nil
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
