// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package inventory

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/canonical/inventory-service/internal/types"
)

// maxPrice bounds prices to what a NUMERIC(14, 2) column holds, the
// firestore documents are read back at the same scale.
var maxPrice = decimal.New(1, 12)

// priceProblem describes why a price cannot be stored as is, it is empty for
// a valid price.
func priceProblem(p decimal.Decimal) string {
	switch {
	case p.IsNegative():
		return "must not be negative"
	case !p.Equal(p.Round(2)):
		return "must have at most 2 decimal places"
	case p.GreaterThanOrEqual(maxPrice):
		return fmt.Sprintf("must be less than %s", maxPrice)
	}
	return ""
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// a NullDecimal counts as present only when it carries a value
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.NullDecimal); ok && d.Valid {
			return d.Decimal.String()
		}
		return nil
	}, decimal.NullDecimal{})

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// validateBatch rejects malformed numbers anywhere in the batch, nothing is
// written when it fails.
func validateBatch(items []*types.IncomingItem) error {
	verr := new(types.ValidationError)

	for i, item := range items {
		if item == nil {
			verr.Fields = append(verr.Fields, types.FieldError{Field: fmt.Sprintf("items[%d]", i), Message: "must be an object"})
			continue
		}
		if item.Quantity != nil && *item.Quantity < 0 {
			verr.Fields = append(verr.Fields, types.FieldError{Field: fmt.Sprintf("items[%d].quantity", i), Message: "must not be negative"})
		}
		if item.Price.Valid {
			if msg := priceProblem(item.Price.Decimal); msg != "" {
				verr.Fields = append(verr.Fields, types.FieldError{Field: fmt.Sprintf("items[%d].price", i), Message: msg})
			}
		}
	}

	if len(verr.Fields) > 0 {
		return verr
	}

	return nil
}

// validateItem reports the missing required fields of a single item.
func (s *Service) validateItem(item *types.IncomingItem) error {
	trimmed := *item
	key := item.Key()
	trimmed.Name, trimmed.Supplier, trimmed.Category = key.Name, key.Supplier, key.Category

	err := s.validate.Struct(&trimmed)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := new(types.ValidationError)
	for _, fe := range verrs {
		out.Fields = append(out.Fields, types.FieldError{Field: fe.Field(), Message: "is required"})
	}

	return out
}

func validateUpdate(update *types.ItemUpdate) error {
	verr := new(types.ValidationError)

	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		verr.Fields = append(verr.Fields, types.FieldError{Field: "name", Message: "must not be empty"})
	}
	if update.Supplier != nil && strings.TrimSpace(*update.Supplier) == "" {
		verr.Fields = append(verr.Fields, types.FieldError{Field: "supplier", Message: "must not be empty"})
	}
	if update.Quantity != nil && *update.Quantity < 0 {
		verr.Fields = append(verr.Fields, types.FieldError{Field: "quantity", Message: "must not be negative"})
	}
	if update.SoldCount != nil && *update.SoldCount < 0 {
		verr.Fields = append(verr.Fields, types.FieldError{Field: "soldCount", Message: "must not be negative"})
	}
	if update.Price.Valid {
		if msg := priceProblem(update.Price.Decimal); msg != "" {
			verr.Fields = append(verr.Fields, types.FieldError{Field: "price", Message: msg})
		}
	}

	if len(verr.Fields) > 0 {
		return verr
	}

	return nil
}
