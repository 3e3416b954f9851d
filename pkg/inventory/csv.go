// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package inventory

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/canonical/inventory-service/internal/types"
)

const (
	columnName        = "Item Name"
	columnDescription = "Description"
	columnCategory    = "Category"
	columnQuantity    = "Quantity"
	columnPrice       = "Price"
	columnSupplier    = "Supplier"
)

var requiredColumns = []string{columnName, columnDescription, columnCategory, columnQuantity, columnPrice, columnSupplier}

// ParseCSV turns an uploaded sheet into incoming items. Empty cells are kept
// as missing values, malformed numbers fail the whole sheet.
func ParseCSV(r io.Reader) ([]*types.IncomingItem, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, types.NewValidationError("file", "file is empty")
	}
	if err != nil {
		return nil, types.NewValidationError("file", "invalid csv: %v", err)
	}

	columns := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		columns[strings.TrimSpace(h)] = i
	}

	missing := make([]string, 0)
	for _, c := range requiredColumns {
		if _, ok := columns[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, types.NewValidationError("file", "missing required columns: %s", strings.Join(missing, ", "))
	}

	items := make([]*types.IncomingItem, 0)
	verr := new(types.ValidationError)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, types.NewValidationError("file", "invalid csv: %v", err)
		}

		// quoted cells may span lines, report where the record starts
		line, _ := reader.FieldPos(0)

		cell := func(name string) string {
			if i := columns[name]; i < len(record) {
				return strings.TrimSpace(record[i])
			}
			return ""
		}

		if blank(record) {
			continue
		}

		item := &types.IncomingItem{
			Name:        cell(columnName),
			Description: cell(columnDescription),
			Category:    cell(columnCategory),
			Supplier:    cell(columnSupplier),
		}

		if raw := cell(columnQuantity); raw != "" {
			q, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				verr.Fields = append(verr.Fields, types.FieldError{Field: fmt.Sprintf("row %d %s", line, columnQuantity), Message: fmt.Sprintf("%q is not a whole number", raw)})
			} else {
				item.Quantity = &q
			}
		}

		if raw := cell(columnPrice); raw != "" {
			p, err := decimal.NewFromString(raw)
			if err != nil {
				verr.Fields = append(verr.Fields, types.FieldError{Field: fmt.Sprintf("row %d %s", line, columnPrice), Message: fmt.Sprintf("%q is not a number", raw)})
			} else {
				item.Price = decimal.NewNullDecimal(p)
			}
		}

		items = append(items, item)
	}

	if len(verr.Fields) > 0 {
		return nil, verr
	}

	return items, nil
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
