// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/canonical/inventory-service/internal/types"
)

var itemColumns = []string{
	"id", "tenant_id", "name", "supplier", "category", "description",
	"quantity", "price", "sold_count", "price_diff", "price_change",
	"added_at", "updated_at", "added_by", "updated_by",
}

// ReconcileItem runs the find-merge-write cycle for one natural key under a
// per key advisory lock, concurrent ingestions of the same key are applied one
// after the other instead of overwriting each other.
func (s *Storage) ReconcileItem(ctx context.Context, tenantID string, key types.NaturalKey, merge types.MergeFunc) (*types.InventoryItem, bool, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.ReconcileItem")
	defer span.End()

	var (
		result  *types.InventoryItem
		created bool
	)

	err := s.db.WithTx(ctx, func(ctx context.Context) error {
		if err := s.db.LockKey(ctx, key.Hash(tenantID)); err != nil {
			return err
		}

		existing, err := s.findByNaturalKey(ctx, tenantID, key)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}

		next := merge(existing)
		next.TenantID = tenantID

		if existing == nil {
			created = true
			result, err = s.insertItem(ctx, next)
			return err
		}

		next.ID = existing.ID
		result, err = s.writeItem(ctx, next)
		return err
	})

	if err != nil {
		return nil, false, err
	}

	return result, created, nil
}

// findByNaturalKey locks the oldest row carrying the key, the unique index
// makes it the only one.
func (s *Storage) findByNaturalKey(ctx context.Context, tenantID string, key types.NaturalKey) (*types.InventoryItem, error) {
	item, err := scanItem(
		s.db.Statement(ctx).
			Select(itemColumns...).
			From("inventory_items").
			Where(sq.Eq{
				"tenant_id": tenantID,
				"name":      key.Name,
				"supplier":  key.Supplier,
				"category":  key.Category,
			}).
			OrderBy("added_at ASC", "id ASC").
			Limit(1).
			Suffix("FOR UPDATE").
			QueryRowContext(ctx),
	)

	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find item by natural key: %w", err)
	}

	return item, nil
}

func (s *Storage) insertItem(ctx context.Context, item *types.InventoryItem) (*types.InventoryItem, error) {
	if item.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate item ID: %w", err)
		}
		item.ID = id.String()
	}

	_, err := s.db.Statement(ctx).
		Insert("inventory_items").
		Columns(itemColumns...).
		Values(itemValues(item)...).
		ExecContext(ctx)

	if err != nil {
		return nil, writeError(err, "inventory item", "insert item")
	}

	item.HasPrice = true
	return item, nil
}

func (s *Storage) writeItem(ctx context.Context, item *types.InventoryItem) (*types.InventoryItem, error) {
	_, err := s.db.Statement(ctx).
		Update("inventory_items").
		SetMap(map[string]interface{}{
			"name":         item.Name,
			"supplier":     item.Supplier,
			"category":     item.Category,
			"description":  item.Description,
			"quantity":     item.Quantity,
			"price":        item.Price,
			"sold_count":   item.SoldCount,
			"price_diff":   item.PriceDiff,
			"price_change": string(item.PriceChange),
			"updated_at":   item.UpdatedAt,
			"updated_by":   item.UpdatedBy,
		}).
		Where(sq.Eq{"id": item.ID, "tenant_id": item.TenantID}).
		ExecContext(ctx)

	if err != nil {
		return nil, writeError(err, "inventory item", "update item")
	}

	item.HasPrice = true
	return item, nil
}

func (s *Storage) GetItem(ctx context.Context, tenantID, id string) (*types.InventoryItem, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.GetItem")
	defer span.End()

	return s.getItem(ctx, tenantID, id, false)
}

func (s *Storage) getItem(ctx context.Context, tenantID, id string, forUpdate bool) (*types.InventoryItem, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}

	query := s.db.Statement(ctx).
		Select(itemColumns...).
		From("inventory_items").
		Where(sq.Eq{"id": id, "tenant_id": tenantID})

	if forUpdate {
		query = query.Suffix("FOR UPDATE")
	}

	item, err := scanItem(query.QueryRowContext(ctx))
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return item, nil
}

func (s *Storage) ListItems(ctx context.Context, tenantID string) ([]*types.InventoryItem, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.ListItems")
	defer span.End()

	return s.listItems(ctx, sq.Eq{"tenant_id": tenantID}, "added_at ASC", "id ASC")
}

func (s *Storage) ListItemsInWindow(ctx context.Context, tenantID string, start, end time.Time) ([]*types.InventoryItem, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.ListItemsInWindow")
	defer span.End()

	where := sq.And{
		sq.Eq{"tenant_id": tenantID},
		sq.Or{
			sq.And{sq.GtOrEq{"added_at": start}, sq.Lt{"added_at": end}},
			sq.And{sq.GtOrEq{"updated_at": start}, sq.Lt{"updated_at": end}},
		},
	}

	return s.listItems(ctx, where, "updated_at DESC", "id ASC")
}

func (s *Storage) ListLowStock(ctx context.Context, tenantID string, threshold int64) ([]*types.InventoryItem, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.ListLowStock")
	defer span.End()

	where := sq.And{
		sq.Eq{"tenant_id": tenantID},
		sq.Lt{"quantity": threshold},
	}

	return s.listItems(ctx, where, "quantity ASC", "name ASC")
}

func (s *Storage) listItems(ctx context.Context, where sq.Sqlizer, orderBy ...string) ([]*types.InventoryItem, error) {
	rows, err := s.db.Statement(ctx).
		Select(itemColumns...).
		From("inventory_items").
		Where(where).
		OrderBy(orderBy...).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items := make([]*types.InventoryItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return items, nil
}

// UpdateItem applies a direct modification to the item, a change that makes
// it collide with another item's natural key fails with ErrDuplicateKey.
func (s *Storage) UpdateItem(ctx context.Context, tenantID, id string, apply func(*types.InventoryItem) error) (*types.InventoryItem, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.UpdateItem")
	defer span.End()

	var result *types.InventoryItem

	err := s.db.WithTx(ctx, func(ctx context.Context) error {
		item, err := s.getItem(ctx, tenantID, id, true)
		if err != nil {
			return err
		}

		if err := apply(item); err != nil {
			return err
		}

		result, err = s.writeItem(ctx, item)
		return err
	})

	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *Storage) DeleteItem(ctx context.Context, tenantID, id string) error {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.DeleteItem")
	defer span.End()

	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}

	res, err := s.db.Statement(ctx).
		Delete("inventory_items").
		Where(sq.Eq{"id": id, "tenant_id": tenantID}).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	return expectAffected(res)
}

func itemValues(i *types.InventoryItem) []interface{} {
	return []interface{}{
		i.ID, i.TenantID, i.Name, i.Supplier, i.Category, i.Description,
		i.Quantity, i.Price, i.SoldCount, i.PriceDiff, string(i.PriceChange),
		i.AddedAt, i.UpdatedAt, i.AddedBy, i.UpdatedBy,
	}
}

func scanItem(row sq.RowScanner) (*types.InventoryItem, error) {
	var i types.InventoryItem
	var priceChange string

	err := row.Scan(
		&i.ID, &i.TenantID, &i.Name, &i.Supplier, &i.Category, &i.Description,
		&i.Quantity, &i.Price, &i.SoldCount, &i.PriceDiff, &priceChange,
		&i.AddedAt, &i.UpdatedAt, &i.AddedBy, &i.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}

	i.PriceChange = types.PriceChange(priceChange)
	i.HasPrice = true

	return &i, nil
}
