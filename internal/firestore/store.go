// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package firestore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/monitoring"
	"github.com/canonical/inventory-service/internal/storage"
	"github.com/canonical/inventory-service/internal/tracing"
	"github.com/canonical/inventory-service/internal/types"
)

var _ storage.StorageInterface = (*Store)(nil)

// Store keeps every tenant under companies/{tenant} with users, inventory,
// inventoryKeys and tasks subcollections.
type Store struct {
	client *firestore.Client

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// NewClient opens a Firestore client, an empty credentials file falls back to
// application default credentials.
func NewClient(ctx context.Context, projectID, credentialsFile string) (*firestore.Client, error) {
	opts := []option.ClientOption{}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	return client, nil
}

func (s *Store) company(tenantID string) *firestore.DocumentRef {
	return s.client.Collection(colCompanies).Doc(tenantID)
}

func (s *Store) users(tenantID string) *firestore.CollectionRef {
	return s.company(tenantID).Collection(colUsers)
}

func (s *Store) inventory(tenantID string) *firestore.CollectionRef {
	return s.company(tenantID).Collection(colInventory)
}

func (s *Store) keys(tenantID string) *firestore.CollectionRef {
	return s.company(tenantID).Collection(colInventoryKeys)
}

func (s *Store) tasks(tenantID string) *firestore.CollectionRef {
	return s.company(tenantID).Collection(colTasks)
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func (s *Store) Ping(ctx context.Context) error {
	iter := s.client.Collection(colCompanies).Limit(1).Documents(ctx)
	defer iter.Stop()

	_, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		err = nil
	}

	available := 1.0
	if err != nil {
		available = 0
	}

	if merr := s.monitor.SetDependencyAvailability(map[string]string{"component": "firestore"}, available); merr != nil {
		s.logger.Debugf("failed to set dependency availability: %v", merr)
	}

	return err
}

func (s *Store) CreateTenant(ctx context.Context, t *types.Tenant) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "firestore.Store.CreateTenant")
	defer span.End()

	created := *t
	created.CreatedAt = time.Now().UTC()

	_, err := s.company(t.ID).Create(ctx, companyDoc{Name: t.Name, AdminID: t.AdminID, CreatedAt: created.CreatedAt})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil, fmt.Errorf("tenant: %w", storage.ErrDuplicateKey)
		}
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}

	return &created, nil
}

func (s *Store) GetTenant(ctx context.Context, id string) (*types.Tenant, error) {
	ctx, span := s.tracer.Start(ctx, "firestore.Store.GetTenant")
	defer span.End()

	snap, err := s.company(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	var d companyDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, fmt.Errorf("failed to decode tenant: %w", err)
	}

	return &types.Tenant{ID: id, Name: d.Name, AdminID: d.AdminID, CreatedAt: d.CreatedAt}, nil
}

func (s *Store) CreateUser(ctx context.Context, u *types.User) (*types.User, error) {
	ctx, span := s.tracer.Start(ctx, "firestore.Store.CreateUser")
	defer span.End()

	if _, err := s.GetUserByEmail(ctx, u.Email); err == nil {
		return nil, fmt.Errorf("user: %w", storage.ErrDuplicateKey)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	created := *u
	created.CreatedAt = time.Now().UTC()
	if created.Status == "" {
		created.Status = "active"
	}

	_, err := s.users(u.TenantID).Doc(u.ID).Create(ctx, userDoc{
		Email:     created.Email,
		FirstName: created.FirstName,
		LastName:  created.LastName,
		Role:      string(created.Role),
		Status:    created.Status,
		CreatedAt: created.CreatedAt,
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil, fmt.Errorf("user: %w", storage.ErrDuplicateKey)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &created, nil
}

// GetUser walks every company looking for the user document, the cost grows
// with the number of tenants.
func (s *Store) GetUser(ctx context.Context, id string) (*types.User, error) {
	ctx, span := s.tracer.Start(ctx, "firestore.Store.GetUser")
	defer span.End()

	if strings.TrimSpace(id) == "" {
		return nil, storage.ErrNotFound
	}

	refs := s.client.Collection(colCompanies).DocumentRefs(ctx)
	for {
		company, err := refs.Next()
		if errors.Is(err, iterator.Done) {
			return nil, storage.ErrNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list companies: %w", err)
		}

		snap, err := company.Collection(colUsers).Doc(id).Get(ctx)
		if isNotFound(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get user: %w", err)
		}

		var d userDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, fmt.Errorf("failed to decode user: %w", err)
		}

		return d.toUser(company.ID, id), nil
	}
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	ctx, span := s.tracer.Start(ctx, "firestore.Store.GetUserByEmail")
	defer span.End()

	iter := s.client.CollectionGroup(colUsers).
		Where("email", "==", strings.ToLower(strings.TrimSpace(email))).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}

	var d userDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}

	return d.toUser(snap.Ref.Parent.Parent.ID, snap.Ref.ID), nil
}

func (s *Store) ListUsers(ctx context.Context, tenantID string) ([]*types.User, error) {
	ctx, span := s.tracer.Start(ctx, "firestore.Store.ListUsers")
	defer span.End()

	snaps, err := s.users(tenantID).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*types.User, 0, len(snaps))
	for _, snap := range snaps {
		var d userDoc
		if err := snap.DataTo(&d); err != nil {
			s.logger.Warnf("skipping undecodable user %s: %v", snap.Ref.ID, err)
			continue
		}
		users = append(users, d.toUser(tenantID, snap.Ref.ID))
	}

	sort.SliceStable(users, func(a, b int) bool {
		if !users[a].CreatedAt.Equal(users[b].CreatedAt) {
			return users[a].CreatedAt.Before(users[b].CreatedAt)
		}
		return users[a].ID < users[b].ID
	})

	return users, nil
}

func (s *Store) UpdateUserRole(ctx context.Context, tenantID, userID string, role types.Role) error {
	ctx, span := s.tracer.Start(ctx, "firestore.Store.UpdateUserRole")
	defer span.End()

	_, err := s.users(tenantID).Doc(userID).Update(ctx, []firestore.Update{{Path: "role", Value: string(role)}})
	if err != nil {
		if isNotFound(err) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("failed to update user role: %w", err)
	}

	return nil
}

func (s *Store) DeleteUser(ctx context.Context, tenantID, userID string) error {
	ctx, span := s.tracer.Start(ctx, "firestore.Store.DeleteUser")
	defer span.End()

	if _, err := s.users(tenantID).Doc(userID).Delete(ctx, firestore.Exists); err != nil {
		if isNotFound(err) {
			return storage.ErrNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

// ReconcileItem reads and writes the natural key index document in the same
// transaction as the item, concurrent writers of one key make the SDK retry.
func (s *Store) ReconcileItem(ctx context.Context, tenantID string, key types.NaturalKey, merge types.MergeFunc) (*types.InventoryItem, bool, error) {
	ctx, span := s.tracer.Start(ctx, "firestore.Store.ReconcileItem")
	defer span.End()

	var (
		result  *types.InventoryItem
		created bool
	)

	keyRef := s.keys(tenantID).Doc(key.Hash(tenantID))

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := s.findByNaturalKey(tx, tenantID, key, keyRef)
		if err != nil {
			return err
		}

		next := merge(existing)
		next.TenantID = tenantID
		created = existing == nil

		if created {
			id, err := uuid.NewV7()
			if err != nil {
				return fmt.Errorf("failed to generate item ID: %w", err)
			}
			next.ID = id.String()
		} else {
			next.ID = existing.ID
		}

		if err := tx.Set(s.inventory(tenantID).Doc(next.ID), toItemDoc(next)); err != nil {
			return err
		}
		if err := tx.Set(keyRef, keyDoc{ItemID: next.ID}); err != nil {
			return err
		}

		next.HasPrice = true
		result = next
		return nil
	})

	if err != nil {
		return nil, false, fmt.Errorf("failed to reconcile item: %w", err)
	}

	return result, created, nil
}

// findByNaturalKey trusts the index document and falls back to a query for
// items written before the index existed.
func (s *Store) findByNaturalKey(tx *firestore.Transaction, tenantID string, key types.NaturalKey, keyRef *firestore.DocumentRef) (*types.InventoryItem, error) {
	idx, err := tx.Get(keyRef)
	if err != nil && !isNotFound(err) {
		return nil, err
	}

	if err == nil {
		var k keyDoc
		if err := idx.DataTo(&k); err != nil {
			return nil, err
		}

		snap, err := tx.Get(s.inventory(tenantID).Doc(k.ItemID))
		if err == nil {
			return decodeItem(tenantID, snap)
		}
		if !isNotFound(err) {
			return nil, err
		}
	}

	snaps, err := tx.Documents(
		s.inventory(tenantID).
			Where("name", "==", key.Name).
			Where("supplier", "==", key.Supplier).
			Where("category", "==", key.Category),
	).GetAll()
	if err != nil {
		return nil, err
	}

	if len(snaps) == 0 {
		return nil, nil
	}

	items := make([]*types.InventoryItem, 0, len(snaps))
	for _, snap := range snaps {
		item, err := decodeItem(tenantID, snap)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if len(items) > 1 {
		s.logger.Warnf("tenant %s holds %d items for one natural key, merging into the oldest", tenantID, len(items))
	}

	oldestFirst(items)
	return items[0], nil
}

func (s *Store) GetItem(ctx context.Context, tenantID, id string) (*types.InventoryItem, error) {
	ctx, span := s.tracer.Start(ctx, "firestore.Store.GetItem")
	defer span.End()

	if strings.TrimSpace(id) == "" {
		return nil, storage.ErrNotFound
	}

	snap, err := s.inventory(tenantID).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return decodeItem(tenantID, snap)
}

func (s *Store) ListItems(ctx context.Context, tenantID string) ([]*types.InventoryItem, error) {
	ctx, span := s.tracer.Start(ctx, "firestore.Store.ListItems")
	defer span.End()

	items, err := s.queryItems(ctx, tenantID, s.inventory(tenantID).Query)
	if err != nil {
		return nil, err
	}

	oldestFirst(items)
	return items, nil
}

func (s *Store) ListItemsInWindow(ctx context.Context, tenantID string, start, end time.Time) ([]*types.InventoryItem, error) {
	ctx, span := s.tracer.Start(ctx, "firestore.Store.ListItemsInWindow")
	defer span.End()

	col := s.inventory(tenantID)

	added, err := s.queryItems(ctx, tenantID, col.Where("addedAt", ">=", start).Where("addedAt", "<", end))
	if err != nil {
		return nil, err
	}

	updated, err := s.queryItems(ctx, tenantID, col.Where("updatedAt", ">=", start).Where("updatedAt", "<", end))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(added))
	items := make([]*types.InventoryItem, 0, len(added)+len(updated))
	for _, item := range append(added, updated...) {
		if seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		items = append(items, item)
	}

	sort.SliceStable(items, func(a, b int) bool {
		if !items[a].UpdatedAt.Equal(items[b].UpdatedAt) {
			return items[a].UpdatedAt.After(items[b].UpdatedAt)
		}
		return items[a].ID < items[b].ID
	})

	return items, nil
}

func (s *Store) ListLowStock(ctx context.Context, tenantID string, threshold int64) ([]*types.InventoryItem, error) {
	ctx, span := s.tracer.Start(ctx, "firestore.Store.ListLowStock")
	defer span.End()

	items, err := s.queryItems(ctx, tenantID, s.inventory(tenantID).Where("quantity", "<", threshold))
	if err != nil {
		return nil, err
	}

	sort.SliceStable(items, func(a, b int) bool {
		if items[a].Quantity != items[b].Quantity {
			return items[a].Quantity < items[b].Quantity
		}
		return items[a].Name < items[b].Name
	})

	return items, nil
}

func (s *Store) queryItems(ctx context.Context, tenantID string, q firestore.Query) ([]*types.InventoryItem, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	items := make([]*types.InventoryItem, 0)
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list items: %w", err)
		}

		item, err := decodeItem(tenantID, snap)
		if err != nil {
			s.logger.Warnf("skipping undecodable item %s: %v", snap.Ref.ID, err)
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

// UpdateItem moves the natural key index along with the item when the key changes.
func (s *Store) UpdateItem(ctx context.Context, tenantID, id string, apply func(*types.InventoryItem) error) (*types.InventoryItem, error) {
	ctx, span := s.tracer.Start(ctx, "firestore.Store.UpdateItem")
	defer span.End()

	if strings.TrimSpace(id) == "" {
		return nil, storage.ErrNotFound
	}

	var result *types.InventoryItem
	ref := s.inventory(tenantID).Doc(id)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if isNotFound(err) {
				return storage.ErrNotFound
			}
			return err
		}

		item, err := decodeItem(tenantID, snap)
		if err != nil {
			return err
		}

		oldKey := item.Key()
		if err := apply(item); err != nil {
			return err
		}
		newKey := item.Key()

		if oldKey != newKey {
			oldRef := s.keys(tenantID).Doc(oldKey.Hash(tenantID))
			newRef := s.keys(tenantID).Doc(newKey.Hash(tenantID))

			owner, err := s.keyOwner(tx, newRef)
			if err != nil {
				return err
			}
			if owner != "" && owner != id {
				return fmt.Errorf("inventory item: %w", storage.ErrDuplicateKey)
			}

			if err := tx.Delete(oldRef); err != nil {
				return err
			}
			if err := tx.Set(newRef, keyDoc{ItemID: id}); err != nil {
				return err
			}
		}

		if err := tx.Set(ref, toItemDoc(item)); err != nil {
			return err
		}

		item.HasPrice = true
		result = item
		return nil
	})

	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrDuplicateKey) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	return result, nil
}

func (s *Store) keyOwner(tx *firestore.Transaction, ref *firestore.DocumentRef) (string, error) {
	snap, err := tx.Get(ref)
	if isNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	var k keyDoc
	if err := snap.DataTo(&k); err != nil {
		return "", err
	}

	return k.ItemID, nil
}

func (s *Store) DeleteItem(ctx context.Context, tenantID, id string) error {
	ctx, span := s.tracer.Start(ctx, "firestore.Store.DeleteItem")
	defer span.End()

	if strings.TrimSpace(id) == "" {
		return storage.ErrNotFound
	}

	ref := s.inventory(tenantID).Doc(id)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if isNotFound(err) {
				return storage.ErrNotFound
			}
			return err
		}

		item, err := decodeItem(tenantID, snap)
		if err != nil {
			return err
		}

		keyRef := s.keys(tenantID).Doc(item.Key().Hash(tenantID))
		owner, err := s.keyOwner(tx, keyRef)
		if err != nil {
			return err
		}

		if owner == id {
			if err := tx.Delete(keyRef); err != nil {
				return err
			}
		}

		return tx.Delete(ref)
	})

	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete item: %w", err)
	}

	return nil
}

func (s *Store) CreateTask(ctx context.Context, t *types.Task) (*types.Task, error) {
	ctx, span := s.tracer.Start(ctx, "firestore.Store.CreateTask")
	defer span.End()

	created := *t
	if created.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate task ID: %w", err)
		}
		created.ID = id.String()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	_, err := s.tasks(t.TenantID).Doc(created.ID).Set(ctx, taskDoc{
		Title:       created.Title,
		Description: created.Description,
		Urgency:     string(created.Urgency),
		CreatedAt:   created.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return &created, nil
}

func (s *Store) ListTasks(ctx context.Context, tenantID string, limit uint64) ([]*types.Task, error) {
	ctx, span := s.tracer.Start(ctx, "firestore.Store.ListTasks")
	defer span.End()

	q := s.tasks(tenantID).OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		q = q.Limit(int(limit))
	}

	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]*types.Task, 0, len(snaps))
	for _, snap := range snaps {
		var d taskDoc
		if err := snap.DataTo(&d); err != nil {
			s.logger.Warnf("skipping undecodable task %s: %v", snap.Ref.ID, err)
			continue
		}
		tasks = append(tasks, &types.Task{
			ID:          snap.Ref.ID,
			TenantID:    tenantID,
			Title:       d.Title,
			Description: d.Description,
			Urgency:     types.Urgency(d.Urgency),
			CreatedAt:   d.CreatedAt,
		})
	}

	return tasks, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func NewStore(client *firestore.Client, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Store {
	s := new(Store)

	s.client = client

	s.tracer = tracer
	s.monitor = monitor
	s.logger = logger

	return s
}
