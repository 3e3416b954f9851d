// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package reports

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/canonical/inventory-service/internal/logging"
	"github.com/canonical/inventory-service/internal/monitoring"
	"github.com/canonical/inventory-service/internal/tracing"
	"github.com/canonical/inventory-service/internal/types"
)

const (
	LowStockThreshold = 5
	topSellingSize    = 5
)

type Kind string

const (
	KindActivity    Kind = ""
	KindLowStock    Kind = "low_stock"
	KindSalesTrends Kind = "sales_trends"
)

func (k Kind) Valid() bool {
	switch k {
	case KindActivity, KindLowStock, KindSalesTrends:
		return true
	}
	return false
}

type Change string

const (
	ChangeAdded   Change = "added"
	ChangeUpdated Change = "updated"
)

type Entry struct {
	*types.InventoryItem
	Change Change `json:"change"`
}

type Analytics struct {
	TotalStock int64                  `json:"totalStock"`
	TopSelling []*types.InventoryItem `json:"topSelling"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type Summary struct {
	TotalItems      int64                  `json:"totalItems"`
	TotalValue      decimal.Decimal        `json:"totalValue"`
	CategoryCount   int                    `json:"categoryCount"`
	Categories      []CategoryCount        `json:"categories"`
	OutOfStockCount int                    `json:"outOfStockCount"`
	AvgPrice        decimal.Decimal        `json:"avgPrice"`
	TopSelling      []*types.InventoryItem `json:"topSelling"`
	LowStock        []*types.InventoryItem `json:"lowStock"`
	Notifications   []*types.Task          `json:"notifications"`
}

type Service struct {
	storage     StorageInterface
	recentTasks uint64

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

// Report lists the items touched inside the window. An item both added and
// updated inside the window is reported once as added.
func (s *Service) Report(ctx context.Context, tenantID string, window Window, kind Kind) ([]*Entry, error) {
	ctx, span := s.tracer.Start(ctx, "reports.Service.Report")
	defer span.End()

	if !kind.Valid() {
		return nil, types.NewValidationError("type", "unknown report type %q", kind)
	}

	items, err := s.storage.ListItemsInWindow(ctx, tenantID, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	entries := make([]*Entry, 0, len(items))
	for _, item := range items {
		var change Change
		switch {
		case window.Contains(item.AddedAt):
			change = ChangeAdded
		case window.Contains(item.UpdatedAt):
			change = ChangeUpdated
		default:
			continue
		}

		if kind == KindLowStock && item.Quantity >= LowStockThreshold {
			continue
		}

		entries = append(entries, &Entry{InventoryItem: item, Change: change})
	}

	switch kind {
	case KindSalesTrends:
		slices.SortStableFunc(entries, func(a, b *Entry) int {
			return bySales(a.InventoryItem, b.InventoryItem)
		})
	default:
		slices.SortStableFunc(entries, func(a, b *Entry) int {
			if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
				return c
			}
			return cmp.Compare(a.ID, b.ID)
		})
	}

	return entries, nil
}

func (s *Service) Analytics(ctx context.Context, tenantID string, window Window) (*Analytics, error) {
	ctx, span := s.tracer.Start(ctx, "reports.Service.Analytics")
	defer span.End()

	items, err := s.storage.ListItemsInWindow(ctx, tenantID, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	a := new(Analytics)
	for _, item := range items {
		a.TotalStock += item.Quantity
	}
	a.TopSelling = topSelling(items)

	return a, nil
}

// Summary recomputes the tenant rollup from the current snapshot on every call.
func (s *Service) Summary(ctx context.Context, tenantID string) (*Summary, error) {
	ctx, span := s.tracer.Start(ctx, "reports.Service.Summary")
	defer span.End()

	items, err := s.storage.ListItems(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	tasks, err := s.storage.ListTasks(ctx, tenantID, s.recentTasks)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	sum := &Summary{
		TotalValue:    decimal.Zero,
		AvgPrice:      decimal.Zero,
		LowStock:      make([]*types.InventoryItem, 0),
		Notifications: tasks,
	}

	categories := make(map[string]int)
	priced := 0
	priceTotal := decimal.Zero

	for _, item := range items {
		sum.TotalItems += item.Quantity
		sum.TotalValue = sum.TotalValue.Add(item.Price.Mul(decimal.NewFromInt(item.Quantity)))

		if c := strings.TrimSpace(item.Category); c != "" {
			categories[c]++
		}

		if item.Quantity <= 0 {
			sum.OutOfStockCount++
		}

		if item.Quantity < LowStockThreshold {
			sum.LowStock = append(sum.LowStock, item)
		}

		if item.HasPrice {
			priced++
			priceTotal = priceTotal.Add(item.Price)
		}
	}

	if priced > 0 {
		sum.AvgPrice = priceTotal.Div(decimal.NewFromInt(int64(priced))).Round(2)
	}

	sum.CategoryCount = len(categories)
	sum.Categories = make([]CategoryCount, 0, len(categories))
	for name, count := range categories {
		sum.Categories = append(sum.Categories, CategoryCount{Category: name, Count: count})
	}
	slices.SortFunc(sum.Categories, func(a, b CategoryCount) int {
		return cmp.Compare(a.Category, b.Category)
	})

	sum.TopSelling = topSelling(items)

	if sum.Notifications == nil {
		sum.Notifications = make([]*types.Task, 0)
	}

	return sum, nil
}

func bySales(a, b *types.InventoryItem) int {
	if c := cmp.Compare(b.SoldCount, a.SoldCount); c != 0 {
		return c
	}
	return cmp.Compare(a.Name, b.Name)
}

func topSelling(items []*types.InventoryItem) []*types.InventoryItem {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, bySales)

	if len(sorted) > topSellingSize {
		sorted = sorted[:topSellingSize]
	}

	if sorted == nil {
		return make([]*types.InventoryItem, 0)
	}

	return sorted
}

func NewService(storage StorageInterface, recentTasks uint64, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Service {
	s := new(Service)

	s.storage = storage
	s.recentTasks = recentTasks

	s.tracer = tracer
	s.monitor = monitor
	s.logger = logger

	return s
}
