// Copyright 2025 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	"github.com/canonical/inventory-service/internal/types"
)

// Relations on a tenant, each one implied by the one above it.
const (
	ADMIN_RELATION   = string(types.RoleAdmin)
	MANAGER_RELATION = string(types.RoleManager)
	STAFF_RELATION   = string(types.RoleStaff)
)

func UserTuple(userId string) string {
	return "user:" + userId
}

func TenantTuple(tenantId string) string {
	return "tenant:" + tenantId
}
