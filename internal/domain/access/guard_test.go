package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nagacare/health-admin-api/internal/domain/entity"
)

func TestCanManageInventory(t *testing.T) {
	assert.True(t, CanManageInventory(entity.RoleWorkers))
	for _, role := range []string{entity.RoleAdmin, entity.RoleStaff, entity.RoleBarangayAdmin, "", "WORKERS"} {
		assert.False(t, CanManageInventory(role), role)
	}
}

func TestIsInScope(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		assigned string
		target   string
		want     bool
	}{
		{"admin sees any barangay", entity.RoleAdmin, "AnyBarangay", "OtherBarangay", true},
		{"admin without assignment", entity.RoleAdmin, "", "Triangulo", true},
		{"worker own barangay", entity.RoleWorkers, "Concepcion", "Concepcion", true},
		{"worker other barangay", entity.RoleWorkers, "Concepcion", "Triangulo", false},
		{"case and spacing ignored", entity.RoleBarangayAdmin, " concepcion ", "CONCEPCION", true},
		{"unassigned never matches", entity.RoleStaff, "", "", false},
		{"unassigned vs named", entity.RoleWorkers, "", "Concepcion", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsInScope(tt.role, tt.assigned, tt.target))
		})
	}
}

func TestCanView(t *testing.T) {
	worker := &entity.Principal{ID: "u1", Role: entity.RoleWorkers, AssignedBarangay: "Concepcion"}

	assert.True(t, CanView(worker, ""), "central supply is city-wide")
	assert.True(t, CanView(worker, "CONCEPCION"))
	assert.False(t, CanView(worker, "TRIANGULO"))
	assert.False(t, CanView(nil, ""))
}

func TestVisibleBarangays(t *testing.T) {
	got, ok := VisibleBarangays(&entity.Principal{Role: entity.RoleAdmin})
	assert.True(t, ok)
	assert.Nil(t, got)

	got, ok = VisibleBarangays(&entity.Principal{Role: entity.RoleWorkers, AssignedBarangay: "Concepcion"})
	assert.True(t, ok)
	assert.Equal(t, []string{"CONCEPCION", ""}, got)

	_, ok = VisibleBarangays(&entity.Principal{Role: entity.RoleStaff})
	assert.False(t, ok)
}
