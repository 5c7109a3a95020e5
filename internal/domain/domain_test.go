package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		role   Role
		wantOK bool
	}{
		{"lowercase admin", "admin", RoleAdmin, true},
		{"uppercase admin", "ADMIN", RoleAdmin, true},
		{"mixed case merchant", "Merchant", RoleMerchant, true},
		{"customer", "customer", RoleCustomer, true},
		{"surrounding whitespace", "  merchant ", RoleMerchant, true},
		{"unknown role", "superuser", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, ok := ParseRole(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.role, role)
		})
	}
}

func TestActor_CanMutateCatalog(t *testing.T) {
	assert.True(t, Actor{ID: "a1", Role: RoleAdmin}.CanMutateCatalog())
	assert.True(t, Actor{ID: "m1", Role: RoleMerchant}.CanMutateCatalog())
	assert.False(t, Actor{ID: "c1", Role: RoleCustomer}.CanMutateCatalog())
}

func TestProduct_OwnedBy(t *testing.T) {
	m1 := "merchant-1"

	owned := Product{ID: "p1", MerchantID: &m1}
	assert.True(t, owned.OwnedBy("merchant-1"))
	assert.False(t, owned.OwnedBy("merchant-2"))

	global := Product{ID: "p2"}
	assert.False(t, global.OwnedBy("merchant-1"))
}
