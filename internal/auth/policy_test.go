package auth

import (
	"testing"

	"murmur/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	t.Run("nil caller", func(t *testing.T) {
		t.Parallel()
		_, err := Authenticate(nil)
		require.Error(t, err)
		assert.Equal(t, models.KindUnauthenticated, models.Classify(err).Kind)
	})

	t.Run("zero id caller", func(t *testing.T) {
		t.Parallel()
		_, err := Authenticate(&Caller{})
		require.Error(t, err)
		assert.Equal(t, models.KindUnauthenticated, models.Classify(err).Kind)
	})

	t.Run("valid caller passes through", func(t *testing.T) {
		t.Parallel()
		caller := &Caller{ID: 3, Role: models.RoleUser}
		got, err := Authenticate(caller)
		require.NoError(t, err)
		assert.Same(t, caller, got)
	})
}

func TestAuthorize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		callerID uint
		ownerID  uint
		role     models.Role
		wantErr  bool
	}{
		{"owner", 1, 1, models.RoleUser, false},
		{"admin on another's resource", 2, 1, models.RoleAdmin, false},
		{"admin on own resource", 1, 1, models.RoleAdmin, false},
		{"non-owner user", 2, 1, models.RoleUser, true},
		{"unknown role non-owner", 2, 1, "MODERATOR", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Authorize(tt.callerID, tt.ownerID, tt.role)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, models.KindUnauthorized, models.Classify(err).Kind)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	t.Parallel()

	t.Run("anonymous is unauthenticated", func(t *testing.T) {
		t.Parallel()
		err := RequireAdmin(nil)
		require.Error(t, err)
		assert.Equal(t, models.KindUnauthenticated, models.Classify(err).Kind)
	})

	t.Run("regular user is unauthorized", func(t *testing.T) {
		t.Parallel()
		err := RequireAdmin(&Caller{ID: 1, Role: models.RoleUser})
		require.Error(t, err)
		assert.Equal(t, models.KindUnauthorized, models.Classify(err).Kind)
	})

	t.Run("admin passes", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, RequireAdmin(&Caller{ID: 1, Role: models.RoleAdmin}))
	})
}

func TestCallerIsAdmin(t *testing.T) {
	t.Parallel()

	var nilCaller *Caller
	assert.False(t, nilCaller.IsAdmin())
	assert.False(t, (&Caller{ID: 1, Role: models.RoleUser}).IsAdmin())
	assert.True(t, (&Caller{ID: 1, Role: models.RoleAdmin}).IsAdmin())
}
