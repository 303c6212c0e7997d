package organization

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrganization(t *testing.T) {
	t.Run("creates with owner", func(t *testing.T) {
		ownerID := uuid.New()
		org, err := NewOrganization(" Hope Trust ", "Kenya", "Education", &ownerID)
		require.NoError(t, err)

		assert.Equal(t, "Hope Trust", org.Name)
		assert.True(t, org.IsOwnedBy(ownerID))
		assert.False(t, org.IsOwnedBy(uuid.New()))
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewOrganization("  ", "Kenya", "Education", nil)
		assert.Error(t, err)
	})
}

func TestOrganization_Update(t *testing.T) {
	org, err := NewOrganization("Hope Trust", "Kenya", "Education", nil)
	require.NoError(t, err)

	t.Run("replaces descriptive fields", func(t *testing.T) {
		err := org.Update("Hope Trust Intl", "Community education programs", "Uganda", "Education", "https://hope.example", "Info@Hope.example")
		require.NoError(t, err)

		assert.Equal(t, "Hope Trust Intl", org.Name)
		assert.Equal(t, "Uganda", org.Country)
		assert.Equal(t, "info@hope.example", org.ContactEmail)
		assert.Equal(t, 2, org.GetVersion())
	})

	t.Run("rejects malformed contact email", func(t *testing.T) {
		assert.Error(t, org.Update("Hope Trust", "", "", "", "", "not-an-email"))
	})
}
