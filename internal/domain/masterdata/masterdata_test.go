package masterdata

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ventureflow/backend/internal/domain/shared"
)

func TestNewCurrency(t *testing.T) {
	tenantID := uuid.New()

	t.Run("normalizes code and defaults rate", func(t *testing.T) {
		c, err := NewCurrency(tenantID, " usd ", "US Dollar", "$", decimal.Zero)
		require.NoError(t, err)
		assert.Equal(t, "USD", c.Code)
		assert.True(t, c.ExchangeRate.Equal(decimal.NewFromInt(1)))
		assert.True(t, c.IsActive)
		assert.Equal(t, tenantID, c.TenantID)
	})

	t.Run("rejects unknown ISO code", func(t *testing.T) {
		_, err := NewCurrency(tenantID, "ZZZ", "Nope", "", decimal.NewFromInt(1))
		var v *shared.ValidationError
		require.True(t, errors.As(err, &v))
		assert.Equal(t, "code", v.Fields[0].Field)
	})

	t.Run("rejects negative rate and empty name together", func(t *testing.T) {
		_, err := NewCurrency(tenantID, "SGD", "", "S$", decimal.NewFromInt(-2))
		var v *shared.ValidationError
		require.True(t, errors.As(err, &v))
		assert.Len(t, v.Fields, 2)
	})
}

func TestNewCountry(t *testing.T) {
	tenantID := uuid.New()

	c, err := NewCountry(tenantID, "Japan", "jp", "+81")
	require.NoError(t, err)
	assert.Equal(t, "JP", c.ISOCode)

	_, err = NewCountry(tenantID, "Nowhere", "QQ", "")
	assert.Error(t, err)

	_, err = NewCountry(tenantID, "Japan", "JP", "81")
	assert.Error(t, err)
}

func TestIndustry_Update(t *testing.T) {
	ind, err := NewIndustry(uuid.New(), "Healthcare", nil, "")
	require.NoError(t, err)

	self := ind.ID
	err = ind.Update("Healthcare", &self, "", true)
	assert.Error(t, err)

	parent := uuid.New()
	version := ind.Version
	require.NoError(t, ind.Update("Medical Devices", &parent, "devices", false))
	assert.Equal(t, "Medical Devices", ind.Name)
	assert.False(t, ind.IsActive)
	assert.Equal(t, version+1, ind.Version)
}
