package notification

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	n, err := New(uuid.New(), uuid.New(), TypeDealStageChanged, "Deal moved", "", nil)
	require.NoError(t, err)
	assert.False(t, n.IsRead())
	assert.NotNil(t, n.Data)

	_, err = New(uuid.New(), uuid.Nil, TypeDealStageChanged, "Deal moved", "", nil)
	assert.Error(t, err)

	_, err = New(uuid.New(), uuid.New(), TypeDealStageChanged, " ", "", nil)
	assert.Error(t, err)
}
