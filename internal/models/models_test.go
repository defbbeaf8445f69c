package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidUsername(t *testing.T) {
	assert.True(t, ValidUsername("bookworm_42"))
	assert.True(t, ValidUsername("ABC"))
	assert.False(t, ValidUsername(""))
	assert.False(t, ValidUsername("has space"))
	assert.False(t, ValidUsername("dash-ed"))
	assert.False(t, ValidUsername("почта"))
}

func TestListTypeOpposite(t *testing.T) {
	opposite, ok := ListPlanned.Opposite()
	assert.True(t, ok)
	assert.Equal(t, ListCompleted, opposite)

	opposite, ok = ListCompleted.Opposite()
	assert.True(t, ok)
	assert.Equal(t, ListPlanned, opposite)

	_, ok = ListFavorite.Opposite()
	assert.False(t, ok)
}

func TestListStatusApply(t *testing.T) {
	var status ListStatus
	status.Apply(ListPlanned)
	status.Apply(ListFavorite)

	assert.True(t, status.IsPlanned)
	assert.False(t, status.IsCompleted)
	assert.True(t, status.IsFavorite)
}
