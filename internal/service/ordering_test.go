package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vxacademy/academy/internal/apperr"
)

func TestInsertAt(t *testing.T) {
	ids := []uint{10, 20, 30}

	got, err := insertAt(ids, 99, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint{10, 20, 30, 99}, got)

	got, err = insertAt(ids, 99, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{99, 10, 20, 30}, got)

	got, err = insertAt(ids, 99, 3)
	require.NoError(t, err)
	assert.Equal(t, []uint{10, 20, 99, 30}, got)

	_, err = insertAt(ids, 99, 5)
	assert.True(t, apperr.IsValidation(err))
	assert.Equal(t, []uint{10, 20, 30}, ids)
}

func TestMoveTo(t *testing.T) {
	ids := []uint{1, 2, 3, 4, 5}

	down, err := moveTo(ids, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 3, 4, 2, 5}, down)

	up, err := moveTo(ids, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{5, 1, 2, 3, 4}, up)

	same, err := moveTo(ids, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, ids, same)

	_, err = moveTo(ids, 3, 0)
	assert.True(t, apperr.IsValidation(err))
	_, err = moveTo(ids, 42, 1)
	assert.True(t, apperr.IsValidation(err))
}
