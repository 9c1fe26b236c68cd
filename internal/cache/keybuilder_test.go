package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-query-cache/internal/models"
)

func TestKeyBuilder_Build(t *testing.T) {
	kb := NewKeyBuilder()

	req := &models.QueryRequest{
		Scope:  "app",
		Name:   "user-profile",
		Params: map[string]interface{}{"id": 42},
	}

	key, err := kb.Build(req)

	assert.NoError(t, err)
	assert.Contains(t, key, "app:user-profile:")
}

func TestKeyBuilder_Build_Deterministic(t *testing.T) {
	kb := NewKeyBuilder()

	req1 := &models.QueryRequest{Scope: "app", Name: "todos", Params: map[string]interface{}{"page": 1, "limit": 20}}
	req2 := &models.QueryRequest{Scope: "app", Name: "todos", Params: map[string]interface{}{"page": 1, "limit": 20}}

	key1, err1 := kb.Build(req1)
	key2, err2 := kb.Build(req2)

	assert.NoError(t, err1)
	assert.NoError(t, err2)
	assert.Equal(t, key1, key2)
}

func TestKeyBuilder_Build_DifferentParams(t *testing.T) {
	kb := NewKeyBuilder()

	key1, err1 := kb.Build(&models.QueryRequest{Scope: "app", Name: "todos", Params: map[string]interface{}{"page": 1}})
	key2, err2 := kb.Build(&models.QueryRequest{Scope: "app", Name: "todos", Params: map[string]interface{}{"page": 2}})

	assert.NoError(t, err1)
	assert.NoError(t, err2)
	assert.NotEqual(t, key1, key2)
}

func TestKeyBuilder_Build_NoParams(t *testing.T) {
	kb := NewKeyBuilder()

	key, err := kb.Build(&models.QueryRequest{Scope: "app", Name: "session"})

	assert.NoError(t, err)
	assert.Equal(t, "app:session:", key)
}

func TestKeyBuilder_Build_Errors(t *testing.T) {
	kb := NewKeyBuilder()

	_, err := kb.Build(nil)
	assert.Error(t, err)

	_, err = kb.Build(&models.QueryRequest{Scope: "app"})
	assert.Error(t, err)

	_, err = kb.Build(&models.QueryRequest{Name: "todos"})
	assert.Error(t, err)
}

func TestKeyBuilder_BuildBatch(t *testing.T) {
	kb := NewKeyBuilder()

	reqs := []models.QueryRequest{
		{Scope: "app", Name: "todos"},
		{Scope: "app", Name: "user-profile", Params: map[string]interface{}{"id": 1}},
	}

	keys, err := kb.BuildBatch(reqs)

	assert.NoError(t, err)
	assert.Len(t, keys, 2)
	assert.NotEqual(t, keys[0], keys[1])
}

func TestKeyBuilder_BuildBatch_Empty(t *testing.T) {
	kb := NewKeyBuilder()

	_, err := kb.BuildBatch(nil)
	assert.Error(t, err)
}

func TestKeyBuilder_BuildBatch_PropagatesError(t *testing.T) {
	kb := NewKeyBuilder()

	reqs := []models.QueryRequest{
		{Scope: "app", Name: "todos"},
		{Scope: "app"}, // missing name
	}

	_, err := kb.BuildBatch(reqs)
	assert.Error(t, err)
}
