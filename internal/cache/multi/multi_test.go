package multi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"go-query-cache/internal/interfaces"
	"go-query-cache/internal/interfaces/mock"
	"go-query-cache/internal/models"
)

func freshEntry(data string) *models.CacheEntry {
	now := time.Now().Unix()
	return &models.CacheEntry{
		Data:      []byte(data),
		CreatedAt: now,
		StaleAt:   now + 100,
		ExpiresAt: now + 200,
	}
}

func TestNewMultiStore(t *testing.T) {
	logger := zap.NewNop()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store1 := mock.NewMockStore(ctrl)
	store2 := mock.NewMockStore(ctrl)

	multiStore := NewMultiStore([]interfaces.Store{store1, store2}, logger, false)

	assert.NotNil(t, multiStore)
	ms := multiStore.(*MultiStore)
	assert.Equal(t, 2, ms.StoreCount())
}

func TestMultiStore_Get_FirstStoreHit(t *testing.T) {
	logger := zap.NewNop()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store1 := mock.NewMockStore(ctrl)
	store2 := mock.NewMockStore(ctrl)

	multiStore := NewMultiStore([]interfaces.Store{store1, store2}, logger, false)

	entry := freshEntry("test-value")
	store1.EXPECT().Get("test-key").Return(entry, true).Times(1)
	// store2.Get should not be called since store1 has the value

	result, found := multiStore.Get("test-key")

	assert.True(t, found)
	assert.Equal(t, entry, result)
}

func TestMultiStore_Get_SecondStoreHit(t *testing.T) {
	logger := zap.NewNop()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store1 := mock.NewMockStore(ctrl)
	store2 := mock.NewMockStore(ctrl)

	multiStore := NewMultiStore([]interfaces.Store{store1, store2}, logger, false)

	entry := freshEntry("test-value")
	store1.EXPECT().Get("test-key").Return(nil, false).Times(1)
	store2.EXPECT().Get("test-key").Return(entry, true).Times(1)

	result, found := multiStore.Get("test-key")

	assert.True(t, found)
	assert.Equal(t, entry, result)
}

func TestMultiStore_Get_SecondStoreHit_Propagates(t *testing.T) {
	logger := zap.NewNop()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store1 := mock.NewMockStore(ctrl)
	store2 := mock.NewMockStore(ctrl)

	multiStore := NewMultiStore([]interfaces.Store{store1, store2}, logger, true)

	entry := freshEntry("test-value")
	store1.EXPECT().Get("test-key").Return(nil, false).Times(1)
	store2.EXPECT().Get("test-key").Return(entry, true).Times(1)
	// Hit in L2 is written back into L1
	store1.EXPECT().Set("test-key", entry.Data, gomock.Any()).Times(1)

	result, found := multiStore.Get("test-key")

	assert.True(t, found)
	assert.Equal(t, entry, result)
}

func TestMultiStore_Get_AllStoresMiss(t *testing.T) {
	logger := zap.NewNop()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store1 := mock.NewMockStore(ctrl)
	store2 := mock.NewMockStore(ctrl)

	multiStore := NewMultiStore([]interfaces.Store{store1, store2}, logger, false)

	store1.EXPECT().Get("test-key").Return(nil, false).Times(1)
	store2.EXPECT().Get("test-key").Return(nil, false).Times(1)

	result, found := multiStore.Get("test-key")

	assert.False(t, found)
	assert.Nil(t, result)
}

func TestMultiStore_Get_NoStores(t *testing.T) {
	logger := zap.NewNop()

	multiStore := NewMultiStore([]interfaces.Store{}, logger, false)

	result, found := multiStore.Get("test-key")

	assert.False(t, found)
	assert.Nil(t, result)
}

func TestMultiStore_GetStale(t *testing.T) {
	logger := zap.NewNop()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store1 := mock.NewMockStore(ctrl)
	store2 := mock.NewMockStore(ctrl)

	multiStore := NewMultiStore([]interfaces.Store{store1, store2}, logger, false)

	entry := freshEntry("stale-value")
	store1.EXPECT().GetStale("test-key").Return(nil, false).Times(1)
	store2.EXPECT().GetStale("test-key").Return(entry, true).Times(1)

	result, found := multiStore.GetStale("test-key")

	assert.True(t, found)
	assert.Equal(t, entry, result)
}

func TestMultiStore_Set_AllStores(t *testing.T) {
	logger := zap.NewNop()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store1 := mock.NewMockStore(ctrl)
	store2 := mock.NewMockStore(ctrl)

	multiStore := NewMultiStore([]interfaces.Store{store1, store2}, logger, false)

	val := []byte("test-value")
	ttl := models.TTL{Fresh: 30 * time.Second, Retain: 300 * time.Second}

	store1.EXPECT().Set("test-key", val, ttl).Times(1)
	store2.EXPECT().Set("test-key", val, ttl).Times(1)

	multiStore.Set("test-key", val, ttl)
}

func TestMultiStore_Delete_AllStores(t *testing.T) {
	logger := zap.NewNop()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store1 := mock.NewMockStore(ctrl)
	store2 := mock.NewMockStore(ctrl)

	multiStore := NewMultiStore([]interfaces.Store{store1, store2}, logger, false)

	store1.EXPECT().Delete("test-key").Times(1)
	store2.EXPECT().Delete("test-key").Times(1)

	multiStore.Delete("test-key")
}
