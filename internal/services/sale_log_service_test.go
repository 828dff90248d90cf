package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onegreenvn/retail-backoffice-services/internal/models"
)

type memorySaleLogStore struct {
	logs      []models.CampaignSaleLog
	createErr error
	pruned    int
}

func (m *memorySaleLogStore) Create(ctx context.Context, log *models.CampaignSaleLog) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.logs = append(m.logs, *log)
	return nil
}

func (m *memorySaleLogStore) GetByCampaign(ctx context.Context, campaignID uint, page, pageSize int) ([]models.CampaignSaleLog, int64, error) {
	return m.logs, int64(len(m.logs)), nil
}

func (m *memorySaleLogStore) DeleteOldLogs(ctx context.Context, days int) (int64, error) {
	m.pruned = days
	return 0, nil
}

func eventBody(t *testing.T, event models.OfferConsumedEvent) []byte {
	t.Helper()
	body, err := json.Marshal(event)
	require.NoError(t, err)
	return body
}

func TestProcessMessage_StoresEvent(t *testing.T) {
	store := &memorySaleLogStore{}
	s := NewSaleLogService(store, nil)
	at := time.Date(2025, 11, 28, 10, 0, 0, 0, time.UTC)
	user := uint(9)

	err := s.processMessage(context.Background(), eventBody(t, models.OfferConsumedEvent{
		Type:              models.EventOfferConsumed,
		CampaignID:        1,
		CampaignProductID: 2,
		ProductID:         3,
		Quantity:          4,
		ConsumedBy:        &user,
		ConsumedAt:        at,
	}))
	require.NoError(t, err)

	require.Len(t, store.logs, 1)
	log := store.logs[0]
	assert.Equal(t, uint(2), log.CampaignProductID)
	assert.Equal(t, 4, log.Quantity)
	assert.Equal(t, uint(9), *log.ConsumedBy)
	assert.True(t, at.Equal(log.ConsumedAt))
}

func TestProcessMessage_SkipsUnknownType(t *testing.T) {
	store := &memorySaleLogStore{}
	s := NewSaleLogService(store, nil)

	err := s.processMessage(context.Background(), []byte(`{"type":"price_changed"}`))
	assert.NoError(t, err)
	assert.Empty(t, store.logs)
}

func TestProcessMessage_MalformedIsNotRetried(t *testing.T) {
	s := NewSaleLogService(&memorySaleLogStore{}, nil)

	err := s.processMessage(context.Background(), []byte(`not json`))
	assert.True(t, isMalformed(err))

	err = s.processMessage(context.Background(), eventBody(t, models.OfferConsumedEvent{
		Type:              models.EventOfferConsumed,
		CampaignProductID: 2,
		Quantity:          0,
	}))
	assert.True(t, isMalformed(err))
}

func TestProcessMessage_StorageFailureIsRetryable(t *testing.T) {
	s := NewSaleLogService(&memorySaleLogStore{createErr: errors.New("db down")}, nil)

	err := s.processMessage(context.Background(), eventBody(t, models.OfferConsumedEvent{
		Type:              models.EventOfferConsumed,
		CampaignProductID: 2,
		Quantity:          1,
	}))
	require.Error(t, err)
	assert.False(t, isMalformed(err))
}

func TestCleanupOldLogs(t *testing.T) {
	store := &memorySaleLogStore{}
	s := NewSaleLogService(store, nil)

	s.cleanupOldLogs(30)
	assert.Equal(t, 30, store.pruned)
}
