package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/onegreenvn/retail-backoffice-services/internal/models"
)

var offerNow = time.Date(2025, 11, 28, 12, 0, 0, 0, time.UTC)

// fakeOfferStore keeps one campaign in memory and applies the same
// conditional increment the database does.
type fakeOfferStore struct {
	mu       sync.Mutex
	product  models.Product
	campaign models.Campaign
	failIncr error
}

func newFakeOfferStore(max *int) *fakeOfferStore {
	return &fakeOfferStore{
		product: models.Product{ID: 1, SKU: "SKU-1", BasePrice: decimal.RequireFromString("200.00")},
		campaign: models.Campaign{
			ID:        10,
			Name:      "Black Friday",
			StartDate: offerNow.Add(-time.Hour),
			EndDate:   offerNow.Add(time.Hour),
			IsActive:  true,
			Priority:  5,
			Products: []models.CampaignProduct{{
				ID:            100,
				CampaignID:    10,
				ProductID:     1,
				DiscountType:  models.DiscountTypePercentage,
				DiscountValue: decimal.RequireFromString("25"),
				MaxQuantity:   max,
			}},
		},
	}
}

func (f *fakeOfferStore) GetByID(ctx context.Context, id uint) (*models.CampaignProduct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id != f.campaign.Products[0].ID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := f.campaign.Products[0]
	return &cp, nil
}

func (f *fakeOfferStore) IncrementSoldQuantity(ctx context.Context, id uint, quantity int) (bool, error) {
	if f.failIncr != nil {
		return false, f.failIncr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := &f.campaign.Products[0]
	if cp.MaxQuantity != nil && cp.SoldQuantity+quantity > *cp.MaxQuantity {
		return false, nil
	}
	cp.SoldQuantity += quantity
	return true, nil
}

func (f *fakeOfferStore) FindLiveForProduct(ctx context.Context, productID uint, now time.Time) ([]models.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.campaign
	c.Products = append([]models.CampaignProduct(nil), f.campaign.Products...)
	return []models.Campaign{c}, nil
}

func (f *fakeOfferStore) sold() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.campaign.Products[0].SoldQuantity
}

type fakeProducts struct{ store *fakeOfferStore }

func (f fakeProducts) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	if id != f.store.product.ID {
		return nil, gorm.ErrRecordNotFound
	}
	p := f.store.product
	return &p, nil
}

type recordingPublisher struct {
	mu       sync.Mutex
	queue    string
	messages []interface{}
	err      error
}

func (p *recordingPublisher) PublishJSON(ctx context.Context, queueName string, message interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queue = queueName
	p.messages = append(p.messages, message)
	return p.err
}

func newOfferService(store *fakeOfferStore) *OfferService {
	s := NewOfferService(fakeProducts{store: store}, store, store)
	s.SetClock(func() time.Time { return offerNow })
	return s
}

func intPtr(v int) *int { return &v }

func TestResolveOffer_UnknownProduct(t *testing.T) {
	s := newOfferService(newFakeOfferStore(nil))

	_, err := s.ResolveOffer(context.Background(), 99, nil, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveOffer_AppliesLiveCampaign(t *testing.T) {
	s := newOfferService(newFakeOfferStore(intPtr(5)))

	res, err := s.ResolveOffer(context.Background(), 1, nil, 1)
	require.NoError(t, err)
	require.True(t, res.HasActiveCampaign)
	assert.Equal(t, "150.00", res.FinalPrice.StringFixed(2))
	assert.Equal(t, 5, *res.RemainingStock)
}

func TestConsumeThenResolveSeesReducedQuota(t *testing.T) {
	store := newFakeOfferStore(intPtr(3))
	s := newOfferService(store)
	ctx := context.Background()

	require.NoError(t, s.ConsumeOffer(ctx, 100, 2, nil))
	res, err := s.ResolveOffer(ctx, 1, nil, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, *res.RemainingStock)

	require.NoError(t, s.ConsumeOffer(ctx, 100, 1, nil))
	res, err = s.ResolveOffer(ctx, 1, nil, 1)
	require.NoError(t, err)
	assert.False(t, res.HasActiveCampaign)
	assert.Equal(t, "200.00", res.FinalPrice.StringFixed(2))

	assert.ErrorIs(t, s.ConsumeOffer(ctx, 100, 1, nil), ErrQuotaExceeded)
	assert.Equal(t, 3, store.sold())
}

func TestConsumeOffer_ConcurrentSalesNeverOversell(t *testing.T) {
	store := newFakeOfferStore(intPtr(25))
	s := newOfferService(store)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		soldOut   int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.ConsumeOffer(context.Background(), 100, 1, nil)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrQuotaExceeded):
				soldOut++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 25, successes)
	assert.Equal(t, 75, soldOut)
	assert.Equal(t, 25, store.sold())
}

func TestConsumeOffer_Validation(t *testing.T) {
	store := newFakeOfferStore(nil)
	s := newOfferService(store)

	var verr *ValidationError
	assert.ErrorAs(t, s.ConsumeOffer(context.Background(), 100, -1, nil), &verr)
	assert.ErrorIs(t, s.ConsumeOffer(context.Background(), 999, 1, nil), ErrNotFound)

	require.NoError(t, s.ConsumeOffer(context.Background(), 100, 0, nil))
	assert.Equal(t, 1, store.sold(), "zero quantity means one unit")
}

func TestConsumeOffer_StorageError(t *testing.T) {
	store := newFakeOfferStore(nil)
	store.failIncr = errors.New("connection reset")
	s := newOfferService(store)

	err := s.ConsumeOffer(context.Background(), 100, 1, nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrQuotaExceeded)
}

func TestConsumeOffer_PublishesEvent(t *testing.T) {
	store := newFakeOfferStore(nil)
	s := newOfferService(store)
	pub := &recordingPublisher{}
	s.SetPublisher(pub, "campaign_sales")
	user := uint(4)

	require.NoError(t, s.ConsumeOffer(context.Background(), 100, 3, &user))

	require.Len(t, pub.messages, 1)
	assert.Equal(t, "campaign_sales", pub.queue)
	event, ok := pub.messages[0].(models.OfferConsumedEvent)
	require.True(t, ok)
	assert.Equal(t, models.EventOfferConsumed, event.Type)
	assert.Equal(t, uint(10), event.CampaignID)
	assert.Equal(t, uint(100), event.CampaignProductID)
	assert.Equal(t, 3, event.Quantity)
	assert.Equal(t, &user, event.ConsumedBy)
	assert.Equal(t, offerNow, event.ConsumedAt)
}

func TestConsumeOffer_PublishFailureKeepsSale(t *testing.T) {
	store := newFakeOfferStore(intPtr(2))
	s := newOfferService(store)
	s.SetPublisher(&recordingPublisher{err: errors.New("broker down")}, "campaign_sales")

	require.NoError(t, s.ConsumeOffer(context.Background(), 100, 1, nil))
	assert.Equal(t, 1, store.sold())
}

func TestConsumeOffer_SkipsNoPublisher(t *testing.T) {
	store := newFakeOfferStore(nil)
	s := newOfferService(store)

	require.NoError(t, s.ConsumeOffer(context.Background(), 100, 1, nil))
}
