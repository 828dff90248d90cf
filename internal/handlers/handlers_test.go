package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onegreenvn/retail-backoffice-services/internal/pricing"
	"github.com/onegreenvn/retail-backoffice-services/internal/services"
	"github.com/onegreenvn/retail-backoffice-services/internal/services/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeOffers struct {
	resolveErr error
	consumeErr error

	gotBranch   *uint
	gotQuantity int
	gotConsumer *uint
}

func (f *fakeOffers) ResolveOffer(ctx context.Context, productID uint, branchID *uint, quantity int) (*pricing.Result, error) {
	f.gotBranch = branchID
	f.gotQuantity = quantity
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	base := decimal.RequireFromString("200")
	return &pricing.Result{ProductID: productID, OriginalPrice: base, FinalPrice: base}, nil
}

func (f *fakeOffers) ConsumeOffer(ctx context.Context, campaignProductID uint, quantity int, consumedBy *uint) error {
	f.gotQuantity = quantity
	f.gotConsumer = consumedBy
	return f.consumeErr
}

func offerRouter(offers *fakeOffers) *gin.Engine {
	h := NewOfferHandler(offers)
	r := gin.New()
	r.GET("/products/:id/offer", h.GetOffer)
	r.POST("/campaign-products/:id/consume", func(c *gin.Context) {
		c.Set("user_id", uint(9))
		c.Next()
	}, h.ConsumeOffer)
	return r
}

func serve(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetOffer(t *testing.T) {
	offers := &fakeOffers{}
	w := serve(offerRouter(offers), http.MethodGet, "/products/5/offer?branch_id=3&quantity=2", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"product_id":5`)
	assert.Contains(t, w.Body.String(), `"has_active_campaign":false`)
	require.NotNil(t, offers.gotBranch)
	assert.Equal(t, uint(3), *offers.gotBranch)
	assert.Equal(t, 2, offers.gotQuantity)
}

func TestGetOffer_DefaultsQuantity(t *testing.T) {
	offers := &fakeOffers{}
	w := serve(offerRouter(offers), http.MethodGet, "/products/5/offer", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, offers.gotBranch)
	assert.Equal(t, 1, offers.gotQuantity)
}

func TestGetOffer_BadInput(t *testing.T) {
	for _, target := range []string{
		"/products/abc/offer",
		"/products/0/offer",
		"/products/5/offer?quantity=0",
		"/products/5/offer?quantity=x",
		"/products/5/offer?branch_id=-1",
	} {
		t.Run(target, func(t *testing.T) {
			w := serve(offerRouter(&fakeOffers{}), http.MethodGet, target, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestGetOffer_UnknownProduct(t *testing.T) {
	offers := &fakeOffers{resolveErr: fmt.Errorf("product 5: %w", services.ErrNotFound)}
	w := serve(offerRouter(offers), http.MethodGet, "/products/5/offer", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConsumeOffer(t *testing.T) {
	offers := &fakeOffers{}
	w := serve(offerRouter(offers), http.MethodPost, "/campaign-products/4/consume", `{"quantity":3}`)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 3, offers.gotQuantity)
	require.NotNil(t, offers.gotConsumer)
	assert.Equal(t, uint(9), *offers.gotConsumer)
}

func TestConsumeOffer_EmptyBodyMeansOne(t *testing.T) {
	offers := &fakeOffers{}
	w := serve(offerRouter(offers), http.MethodPost, "/campaign-products/4/consume", "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 1, offers.gotQuantity)
}

func TestConsumeOffer_RejectsNegativeQuantity(t *testing.T) {
	w := serve(offerRouter(&fakeOffers{}), http.MethodPost, "/campaign-products/4/consume", `{"quantity":-2}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConsumeOffer_SoldOut(t *testing.T) {
	offers := &fakeOffers{consumeErr: services.ErrQuotaExceeded}
	w := serve(offerRouter(offers), http.MethodPost, "/campaign-products/4/consume", `{"quantity":1}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":"Offer is sold out","code":"offer_sold_out"}`, w.Body.String())
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", services.NewValidationError("discount_value", "must be positive"), http.StatusBadRequest},
		{"not found", fmt.Errorf("campaign 3: %w", services.ErrNotFound), http.StatusNotFound},
		{"quota", services.ErrQuotaExceeded, http.StatusConflict},
		{"conflict", fmt.Errorf("sku taken: %w", services.ErrConflict), http.StatusConflict},
		{"credentials", services.ErrInvalidCredentials, http.StatusUnauthorized},
		{"token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"deactivated", auth.ErrAccountDeactivated, http.StatusForbidden},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/", func(c *gin.Context) { respondError(c, tt.err, "Failed to do it") })
			w := serve(r, http.MethodGet, "/", "")
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRespondError_ValidationNamesField(t *testing.T) {
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		respondError(c, services.NewValidationError("end_date", "must not be before start_date"), "Failed")
	})
	w := serve(r, http.MethodGet, "/", "")

	assert.JSONEq(t, `{"error":"Validation failed","field":"end_date","details":"must not be before start_date"}`, w.Body.String())
}

func TestListResponse(t *testing.T) {
	body := listResponse([]int{1, 2}, 45, 2, 20)

	assert.Equal(t, []int{1, 2}, body["data"])
	pagination := body["pagination"]
	assert.Contains(t, fmt.Sprintf("%+v", pagination), "TotalPages:3")
}

func TestPaginationFromQuery(t *testing.T) {
	tests := []struct {
		query    string
		page     int
		pageSize int
	}{
		{"", 1, 20},
		{"page=3&page_size=50", 3, 50},
		{"page=-1&page_size=500", 1, 100},
		{"page=x", 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			page, pageSize := paginationFromQuery(c)
			assert.Equal(t, tt.page, page)
			assert.Equal(t, tt.pageSize, pageSize)
		})
	}
}
