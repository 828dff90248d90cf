package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/onegreenvn/retail-backoffice-services/internal/services"
	"github.com/onegreenvn/retail-backoffice-services/internal/services/auth"
	"github.com/onegreenvn/retail-backoffice-services/internal/utils"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// respondError writes the JSON error for err. action is used as the message of
// unexpected failures, e.g. "Failed to create product".
func respondError(c *gin.Context, err error, action string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "field": verr.Field, "details": verr.Message})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrQuotaExceeded):
		c.JSON(http.StatusConflict, gin.H{"error": "Offer is sold out", "code": "offer_sold_out"})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		logrus.WithError(err).WithField("request_id", c.GetString("request_id")).Error(action)
		if hub := sentry.CurrentHub(); hub.Client() != nil {
			hub.CaptureException(err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": action, "details": err.Error()})
	}
}

// parseIDParam reads a positive numeric path parameter, answering 400 when it is not one
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := utils.StringToUint(c.Param(name))
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name, "details": "must be a positive integer"})
		return 0, false
	}
	return id, true
}

// parseOptionalUintQuery reads an optional numeric query parameter
func parseOptionalUintQuery(c *gin.Context, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := utils.StringToUint(raw)
	if err != nil || v == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name, "details": "must be a positive integer"})
		return nil, false
	}
	return &v, true
}

// parseQuantityQuery reads ?quantity=, defaulting to 1 and rejecting values below 1
func parseQuantityQuery(c *gin.Context) (int, bool) {
	raw := c.Query("quantity")
	if raw == "" {
		return 1, true
	}
	q, err := strconv.Atoi(raw)
	if err != nil || q < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quantity", "details": "must be an integer of at least 1"})
		return 0, false
	}
	return q, true
}

// listResponse wraps one page of items with its pagination metadata
func listResponse(items interface{}, total int64, page, pageSize int) gin.H {
	return gin.H{
		"data":       items,
		"pagination": utils.CalculatePaginationInfo(total, page, pageSize),
	}
}

// paginationFromQuery reads page and page_size, normalised to the repository bounds
func paginationFromQuery(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return utils.ValidateAndNormalizePagination(page, pageSize)
}

func currentUserID(c *gin.Context) *uint {
	if v, ok := c.Get("user_id"); ok {
		if id, ok := v.(uint); ok {
			return &id
		}
	}
	return nil
}
