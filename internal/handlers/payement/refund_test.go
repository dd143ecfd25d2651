package payement

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"salonova_back_end/internal/services"
)

func TestRefundErrorResponse(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{services.ErrBookingNotFound, http.StatusNotFound},
		{services.ErrNotCardPayment, http.StatusBadRequest},
		{services.ErrNoPaymentIntent, http.StatusBadRequest},
		{services.ErrBookingCancelled, http.StatusBadRequest},
		{services.ErrInvalidAmount, http.StatusBadRequest},
		{services.ErrAlreadyRefunded, http.StatusConflict},
		{services.ErrRefundInProgress, http.StatusConflict},
		{services.ErrNotAdmin, http.StatusForbidden},
		{&services.ProcessorError{Err: errors.New("timeout")}, http.StatusBadGateway},
		{errors.New("autre"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		code, msg := refundErrorResponse(tc.err)
		assert.Equal(t, tc.code, code, "erreur %v", tc.err)
		assert.NotEmpty(t, msg)
	}
}

func refundTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/admin/bookings/:bookingId/refund", ProcessBookingRefund)
	return r
}

func TestProcessBookingRefund_InvalidBookingID(t *testing.T) {
	r := refundTestRouter()

	w := httptest.NewRecorder()
	body := `{"commission_handling": "refund_all"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/bookings/pas-un-uuid/refund", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProcessBookingRefund_InvalidPolicy(t *testing.T) {
	r := refundTestRouter()

	w := httptest.NewRecorder()
	body := `{"commission_handling": "garde_tout"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/bookings/11111111-2222-3333-4444-555555555555/refund", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "commission_handling")
}

func TestProcessBookingRefund_MissingPolicy(t *testing.T) {
	r := refundTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/bookings/11111111-2222-3333-4444-555555555555/refund", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
