package payement

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"salonova_back_end/internal/database"
	"salonova_back_end/internal/models"
	"salonova_back_end/internal/services"
	"salonova_back_end/internal/utils"
)

// GetBooking récupère une réservation avec son coiffeur normalisé (admin)
func GetBooking(c *gin.Context) {
	bookingID := c.Param("bookingId")
	if _, err := uuid.Parse(bookingID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID réservation invalide"})
		return
	}

	booking, err := services.ScyllaBookingStore{}.GetBooking(c.Request.Context(), bookingID)
	if err != nil {
		if errors.Is(err, services.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Réservation introuvable"})
			return
		}
		log.Printf("❌ Erreur lecture réservation %s: %v", bookingID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture réservation"})
		return
	}

	utils.LogAction(c, utils.ACTION_BOOKING_VIEW, utils.RESOURCE_BOOKING, bookingID, nil, nil)

	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// GetAllBookings liste les réservations, filtrables par statut (admin)
func GetAllBookings(c *gin.Context) {
	session, err := database.GetBookingsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	status := c.Query("status")
	limitStr := c.DefaultQuery("limit", "100")
	limit, _ := strconv.Atoi(limitStr)
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var iter *gocql.Iter
	baseQuery := `SELECT booking_id, client_id, provider_id, total_price, payment_method, payment_intent_id, status, created_at, updated_at FROM bookings`
	if status != "" {
		iter = session.Query(baseQuery+" WHERE status = ? LIMIT ? ALLOW FILTERING", status, limit).Iter()
	} else {
		iter = session.Query(baseQuery+" LIMIT ?", limit).Iter()
	}

	var bookings []models.Booking
	var b models.Booking

	for iter.Scan(&b.ID, &b.ClientID, &b.ProviderID, &b.TotalPrice,
		&b.PaymentMethod, &b.PaymentIntentID, &b.Status, &b.CreatedAt, &b.UpdatedAt) {
		bookings = append(bookings, b)
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture réservations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
		"count":    len(bookings),
	})
}
