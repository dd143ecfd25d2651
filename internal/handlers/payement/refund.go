package payement

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"salonova_back_end/internal/models"
	"salonova_back_end/internal/services"
	"salonova_back_end/internal/utils"
)

type refundRequestBody struct {
	Amount             *float64 `json:"amount"`
	CommissionHandling string   `json:"commission_handling" binding:"required"`
	Reason             string   `json:"reason" binding:"max=500"`
}

func parseRefundRequest(c *gin.Context) (*services.RefundRequest, bool) {
	bookingID := c.Param("bookingId")
	if _, err := uuid.Parse(bookingID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID réservation invalide"})
		return nil, false
	}

	var body refundRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return nil, false
	}

	policy := models.CommissionPolicy(body.CommissionHandling)
	if policy != models.PolicyKeepPlatformCommission && policy != models.PolicyRefundAll {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":          "commission_handling invalide",
			"valid_policies": []string{string(models.PolicyKeepPlatformCommission), string(models.PolicyRefundAll)},
		})
		return nil, false
	}

	return &services.RefundRequest{
		BookingID: bookingID,
		AdminID:   c.GetString("user_id"),
		Amount:    body.Amount,
		Policy:    policy,
		Reason:    body.Reason,
	}, true
}

// refundErrorResponse traduit les erreurs typées du moteur en réponses HTTP
func refundErrorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrBookingNotFound):
		return http.StatusNotFound, "Réservation introuvable"
	case errors.Is(err, services.ErrNotCardPayment):
		return http.StatusBadRequest, "Seuls les paiements par carte peuvent être remboursés via Stripe"
	case errors.Is(err, services.ErrNoPaymentIntent):
		return http.StatusBadRequest, "Aucun paiement Stripe associé à cette réservation"
	case errors.Is(err, services.ErrBookingCancelled):
		return http.StatusBadRequest, "Réservation annulée, remboursement impossible"
	case errors.Is(err, services.ErrInvalidAmount):
		return http.StatusBadRequest, "Montant de remboursement invalide"
	case errors.Is(err, services.ErrAlreadyRefunded):
		return http.StatusConflict, "Cette réservation a déjà été remboursée"
	case errors.Is(err, services.ErrRefundInProgress):
		return http.StatusConflict, "Un remboursement est déjà en cours pour cette réservation"
	case errors.Is(err, services.ErrNotAdmin):
		return http.StatusForbidden, "Accès réservé aux administrateurs"
	}

	var procErr *services.ProcessorError
	if errors.As(err, &procErr) {
		// Remonté tel quel, jamais réessayé : l'admin doit vérifier
		// l'état réel dans le dashboard Stripe
		return http.StatusBadGateway, "Erreur Stripe: " + procErr.Err.Error()
	}

	return http.StatusInternalServerError, "Erreur traitement remboursement"
}

// ProcessBookingRefund traite le remboursement d'une réservation (admin)
func ProcessBookingRefund(c *gin.Context) {
	req, ok := parseRefundRequest(c)
	if !ok {
		return
	}

	result, err := services.Engine.ProcessRefund(c.Request.Context(), *req)
	if err != nil {
		log.Printf("❌ Remboursement refusé pour réservation %s: %v", req.BookingID, err)
		utils.LogFailedAction(c, utils.ACTION_REFUND_PROCESS, utils.RESOURCE_BOOKING, req.BookingID, err.Error())
		status, msg := refundErrorResponse(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	utils.LogAction(c, utils.ACTION_REFUND_PROCESS, utils.RESOURCE_BOOKING, req.BookingID, nil, result)

	c.JSON(http.StatusOK, gin.H{
		"message": "Remboursement traité avec succès",
		"refund":  result,
	})
}

// PreviewBookingRefund calcule la ventilation sans exécuter le
// remboursement, pour l'écran de confirmation du dashboard
func PreviewBookingRefund(c *gin.Context) {
	req, ok := parseRefundRequest(c)
	if !ok {
		return
	}

	result, err := services.Engine.PreviewRefund(c.Request.Context(), *req)
	if err != nil {
		status, msg := refundErrorResponse(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	utils.LogAction(c, utils.ACTION_REFUND_PREVIEW, utils.RESOURCE_REFUND, req.BookingID, nil, result)

	c.JSON(http.StatusOK, gin.H{"preview": result})
}

// GetBookingRefunds liste les lignes du grand livre pour une réservation
func GetBookingRefunds(c *gin.Context) {
	bookingID := c.Param("bookingId")
	if _, err := uuid.Parse(bookingID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID réservation invalide"})
		return
	}

	entries, err := services.Engine.ListRefunds(c.Request.Context(), bookingID)
	if err != nil {
		log.Printf("❌ Erreur lecture grand livre pour %s: %v", bookingID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture remboursements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"refunds": entries,
		"count":   len(entries),
	})
}
