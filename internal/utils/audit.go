package utils

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"salonova_back_end/internal/database"
	"salonova_back_end/internal/models"
)

// LogAction enregistre une action dans les logs d'audit.
// L'identité de la requête est capturée de façon synchrone : Gin recycle
// le contexte dès que le handler rend la main, seule l'écriture Scylla
// part en goroutine.
func LogAction(c *gin.Context, action, resource string, resourceID string, oldValue, newValue interface{}) {
	entry := buildAuditLog(c, action, resource, resourceID, oldValue, newValue, true, "")
	go func() {
		if err := insertAuditLog(entry); err != nil {
			log.Printf("❌ Erreur enregistrement log audit: %v", err)
		}
	}()
}

// LogFailedAction enregistre une action échouée dans les logs d'audit
func LogFailedAction(c *gin.Context, action, resource, resourceID, errorMsg string) {
	entry := buildAuditLog(c, action, resource, resourceID, nil, nil, false, errorMsg)
	go func() {
		if err := insertAuditLog(entry); err != nil {
			log.Printf("❌ Erreur enregistrement log audit: %v", err)
		}
	}()
}

// buildAuditLog construit la ligne d'audit depuis le contexte de la
// requête, avant tout passage en goroutine
func buildAuditLog(c *gin.Context, action, resource, resourceID string, oldValue, newValue interface{}, success bool, errorMsg string) models.AuditLog {
	userID, _ := c.Get("user_id")
	userEmail, _ := c.Get("email")

	// Sérialiser les valeurs
	var oldValueStr, newValueStr string
	if oldValue != nil {
		if oldBytes, err := json.Marshal(oldValue); err == nil {
			oldValueStr = string(oldBytes)
		}
	}
	if newValue != nil {
		if newBytes, err := json.Marshal(newValue); err == nil {
			newValueStr = string(newBytes)
		}
	}

	return models.AuditLog{
		ID:         gocql.TimeUUID(),
		UserID:     getStringValue(userID),
		UserEmail:  getStringValue(userEmail),
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		OldValue:   oldValueStr,
		NewValue:   newValueStr,
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		Success:    success,
		ErrorMsg:   errorMsg,
		Timestamp:  time.Now(),
	}
}

// insertAuditLog écrit la ligne d'audit de façon asynchrone
func insertAuditLog(auditLog models.AuditLog) error {
	usersSession, err := database.GetUsersSession()
	if err != nil {
		return err
	}

	return usersSession.Query(`INSERT INTO audit_logs (id, user_id, user_email, action, resource, resource_id, old_value, new_value, ip_address, user_agent, success, error_msg, timestamp, session_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		auditLog.ID, auditLog.UserID, auditLog.UserEmail, auditLog.Action,
		auditLog.Resource, auditLog.ResourceID, auditLog.OldValue, auditLog.NewValue,
		auditLog.IPAddress, auditLog.UserAgent, auditLog.Success, auditLog.ErrorMsg,
		auditLog.Timestamp, auditLog.SessionID,
	).Exec()
}

func getStringValue(v interface{}) string {
	if str, ok := v.(string); ok {
		return str
	}
	return ""
}

// Actions d'audit prédéfinies
const (
	// Actions remboursements
	ACTION_REFUND_PROCESS = "refund.process"
	ACTION_REFUND_PREVIEW = "refund.preview"

	// Actions réservations
	ACTION_BOOKING_VIEW = "booking.view"

	// Actions système
	ACTION_LOGIN_SUCCESS = "auth.login_success"
	ACTION_LOGIN_FAILED  = "auth.login_failed"
)

// Resources d'audit
const (
	RESOURCE_BOOKING = "booking"
	RESOURCE_REFUND  = "refund"
	RESOURCE_AUTH    = "auth"
)
