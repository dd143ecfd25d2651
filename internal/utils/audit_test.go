package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func auditTestContext(t *testing.T) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/api/admin/bookings/b-1/refund", nil)
	c.Request.Header.Set("User-Agent", "salonova-dashboard/2.4")
	c.Set("user_id", "admin-1")
	c.Set("email", "admin@salonova.fr")
	return c
}

// La capture doit être entièrement synchrone : une fois le handler
// terminé, Gin recycle le contexte et ses valeurs peuvent appartenir à
// une autre requête
func TestBuildAuditLogCapturesIdentityBeforeContextReuse(t *testing.T) {
	c := auditTestContext(t)

	entry := buildAuditLog(c, ACTION_REFUND_PREVIEW, RESOURCE_REFUND, "b-1", nil, map[string]string{"scope": "full"}, true, "")

	// Simule la réutilisation du contexte par une autre requête
	c.Set("user_id", "autre-admin")
	c.Set("email", "autre@salonova.fr")
	c.Request = httptest.NewRequest("GET", "/api/admin/audit", nil)

	assert.Equal(t, "admin-1", entry.UserID)
	assert.Equal(t, "admin@salonova.fr", entry.UserEmail)
	assert.Equal(t, ACTION_REFUND_PREVIEW, entry.Action)
	assert.Equal(t, RESOURCE_REFUND, entry.Resource)
	assert.Equal(t, "b-1", entry.ResourceID)
	assert.Equal(t, "salonova-dashboard/2.4", entry.UserAgent)
	assert.NotEmpty(t, entry.IPAddress)
	assert.True(t, entry.Success)
	assert.Contains(t, entry.NewValue, "full")
	assert.Empty(t, entry.OldValue)
	assert.False(t, entry.Timestamp.IsZero())
}

func TestBuildAuditLogFailedAction(t *testing.T) {
	c := auditTestContext(t)

	entry := buildAuditLog(c, ACTION_LOGIN_FAILED, RESOURCE_AUTH, "admin@salonova.fr", nil, nil, false, "mot de passe incorrect")

	assert.False(t, entry.Success)
	assert.Equal(t, "mot de passe incorrect", entry.ErrorMsg)
	assert.Empty(t, entry.OldValue)
	assert.Empty(t, entry.NewValue)
}

// Les valeurs du contexte peuvent manquer (route non authentifiée) :
// la ligne d'audit part quand même, champs identité vides
func TestBuildAuditLogWithoutIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/api/auth/login", nil)

	entry := buildAuditLog(c, ACTION_LOGIN_FAILED, RESOURCE_AUTH, "inconnu@salonova.fr", nil, nil, false, "email inconnu")

	assert.Empty(t, entry.UserID)
	assert.Empty(t, entry.UserEmail)
	assert.Equal(t, ACTION_LOGIN_FAILED, entry.Action)
}
