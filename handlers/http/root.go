package httpHandler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const Version = "1.0.0"

type ServiceInfo struct {
	Message   string                       `json:"message"`
	Version   string                       `json:"version"`
	Database  string                       `json:"database"`
	Endpoints map[string]map[string]string `json:"endpoints"`
}

type RootHandler struct {
	info ServiceInfo
}

// NewRootHandler describes the service. database names the configured
// driver.
func NewRootHandler(database string) *RootHandler {
	return &RootHandler{info: ServiceInfo{
		Message:  "Hotel management API is running",
		Version:  Version,
		Database: database,
		Endpoints: map[string]map[string]string{
			"auth": {
				"sendCode": "POST /api/auth/sendCode",
				"register": "POST /api/auth/register",
				"login":    "POST /api/auth/login",
			},
			"hotel": {
				"create": "POST /api/hotel/create",
				"list":   "GET /api/hotel/list",
				"detail": "GET /api/hotel/:id",
				"update": "PUT /api/hotel/:id",
				"delete": "DELETE /api/hotel/:id",
			},
		},
	}}
}

// Describe handles GET /
func (h *RootHandler) Describe(c *gin.Context) {
	c.JSON(http.StatusOK, h.info)
}

// Health handles GET /health
func (h *RootHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}
