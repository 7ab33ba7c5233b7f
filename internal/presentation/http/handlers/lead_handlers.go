package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/digifyhq/digify-go/internal/application/services"
	"github.com/digifyhq/digify-go/internal/infrastructure/observability/logging"
)

// LeadHandlers serves contact form intake and the admin lead listing.
type LeadHandlers struct {
	leadService        *services.LeadService
	attributionService *services.AttributionService
	logger             *logging.ChanneledLogger
}

// NewLeadHandlers creates lead handlers with injected dependencies.
func NewLeadHandlers(leadService *services.LeadService, attributionService *services.AttributionService, logger *logging.ChanneledLogger) *LeadHandlers {
	return &LeadHandlers{
		leadService:        leadService,
		attributionService: attributionService,
		logger:             logger,
	}
}

// PostLead handles POST /api/v1/leads - contact form submission. A bundle
// posted in the body wins; the request cookies are only the fallback for
// clients that never decoded their own record.
func (h *LeadHandlers) PostLead(c *gin.Context) {
	var input services.LeadInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lead payload"})
		return
	}

	attribution := input.Attrib
	if attribution == nil {
		if visitor, ok := h.attributionService.Current(c.Request); ok {
			attribution = &visitor
		}
	}

	l, err := h.leadService.Create(input, attribution, c.ClientIP(), c.Request.UserAgent(), time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"id": l.ID})
}

// GetLeads handles GET /api/v1/admin/leads - paginated lead listing for the
// admin surface.
func (h *LeadHandlers) GetLeads(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	result, err := h.leadService.List(limit, offset)
	if err != nil {
		h.logger.Lead().Error("Lead listing failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list leads"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"leads": result, "count": len(result)})
}

// GetLead handles GET /api/v1/admin/leads/:id.
func (h *LeadHandlers) GetLead(c *gin.Context) {
	l, err := h.leadService.FindByID(c.Param("id"))
	if err != nil {
		h.logger.Lead().Error("Lead lookup failed", "error", err.Error(), "id", c.Param("id"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load lead"})
		return
	}
	if l == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "lead not found"})
		return
	}

	c.JSON(http.StatusOK, l)
}
