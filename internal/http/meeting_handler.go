package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/armandusbasson/KSA-PSMS/internal/service"
)

type MeetingHandler struct {
	meetings *service.MeetingService
	log      zerolog.Logger
}

func NewMeetingHandler(meetings *service.MeetingService, log zerolog.Logger) *MeetingHandler {
	return &MeetingHandler{meetings: meetings, log: log}
}

func (h *MeetingHandler) Register(api *gin.RouterGroup) {
	meetings := api.Group("/meetings")
	meetings.POST("", h.create)
	meetings.GET("", h.list)
	meetings.GET("/site/:site_id", h.listBySite)
	meetings.GET("/:id", h.get)
	meetings.PUT("/:id", h.update)
	meetings.DELETE("/:id", h.delete)
	meetings.GET("/:id/export/pdf", h.exportMinutes)
}

type meetingItemRequest struct {
	IssueDiscussed      string  `json:"issue_discussed" binding:"required"`
	ResponsibleStaffIDs []uint  `json:"responsible_staff_ids"`
	TargetDate          *string `json:"target_date"`
	InvoiceDate         *string `json:"invoice_date"`
	PaymentDate         *string `json:"payment_date"`
}

type meetingCreateRequest struct {
	SiteID             uint                 `json:"site_id" binding:"required"`
	Agenda             string               `json:"agenda"`
	Attendees          string               `json:"attendees"`
	Apologies          string               `json:"apologies"`
	ChairpersonStaffID *uint                `json:"chairperson_staff_id"`
	Introduction       string               `json:"introduction"`
	ScheduledAt        *string              `json:"scheduled_at"`
	Items              []meetingItemRequest `json:"items"`
}

type meetingUpdateRequest struct {
	Agenda             *string              `json:"agenda"`
	Attendees          *string              `json:"attendees"`
	Apologies          *string              `json:"apologies"`
	ChairpersonStaffID *uint                `json:"chairperson_staff_id"`
	Introduction       *string              `json:"introduction"`
	ScheduledAt        *string              `json:"scheduled_at"`
	Items              []meetingItemRequest `json:"items"`
}

func buildItemInputs(requests []meetingItemRequest) ([]service.MeetingItemInput, error) {
	items := make([]service.MeetingItemInput, 0, len(requests))
	for _, req := range requests {
		targetDate, err := parseDatePtr(req.TargetDate)
		if err != nil {
			return nil, err
		}
		invoiceDate, err := parseDatePtr(req.InvoiceDate)
		if err != nil {
			return nil, err
		}
		paymentDate, err := parseDatePtr(req.PaymentDate)
		if err != nil {
			return nil, err
		}
		items = append(items, service.MeetingItemInput{
			IssueDiscussed:      req.IssueDiscussed,
			ResponsibleStaffIDs: req.ResponsibleStaffIDs,
			TargetDate:          targetDate,
			InvoiceDate:         invoiceDate,
			PaymentDate:         paymentDate,
		})
	}
	return items, nil
}

func (h *MeetingHandler) create(c *gin.Context) {
	var req meetingCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	scheduledAt, err := parseDatePtr(req.ScheduledAt)
	if err != nil {
		badRequest(c, "invalid scheduled_at")
		return
	}
	items, err := buildItemInputs(req.Items)
	if err != nil {
		badRequest(c, "invalid item date")
		return
	}

	meeting, err := h.meetings.Create(c.Request.Context(), service.MeetingCreateInput{
		SiteID:             req.SiteID,
		Agenda:             req.Agenda,
		Attendees:          req.Attendees,
		Apologies:          req.Apologies,
		ChairpersonStaffID: req.ChairpersonStaffID,
		Introduction:       req.Introduction,
		ScheduledAt:        scheduledAt,
		Items:              items,
	})
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, meeting)
}

func (h *MeetingHandler) list(c *gin.Context) {
	offset, limit := pagination(c)

	var siteID *uint
	if raw := c.Query("site_id"); raw != "" {
		parsed, ok := parseUintQuery(c, "site_id", raw)
		if !ok {
			return
		}
		siteID = &parsed
	}

	meetings, err := h.meetings.List(c.Request.Context(), offset, limit, siteID)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, meetings)
}

func (h *MeetingHandler) listBySite(c *gin.Context) {
	siteID, ok := uintParam(c, "site_id")
	if !ok {
		return
	}
	meetings, err := h.meetings.ListBySite(c.Request.Context(), siteID)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, meetings)
}

func (h *MeetingHandler) get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	meeting, err := h.meetings.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, meeting)
}

func (h *MeetingHandler) update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req meetingUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	scheduledAt, err := parseDatePtr(req.ScheduledAt)
	if err != nil {
		badRequest(c, "invalid scheduled_at")
		return
	}

	input := service.MeetingUpdateInput{
		Agenda:             req.Agenda,
		Attendees:          req.Attendees,
		Apologies:          req.Apologies,
		ChairpersonStaffID: req.ChairpersonStaffID,
		Introduction:       req.Introduction,
		ScheduledAt:        scheduledAt,
	}
	// Absent "items" leaves items untouched; a present array, even empty,
	// replaces the whole set.
	if req.Items != nil {
		items, err := buildItemInputs(req.Items)
		if err != nil {
			badRequest(c, "invalid item date")
			return
		}
		input.Items = items
	}

	meeting, err := h.meetings.Update(c.Request.Context(), id, input)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, meeting)
}

func (h *MeetingHandler) delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.meetings.Delete(c.Request.Context(), id); err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "meeting deleted"})
}

func (h *MeetingHandler) exportMinutes(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	content, filename, err := h.meetings.ExportMinutes(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Data(http.StatusOK, "application/pdf", content)
}
