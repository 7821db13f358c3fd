package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/armandusbasson/KSA-PSMS/internal/model"
	"github.com/armandusbasson/KSA-PSMS/internal/service"
)

type SiteHandler struct {
	sites *service.SiteService
	log   zerolog.Logger
}

func NewSiteHandler(sites *service.SiteService, log zerolog.Logger) *SiteHandler {
	return &SiteHandler{sites: sites, log: log}
}

func (h *SiteHandler) Register(api *gin.RouterGroup) {
	sites := api.Group("/sites")
	sites.POST("", h.create)
	sites.GET("", h.list)
	sites.GET("/:id", h.get)
	sites.PUT("/:id", h.update)
	sites.DELETE("/:id", h.delete)
	sites.GET("/:id/staff", h.listStaff)
	sites.POST("/:id/staff/:staff_id", h.addStaff)
	sites.DELETE("/:id/staff/:staff_id", h.removeStaff)
}

type siteCreateRequest struct {
	Name          string `json:"name" binding:"required"`
	ContactPerson string `json:"contact_person"`
	ContactNumber string `json:"contact_number"`
	ContactEmail  string `json:"contact_email"`
	Coordinates   string `json:"coordinates"`
}

type siteUpdateRequest struct {
	Name          *string `json:"name"`
	ContactPerson *string `json:"contact_person"`
	ContactNumber *string `json:"contact_number"`
	ContactEmail  *string `json:"contact_email"`
	Coordinates   *string `json:"coordinates"`
}

type siteStaffRequest struct {
	Role string `json:"role" binding:"required"`
}

func (h *SiteHandler) create(c *gin.Context) {
	var req siteCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	site, err := h.sites.Create(c.Request.Context(), service.SiteCreateInput{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		ContactNumber: req.ContactNumber,
		ContactEmail:  req.ContactEmail,
		Coordinates:   req.Coordinates,
	})
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, site)
}

func (h *SiteHandler) list(c *gin.Context) {
	offset, limit := pagination(c)
	sites, err := h.sites.List(c.Request.Context(), offset, limit)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, sites)
}

func (h *SiteHandler) get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	site, err := h.sites.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, site)
}

func (h *SiteHandler) update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req siteUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	site, err := h.sites.Update(c.Request.Context(), id, service.SiteUpdateInput{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		ContactNumber: req.ContactNumber,
		ContactEmail:  req.ContactEmail,
		Coordinates:   req.Coordinates,
	})
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, site)
}

func (h *SiteHandler) delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.sites.Delete(c.Request.Context(), id); err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "site deleted"})
}

func (h *SiteHandler) listStaff(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	links, err := h.sites.ListAssignments(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, links)
}

func (h *SiteHandler) addStaff(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	staffID, ok := uintParam(c, "staff_id")
	if !ok {
		return
	}
	var req siteStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	link, err := h.sites.AddStaff(c.Request.Context(), id, staffID, model.SiteRole(req.Role))
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, link)
}

func (h *SiteHandler) removeStaff(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	staffID, ok := uintParam(c, "staff_id")
	if !ok {
		return
	}
	role := c.Query("role")
	if role == "" {
		badRequest(c, "role query parameter is required")
		return
	}

	if err := h.sites.RemoveStaff(c.Request.Context(), id, staffID, model.SiteRole(role)); err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "staff removed from site"})
}
