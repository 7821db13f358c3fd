package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/armandusbasson/KSA-PSMS/internal/service"
)

type StaffHandler struct {
	staff *service.StaffService
	log   zerolog.Logger
}

func NewStaffHandler(staff *service.StaffService, log zerolog.Logger) *StaffHandler {
	return &StaffHandler{staff: staff, log: log}
}

func (h *StaffHandler) Register(api *gin.RouterGroup) {
	staff := api.Group("/staff")
	staff.POST("", h.create)
	staff.GET("", h.list)
	staff.GET("/:id", h.get)
	staff.PUT("/:id", h.update)
	staff.DELETE("/:id", h.delete)
}

type staffCreateRequest struct {
	Name    string `json:"name" binding:"required"`
	Surname string `json:"surname"`
	Role    string `json:"role"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

type staffUpdateRequest struct {
	Name    *string `json:"name"`
	Surname *string `json:"surname"`
	Role    *string `json:"role"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
}

func (h *StaffHandler) create(c *gin.Context) {
	var req staffCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	member, err := h.staff.Create(c.Request.Context(), service.StaffCreateInput{
		Name:    req.Name,
		Surname: req.Surname,
		Role:    req.Role,
		Email:   req.Email,
		Phone:   req.Phone,
	})
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

func (h *StaffHandler) list(c *gin.Context) {
	offset, limit := pagination(c)
	members, err := h.staff.List(c.Request.Context(), offset, limit)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

func (h *StaffHandler) get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	member, err := h.staff.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

func (h *StaffHandler) update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req staffUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	member, err := h.staff.Update(c.Request.Context(), id, service.StaffUpdateInput{
		Name:    req.Name,
		Surname: req.Surname,
		Role:    req.Role,
		Email:   req.Email,
		Phone:   req.Phone,
	})
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

func (h *StaffHandler) delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.staff.Delete(c.Request.Context(), id); err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "staff member deleted"})
}
