package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/armandusbasson/KSA-PSMS/internal/service"
)

type VehicleHandler struct {
	vehicles *service.VehicleService
	log      zerolog.Logger
}

func NewVehicleHandler(vehicles *service.VehicleService, log zerolog.Logger) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles, log: log}
}

func (h *VehicleHandler) Register(api *gin.RouterGroup) {
	vehicles := api.Group("/vehicles")
	vehicles.POST("", h.create)
	vehicles.GET("", h.list)
	vehicles.GET("/staff/:staff_id", h.listByStaff)
	vehicles.GET("/type/:vehicle_type", h.listByType)
	vehicles.GET("/:plate", h.get)
	vehicles.PUT("/:plate", h.update)
	vehicles.DELETE("/:plate", h.delete)
	vehicles.POST("/:plate/upload", h.uploadNatis)
	vehicles.GET("/:plate/download", h.downloadNatis)
	vehicles.DELETE("/:plate/delete-upload", h.deleteNatis)
}

type vehicleCreateRequest struct {
	RegistrationPlate  string  `json:"registration_plate" binding:"required"`
	Make               string  `json:"make" binding:"required"`
	Model              string  `json:"model" binding:"required"`
	EngineDisplacement string  `json:"engine_displacement"`
	Description        string  `json:"description"`
	Year               int     `json:"year" binding:"required"`
	VINChassisNumber   string  `json:"vin_chassis_number"`
	VehicleType        string  `json:"vehicle_type" binding:"required"`
	Colour             string  `json:"colour"`
	PurchaseDate       *string `json:"purchase_date"`
	ActiveTracking     *bool   `json:"active_tracking"`
	AssignedStaffID    *uint   `json:"assigned_staff_id"`
	PrimaryUse         string  `json:"primary_use" binding:"required"`
	LicenseRenewalDate *string `json:"license_renewal_date"`
	GeneralNotes       string  `json:"general_notes"`
}

type vehicleUpdateRequest struct {
	Make               *string `json:"make"`
	Model              *string `json:"model"`
	EngineDisplacement *string `json:"engine_displacement"`
	Description        *string `json:"description"`
	Year               *int    `json:"year"`
	VINChassisNumber   *string `json:"vin_chassis_number"`
	VehicleType        *string `json:"vehicle_type"`
	Colour             *string `json:"colour"`
	PurchaseDate       *string `json:"purchase_date"`
	ActiveTracking     *bool   `json:"active_tracking"`
	AssignedStaffID    *uint   `json:"assigned_staff_id"`
	PrimaryUse         *string `json:"primary_use"`
	LicenseRenewalDate *string `json:"license_renewal_date"`
	GeneralNotes       *string `json:"general_notes"`
}

func (h *VehicleHandler) create(c *gin.Context) {
	var req vehicleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	purchaseDate, err := parseDatePtr(req.PurchaseDate)
	if err != nil {
		badRequest(c, "invalid purchase_date")
		return
	}
	renewalDate, err := parseDatePtr(req.LicenseRenewalDate)
	if err != nil {
		badRequest(c, "invalid license_renewal_date")
		return
	}

	vehicle, err := h.vehicles.Create(c.Request.Context(), service.VehicleCreateInput{
		RegistrationPlate:  req.RegistrationPlate,
		Make:               req.Make,
		Model:              req.Model,
		EngineDisplacement: req.EngineDisplacement,
		Description:        req.Description,
		Year:               req.Year,
		VINChassisNumber:   req.VINChassisNumber,
		VehicleType:        req.VehicleType,
		Colour:             req.Colour,
		PurchaseDate:       purchaseDate,
		ActiveTracking:     req.ActiveTracking,
		AssignedStaffID:    req.AssignedStaffID,
		PrimaryUse:         req.PrimaryUse,
		LicenseRenewalDate: renewalDate,
		GeneralNotes:       req.GeneralNotes,
	})
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, vehicle)
}

func (h *VehicleHandler) list(c *gin.Context) {
	offset, limit := pagination(c)
	vehicles, err := h.vehicles.List(c.Request.Context(), offset, limit)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

func (h *VehicleHandler) listByStaff(c *gin.Context) {
	staffID, ok := uintParam(c, "staff_id")
	if !ok {
		return
	}
	vehicles, err := h.vehicles.ListByStaff(c.Request.Context(), staffID)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

func (h *VehicleHandler) listByType(c *gin.Context) {
	vehicles, err := h.vehicles.ListByType(c.Request.Context(), c.Param("vehicle_type"))
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

func (h *VehicleHandler) get(c *gin.Context) {
	vehicle, err := h.vehicles.Get(c.Request.Context(), c.Param("plate"))
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, vehicle)
}

func (h *VehicleHandler) update(c *gin.Context) {
	var req vehicleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	purchaseDate, err := parseDatePtr(req.PurchaseDate)
	if err != nil {
		badRequest(c, "invalid purchase_date")
		return
	}
	renewalDate, err := parseDatePtr(req.LicenseRenewalDate)
	if err != nil {
		badRequest(c, "invalid license_renewal_date")
		return
	}

	vehicle, err := h.vehicles.Update(c.Request.Context(), c.Param("plate"), service.VehicleUpdateInput{
		Make:               req.Make,
		Model:              req.Model,
		EngineDisplacement: req.EngineDisplacement,
		Description:        req.Description,
		Year:               req.Year,
		VINChassisNumber:   req.VINChassisNumber,
		VehicleType:        req.VehicleType,
		Colour:             req.Colour,
		PurchaseDate:       purchaseDate,
		ActiveTracking:     req.ActiveTracking,
		AssignedStaffID:    req.AssignedStaffID,
		PrimaryUse:         req.PrimaryUse,
		LicenseRenewalDate: renewalDate,
		GeneralNotes:       req.GeneralNotes,
	})
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, vehicle)
}

func (h *VehicleHandler) delete(c *gin.Context) {
	if err := h.vehicles.Delete(c.Request.Context(), c.Param("plate")); err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "vehicle deleted"})
}

func (h *VehicleHandler) uploadNatis(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required")
		return
	}
	data, err := readUpload(header)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	vehicle, storedName, err := h.vehicles.UploadDocument(c.Request.Context(), c.Param("plate"), header.Filename, data)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "NATIS document uploaded",
		"filename": storedName,
		"vehicle":  vehicle,
	})
}

func (h *VehicleHandler) downloadNatis(c *gin.Context) {
	path, filename, err := h.vehicles.Document(c.Request.Context(), c.Param("plate"))
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.FileAttachment(path, filename)
}

func (h *VehicleHandler) deleteNatis(c *gin.Context) {
	if err := h.vehicles.DeleteDocument(c.Request.Context(), c.Param("plate")); err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "NATIS document deleted"})
}
