package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/armandusbasson/KSA-PSMS/internal/model"
	"github.com/armandusbasson/KSA-PSMS/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ContractHandler struct {
	contracts *service.ContractService
	log       zerolog.Logger
}

func NewContractHandler(contracts *service.ContractService, log zerolog.Logger) *ContractHandler {
	return &ContractHandler{contracts: contracts, log: log}
}

func (h *ContractHandler) Register(api *gin.RouterGroup) {
	contracts := api.Group("/contracts")
	contracts.POST("", h.create)
	contracts.GET("", h.list)
	contracts.GET("/summary", h.summary)
	contracts.GET("/summary/by-type/:contract_type", h.summaryByType)
	contracts.GET("/overdue", h.overdue)
	contracts.GET("/export", h.exportRegister)
	contracts.GET("/:id", h.get)
	contracts.PUT("/:id", h.update)
	contracts.DELETE("/:id", h.delete)
	contracts.POST("/:id/upload", h.uploadDocument)
	contracts.GET("/:id/download", h.downloadDocument)
	contracts.DELETE("/:id/file", h.deleteDocument)
	contracts.GET("/:id/sections", h.listSections)
	contracts.POST("/:id/sections", h.createSection)
	contracts.PUT("/sections/:section_id", h.updateSection)
	contracts.DELETE("/sections/:section_id", h.deleteSection)
	contracts.GET("/sections/:section_id/items", h.listItems)
	contracts.POST("/sections/:section_id/items", h.createItem)
	contracts.PUT("/items/:item_id", h.updateItem)
	contracts.DELETE("/items/:item_id", h.deleteItem)
}

type lineItemRequest struct {
	Description string  `json:"description" binding:"required"`
	Value       float64 `json:"value"`
	SortOrder   int     `json:"sort_order"`
}

type sectionRequest struct {
	Name        string            `json:"name" binding:"required"`
	Description string            `json:"description"`
	SortOrder   int               `json:"sort_order"`
	Items       []lineItemRequest `json:"items"`
}

type contractCreateRequest struct {
	ContractType           string           `json:"contract_type" binding:"required"`
	Status                 string           `json:"status"`
	StartDate              string           `json:"start_date" binding:"required"`
	EndDate                string           `json:"end_date" binding:"required"`
	EskomReference         string           `json:"eskom_reference"`
	ContactPersonName      string           `json:"contact_person_name"`
	ContactPersonTelephone string           `json:"contact_person_telephone"`
	ContactPersonEmail     string           `json:"contact_person_email"`
	ContractValue          *float64         `json:"contract_value"`
	Notes                  string           `json:"notes"`
	SiteID                 uint             `json:"site_id" binding:"required"`
	ResponsibleStaffID     uint             `json:"responsible_staff_id" binding:"required"`
	Sections               []sectionRequest `json:"sections"`
}

type contractUpdateRequest struct {
	ContractType           *string  `json:"contract_type"`
	Status                 *string  `json:"status"`
	StartDate              *string  `json:"start_date"`
	EndDate                *string  `json:"end_date"`
	EskomReference         *string  `json:"eskom_reference"`
	ContactPersonName      *string  `json:"contact_person_name"`
	ContactPersonTelephone *string  `json:"contact_person_telephone"`
	ContactPersonEmail     *string  `json:"contact_person_email"`
	ContractValue          *float64 `json:"contract_value"`
	Notes                  *string  `json:"notes"`
	SiteID                 *uint    `json:"site_id"`
	ResponsibleStaffID     *uint    `json:"responsible_staff_id"`
}

type sectionUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	SortOrder   *int    `json:"sort_order"`
}

type lineItemUpdateRequest struct {
	Description *string  `json:"description"`
	Value       *float64 `json:"value"`
	SortOrder   *int     `json:"sort_order"`
}

func buildSectionInputs(requests []sectionRequest) []service.SectionInput {
	sections := make([]service.SectionInput, 0, len(requests))
	for _, req := range requests {
		section := service.SectionInput{
			Name:        req.Name,
			Description: req.Description,
			SortOrder:   req.SortOrder,
		}
		for _, item := range req.Items {
			section.Items = append(section.Items, service.LineItemInput{
				Description: item.Description,
				Value:       item.Value,
				SortOrder:   item.SortOrder,
			})
		}
		sections = append(sections, section)
	}
	return sections
}

func (h *ContractHandler) create(c *gin.Context) {
	var req contractCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		badRequest(c, "invalid start_date")
		return
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		badRequest(c, "invalid end_date")
		return
	}

	contract, err := h.contracts.Create(c.Request.Context(), service.ContractCreateInput{
		ContractType:           model.ContractType(req.ContractType),
		Status:                 model.ContractStatus(req.Status),
		StartDate:              startDate,
		EndDate:                endDate,
		EskomReference:         req.EskomReference,
		ContactPersonName:      req.ContactPersonName,
		ContactPersonTelephone: req.ContactPersonTelephone,
		ContactPersonEmail:     req.ContactPersonEmail,
		ContractValue:          req.ContractValue,
		Notes:                  req.Notes,
		SiteID:                 req.SiteID,
		ResponsibleStaffID:     req.ResponsibleStaffID,
		Sections:               buildSectionInputs(req.Sections),
	})
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, contract)
}

func (h *ContractHandler) list(c *gin.Context) {
	offset, limit := pagination(c)

	var siteID *uint
	if raw := c.Query("site_id"); raw != "" {
		parsed, ok := parseUintQuery(c, "site_id", raw)
		if !ok {
			return
		}
		siteID = &parsed
	}
	var status *string
	if raw := c.Query("status"); raw != "" {
		status = &raw
	}

	contracts, err := h.contracts.List(c.Request.Context(), siteID, status, offset, limit)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, contracts)
}

func (h *ContractHandler) summary(c *gin.Context) {
	summary, err := h.contracts.Summary(c.Request.Context())
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *ContractHandler) summaryByType(c *gin.Context) {
	summary, err := h.contracts.SummaryByType(c.Request.Context(), c.Param("contract_type"))
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *ContractHandler) overdue(c *gin.Context) {
	contracts, err := h.contracts.Overdue(c.Request.Context())
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, contracts)
}

func (h *ContractHandler) exportRegister(c *gin.Context) {
	content, filename, err := h.contracts.ExportRegister(c.Request.Context())
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Data(http.StatusOK, xlsxContentType, content)
}

func (h *ContractHandler) get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	contract, err := h.contracts.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *ContractHandler) update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req contractUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	startDate, err := parseDatePtr(req.StartDate)
	if err != nil {
		badRequest(c, "invalid start_date")
		return
	}
	endDate, err := parseDatePtr(req.EndDate)
	if err != nil {
		badRequest(c, "invalid end_date")
		return
	}

	input := service.ContractUpdateInput{
		StartDate:              startDate,
		EndDate:                endDate,
		EskomReference:         req.EskomReference,
		ContactPersonName:      req.ContactPersonName,
		ContactPersonTelephone: req.ContactPersonTelephone,
		ContactPersonEmail:     req.ContactPersonEmail,
		ContractValue:          req.ContractValue,
		Notes:                  req.Notes,
		SiteID:                 req.SiteID,
		ResponsibleStaffID:     req.ResponsibleStaffID,
	}
	if req.ContractType != nil {
		parsed := model.ContractType(*req.ContractType)
		input.ContractType = &parsed
	}
	if req.Status != nil {
		parsed := model.ContractStatus(*req.Status)
		input.Status = &parsed
	}

	contract, err := h.contracts.Update(c.Request.Context(), id, input)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *ContractHandler) delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.contracts.Delete(c.Request.Context(), id); err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "contract deleted"})
}

func (h *ContractHandler) uploadDocument(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
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

	contract, storedName, err := h.contracts.UploadDocument(c.Request.Context(), id, header.Filename, data)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "document uploaded",
		"filename": storedName,
		"contract": contract,
	})
}

func (h *ContractHandler) downloadDocument(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	path, filename, err := h.contracts.Document(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.FileAttachment(path, filename)
}

func (h *ContractHandler) deleteDocument(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := h.contracts.DeleteDocument(c.Request.Context(), id); err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "document deleted"})
}

func (h *ContractHandler) listSections(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	sections, err := h.contracts.ListSections(c.Request.Context(), id)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, sections)
}

func (h *ContractHandler) createSection(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	var req sectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	inputs := buildSectionInputs([]sectionRequest{req})
	section, err := h.contracts.CreateSection(c.Request.Context(), id, inputs[0])
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, section)
}

func (h *ContractHandler) updateSection(c *gin.Context) {
	sectionID, ok := uintParam(c, "section_id")
	if !ok {
		return
	}
	var req sectionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	section, err := h.contracts.UpdateSection(c.Request.Context(), sectionID, req.Name, req.Description, req.SortOrder)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, section)
}

func (h *ContractHandler) deleteSection(c *gin.Context) {
	sectionID, ok := uintParam(c, "section_id")
	if !ok {
		return
	}
	if err := h.contracts.DeleteSection(c.Request.Context(), sectionID); err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "section deleted"})
}

func (h *ContractHandler) listItems(c *gin.Context) {
	sectionID, ok := uintParam(c, "section_id")
	if !ok {
		return
	}
	items, err := h.contracts.ListItems(c.Request.Context(), sectionID)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *ContractHandler) createItem(c *gin.Context) {
	sectionID, ok := uintParam(c, "section_id")
	if !ok {
		return
	}
	var req lineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	item, err := h.contracts.CreateItem(c.Request.Context(), sectionID, service.LineItemInput{
		Description: req.Description,
		Value:       req.Value,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *ContractHandler) updateItem(c *gin.Context) {
	itemID, ok := uintParam(c, "item_id")
	if !ok {
		return
	}
	var req lineItemUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	item, err := h.contracts.UpdateItem(c.Request.Context(), itemID, req.Description, req.Value, req.SortOrder)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *ContractHandler) deleteItem(c *gin.Context) {
	itemID, ok := uintParam(c, "item_id")
	if !ok {
		return
	}
	if err := h.contracts.DeleteItem(c.Request.Context(), itemID); err != nil {
		handleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "line item deleted"})
}
