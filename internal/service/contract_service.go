package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/armandusbasson/KSA-PSMS/internal/filestore"
	"github.com/armandusbasson/KSA-PSMS/internal/model"
	"github.com/armandusbasson/KSA-PSMS/internal/repository"
)

// RegisterGenerator renders the contract register workbook.
type RegisterGenerator interface {
	Generate(contracts []model.Contract, summary model.ContractSummary) ([]byte, error)
}

type LineItemInput struct {
	Description string
	Value       float64
	SortOrder   int
}

type SectionInput struct {
	Name        string
	Description string
	SortOrder   int
	Items       []LineItemInput
}

type ContractCreateInput struct {
	ContractType           model.ContractType
	Status                 model.ContractStatus
	StartDate              time.Time
	EndDate                time.Time
	EskomReference         string
	ContactPersonName      string
	ContactPersonTelephone string
	ContactPersonEmail     string
	ContractValue          *float64
	Notes                  string
	SiteID                 uint
	ResponsibleStaffID     uint
	Sections               []SectionInput
}

type ContractUpdateInput struct {
	ContractType           *model.ContractType
	Status                 *model.ContractStatus
	StartDate              *time.Time
	EndDate                *time.Time
	EskomReference         *string
	ContactPersonName      *string
	ContactPersonTelephone *string
	ContactPersonEmail     *string
	ContractValue          *float64
	Notes                  *string
	SiteID                 *uint
	ResponsibleStaffID     *uint
}

type ContractService struct {
	contracts *repository.ContractRepository
	sites     *repository.SiteRepository
	staff     *repository.StaffRepository
	files     *filestore.Store
	register  RegisterGenerator
	log       zerolog.Logger
	now       func() time.Time
}

func NewContractService(
	contracts *repository.ContractRepository,
	sites *repository.SiteRepository,
	staff *repository.StaffRepository,
	files *filestore.Store,
	register RegisterGenerator,
	log zerolog.Logger,
) *ContractService {
	return &ContractService{
		contracts: contracts,
		sites:     sites,
		staff:     staff,
		files:     files,
		register:  register,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// sweep transitions Active contracts past their end date to Expired.
// Every read operation calls it first, so read endpoints may write.
func (s *ContractService) sweep(ctx context.Context) error {
	expired, err := s.contracts.ExpireOverdue(ctx, s.now())
	if err != nil {
		return err
	}
	if expired > 0 {
		s.log.Info().Int64("count", expired).Msg("contracts expired")
	}
	return nil
}

func (s *ContractService) List(ctx context.Context, siteID *uint, status *string, offset, limit int) ([]model.Contract, error) {
	if err := s.sweep(ctx); err != nil {
		return nil, err
	}
	switch {
	case siteID != nil:
		return s.contracts.ListBySite(ctx, *siteID)
	case status != nil:
		parsed := model.ContractStatus(*status)
		if !parsed.Valid() {
			return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, *status)
		}
		return s.contracts.ListByStatus(ctx, parsed)
	default:
		return s.contracts.List(ctx, offset, limit)
	}
}

func (s *ContractService) Get(ctx context.Context, id uint) (*model.Contract, error) {
	if err := s.sweep(ctx); err != nil {
		return nil, err
	}
	contract, err := s.contracts.Get(ctx, id)
	if err != nil {
		return nil, asNotFound(err)
	}
	return contract, nil
}

func (s *ContractService) Overdue(ctx context.Context) ([]model.Contract, error) {
	if err := s.sweep(ctx); err != nil {
		return nil, err
	}
	// The sweep has just expired everything overdue, so this reports
	// contracts that slipped past end_date since: normally empty.
	return s.contracts.ListOverdue(ctx, s.now())
}

func (s *ContractService) Summary(ctx context.Context) (*model.ContractSummary, error) {
	if err := s.sweep(ctx); err != nil {
		return nil, err
	}
	return s.contracts.Summary(ctx, s.now())
}

func (s *ContractService) SummaryByType(ctx context.Context, contractType string) (*model.ContractSummary, error) {
	parsed := model.ContractType(contractType)
	if !parsed.Valid() {
		return nil, fmt.Errorf("%w: invalid contract type, use 'Supply' or 'Service'", ErrInvalidInput)
	}
	if err := s.sweep(ctx); err != nil {
		return nil, err
	}
	return s.contracts.SummaryByType(ctx, parsed, s.now())
}

func (s *ContractService) Create(ctx context.Context, input ContractCreateInput) (*model.Contract, error) {
	if !input.ContractType.Valid() {
		return nil, fmt.Errorf("%w: invalid contract type %q", ErrInvalidInput, input.ContractType)
	}
	status := input.Status
	if status == "" {
		status = model.ContractStatusActive
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, status)
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, fmt.Errorf("%w: start_date and end_date are required", ErrInvalidInput)
	}
	if !input.StartDate.Before(input.EndDate) {
		return nil, fmt.Errorf("%w: start date must be before end date", ErrInvalidInput)
	}
	if _, err := s.sites.Get(ctx, input.SiteID); err != nil {
		return nil, asNotFound(err)
	}
	if _, err := s.staff.Get(ctx, input.ResponsibleStaffID); err != nil {
		return nil, asNotFound(err)
	}

	contract := &model.Contract{
		ContractType:           input.ContractType,
		Status:                 status,
		StartDate:              input.StartDate,
		EndDate:                input.EndDate,
		EskomReference:         input.EskomReference,
		ContactPersonName:      input.ContactPersonName,
		ContactPersonTelephone: input.ContactPersonTelephone,
		ContactPersonEmail:     input.ContactPersonEmail,
		ContractValue:          input.ContractValue,
		Notes:                  input.Notes,
		SiteID:                 input.SiteID,
		ResponsibleStaffID:     input.ResponsibleStaffID,
		Sections:               buildSections(input.Sections),
	}
	if err := s.contracts.Create(ctx, contract); err != nil {
		return nil, err
	}
	return contract, nil
}

func buildSections(inputs []SectionInput) []model.ContractSection {
	sections := make([]model.ContractSection, 0, len(inputs))
	for _, in := range inputs {
		section := model.ContractSection{
			Name:        in.Name,
			Description: in.Description,
			SortOrder:   in.SortOrder,
		}
		for _, item := range in.Items {
			section.Items = append(section.Items, model.ContractLineItem{
				Description: item.Description,
				Value:       item.Value,
				SortOrder:   item.SortOrder,
			})
		}
		sections = append(sections, section)
	}
	return sections
}

func (s *ContractService) Update(ctx context.Context, id uint, input ContractUpdateInput) (*model.Contract, error) {
	contract, err := s.contracts.Get(ctx, id)
	if err != nil {
		return nil, asNotFound(err)
	}

	if input.SiteID != nil && *input.SiteID != contract.SiteID {
		if _, err := s.sites.Get(ctx, *input.SiteID); err != nil {
			return nil, asNotFound(err)
		}
		contract.SiteID = *input.SiteID
	}
	if input.ResponsibleStaffID != nil && *input.ResponsibleStaffID != contract.ResponsibleStaffID {
		if _, err := s.staff.Get(ctx, *input.ResponsibleStaffID); err != nil {
			return nil, asNotFound(err)
		}
		contract.ResponsibleStaffID = *input.ResponsibleStaffID
	}

	startDate := contract.StartDate
	endDate := contract.EndDate
	if input.StartDate != nil {
		startDate = *input.StartDate
	}
	if input.EndDate != nil {
		endDate = *input.EndDate
	}
	if !startDate.Before(endDate) {
		return nil, fmt.Errorf("%w: start date must be before end date", ErrInvalidInput)
	}
	contract.StartDate = startDate
	contract.EndDate = endDate

	if input.ContractType != nil {
		if !input.ContractType.Valid() {
			return nil, fmt.Errorf("%w: invalid contract type %q", ErrInvalidInput, *input.ContractType)
		}
		contract.ContractType = *input.ContractType
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, *input.Status)
		}
		contract.Status = *input.Status
	}
	if input.EskomReference != nil {
		contract.EskomReference = *input.EskomReference
	}
	if input.ContactPersonName != nil {
		contract.ContactPersonName = *input.ContactPersonName
	}
	if input.ContactPersonTelephone != nil {
		contract.ContactPersonTelephone = *input.ContactPersonTelephone
	}
	if input.ContactPersonEmail != nil {
		contract.ContactPersonEmail = *input.ContactPersonEmail
	}
	if input.ContractValue != nil {
		contract.ContractValue = input.ContractValue
	}
	if input.Notes != nil {
		contract.Notes = *input.Notes
	}

	contract.UpdatedAt = s.now()
	if err := s.contracts.Update(ctx, contract); err != nil {
		return nil, err
	}
	return contract, nil
}

// Delete removes the contract and best-effort removes its attached file.
// A failed file delete is logged, never surfaced.
func (s *ContractService) Delete(ctx context.Context, id uint) error {
	contract, err := s.contracts.Get(ctx, id)
	if err != nil {
		return asNotFound(err)
	}
	if contract.DocumentPath != "" {
		if err := s.files.Remove(contract.DocumentPath); err != nil {
			s.log.Warn().Err(err).Str("path", contract.DocumentPath).Msg("failed to remove contract document")
		}
	}
	return s.contracts.Delete(ctx, id)
}

// UploadDocument stores an attachment under uploads/contracts with a
// timestamped name and records original filename plus stored path.
func (s *ContractService) UploadDocument(ctx context.Context, id uint, originalName string, data []byte) (*model.Contract, string, error) {
	contract, err := s.contracts.Get(ctx, id)
	if err != nil {
		return nil, "", asNotFound(err)
	}

	ext, err := filestore.ValidateName(originalName)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(data) > filestore.MaxFileSize {
		return nil, "", fmt.Errorf("%w: file size exceeds 50MB limit", ErrInvalidInput)
	}

	storedName := fmt.Sprintf("contract_%d_%s_%s%s",
		id, s.now().Format("20060102_150405"), uuid.NewString()[:8], ext)
	path, err := s.files.Save("contracts", storedName, data)
	if err != nil {
		return nil, "", err
	}

	if err := s.contracts.UpdateDocument(ctx, id, originalName, path); err != nil {
		return nil, "", err
	}
	contract.DocumentFilename = originalName
	contract.DocumentPath = path
	return contract, storedName, nil
}

// Document resolves the stored path and original filename for download.
func (s *ContractService) Document(ctx context.Context, id uint) (path, filename string, err error) {
	if err := s.sweep(ctx); err != nil {
		return "", "", err
	}
	contract, err := s.contracts.Get(ctx, id)
	if err != nil {
		return "", "", asNotFound(err)
	}
	if contract.DocumentPath == "" {
		return "", "", fmt.Errorf("%w: contract document", ErrNotFound)
	}
	if !s.files.Exists(contract.DocumentPath) {
		return "", "", fmt.Errorf("%w: contract document file on disk", ErrNotFound)
	}
	return contract.DocumentPath, contract.DocumentFilename, nil
}

func (s *ContractService) DeleteDocument(ctx context.Context, id uint) error {
	contract, err := s.contracts.Get(ctx, id)
	if err != nil {
		return asNotFound(err)
	}
	if contract.DocumentPath == "" {
		return fmt.Errorf("%w: no document attached to this contract", ErrNotFound)
	}
	if err := s.files.Remove(contract.DocumentPath); err != nil {
		s.log.Warn().Err(err).Str("path", contract.DocumentPath).Msg("failed to remove contract document")
	}
	return s.contracts.UpdateDocument(ctx, id, "", "")
}

// ExportRegister renders all contracts (post-sweep) as an XLSX register.
func (s *ContractService) ExportRegister(ctx context.Context) ([]byte, string, error) {
	if err := s.sweep(ctx); err != nil {
		return nil, "", err
	}
	contracts, err := s.contracts.List(ctx, 0, 0)
	if err != nil {
		return nil, "", err
	}
	summary, err := s.contracts.Summary(ctx, s.now())
	if err != nil {
		return nil, "", err
	}
	content, err := s.register.Generate(contracts, *summary)
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("contract-register-%s.xlsx", s.now().Format("20060102"))
	return content, filename, nil
}

// Sections and line items.

func (s *ContractService) ListSections(ctx context.Context, contractID uint) ([]model.ContractSection, error) {
	if _, err := s.contracts.Get(ctx, contractID); err != nil {
		return nil, asNotFound(err)
	}
	return s.contracts.ListSections(ctx, contractID)
}

func (s *ContractService) CreateSection(ctx context.Context, contractID uint, input SectionInput) (*model.ContractSection, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: section name is required", ErrInvalidInput)
	}
	if _, err := s.contracts.Get(ctx, contractID); err != nil {
		return nil, asNotFound(err)
	}
	section := &model.ContractSection{
		ContractID:  contractID,
		Name:        input.Name,
		Description: input.Description,
		SortOrder:   input.SortOrder,
	}
	for _, item := range input.Items {
		section.Items = append(section.Items, model.ContractLineItem{
			Description: item.Description,
			Value:       item.Value,
			SortOrder:   item.SortOrder,
		})
	}
	if err := s.contracts.CreateSection(ctx, section); err != nil {
		return nil, err
	}
	return section, nil
}

func (s *ContractService) UpdateSection(ctx context.Context, id uint, name, description *string, sortOrder *int) (*model.ContractSection, error) {
	section, err := s.contracts.GetSection(ctx, id)
	if err != nil {
		return nil, asNotFound(err)
	}
	if name != nil {
		if *name == "" {
			return nil, fmt.Errorf("%w: section name must not be empty", ErrInvalidInput)
		}
		section.Name = *name
	}
	if description != nil {
		section.Description = *description
	}
	if sortOrder != nil {
		section.SortOrder = *sortOrder
	}
	if err := s.contracts.UpdateSection(ctx, section); err != nil {
		return nil, err
	}
	return section, nil
}

func (s *ContractService) DeleteSection(ctx context.Context, id uint) error {
	if _, err := s.contracts.GetSection(ctx, id); err != nil {
		return asNotFound(err)
	}
	return s.contracts.DeleteSection(ctx, id)
}

func (s *ContractService) ListItems(ctx context.Context, sectionID uint) ([]model.ContractLineItem, error) {
	if _, err := s.contracts.GetSection(ctx, sectionID); err != nil {
		return nil, asNotFound(err)
	}
	return s.contracts.ListItems(ctx, sectionID)
}

func (s *ContractService) CreateItem(ctx context.Context, sectionID uint, input LineItemInput) (*model.ContractLineItem, error) {
	if input.Description == "" {
		return nil, fmt.Errorf("%w: item description is required", ErrInvalidInput)
	}
	if _, err := s.contracts.GetSection(ctx, sectionID); err != nil {
		return nil, asNotFound(err)
	}
	item := &model.ContractLineItem{
		SectionID:   sectionID,
		Description: input.Description,
		Value:       input.Value,
		SortOrder:   input.SortOrder,
	}
	if err := s.contracts.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ContractService) UpdateItem(ctx context.Context, id uint, description *string, value *float64, sortOrder *int) (*model.ContractLineItem, error) {
	item, err := s.contracts.GetItem(ctx, id)
	if err != nil {
		return nil, asNotFound(err)
	}
	if description != nil {
		if *description == "" {
			return nil, fmt.Errorf("%w: item description must not be empty", ErrInvalidInput)
		}
		item.Description = *description
	}
	if value != nil {
		item.Value = *value
	}
	if sortOrder != nil {
		item.SortOrder = *sortOrder
	}
	if err := s.contracts.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ContractService) DeleteItem(ctx context.Context, id uint) error {
	if _, err := s.contracts.GetItem(ctx, id); err != nil {
		return asNotFound(err)
	}
	return s.contracts.DeleteItem(ctx, id)
}
