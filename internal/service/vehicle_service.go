package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/armandusbasson/KSA-PSMS/internal/filestore"
	"github.com/armandusbasson/KSA-PSMS/internal/model"
	"github.com/armandusbasson/KSA-PSMS/internal/repository"
)

type VehicleCreateInput struct {
	RegistrationPlate  string
	Make               string
	Model              string
	EngineDisplacement string
	Description        string
	Year               int
	VINChassisNumber   string
	VehicleType        string
	Colour             string
	PurchaseDate       *time.Time
	ActiveTracking     *bool
	AssignedStaffID    *uint
	PrimaryUse         string
	LicenseRenewalDate *time.Time
	GeneralNotes       string
}

type VehicleUpdateInput struct {
	Make               *string
	Model              *string
	EngineDisplacement *string
	Description        *string
	Year               *int
	VINChassisNumber   *string
	VehicleType        *string
	Colour             *string
	PurchaseDate       *time.Time
	ActiveTracking     *bool
	AssignedStaffID    *uint
	PrimaryUse         *string
	LicenseRenewalDate *time.Time
	GeneralNotes       *string
}

type VehicleService struct {
	vehicles *repository.VehicleRepository
	staff    *repository.StaffRepository
	files    *filestore.Store
	log      zerolog.Logger
}

func NewVehicleService(
	vehicles *repository.VehicleRepository,
	staff *repository.StaffRepository,
	files *filestore.Store,
	log zerolog.Logger,
) *VehicleService {
	return &VehicleService{vehicles: vehicles, staff: staff, files: files, log: log}
}

// Create rejects a plate that is already registered. Plates are
// exact-match: no case folding, no whitespace trimming.
func (s *VehicleService) Create(ctx context.Context, input VehicleCreateInput) (*model.Vehicle, error) {
	if input.RegistrationPlate == "" {
		return nil, fmt.Errorf("%w: registration plate is required", ErrInvalidInput)
	}
	if input.Make == "" || input.Model == "" {
		return nil, fmt.Errorf("%w: make and model are required", ErrInvalidInput)
	}

	if _, err := s.vehicles.Get(ctx, input.RegistrationPlate); err == nil {
		return nil, fmt.Errorf("%w: vehicle with this registration plate already exists", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if input.AssignedStaffID != nil {
		if _, err := s.staff.Get(ctx, *input.AssignedStaffID); err != nil {
			return nil, asNotFound(err)
		}
	}

	active := true
	if input.ActiveTracking != nil {
		active = *input.ActiveTracking
	}
	vehicle := &model.Vehicle{
		RegistrationPlate:  input.RegistrationPlate,
		Make:               input.Make,
		Model:              input.Model,
		EngineDisplacement: input.EngineDisplacement,
		Description:        input.Description,
		Year:               input.Year,
		VINChassisNumber:   input.VINChassisNumber,
		VehicleType:        input.VehicleType,
		Colour:             input.Colour,
		PurchaseDate:       input.PurchaseDate,
		ActiveTracking:     active,
		AssignedStaffID:    input.AssignedStaffID,
		PrimaryUse:         input.PrimaryUse,
		LicenseRenewalDate: input.LicenseRenewalDate,
		GeneralNotes:       input.GeneralNotes,
	}
	if err := s.vehicles.Create(ctx, vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

// Get joins in the assigned staff member's name when an assignment exists.
func (s *VehicleService) Get(ctx context.Context, plate string) (*model.VehicleDetail, error) {
	vehicle, err := s.vehicles.Get(ctx, plate)
	if err != nil {
		return nil, asNotFound(err)
	}
	detail := &model.VehicleDetail{Vehicle: *vehicle}
	if vehicle.AssignedStaffID != nil {
		staff, err := s.staff.Get(ctx, *vehicle.AssignedStaffID)
		if err == nil {
			detail.AssignedStaffName = staff.Name
			detail.AssignedStaffSurname = staff.Surname
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return detail, nil
}

func (s *VehicleService) List(ctx context.Context, offset, limit int) ([]model.Vehicle, error) {
	return s.vehicles.List(ctx, offset, limit)
}

func (s *VehicleService) ListByStaff(ctx context.Context, staffID uint) ([]model.Vehicle, error) {
	return s.vehicles.ListByStaff(ctx, staffID)
}

func (s *VehicleService) ListByType(ctx context.Context, vehicleType string) ([]model.Vehicle, error) {
	return s.vehicles.ListByType(ctx, vehicleType)
}

func (s *VehicleService) Update(ctx context.Context, plate string, input VehicleUpdateInput) (*model.Vehicle, error) {
	vehicle, err := s.vehicles.Get(ctx, plate)
	if err != nil {
		return nil, asNotFound(err)
	}

	if input.Make != nil {
		vehicle.Make = *input.Make
	}
	if input.Model != nil {
		vehicle.Model = *input.Model
	}
	if input.EngineDisplacement != nil {
		vehicle.EngineDisplacement = *input.EngineDisplacement
	}
	if input.Description != nil {
		vehicle.Description = *input.Description
	}
	if input.Year != nil {
		vehicle.Year = *input.Year
	}
	if input.VINChassisNumber != nil {
		vehicle.VINChassisNumber = *input.VINChassisNumber
	}
	if input.VehicleType != nil {
		vehicle.VehicleType = *input.VehicleType
	}
	if input.Colour != nil {
		vehicle.Colour = *input.Colour
	}
	if input.PurchaseDate != nil {
		vehicle.PurchaseDate = input.PurchaseDate
	}
	if input.ActiveTracking != nil {
		vehicle.ActiveTracking = *input.ActiveTracking
	}
	if input.AssignedStaffID != nil {
		if _, err := s.staff.Get(ctx, *input.AssignedStaffID); err != nil {
			return nil, asNotFound(err)
		}
		vehicle.AssignedStaffID = input.AssignedStaffID
	}
	if input.PrimaryUse != nil {
		vehicle.PrimaryUse = *input.PrimaryUse
	}
	if input.LicenseRenewalDate != nil {
		vehicle.LicenseRenewalDate = input.LicenseRenewalDate
	}
	if input.GeneralNotes != nil {
		vehicle.GeneralNotes = *input.GeneralNotes
	}

	if err := s.vehicles.Update(ctx, vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

func (s *VehicleService) Delete(ctx context.Context, plate string) error {
	vehicle, err := s.vehicles.Get(ctx, plate)
	if err != nil {
		return asNotFound(err)
	}
	if vehicle.NatisDocument != "" {
		if err := s.files.Remove(vehicle.NatisDocument); err != nil {
			s.log.Warn().Err(err).Str("path", vehicle.NatisDocument).Msg("failed to remove NATIS document")
		}
	}
	return s.vehicles.Delete(ctx, plate)
}

// UploadDocument stores a NATIS document named from the plate plus the
// original file stem, so re-uploading the same file overwrites in place.
func (s *VehicleService) UploadDocument(ctx context.Context, plate, originalName string, data []byte) (*model.Vehicle, string, error) {
	vehicle, err := s.vehicles.Get(ctx, plate)
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

	stem := strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName))
	storedName := fmt.Sprintf("%s_%s%s", sanitizePlate(plate), stem, ext)
	path, err := s.files.Save("vehicles", storedName, data)
	if err != nil {
		return nil, "", err
	}

	if err := s.vehicles.UpdateDocument(ctx, plate, originalName, path); err != nil {
		return nil, "", err
	}
	vehicle.NatisFilename = originalName
	vehicle.NatisDocument = path
	return vehicle, storedName, nil
}

func (s *VehicleService) Document(ctx context.Context, plate string) (path, filename string, err error) {
	vehicle, err := s.vehicles.Get(ctx, plate)
	if err != nil {
		return "", "", asNotFound(err)
	}
	if vehicle.NatisDocument == "" {
		return "", "", fmt.Errorf("%w: NATIS document", ErrNotFound)
	}
	if !s.files.Exists(vehicle.NatisDocument) {
		return "", "", fmt.Errorf("%w: NATIS document file on disk", ErrNotFound)
	}
	return vehicle.NatisDocument, vehicle.NatisFilename, nil
}

func (s *VehicleService) DeleteDocument(ctx context.Context, plate string) error {
	vehicle, err := s.vehicles.Get(ctx, plate)
	if err != nil {
		return asNotFound(err)
	}
	if vehicle.NatisDocument == "" {
		return fmt.Errorf("%w: no document attached to this vehicle", ErrNotFound)
	}
	if err := s.files.Remove(vehicle.NatisDocument); err != nil {
		s.log.Warn().Err(err).Str("path", vehicle.NatisDocument).Msg("failed to remove NATIS document")
	}
	return s.vehicles.UpdateDocument(ctx, plate, "", "")
}

func sanitizePlate(plate string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, plate)
}
