package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/armandusbasson/KSA-PSMS/internal/model"
	"github.com/armandusbasson/KSA-PSMS/internal/repository"
)

// SiteDetail is a site with its derived counts, computed at read time.
type SiteDetail struct {
	model.Site
	StaffCount   int64 `json:"staff_count"`
	MeetingCount int64 `json:"meeting_count"`
}

type SiteCreateInput struct {
	Name          string
	ContactPerson string
	ContactNumber string
	ContactEmail  string
	Coordinates   string
}

type SiteUpdateInput struct {
	Name          *string
	ContactPerson *string
	ContactNumber *string
	ContactEmail  *string
	Coordinates   *string
}

type SiteService struct {
	sites *repository.SiteRepository
	staff *repository.StaffRepository
}

func NewSiteService(sites *repository.SiteRepository, staff *repository.StaffRepository) *SiteService {
	return &SiteService{sites: sites, staff: staff}
}

func (s *SiteService) Create(ctx context.Context, input SiteCreateInput) (*model.Site, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if err := s.ensureNameFree(ctx, input.Name, 0); err != nil {
		return nil, err
	}

	site := &model.Site{
		Name:          input.Name,
		ContactPerson: input.ContactPerson,
		ContactNumber: input.ContactNumber,
		ContactEmail:  input.ContactEmail,
		Coordinates:   input.Coordinates,
	}
	if err := s.sites.Create(ctx, site); err != nil {
		return nil, err
	}
	return site, nil
}

func (s *SiteService) Get(ctx context.Context, id uint) (*SiteDetail, error) {
	site, err := s.sites.Get(ctx, id)
	if err != nil {
		return nil, asNotFound(err)
	}
	staffCount, err := s.sites.CountStaffLinks(ctx, id)
	if err != nil {
		return nil, err
	}
	meetingCount, err := s.sites.CountMeetings(ctx, id)
	if err != nil {
		return nil, err
	}
	return &SiteDetail{Site: *site, StaffCount: staffCount, MeetingCount: meetingCount}, nil
}

func (s *SiteService) List(ctx context.Context, offset, limit int) ([]model.Site, error) {
	return s.sites.List(ctx, offset, limit)
}

func (s *SiteService) Update(ctx context.Context, id uint, input SiteUpdateInput) (*model.Site, error) {
	site, err := s.sites.Get(ctx, id)
	if err != nil {
		return nil, asNotFound(err)
	}

	if input.Name != nil && *input.Name != site.Name {
		if *input.Name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
		}
		if err := s.ensureNameFree(ctx, *input.Name, id); err != nil {
			return nil, err
		}
		site.Name = *input.Name
	}
	if input.ContactPerson != nil {
		site.ContactPerson = *input.ContactPerson
	}
	if input.ContactNumber != nil {
		site.ContactNumber = *input.ContactNumber
	}
	if input.ContactEmail != nil {
		site.ContactEmail = *input.ContactEmail
	}
	if input.Coordinates != nil {
		site.Coordinates = *input.Coordinates
	}

	if err := s.sites.Update(ctx, site); err != nil {
		return nil, err
	}
	return site, nil
}

func (s *SiteService) Delete(ctx context.Context, id uint) error {
	if _, err := s.sites.Get(ctx, id); err != nil {
		return asNotFound(err)
	}
	return s.sites.Delete(ctx, id)
}

func (s *SiteService) ListAssignments(ctx context.Context, siteID uint) ([]model.SiteStaffLink, error) {
	if _, err := s.sites.Get(ctx, siteID); err != nil {
		return nil, asNotFound(err)
	}
	return s.sites.ListAssignments(ctx, siteID)
}

// AddStaff assigns a staff member to a site with a role. Re-adding the same
// (site, staff, role) triple returns the existing link unchanged.
func (s *SiteService) AddStaff(ctx context.Context, siteID, staffID uint, role model.SiteRole) (*model.SiteStaffLink, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: invalid role %q", ErrInvalidInput, role)
	}
	if _, err := s.sites.Get(ctx, siteID); err != nil {
		return nil, asNotFound(err)
	}
	if _, err := s.staff.Get(ctx, staffID); err != nil {
		return nil, asNotFound(err)
	}

	existing, err := s.sites.GetLink(ctx, siteID, staffID, role)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	link := &model.SiteStaffLink{SiteID: siteID, StaffID: staffID, Role: role}
	if err := s.sites.CreateLink(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

func (s *SiteService) RemoveStaff(ctx context.Context, siteID, staffID uint, role model.SiteRole) error {
	if !role.Valid() {
		return fmt.Errorf("%w: invalid role %q", ErrInvalidInput, role)
	}
	link, err := s.sites.GetLink(ctx, siteID, staffID, role)
	if err != nil {
		return asNotFound(err)
	}
	return s.sites.DeleteLink(ctx, link.ID)
}

func (s *SiteService) ensureNameFree(ctx context.Context, name string, selfID uint) error {
	existing, err := s.sites.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return fmt.Errorf("%w: site name already exists", ErrConflict)
	}
	return nil
}

func asNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
