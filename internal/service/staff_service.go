package service

import (
	"context"
	"fmt"

	"github.com/armandusbasson/KSA-PSMS/internal/model"
	"github.com/armandusbasson/KSA-PSMS/internal/repository"
)

// StaffDetail adds the derived site-assignment count to a staff record.
type StaffDetail struct {
	model.Staff
	SiteCount int64 `json:"site_count"`
}

type StaffCreateInput struct {
	Name    string
	Surname string
	Role    string
	Email   string
	Phone   string
}

type StaffUpdateInput struct {
	Name    *string
	Surname *string
	Role    *string
	Email   *string
	Phone   *string
}

type StaffService struct {
	staff *repository.StaffRepository
}

func NewStaffService(staff *repository.StaffRepository) *StaffService {
	return &StaffService{staff: staff}
}

func (s *StaffService) Create(ctx context.Context, input StaffCreateInput) (*model.Staff, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	staff := &model.Staff{
		Name:    input.Name,
		Surname: input.Surname,
		Role:    input.Role,
		Email:   input.Email,
		Phone:   input.Phone,
	}
	if err := s.staff.Create(ctx, staff); err != nil {
		return nil, err
	}
	return staff, nil
}

func (s *StaffService) Get(ctx context.Context, id uint) (*StaffDetail, error) {
	staff, err := s.staff.Get(ctx, id)
	if err != nil {
		return nil, asNotFound(err)
	}
	siteCount, err := s.staff.CountSiteLinks(ctx, id)
	if err != nil {
		return nil, err
	}
	return &StaffDetail{Staff: *staff, SiteCount: siteCount}, nil
}

func (s *StaffService) List(ctx context.Context, offset, limit int) ([]model.Staff, error) {
	return s.staff.List(ctx, offset, limit)
}

func (s *StaffService) Update(ctx context.Context, id uint, input StaffUpdateInput) (*model.Staff, error) {
	staff, err := s.staff.Get(ctx, id)
	if err != nil {
		return nil, asNotFound(err)
	}
	if input.Name != nil {
		if *input.Name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
		}
		staff.Name = *input.Name
	}
	if input.Surname != nil {
		staff.Surname = *input.Surname
	}
	if input.Role != nil {
		staff.Role = *input.Role
	}
	if input.Email != nil {
		staff.Email = *input.Email
	}
	if input.Phone != nil {
		staff.Phone = *input.Phone
	}
	if err := s.staff.Update(ctx, staff); err != nil {
		return nil, err
	}
	return staff, nil
}

func (s *StaffService) Delete(ctx context.Context, id uint) error {
	if _, err := s.staff.Get(ctx, id); err != nil {
		return asNotFound(err)
	}
	return s.staff.Delete(ctx, id)
}
