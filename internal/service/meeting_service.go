package service

import (
	"context"
	"fmt"
	"time"

	"github.com/armandusbasson/KSA-PSMS/internal/model"
	"github.com/armandusbasson/KSA-PSMS/internal/repository"
)

// MinutesGenerator renders a meeting's minutes as a PDF.
type MinutesGenerator interface {
	Generate(meeting model.Meeting, siteName, chairperson string) ([]byte, error)
}

type MeetingItemInput struct {
	IssueDiscussed      string
	ResponsibleStaffIDs []uint
	TargetDate          *time.Time
	InvoiceDate         *time.Time
	PaymentDate         *time.Time
}

type MeetingCreateInput struct {
	SiteID             uint
	Agenda             string
	Attendees          string
	Apologies          string
	ChairpersonStaffID *uint
	Introduction       string
	ScheduledAt        *time.Time
	Items              []MeetingItemInput
}

type MeetingUpdateInput struct {
	Agenda             *string
	Attendees          *string
	Apologies          *string
	ChairpersonStaffID *uint
	Introduction       *string
	ScheduledAt        *time.Time
	// Items == nil leaves the item set alone; non-nil replaces it wholesale.
	Items []MeetingItemInput
}

type MeetingService struct {
	meetings *repository.MeetingRepository
	sites    *repository.SiteRepository
	staff    *repository.StaffRepository
	minutes  MinutesGenerator
}

func NewMeetingService(
	meetings *repository.MeetingRepository,
	sites *repository.SiteRepository,
	staff *repository.StaffRepository,
	minutes MinutesGenerator,
) *MeetingService {
	return &MeetingService{meetings: meetings, sites: sites, staff: staff, minutes: minutes}
}

func (s *MeetingService) Create(ctx context.Context, input MeetingCreateInput) (*model.Meeting, error) {
	if _, err := s.sites.Get(ctx, input.SiteID); err != nil {
		return nil, asNotFound(err)
	}

	items, err := s.buildItems(ctx, input.Items)
	if err != nil {
		return nil, err
	}

	meeting := &model.Meeting{
		SiteID:             input.SiteID,
		Agenda:             input.Agenda,
		Attendees:          input.Attendees,
		Apologies:          input.Apologies,
		ChairpersonStaffID: input.ChairpersonStaffID,
		Introduction:       input.Introduction,
		ScheduledAt:        input.ScheduledAt,
		Items:              items,
	}
	if err := s.meetings.Create(ctx, meeting); err != nil {
		return nil, err
	}
	return s.meetings.Get(ctx, meeting.ID)
}

func (s *MeetingService) Get(ctx context.Context, id uint) (*model.Meeting, error) {
	meeting, err := s.meetings.Get(ctx, id)
	if err != nil {
		return nil, asNotFound(err)
	}
	return meeting, nil
}

func (s *MeetingService) List(ctx context.Context, offset, limit int, siteID *uint) ([]model.Meeting, error) {
	return s.meetings.List(ctx, offset, limit, siteID)
}

func (s *MeetingService) ListBySite(ctx context.Context, siteID uint) ([]model.Meeting, error) {
	return s.meetings.ListBySite(ctx, siteID)
}

// Update patches scalar fields and, when an item list is provided,
// replaces the whole item set: items missing from the new list are gone,
// along with their responsible-staff links.
func (s *MeetingService) Update(ctx context.Context, id uint, input MeetingUpdateInput) (*model.Meeting, error) {
	meeting, err := s.meetings.Get(ctx, id)
	if err != nil {
		return nil, asNotFound(err)
	}

	if input.Agenda != nil {
		meeting.Agenda = *input.Agenda
	}
	if input.Attendees != nil {
		meeting.Attendees = *input.Attendees
	}
	if input.Apologies != nil {
		meeting.Apologies = *input.Apologies
	}
	if input.ChairpersonStaffID != nil {
		meeting.ChairpersonStaffID = input.ChairpersonStaffID
	}
	if input.Introduction != nil {
		meeting.Introduction = *input.Introduction
	}
	if input.ScheduledAt != nil {
		meeting.ScheduledAt = input.ScheduledAt
	}

	var items []model.MeetingItem
	if input.Items != nil {
		items, err = s.buildItems(ctx, input.Items)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []model.MeetingItem{}
		}
	}

	meeting.Items = nil
	if err := s.meetings.Update(ctx, meeting, items); err != nil {
		return nil, err
	}
	return s.meetings.Get(ctx, id)
}

func (s *MeetingService) Delete(ctx context.Context, id uint) error {
	if _, err := s.meetings.Get(ctx, id); err != nil {
		return asNotFound(err)
	}
	return s.meetings.Delete(ctx, id)
}

// ExportMinutes renders a meeting's minutes as a PDF document.
func (s *MeetingService) ExportMinutes(ctx context.Context, id uint) ([]byte, string, error) {
	meeting, err := s.meetings.Get(ctx, id)
	if err != nil {
		return nil, "", asNotFound(err)
	}
	site, err := s.sites.Get(ctx, meeting.SiteID)
	if err != nil {
		return nil, "", err
	}

	chairperson := ""
	if meeting.ChairpersonStaffID != nil {
		if chair, err := s.staff.Get(ctx, *meeting.ChairpersonStaffID); err == nil {
			chairperson = fmt.Sprintf("%s %s", chair.Name, chair.Surname)
		}
	}

	content, err := s.minutes.Generate(*meeting, site.Name, chairperson)
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("meeting-%d-minutes.pdf", meeting.ID)
	return content, filename, nil
}

// buildItems resolves responsible-staff ids against existing staff rows;
// ids that match nothing are silently dropped, not rejected.
func (s *MeetingService) buildItems(ctx context.Context, inputs []MeetingItemInput) ([]model.MeetingItem, error) {
	var items []model.MeetingItem
	for _, in := range inputs {
		if in.IssueDiscussed == "" {
			return nil, fmt.Errorf("%w: issue_discussed is required for every item", ErrInvalidInput)
		}
		responsible, err := s.staff.FilterExisting(ctx, in.ResponsibleStaffIDs)
		if err != nil {
			return nil, err
		}
		items = append(items, model.MeetingItem{
			IssueDiscussed:   in.IssueDiscussed,
			TargetDate:       in.TargetDate,
			InvoiceDate:      in.InvoiceDate,
			PaymentDate:      in.PaymentDate,
			ResponsibleStaff: responsible,
		})
	}
	return items, nil
}
