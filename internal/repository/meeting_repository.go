package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/armandusbasson/KSA-PSMS/internal/model"
)

type MeetingRepository struct {
	db *gorm.DB
}

func NewMeetingRepository(db *gorm.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

func (r *MeetingRepository) Get(ctx context.Context, id uint) (*model.Meeting, error) {
	var meeting model.Meeting
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("meeting_items.id") }).
		Preload("Items.ResponsibleStaff").
		First(&meeting, id).Error
	if err != nil {
		return nil, err
	}
	return &meeting, nil
}

func (r *MeetingRepository) List(ctx context.Context, offset, limit int, siteID *uint) ([]model.Meeting, error) {
	query := paginate(r.db.WithContext(ctx), offset, limit).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("meeting_items.id") }).
		Preload("Items.ResponsibleStaff").
		Order("id")
	if siteID != nil {
		query = query.Where("site_id = ?", *siteID)
	}
	var meetings []model.Meeting
	if err := query.Find(&meetings).Error; err != nil {
		return nil, err
	}
	return meetings, nil
}

func (r *MeetingRepository) ListBySite(ctx context.Context, siteID uint) ([]model.Meeting, error) {
	var meetings []model.Meeting
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("meeting_items.id") }).
		Preload("Items.ResponsibleStaff").
		Where("site_id = ?", siteID).
		Order("id").
		Find(&meetings).Error
	if err != nil {
		return nil, err
	}
	return meetings, nil
}

// Create persists the meeting together with its items and their
// responsible-staff links in one transaction.
func (r *MeetingRepository) Create(ctx context.Context, meeting *model.Meeting) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(meeting).Error
	})
}

// Update saves the meeting's scalar fields and, when items is non-nil,
// destructively replaces the whole item set: prior items and their
// staff links are deleted and the new set inserted fresh.
func (r *MeetingRepository) Update(ctx context.Context, meeting *model.Meeting, items []model.MeetingItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(meeting).Error; err != nil {
			return err
		}
		if items == nil {
			return nil
		}
		if err := deleteMeetingItems(tx, meeting.ID); err != nil {
			return err
		}
		for i := range items {
			items[i].ID = 0
			items[i].MeetingID = meeting.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *MeetingRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteMeetingItems(tx, id); err != nil {
			return err
		}
		return tx.Delete(&model.Meeting{}, id).Error
	})
}

func deleteMeetingItems(tx *gorm.DB, meetingID uint) error {
	if err := tx.Exec(`
		DELETE FROM meeting_item_staff
		WHERE meeting_item_id IN (SELECT id FROM meeting_items WHERE meeting_id = ?)
	`, meetingID).Error; err != nil {
		return err
	}
	return tx.Where("meeting_id = ?", meetingID).Delete(&model.MeetingItem{}).Error
}
