package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/armandusbasson/KSA-PSMS/internal/model"
)

type SiteRepository struct {
	db *gorm.DB
}

func NewSiteRepository(db *gorm.DB) *SiteRepository {
	return &SiteRepository{db: db}
}

func (r *SiteRepository) Get(ctx context.Context, id uint) (*model.Site, error) {
	var site model.Site
	if err := r.db.WithContext(ctx).First(&site, id).Error; err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *SiteRepository) GetByName(ctx context.Context, name string) (*model.Site, error) {
	var site model.Site
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&site).Error; err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *SiteRepository) List(ctx context.Context, offset, limit int) ([]model.Site, error) {
	var sites []model.Site
	if err := paginate(r.db.WithContext(ctx), offset, limit).Order("id").Find(&sites).Error; err != nil {
		return nil, err
	}
	return sites, nil
}

func (r *SiteRepository) Create(ctx context.Context, site *model.Site) error {
	return r.db.WithContext(ctx).Create(site).Error
}

func (r *SiteRepository) Update(ctx context.Context, site *model.Site) error {
	return r.db.WithContext(ctx).Save(site).Error
}

// Delete removes a site and everything it owns: staff links, meetings,
// their items and the item/staff join rows. Explicit cascade keeps the
// behavior identical across postgres and sqlite.
func (r *SiteRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var meetingIDs []uint
		if err := tx.Model(&model.Meeting{}).Where("site_id = ?", id).Pluck("id", &meetingIDs).Error; err != nil {
			return err
		}
		if len(meetingIDs) > 0 {
			if err := tx.Exec(`
				DELETE FROM meeting_item_staff
				WHERE meeting_item_id IN (SELECT id FROM meeting_items WHERE meeting_id IN ?)
			`, meetingIDs).Error; err != nil {
				return err
			}
			if err := tx.Where("meeting_id IN ?", meetingIDs).Delete(&model.MeetingItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("site_id = ?", id).Delete(&model.Meeting{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("site_id = ?", id).Delete(&model.SiteStaffLink{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Site{}, id).Error
	})
}

func (r *SiteRepository) CountStaffLinks(ctx context.Context, siteID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.SiteStaffLink{}).Where("site_id = ?", siteID).Count(&count).Error
	return count, err
}

func (r *SiteRepository) CountMeetings(ctx context.Context, siteID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Meeting{}).Where("site_id = ?", siteID).Count(&count).Error
	return count, err
}

func (r *SiteRepository) ListAssignments(ctx context.Context, siteID uint) ([]model.SiteStaffLink, error) {
	var links []model.SiteStaffLink
	err := r.db.WithContext(ctx).
		Preload("Staff").
		Where("site_id = ?", siteID).
		Order("id").
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

func (r *SiteRepository) GetLink(ctx context.Context, siteID, staffID uint, role model.SiteRole) (*model.SiteStaffLink, error) {
	var link model.SiteStaffLink
	err := r.db.WithContext(ctx).
		Where("site_id = ? AND staff_id = ? AND role = ?", siteID, staffID, role).
		First(&link).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *SiteRepository) CreateLink(ctx context.Context, link *model.SiteStaffLink) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *SiteRepository) DeleteLink(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.SiteStaffLink{}, id).Error
}
