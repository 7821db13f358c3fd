package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/armandusbasson/KSA-PSMS/internal/model"
)

type StaffRepository struct {
	db *gorm.DB
}

func NewStaffRepository(db *gorm.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

func (r *StaffRepository) Get(ctx context.Context, id uint) (*model.Staff, error) {
	var staff model.Staff
	if err := r.db.WithContext(ctx).First(&staff, id).Error; err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *StaffRepository) List(ctx context.Context, offset, limit int) ([]model.Staff, error) {
	var staff []model.Staff
	if err := paginate(r.db.WithContext(ctx), offset, limit).Order("id").Find(&staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}

func (r *StaffRepository) Create(ctx context.Context, staff *model.Staff) error {
	return r.db.WithContext(ctx).Create(staff).Error
}

func (r *StaffRepository) Update(ctx context.Context, staff *model.Staff) error {
	return r.db.WithContext(ctx).Save(staff).Error
}

// Delete is unconditional; dangling contract or meeting references are the
// storage engine's problem, matching the registry's policy.
func (r *StaffRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("staff_id = ?", id).Delete(&model.SiteStaffLink{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Staff{}, id).Error
	})
}

func (r *StaffRepository) CountSiteLinks(ctx context.Context, staffID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.SiteStaffLink{}).Where("staff_id = ?", staffID).Count(&count).Error
	return count, err
}

// FilterExisting returns the subset of ids that match staff rows, preserving
// no particular order. Unknown ids are silently dropped.
func (r *StaffRepository) FilterExisting(ctx context.Context, ids []uint) ([]model.Staff, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var staff []model.Staff
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}
