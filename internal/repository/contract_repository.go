package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/armandusbasson/KSA-PSMS/internal/model"
)

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

func sectionOrder(db *gorm.DB) *gorm.DB {
	return db.Order("contract_sections.sort_order, contract_sections.id")
}

func itemOrder(db *gorm.DB) *gorm.DB {
	return db.Order("contract_line_items.sort_order, contract_line_items.id")
}

func (r *ContractRepository) Get(ctx context.Context, id uint) (*model.Contract, error) {
	var contract model.Contract
	err := r.db.WithContext(ctx).
		Preload("Sections", sectionOrder).
		Preload("Sections.Items", itemOrder).
		First(&contract, id).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *ContractRepository) List(ctx context.Context, offset, limit int) ([]model.Contract, error) {
	var contracts []model.Contract
	err := paginate(r.db.WithContext(ctx), offset, limit).Order("id").Find(&contracts).Error
	if err != nil {
		return nil, err
	}
	return contracts, nil
}

// paginate applies offset/limit when positive; zero means unbounded.
func paginate(db *gorm.DB, offset, limit int) *gorm.DB {
	if offset > 0 {
		db = db.Offset(offset)
	}
	if limit > 0 {
		db = db.Limit(limit)
	}
	return db
}

func (r *ContractRepository) ListBySite(ctx context.Context, siteID uint) ([]model.Contract, error) {
	var contracts []model.Contract
	err := r.db.WithContext(ctx).Where("site_id = ?", siteID).Order("id").Find(&contracts).Error
	if err != nil {
		return nil, err
	}
	return contracts, nil
}

func (r *ContractRepository) ListByStatus(ctx context.Context, status model.ContractStatus) ([]model.Contract, error) {
	var contracts []model.Contract
	err := r.db.WithContext(ctx).Where("status = ?", status).Order("id").Find(&contracts).Error
	if err != nil {
		return nil, err
	}
	return contracts, nil
}

func (r *ContractRepository) ListOverdue(ctx context.Context, now time.Time) ([]model.Contract, error) {
	var contracts []model.Contract
	err := r.db.WithContext(ctx).
		Where("status = ? AND end_date < ?", model.ContractStatusActive, now).
		Order("id").
		Find(&contracts).Error
	if err != nil {
		return nil, err
	}
	return contracts, nil
}

// ExpireOverdue flips Active contracts whose end date has passed to
// Expired. Every read path calls this first, so reads are potential
// writers. Already-Expired rows are untouched, which keeps the sweep
// idempotent.
func (r *ContractRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Contract{}).
		Where("status = ? AND end_date < ?", model.ContractStatusActive, now).
		Updates(map[string]interface{}{
			"status":     model.ContractStatusExpired,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}

// Create persists a contract together with any nested sections and line
// items in a single transaction, so a partial failure leaves no orphans.
func (r *ContractRepository) Create(ctx context.Context, contract *model.Contract) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(contract).Error
	})
}

func (r *ContractRepository) Update(ctx context.Context, contract *model.Contract) error {
	return r.db.WithContext(ctx).Omit("Sections").Save(contract).Error
}

func (r *ContractRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(
			"section_id IN (SELECT id FROM contract_sections WHERE contract_id = ?)", id,
		).Delete(&model.ContractLineItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("contract_id = ?", id).Delete(&model.ContractSection{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Contract{}, id).Error
	})
}

func (r *ContractRepository) UpdateDocument(ctx context.Context, id uint, filename, path string) error {
	return r.db.WithContext(ctx).
		Model(&model.Contract{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"document_filename": filename,
			"document_path":     path,
			"updated_at":        time.Now().UTC(),
		}).Error
}

func (r *ContractRepository) Summary(ctx context.Context, now time.Time) (*model.ContractSummary, error) {
	var summary model.ContractSummary
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS total_contracts,
			COALESCE(SUM(CASE WHEN status = 'Active' THEN 1 ELSE 0 END), 0) AS active_count,
			COALESCE(SUM(CASE WHEN status = 'Expired' THEN 1 ELSE 0 END), 0) AS expired_count,
			COALESCE(SUM(CASE WHEN status = 'Completed' THEN 1 ELSE 0 END), 0) AS completed_count,
			COALESCE(SUM(CASE WHEN status = 'Cancelled' THEN 1 ELSE 0 END), 0) AS cancelled_count,
			COALESCE(SUM(CASE WHEN status = 'Active' AND end_date < ? THEN 1 ELSE 0 END), 0) AS overdue_count
		FROM contracts
	`, now).Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *ContractRepository) SummaryByType(ctx context.Context, contractType model.ContractType, now time.Time) (*model.ContractSummary, error) {
	var summary model.ContractSummary
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) AS total_contracts,
			COALESCE(SUM(CASE WHEN status = 'Active' THEN 1 ELSE 0 END), 0) AS active_count,
			COALESCE(SUM(CASE WHEN status = 'Expired' THEN 1 ELSE 0 END), 0) AS expired_count,
			COALESCE(SUM(CASE WHEN status = 'Completed' THEN 1 ELSE 0 END), 0) AS completed_count,
			COALESCE(SUM(CASE WHEN status = 'Cancelled' THEN 1 ELSE 0 END), 0) AS cancelled_count,
			COALESCE(SUM(CASE WHEN status = 'Active' AND end_date < ? THEN 1 ELSE 0 END), 0) AS overdue_count
		FROM contracts
		WHERE contract_type = ?
	`, now, contractType).Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// Sections and line items.

func (r *ContractRepository) GetSection(ctx context.Context, id uint) (*model.ContractSection, error) {
	var section model.ContractSection
	err := r.db.WithContext(ctx).
		Preload("Items", itemOrder).
		First(&section, id).Error
	if err != nil {
		return nil, err
	}
	return &section, nil
}

func (r *ContractRepository) ListSections(ctx context.Context, contractID uint) ([]model.ContractSection, error) {
	var sections []model.ContractSection
	err := sectionOrder(r.db.WithContext(ctx)).
		Preload("Items", itemOrder).
		Where("contract_id = ?", contractID).
		Find(&sections).Error
	if err != nil {
		return nil, err
	}
	return sections, nil
}

func (r *ContractRepository) CreateSection(ctx context.Context, section *model.ContractSection) error {
	return r.db.WithContext(ctx).Create(section).Error
}

func (r *ContractRepository) UpdateSection(ctx context.Context, section *model.ContractSection) error {
	return r.db.WithContext(ctx).Omit("Items").Save(section).Error
}

func (r *ContractRepository) DeleteSection(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("section_id = ?", id).Delete(&model.ContractLineItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.ContractSection{}, id).Error
	})
}

func (r *ContractRepository) GetItem(ctx context.Context, id uint) (*model.ContractLineItem, error) {
	var item model.ContractLineItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ContractRepository) ListItems(ctx context.Context, sectionID uint) ([]model.ContractLineItem, error) {
	var items []model.ContractLineItem
	err := itemOrder(r.db.WithContext(ctx)).
		Where("section_id = ?", sectionID).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ContractRepository) CreateItem(ctx context.Context, item *model.ContractLineItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *ContractRepository) UpdateItem(ctx context.Context, item *model.ContractLineItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *ContractRepository) DeleteItem(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.ContractLineItem{}, id).Error
}
