package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/armandusbasson/KSA-PSMS/internal/model"
)

type VehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

func (r *VehicleRepository) Get(ctx context.Context, plate string) (*model.Vehicle, error) {
	var vehicle model.Vehicle
	err := r.db.WithContext(ctx).
		Where("registration_plate = ?", plate).
		First(&vehicle).Error
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *VehicleRepository) List(ctx context.Context, offset, limit int) ([]model.Vehicle, error) {
	var vehicles []model.Vehicle
	err := paginate(r.db.WithContext(ctx), offset, limit).
		Order("registration_plate").
		Find(&vehicles).Error
	if err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (r *VehicleRepository) ListByStaff(ctx context.Context, staffID uint) ([]model.Vehicle, error) {
	var vehicles []model.Vehicle
	err := r.db.WithContext(ctx).
		Where("assigned_staff_id = ?", staffID).
		Order("registration_plate").
		Find(&vehicles).Error
	if err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (r *VehicleRepository) ListByType(ctx context.Context, vehicleType string) ([]model.Vehicle, error) {
	var vehicles []model.Vehicle
	err := r.db.WithContext(ctx).
		Where("vehicle_type = ?", vehicleType).
		Order("registration_plate").
		Find(&vehicles).Error
	if err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (r *VehicleRepository) Create(ctx context.Context, vehicle *model.Vehicle) error {
	return r.db.WithContext(ctx).Create(vehicle).Error
}

func (r *VehicleRepository) Update(ctx context.Context, vehicle *model.Vehicle) error {
	return r.db.WithContext(ctx).Save(vehicle).Error
}

func (r *VehicleRepository) Delete(ctx context.Context, plate string) error {
	return r.db.WithContext(ctx).
		Where("registration_plate = ?", plate).
		Delete(&model.Vehicle{}).Error
}

func (r *VehicleRepository) UpdateDocument(ctx context.Context, plate, filename, path string) error {
	return r.db.WithContext(ctx).
		Model(&model.Vehicle{}).
		Where("registration_plate = ?", plate).
		Updates(map[string]interface{}{
			"natis_filename": filename,
			"natis_document": path,
		}).Error
}
