package model

import "time"

// Vehicle is a fleet record keyed by its registration plate. There is no
// surrogate id; plate lookups are exact-match.
type Vehicle struct {
	RegistrationPlate  string     `gorm:"column:registration_plate;primaryKey;size:255" json:"registration_plate"`
	Make               string     `gorm:"not null;size:100" json:"make"`
	Model              string     `gorm:"not null;size:100" json:"model"`
	EngineDisplacement string     `gorm:"size:100" json:"engine_displacement"`
	Description        string     `gorm:"size:500" json:"description"`
	Year               int        `gorm:"not null" json:"year"`
	VINChassisNumber   string     `gorm:"column:vin_chassis_number;size:255" json:"vin_chassis_number"`
	VehicleType        string     `gorm:"not null;size:50;index" json:"vehicle_type"`
	Colour             string     `gorm:"size:100" json:"colour"`
	PurchaseDate       *time.Time `gorm:"type:date" json:"purchase_date"`
	ActiveTracking     bool       `gorm:"not null;default:true" json:"active_tracking"`
	AssignedStaffID    *uint      `gorm:"index" json:"assigned_staff_id"`
	PrimaryUse         string     `gorm:"not null;size:50" json:"primary_use"`
	LicenseRenewalDate *time.Time `gorm:"type:date" json:"license_renewal_date"`
	GeneralNotes       string     `gorm:"size:1000" json:"general_notes"`

	// NATIS registration document attached to the vehicle.
	NatisFilename string `gorm:"size:255" json:"natis_filename"`
	NatisDocument string `gorm:"size:500" json:"natis_document"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AssignedStaff *Staff `gorm:"foreignKey:AssignedStaffID" json:"-"`
}

func (Vehicle) TableName() string { return "vehicles" }

// VehicleDetail is a vehicle joined with the assigned staff member's name.
type VehicleDetail struct {
	Vehicle
	AssignedStaffName    string `json:"assigned_staff_name,omitempty"`
	AssignedStaffSurname string `json:"assigned_staff_surname,omitempty"`
}
