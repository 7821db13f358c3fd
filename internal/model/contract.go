package model

import "time"

type ContractType string

const (
	ContractTypeSupply  ContractType = "Supply"
	ContractTypeService ContractType = "Service"
)

func (t ContractType) Valid() bool {
	return t == ContractTypeSupply || t == ContractTypeService
}

type ContractStatus string

const (
	ContractStatusActive    ContractStatus = "Active"
	ContractStatusExpired   ContractStatus = "Expired"
	ContractStatusCompleted ContractStatus = "Completed"
	ContractStatusCancelled ContractStatus = "Cancelled"
)

func (s ContractStatus) Valid() bool {
	switch s {
	case ContractStatusActive, ContractStatusExpired, ContractStatusCompleted, ContractStatusCancelled:
		return true
	}
	return false
}

// Contract is a supply/service agreement between the business and a site.
// Status flips from Active to Expired once end_date passes; the transition
// happens on read paths via the expiry sweep, not a background job.
type Contract struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	ContractType ContractType   `gorm:"not null;size:20" json:"contract_type"`
	Status       ContractStatus `gorm:"not null;size:20;default:Active;index" json:"status"`
	StartDate    time.Time      `gorm:"not null" json:"start_date"`
	EndDate      time.Time      `gorm:"not null" json:"end_date"`

	EskomReference string `gorm:"size:255" json:"eskom_reference"`

	ContactPersonName      string `gorm:"size:255" json:"contact_person_name"`
	ContactPersonTelephone string `gorm:"size:20" json:"contact_person_telephone"`
	ContactPersonEmail     string `gorm:"size:255" json:"contact_person_email"`

	ContractValue *float64 `json:"contract_value"`
	Notes         string   `gorm:"type:text" json:"notes"`

	DocumentFilename string `gorm:"size:255" json:"document_filename"`
	DocumentPath     string `gorm:"size:500" json:"document_path"`

	SiteID             uint `gorm:"not null;index" json:"site_id"`
	ResponsibleStaffID uint `gorm:"not null;index" json:"responsible_staff_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Sections []ContractSection `gorm:"foreignKey:ContractID;constraint:OnDelete:CASCADE" json:"sections,omitempty"`
}

func (Contract) TableName() string { return "contracts" }

type ContractSection struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ContractID  uint      `gorm:"not null;index" json:"contract_id"`
	Name        string    `gorm:"not null;size:255" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	SortOrder   int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Items []ContractLineItem `gorm:"foreignKey:SectionID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (ContractSection) TableName() string { return "contract_sections" }

type ContractLineItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SectionID   uint      `gorm:"not null;index" json:"section_id"`
	Description string    `gorm:"not null;type:text" json:"description"`
	Value       float64   `gorm:"not null;default:0" json:"value"`
	SortOrder   int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (ContractLineItem) TableName() string { return "contract_line_items" }

// ContractSummary aggregates contract counts by status.
type ContractSummary struct {
	TotalContracts int64 `json:"total_contracts"`
	ActiveCount    int64 `json:"active_count"`
	ExpiredCount   int64 `json:"expired_count"`
	CompletedCount int64 `json:"completed_count"`
	CancelledCount int64 `json:"cancelled_count"`
	OverdueCount   int64 `json:"overdue_count"`
}
