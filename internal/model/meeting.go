package model

import "time"

type Meeting struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	SiteID             uint       `gorm:"not null;index" json:"site_id"`
	Agenda             string     `gorm:"type:text" json:"agenda"`
	Attendees          string     `gorm:"type:text" json:"attendees"`
	Apologies          string     `gorm:"type:text" json:"apologies"`
	ChairpersonStaffID *uint      `gorm:"index" json:"chairperson_staff_id"`
	Introduction       string     `gorm:"type:text" json:"introduction"`
	ScheduledAt        *time.Time `json:"scheduled_at"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	Items []MeetingItem `gorm:"foreignKey:MeetingID;constraint:OnDelete:CASCADE" json:"items"`
}

func (Meeting) TableName() string { return "meetings" }

// MeetingItem is a single agenda item. Responsible staff is a set: the
// join table rows are replaced wholesale when a meeting's items are updated.
type MeetingItem struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	MeetingID      uint       `gorm:"not null;index" json:"meeting_id"`
	IssueDiscussed string     `gorm:"not null;type:text" json:"issue_discussed"`
	TargetDate     *time.Time `gorm:"type:date" json:"target_date"`
	InvoiceDate    *time.Time `gorm:"type:date" json:"invoice_date"`
	PaymentDate    *time.Time `gorm:"type:date" json:"payment_date"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	ResponsibleStaff []Staff `gorm:"many2many:meeting_item_staff" json:"responsible_staff"`
}

func (MeetingItem) TableName() string { return "meeting_items" }
