package model

import "time"

// SiteRole scopes a staff member's assignment to a site. A staff member
// may hold several distinct roles at the same site, never the same role twice.
type SiteRole string

const (
	SiteRoleManager         SiteRole = "Site Manager"
	SiteRoleSupervisor      SiteRole = "Supervisor"
	SiteRoleValveTechnician SiteRole = "Valve Technician"
	SiteRoleCasualStaff     SiteRole = "Casual Staff"
)

func (r SiteRole) Valid() bool {
	switch r {
	case SiteRoleManager, SiteRoleSupervisor, SiteRoleValveTechnician, SiteRoleCasualStaff:
		return true
	}
	return false
}

type Site struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"uniqueIndex;not null;size:255" json:"name"`
	ContactPerson string    `gorm:"size:255" json:"contact_person"`
	ContactNumber string    `gorm:"size:20" json:"contact_number"`
	ContactEmail  string    `gorm:"size:255" json:"contact_email"`
	Coordinates   string    `gorm:"size:255" json:"coordinates"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	StaffLinks []SiteStaffLink `gorm:"foreignKey:SiteID;constraint:OnDelete:CASCADE" json:"-"`
	Meetings   []Meeting       `gorm:"foreignKey:SiteID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Site) TableName() string { return "sites" }

// SiteStaffLink is one role a staff member holds at a site.
// The (site_id, staff_id, role) triple is unique.
type SiteStaffLink struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SiteID     uint      `gorm:"not null;index;uniqueIndex:uq_site_staff_role" json:"site_id"`
	StaffID    uint      `gorm:"not null;index;uniqueIndex:uq_site_staff_role" json:"staff_id"`
	Role       SiteRole  `gorm:"not null;size:50;uniqueIndex:uq_site_staff_role" json:"role"`
	AssignedAt time.Time `gorm:"autoCreateTime" json:"assigned_at"`

	Staff Staff `gorm:"foreignKey:StaffID" json:"staff,omitempty"`
}

func (SiteStaffLink) TableName() string { return "site_staff_links" }
