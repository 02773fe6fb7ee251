package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Report is a citizen-submitted civic issue (pothole, broken light, ...).
type Report struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"size:2000;not null" json:"description"`
	Category    string         `gorm:"size:100;not null;index" json:"category"`
	Status      ReportStatus   `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	Priority    ReportPriority `gorm:"size:20;not null;default:'MEDIUM'" json:"priority"`
	Latitude    *float64       `gorm:"index:idx_reports_location,priority:1" json:"latitude,omitempty"`
	Longitude   *float64       `gorm:"index:idx_reports_location,priority:2" json:"longitude,omitempty"`
	Address     string         `gorm:"size:500" json:"address,omitempty"`
	CreatedBy   string         `gorm:"size:255" json:"created_by,omitempty"`
	Image       string         `gorm:"type:text" json:"image,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
}

// BeforeCreate assigns the id exactly once.
func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (Report) TableName() string {
	return "reports"
}

// ReportStatusChange is the audit trail of status updates, including the
// updater and free-text comments supplied with the change.
type ReportStatusChange struct {
	ID         uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	ReportID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"report_id"`
	FromStatus ReportStatus `gorm:"size:20;not null" json:"from_status"`
	ToStatus   ReportStatus `gorm:"size:20;not null" json:"to_status"`
	UpdatedBy  string       `gorm:"size:255" json:"updated_by,omitempty"`
	Comments   string       `gorm:"type:text" json:"comments,omitempty"`
	CreatedAt  time.Time    `gorm:"not null;index" json:"created_at"`
}

func (c *ReportStatusChange) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (ReportStatusChange) TableName() string {
	return "report_status_changes"
}
