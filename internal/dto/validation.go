package dto

import (
	"net/mail"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ahmetcoskunkizilkaya/civic-backend/internal/models"
)

const (
	MaxTitleLength       = 255
	MaxDescriptionLength = 2000
	MaxCategoryLength    = 100
	MaxAddressLength     = 500
	MaxCreatedByLength   = 255
	MaxEmailLength       = 255
	MaxUpdatedByLength   = 255
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type fieldErrors []FieldError

func (fe *fieldErrors) add(field, message string) {
	*fe = append(*fe, FieldError{Field: field, Message: message})
}

func (fe *fieldErrors) required(field, label, value string, max int) {
	if strings.TrimSpace(value) == "" {
		fe.add(field, label+" is required")
		return
	}
	fe.maxLength(field, label, value, max)
}

func (fe *fieldErrors) maxLength(field, label, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		fe.add(field, label+" cannot exceed "+strconv.Itoa(max)+" characters")
	}
}

// Validate checks the create request and returns every field problem found.
// Status is not inspected; new reports always start as PENDING.
func (r *CreateReportRequest) Validate() []FieldError {
	var errs fieldErrors

	errs.required("title", "Title", r.Title, MaxTitleLength)
	errs.required("description", "Description", r.Description, MaxDescriptionLength)
	errs.required("category", "Category", r.Category, MaxCategoryLength)
	errs.maxLength("address", "Address", r.Address, MaxAddressLength)
	errs.maxLength("createdBy", "Created by", r.CreatedBy, MaxCreatedByLength)

	if r.Email != "" {
		if _, err := mail.ParseAddress(r.Email); err != nil {
			errs.add("email", "Invalid email format")
		}
		errs.maxLength("email", "Email", r.Email, MaxEmailLength)
	}

	if r.Priority != "" {
		if _, ok := models.ParseReportPriority(r.Priority); !ok {
			errs.add("priority", "Priority must be one of LOW, MEDIUM, HIGH, URGENT")
		}
	}

	return errs
}

func (r *UpdateReportStatusRequest) Validate() []FieldError {
	var errs fieldErrors

	if strings.TrimSpace(r.Status) == "" {
		errs.add("status", "Status is required")
	} else if _, ok := models.ParseReportStatus(r.Status); !ok {
		errs.add("status", "Status must be one of PENDING, IN_PROGRESS, RESOLVED, REJECTED, CLOSED")
	}
	errs.maxLength("updatedBy", "Updated by", r.UpdatedBy, MaxUpdatedByLength)

	return errs
}

func (p *PageRequest) Validate() []FieldError {
	var errs fieldErrors

	if p.Page < 0 {
		errs.add("page", "Page must not be negative")
	}
	if p.Size < 1 {
		errs.add("size", "Size must be at least 1")
	}
	if strings.TrimSpace(p.SortBy) == "" {
		errs.add("sortBy", "Sort field is required")
	}

	return errs
}

func (b *BoundingBox) Validate() []FieldError {
	var errs fieldErrors

	if b.LatMin > b.LatMax {
		errs.add("latMin", "latMin must not exceed latMax")
	}
	if b.LngMin > b.LngMax {
		errs.add("lngMin", "lngMin must not exceed lngMax")
	}

	return errs
}
