package crm

import (
	"strings"

	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/domain/shared"
)

// RecordStatus is the lifecycle status of a buyer, seller or partner
type RecordStatus string

const (
	StatusActive   RecordStatus = "active"
	StatusInactive RecordStatus = "inactive"
	StatusDraft    RecordStatus = "draft"
)

// IsValid reports whether the status is known
func (s RecordStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusDraft:
		return true
	}
	return false
}

// Record holds the attributes buyers, sellers and partners share
type Record struct {
	Code           string
	Status         RecordStatus
	Source         string
	IsPinned       bool
	PICID          *uuid.UUID
	ProfilePicture string
}

// RecordInput is the caller-editable part of a Record
type RecordInput struct {
	Status RecordStatus
	Source string
	PICID  *uuid.UUID
}

func (r *Record) apply(in RecordInput, v *shared.ValidationError) {
	status := in.Status
	if status == "" {
		status = StatusActive
	}
	if !status.IsValid() {
		v.Add("status", "Must be one of: active, inactive, draft")
	}
	source := strings.ToLower(strings.TrimSpace(in.Source))
	if len(source) > 50 {
		v.Add("source", "Must be at most 50 characters")
	}
	if v.HasErrors() {
		return
	}
	r.Status = status
	r.Source = source
	r.PICID = in.PICID
}

// TogglePin flips the pinned flag and returns the new value
func (r *Record) TogglePin() bool {
	r.IsPinned = !r.IsPinned
	return r.IsPinned
}

// ReplaceProfilePicture swaps the stored picture key and returns the previous one
func (r *Record) ReplaceProfilePicture(key string) string {
	old := r.ProfilePicture
	r.ProfilePicture = key
	return old
}

// Code prefixes for generated record codes
const (
	BuyerCodePrefix   = "BY"
	SellerCodePrefix  = "SL"
	PartnerCodePrefix = "PT"
)
