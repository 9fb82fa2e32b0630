package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// KYCProfile is an optional side record per user. Instead of null-chaining
// into loose columns at every call site, the submitted state is an explicit
// sum type: Submission() either yields a fully-populated KYCSubmission or
// reports "not submitted".
type KYCProfile struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"not null;uniqueIndex" json:"user_id"`
	Submitted      bool       `gorm:"not null;default:false" json:"submitted"`
	FullName       *string    `gorm:"size:100" json:"-"`
	DocumentType   *string    `gorm:"size:30" json:"-"`
	DocumentNumber *string    `gorm:"size:50" json:"-"`
	SubmittedAt    *time.Time `json:"-"`
	CreatedAt      time.Time  `json:"-"`
	UpdatedAt      time.Time  `json:"-"`
}

func (KYCProfile) TableName() string {
	return "kyc_profiles"
}

// KYCSubmission is the populated variant of the profile sum type.
type KYCSubmission struct {
	FullName       string    `json:"full_name"`
	DocumentType   string    `json:"document_type"`
	DocumentNumber string    `json:"document_number"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

// Submission returns the submitted variant, or ok=false when the profile has
// not been submitted yet. Callers never touch the nullable columns directly.
func (k *KYCProfile) Submission() (KYCSubmission, bool) {
	if k == nil || !k.Submitted {
		return KYCSubmission{}, false
	}
	if k.FullName == nil || k.DocumentType == nil || k.DocumentNumber == nil || k.SubmittedAt == nil {
		// Store-boundary validation should make this unreachable.
		return KYCSubmission{}, false
	}
	return KYCSubmission{
		FullName:       *k.FullName,
		DocumentType:   *k.DocumentType,
		DocumentNumber: *k.DocumentNumber,
		SubmittedAt:    *k.SubmittedAt,
	}, true
}

// BeforeSave validates the sum-type invariant at the store boundary: a
// submitted profile carries every field, an unsubmitted one carries none.
func (k *KYCProfile) BeforeSave(tx *gorm.DB) error {
	if k.Submitted {
		if k.FullName == nil || k.DocumentType == nil || k.DocumentNumber == nil || k.SubmittedAt == nil {
			return errors.New("kyc: submitted profile missing required fields")
		}
		return nil
	}
	if k.FullName != nil || k.DocumentType != nil || k.DocumentNumber != nil || k.SubmittedAt != nil {
		return errors.New("kyc: unsubmitted profile must not carry submission fields")
	}
	return nil
}
