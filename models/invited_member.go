package models

import "time"

// InvitedMember is a directed sponsor -> invitee referral edge, written once
// at registration time and never mutated.
type InvitedMember struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SponsorID uint      `gorm:"column:sponsor_id;not null;index" json:"sponsor_id"`
	UserID    uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (InvitedMember) TableName() string {
	return "invited_members"
}
