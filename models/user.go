package models

import "time"

type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Number      string    `gorm:"size:20;uniqueIndex;not null" json:"number"`
	ReffCode    string    `gorm:"size:20;uniqueIndex;not null" json:"reff_code"`
	ReffBy      *uint     `gorm:"column:reff_by;index" json:"reff_by"`
	Balance     float64   `gorm:"type:decimal(15,2);default:0" json:"balance"`
	TotalStaked float64   `gorm:"column:total_staked;type:decimal(15,2);default:0" json:"total_staked"`
	TotalEarned float64   `gorm:"column:total_earned;type:decimal(15,2);default:0" json:"total_earned"`
	Status      string    `gorm:"type:enum('Active','Inactive','Suspend');default:'Active'" json:"status"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}
