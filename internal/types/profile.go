package types

import (
  "time"
  "github.com/google/uuid"
)

// Profile extends a User with annotation-game fields set at sign-up.
// Turkers are crowd-work users eligible for attention checks.
type Profile struct {
  ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
  UserID      uuid.UUID   `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
  User        *User       `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
  IsTurker    bool        `gorm:"not null;default:false;column:is_turker" json:"is_turker"`
  Source      string      `gorm:"column:source" json:"source"`
  CreatedAt   time.Time   `gorm:"not null" json:"created_at"`
  UpdatedAt   time.Time   `gorm:"not null" json:"updated_at"`
}

func (Profile) TableName() string {
  return "profile"
}
