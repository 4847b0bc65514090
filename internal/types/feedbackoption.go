package types

import (
  "time"
)

// FeedbackOption is a reason code annotators can attach to an
// annotation. Defaults are fixed choices seeded per category;
// non-defaults are created lazily from free-text "other" feedback.
type FeedbackOption struct {
  ID            uint        `gorm:"primaryKey" json:"id"`
  Shortname     string      `gorm:"uniqueIndex;not null;column:shortname" json:"shortname"`
  Category      string      `gorm:"index;not null;column:category" json:"category"`
  Description   string      `gorm:"type:text;column:description" json:"description"`
  IsDefault     bool        `gorm:"not null;default:false;column:is_default" json:"is_default"`
  CreatedAt     time.Time   `gorm:"not null" json:"created_at"`
  UpdatedAt     time.Time   `gorm:"not null" json:"updated_at"`
}

func (FeedbackOption) TableName() string {
  return "feedback_option"
}
