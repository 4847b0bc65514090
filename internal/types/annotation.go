package types

import (
  "time"
  "github.com/google/uuid"
)

// Annotation records one boundary judgment. Attention-check trials keep
// AttentionCheck=true and are excluded from scoring aggregates.
type Annotation struct {
  ID               uint               `gorm:"primaryKey" json:"id"`
  UserID           uuid.UUID          `gorm:"type:uuid;index;not null" json:"user_id"`
  User             *User              `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
  GenerationID     uint               `gorm:"index;not null" json:"generation_id"`
  Generation       *Generation        `gorm:"constraint:OnDelete:CASCADE;foreignKey:GenerationID;references:ID" json:"generation,omitempty"`
  Boundary         int                `gorm:"not null;column:boundary" json:"boundary"`
  Points           int                `gorm:"not null;default:0;column:points" json:"points"`
  AttentionCheck   bool               `gorm:"not null;default:false;column:attention_check" json:"attention_check"`
  Reasons          []*FeedbackOption  `gorm:"many2many:annotation_reason;" json:"reasons,omitempty"`
  CreatedAt        time.Time          `gorm:"not null" json:"created_at"`
  UpdatedAt        time.Time          `gorm:"not null" json:"updated_at"`
}

func (Annotation) TableName() string {
  return "annotation"
}
