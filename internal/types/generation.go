package types

import (
  "time"
)

// Generation is a machine continuation of a Prompt. Boundary is the
// ground-truth index where human text ends within the combined
// (prompt tail + continuation) sentence sequence.
type Generation struct {
  ID          uint        `gorm:"primaryKey" json:"id"`
  PromptID    uint        `gorm:"index;not null" json:"prompt_id"`
  Prompt      *Prompt     `gorm:"constraint:OnDelete:CASCADE;foreignKey:PromptID;references:ID" json:"prompt,omitempty"`
  Body        string      `gorm:"type:text;not null;column:body" json:"body"`
  Boundary    int         `gorm:"not null;column:boundary" json:"boundary"`
  CreatedAt   time.Time   `gorm:"not null" json:"created_at"`
  UpdatedAt   time.Time   `gorm:"not null" json:"updated_at"`
}

func (Generation) TableName() string {
  return "generation"
}
