package types

import (
  "time"
)

// Prompt holds the human-written lead-in, sentences joined with SEP.
// NumSentences is the ground truth for the "all human" boundary.
type Prompt struct {
  ID             uint        `gorm:"primaryKey" json:"id"`
  Body           string      `gorm:"type:text;not null;column:body" json:"body"`
  NumSentences   int         `gorm:"not null;column:num_sentences" json:"num_sentences"`
  CreatedAt      time.Time   `gorm:"not null" json:"created_at"`
  UpdatedAt      time.Time   `gorm:"not null" json:"updated_at"`
}

func (Prompt) TableName() string {
  return "prompt"
}
