package types

import (
  "time"
)

// Playlist is a curated subset of Generations used to scope assignment.
// Description and Details are stored as markdown.
type Playlist struct {
  ID            uint            `gorm:"primaryKey" json:"id"`
  Name          string          `gorm:"uniqueIndex;not null;column:name" json:"name"`
  Description   string          `gorm:"type:text;column:description" json:"description"`
  Details       string          `gorm:"type:text;column:details" json:"details"`
  Generations   []*Generation   `gorm:"many2many:playlist_generation;" json:"generations,omitempty"`
  CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
  UpdatedAt     time.Time       `gorm:"not null" json:"updated_at"`
}

func (Playlist) TableName() string {
  return "playlist"
}
