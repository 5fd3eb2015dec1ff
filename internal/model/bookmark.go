package model

// Bookmark — серверная модель закладки в облачном зеркале.
type Bookmark struct {
	UserID string `gorm:"primaryKey;size:128"`
	ID     string `gorm:"primaryKey;type:uuid"`

	URL          string `gorm:"not null"`
	Title        string `gorm:"not null"`
	Description  string
	Favicon      string
	Thumbnail    string
	CollectionID string `gorm:"type:uuid;index"`

	CreatedAt int64 `gorm:"not null"`
	UpdatedAt int64 `gorm:"not null"`
	Deleted   bool  `gorm:"not null;default:false"`
	DeletedAt int64 `gorm:"not null;default:0"`

	ServerSeq int64 `gorm:"not null;index"`
}
