package model

// Bookmark — локальная модель закладки.
// Времена хранятся в unix-секундах; DeletedAt == 0 означает «не удалена».
type Bookmark struct {
	ID           string
	URL          string
	Title        string
	Description  string
	Favicon      string // опциональный URI иконки
	Thumbnail    string // опциональный URI превью
	CollectionID string
	CreatedAt    int64
	UpdatedAt    int64
	Deleted      bool
	DeletedAt    int64
}
