package model

// DefaultCollectionName — имя системной коллекции-фолбэка.
// Она существует всегда и никогда не удаляется при слиянии дублей.
const DefaultCollectionName = "Miscellaneous"

// Значения по умолчанию для создаваемых коллекций (как в мобильном клиенте).
const (
	DefaultCollectionIcon  = "folder"
	DefaultCollectionColor = "#6366f1"
)

// Collection — локальная модель коллекции закладок.
type Collection struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Color       string
	Order       int // порядок отображения, уникальность не требуется
	CreatedAt   int64
	UpdatedAt   int64
	Deleted     bool
	DeletedAt   int64
}

// IsDefault сообщает, что это системная коллекция Miscellaneous.
func (c Collection) IsDefault() bool {
	return c.Name == DefaultCollectionName
}
