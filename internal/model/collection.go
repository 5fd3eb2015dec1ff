package model

// Collection — серверная модель коллекции в облачном зеркале.
// Записи шардируются по пользователю: ключ (user_id, id).
// Времена — unix-секунды, как на клиенте.
type Collection struct {
	UserID string `gorm:"primaryKey;size:128"`
	ID     string `gorm:"primaryKey;type:uuid"`

	Name        string `gorm:"not null"`
	Description string
	Icon        string
	Color       string
	Order       int `gorm:"column:ord"`

	CreatedAt int64 `gorm:"not null"`
	UpdatedAt int64 `gorm:"not null"`
	Deleted   bool  `gorm:"not null;default:false"`
	DeletedAt int64 `gorm:"not null;default:0"`

	// ServerSeq — позиция записи в пер-пользовательской ленте изменений.
	// Назначается сервером при каждом upsert.
	ServerSeq int64 `gorm:"not null;index"`
}
