package repo

import (
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"LinkKeeper/internal/model"
)

// InitDB открывает базу по DSN и прогоняет миграции моделей зеркала.
// postgres://... или postgresql://... — Postgres, иначе DSN трактуется как
// путь к файлу SQLite (по умолчанию linkkeeper.db).
func InitDB(dsn string) (*gorm.DB, error) {
	var dial gorm.Dialector
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		dial = postgres.Open(dsn)
	case dsn == "":
		dial = sqlite.Dialector{DriverName: "sqlite", DSN: "linkkeeper.db"}
	default:
		dial = sqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	}

	db, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&model.Collection{}, &model.Bookmark{}); err != nil {
		return nil, err
	}
	return db, nil
}
