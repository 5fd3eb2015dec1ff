package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"LinkKeeper/internal/model"
)

// CollectionRepository — контракт доступа к коллекциям зеркала.
type CollectionRepository interface {
	// Upsert вставляет или обновляет коллекцию пользователя и назначает ей
	// новую позицию в ленте изменений.
	Upsert(ctx context.Context, userID string, c model.Collection) error

	// Delete убирает коллекцию из зеркала. Отсутствующая запись — не ошибка.
	Delete(ctx context.Context, userID, id string) error

	// ListSince возвращает записи пользователя с server_seq > since в порядке
	// ленты и курсор для следующего запроса.
	ListSince(ctx context.Context, userID string, since int64) ([]model.Collection, int64, error)
}

type collectionRepo struct {
	db *gorm.DB
}

// NewCollectionRepository создаёт реализацию репозитория коллекций.
func NewCollectionRepository(db *gorm.DB) CollectionRepository {
	return &collectionRepo{db: db}
}

func (r *collectionRepo) Upsert(ctx context.Context, userID string, c model.Collection) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, err := nextSeq(tx, &model.Collection{}, userID)
		if err != nil {
			return err
		}
		c.UserID = userID
		c.ServerSeq = seq
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "id"}},
			UpdateAll: true,
		}).Create(&c).Error
	})
}

func (r *collectionRepo) Delete(ctx context.Context, userID, id string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&model.Collection{}).Error
}

func (r *collectionRepo) ListSince(ctx context.Context, userID string, since int64) ([]model.Collection, int64, error) {
	var out []model.Collection
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND server_seq > ?", userID, since).
		Order("server_seq ASC").
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	cursor := since
	if n := len(out); n > 0 {
		cursor = out[n-1].ServerSeq
	}
	return out, cursor, nil
}

// nextSeq выдаёт следующую позицию в пер-пользовательской ленте изменений.
func nextSeq(tx *gorm.DB, m any, userID string) (int64, error) {
	var maxSeq int64
	err := tx.Model(m).
		Where("user_id = ?", userID).
		Select("COALESCE(MAX(server_seq), 0)").
		Scan(&maxSeq).Error
	if err != nil {
		return 0, err
	}
	return maxSeq + 1, nil
}
