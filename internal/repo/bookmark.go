package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"LinkKeeper/internal/model"
)

// BookmarkRepository — контракт доступа к закладкам зеркала.
type BookmarkRepository interface {
	Upsert(ctx context.Context, userID string, b model.Bookmark) error
	Delete(ctx context.Context, userID, id string) error
	ListSince(ctx context.Context, userID string, since int64) ([]model.Bookmark, int64, error)
}

type bookmarkRepo struct {
	db *gorm.DB
}

// NewBookmarkRepository создаёт реализацию репозитория закладок.
func NewBookmarkRepository(db *gorm.DB) BookmarkRepository {
	return &bookmarkRepo{db: db}
}

func (r *bookmarkRepo) Upsert(ctx context.Context, userID string, b model.Bookmark) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, err := nextSeq(tx, &model.Bookmark{}, userID)
		if err != nil {
			return err
		}
		b.UserID = userID
		b.ServerSeq = seq
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "id"}},
			UpdateAll: true,
		}).Create(&b).Error
	})
}

func (r *bookmarkRepo) Delete(ctx context.Context, userID, id string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&model.Bookmark{}).Error
}

func (r *bookmarkRepo) ListSince(ctx context.Context, userID string, since int64) ([]model.Bookmark, int64, error) {
	var out []model.Bookmark
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
