package service

import (
	"errors"
	"fmt"
)

// ErrSyncUnavailable — транзиентная ошибка обмена с сервером: сеть, таймаут,
// 5xx. Локальные данные не теряются, dirty-пометки сохраняются для повтора.
var ErrSyncUnavailable = errors.New("sync unavailable")

// RejectedError — сервер окончательно отверг конкретную запись (например,
// невалидный payload). Запись пропускается в текущем проходе, остальные
// продолжают синхронизироваться.
type RejectedError struct {
	EntityID string
	Reason   string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("sync rejected %s: %s", e.EntityID, e.Reason)
}
