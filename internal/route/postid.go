package route

import (
	"strconv"

	"github.com/google/uuid"
)

// ValidPostID сообщает, похож ли id на идентификатор публикации бэкенда:
// положительное целое либо UUID. Невалидный id не запрашивается вовсе,
// страница сразу считается ненайденной.
func ValidPostID(id string) bool {
	if id == "" {
		return false
	}

	if n, err := strconv.ParseUint(id, 10, 64); err == nil {
		return n > 0
	}

	_, err := uuid.Parse(id)
	return err == nil
}
