package model

import "github.com/google/uuid"

// User - пользователь текущей сессии. Сервис его не создает и не изменяет.
type User struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
}
