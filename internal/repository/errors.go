package repository

import "errors"

// ErrNotFound возвращается, если запись с указанным идентификатором отсутствует.
var ErrNotFound = errors.New("запись не найдена")
