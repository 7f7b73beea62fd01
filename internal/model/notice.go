package model

// Уровни уведомлений.
const (
	NoticeSuccess = "success"
	NoticeError   = "error"
)

// Notice - кратковременное уведомление для пользователя. Нигде не сохраняется.
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Success создает уведомление об успехе.
func Success(msg string) Notice { return Notice{Level: NoticeSuccess, Message: msg} }

// Failure создает уведомление об ошибке.
func Failure(msg string) Notice { return Notice{Level: NoticeError, Message: msg} }
