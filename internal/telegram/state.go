package telegram

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tourbook/internal/booking"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// stateTTL - сколько хранится состояние чата без активности.
const stateTTL = 7 * 24 * time.Hour

// Шаги диалога бронирования.
const (
	StepLeader = iota + 1
	StepEmail
	StepPhone
	StepPeople
)

// Dialog - незавершенное бронирование в чате.
type Dialog struct {
	TourID uuid.UUID     `json:"tour_id"`
	Step   int           `json:"step"`
	Draft  booking.Draft `json:"draft"`
}

// Chat - состояние чата: привязанный токен доступа и текущий диалог.
type Chat struct {
	Token  string  `json:"token,omitempty"`
	Dialog *Dialog `json:"dialog,omitempty"`
}

// StateStore хранит состояние чатов в badger. Ключ - chatID, значение - Chat в JSON.
type StateStore struct {
	db *badger.DB
}

// OpenStateStore открывает хранилище в каталоге dir. Пустой dir - хранилище в памяти.
func OpenStateStore(dir string) (*StateStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть хранилище состояний: %w", err)
	}
	return &StateStore{db: db}, nil
}

// Close закрывает хранилище.
func (s *StateStore) Close() error {
	return s.db.Close()
}

func chatKey(chatID int64) []byte {
	return []byte(fmt.Sprintf("chat:%d", chatID))
}

// Load возвращает состояние чата. Для нового чата возвращается пустое состояние.
func (s *StateStore) Load(chatID int64) (Chat, error) {
	var chat Chat
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(chatKey(chatID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &chat)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Chat{}, nil
	}
	if err != nil {
		return Chat{}, fmt.Errorf("не удалось прочитать состояние чата %d: %w", chatID, err)
	}
	return chat, nil
}

// Save сохраняет состояние чата.
func (s *StateStore) Save(chatID int64, chat Chat) error {
	val, err := json.Marshal(chat)
	if err != nil {
		return err
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(chatKey(chatID), val).WithTTL(stateTTL))
	})
	if err != nil {
		return fmt.Errorf("не удалось сохранить состояние чата %d: %w", chatID, err)
	}
	return nil
}

// Delete удаляет состояние чата.
func (s *StateStore) Delete(chatID int64) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(chatKey(chatID))
	})
}
