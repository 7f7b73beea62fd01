// Package booking содержит форму бронирования тура: расчет стоимости, ограничения размера группы
// и проверку перед отправкой. Пакет не обращается к сети и базе данных.
package booking

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"tourbook/internal/model"
	"tourbook/internal/pricing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	// ErrMissingFields - не заполнено имя руководителя группы, email или телефон.
	ErrMissingFields = errors.New("please fill all required fields")
	// ErrInvalidPartySize - количество человек не является положительным целым числом.
	ErrInvalidPartySize = errors.New("number of people must be a positive whole number")
)

// CapacityError возвращается, если группа больше, чем допускает тур.
type CapacityError struct {
	Max int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("maximum %d people allowed for this tour", e.Max)
}

// IsValidation сообщает, является ли ошибка ошибкой проверки формы.
func IsValidation(err error) bool {
	var capErr *CapacityError
	return errors.Is(err, ErrMissingFields) || errors.Is(err, ErrInvalidPartySize) || errors.As(err, &capErr)
}

// Draft - введенные пользователем данные. Количество человек хранится как введенный текст.
type Draft struct {
	LeaderName     string `json:"leaderName" form:"leaderName" validate:"required"`
	Email          string `json:"email" form:"email" validate:"required"`
	Phone          string `json:"phone" form:"phone" validate:"required"`
	NumberOfPeople string `json:"numberOfPeople" form:"numberOfPeople"`
}

// Submission - проверенная заявка, которую форма передает вызывающему коду.
type Submission struct {
	Draft
	PartySize int     `json:"partySize"`
	UnitPrice float64 `json:"unitPrice"`
	TotalCost float64 `json:"totalCost"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Form хранит состояние открытой формы бронирования одного тура.
type Form struct {
	TourID   uuid.UUID
	TourName string

	maxPeople int
	unitPrice float64
	draft     Draft
	total     float64
}

// NewForm открывает форму для тура: одна персона, итог равен цене за человека.
func NewForm(tour model.Tour) *Form {
	name := tour.Name
	if name == "" {
		name = "Tour"
	}
	f := &Form{
		TourID:    tour.ID,
		TourName:  name,
		maxPeople: tour.Capacity(),
		unitPrice: pricing.Normalize(tour.Price),
		draft:     Draft{NumberOfPeople: "1"},
	}
	f.recalc()
	return f
}

// Draft возвращает текущие значения полей.
func (f *Form) Draft() Draft { return f.draft }

// MaxPeople возвращает допустимый размер группы.
func (f *Form) MaxPeople() int { return f.maxPeople }

// UnitPrice возвращает цену за человека после нормализации.
func (f *Form) UnitPrice() float64 { return f.unitPrice }

// Total возвращает текущую итоговую стоимость.
func (f *Form) Total() float64 { return f.total }

// PartySize возвращает количество человек в том виде, в котором оно введено.
func (f *Form) PartySize() string { return f.draft.NumberOfPeople }

// Fill заменяет все поля формы и пересчитывает стоимость.
func (f *Form) Fill(d Draft) {
	f.draft = d
	f.recalc()
}

// SetPartySize изменяет количество человек и пересчитывает стоимость.
func (f *Form) SetPartySize(s string) {
	f.draft.NumberOfPeople = s
	f.recalc()
}

// Increment увеличивает группу на одного человека, но не больше MaxPeople.
func (f *Form) Increment() { f.step(1) }

// Decrement уменьшает группу на одного человека, но не меньше одного.
func (f *Form) Decrement() { f.step(-1) }

func (f *Form) step(delta int) {
	n := f.partySizeOrOne()
	if n > f.maxPeople {
		// значение выше максимума: любой шаг возвращает к максимуму
		n = f.maxPeople
	} else {
		n += delta
	}
	if n > f.maxPeople {
		n = f.maxPeople
	}
	if n < 1 {
		n = 1
	}
	f.SetPartySize(strconv.Itoa(n))
}

func (f *Form) partySizeOrOne() int {
	n, ok := parseLeadingInt(f.draft.NumberOfPeople)
	if !ok || n < 1 {
		return 1
	}
	return n
}

func (f *Form) recalc() {
	f.total = float64(f.partySizeOrOne()) * f.unitPrice
}

// Submit проверяет форму и возвращает заявку. Проверки идут по порядку: обязательные поля,
// вместимость тура, корректность количества человек. Форма при ошибке не меняется.
func (f *Form) Submit() (*Submission, error) {
	if err := validate.Struct(f.draft); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
			return nil, fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(fields, ", "))
		}
		return nil, ErrMissingFields
	}

	n, ok := parseLeadingInt(f.draft.NumberOfPeople)
	if ok && n > f.maxPeople {
		return nil, &CapacityError{Max: f.maxPeople}
	}
	if !ok || n < 1 {
		return nil, ErrInvalidPartySize
	}

	return &Submission{
		Draft:     f.draft,
		PartySize: n,
		UnitPrice: f.unitPrice,
		TotalCost: f.total,
	}, nil
}

// parseLeadingInt разбирает целое число в начале строки, как это делает браузерный parseInt:
// " 3 people" -> 3, "2.7" -> 2, "abc" -> false.
func parseLeadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\n\r")
	sign := ""
	if s != "" && (s[0] == '+' || s[0] == '-') {
		sign, s = s[:1], s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(sign + s[:end])
	if err != nil {
		// переполнение: знак сохраняем, модуль ограничиваем
		if sign == "-" {
			return math.MinInt, true
		}
		return math.MaxInt, true
	}
	return n, true
}
