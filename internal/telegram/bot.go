// Package telegram - канал бронирования через Telegram-бота: список туров, карточка тура и
// пошаговый диалог бронирования с отправкой PDF-квитанции.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"tourbook/internal/booking"
	"tourbook/internal/model"
	"tourbook/internal/pricing"
	"tourbook/internal/receipt"
	"tourbook/internal/service"
	"tourbook/internal/session"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
)

// Префиксы данных inline-кнопок.
const (
	callbackTour = "TOUR_"
	callbackBook = "BOOK_"
)

// Тексты бота.
const (
	MsgLoginHint   = "Link your account with /login <token>."
	MsgBrowseHint  = "Use /tours [destination] to browse tours."
	MsgTourMissing = "Tour not found."
	MsgStateFailed = "Something went wrong, please try again."
	confirmWord    = "ok"
)

var prompts = map[int]string{
	StepLeader: "Group leader name?",
	StepEmail:  "Email?",
	StepPhone:  "Phone number?",
	StepPeople: "Number of people? Send a number, + or -, or \"ok\" to confirm.",
}

// Sender - часть tgbotapi.BotAPI, которой пользуется бот.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot обрабатывает обновления Telegram.
type Bot struct {
	api      Sender
	catalog  *service.CatalogService
	bookings *service.BookingService
	auth     *session.Authenticator
	state    *StateStore
	log      *slog.Logger
}

// NewBot создает бота.
func NewBot(api Sender, catalog *service.CatalogService, bookings *service.BookingService,
	auth *session.Authenticator, state *StateStore, log *slog.Logger) *Bot {
	return &Bot{api: api, catalog: catalog, bookings: bookings, auth: auth, state: state, log: log}
}

// Run обрабатывает обновления до закрытия канала или отмены контекста.
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate обрабатывает одно обновление: нажатие inline-кнопки, команду или ответ в диалоге.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	if cq := update.CallbackQuery; cq != nil {
		if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
			b.log.Warn("[bot] не удалось ответить на callback", "err", err)
		}
		chatID := cq.From.ID
		if cq.Message != nil && cq.Message.Chat != nil {
			chatID = cq.Message.Chat.ID
		}
		b.handleCallback(ctx, chatID, cq.Data)
		return
	}

	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return
	}
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		b.handleCommand(ctx, chatID, msg)
		return
	}

	chat, err := b.state.Load(chatID)
	if err != nil {
		b.log.Error("[bot] ошибка чтения состояния", "chat", chatID, "err", err)
		b.reply(chatID, MsgStateFailed)
		return
	}
	if chat.Dialog == nil {
		b.reply(chatID, MsgBrowseHint)
		return
	}
	b.continueDialog(ctx, chatID, chat, strings.TrimSpace(msg.Text))
}

func (b *Bot) handleCommand(ctx context.Context, chatID int64, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		name := "traveller"
		if msg.From != nil && msg.From.FirstName != "" {
			name = msg.From.FirstName
		}
		b.reply(chatID, fmt.Sprintf("Hello, %s! %s %s", name, MsgBrowseHint, MsgLoginHint))

	case "tours":
		b.listTours(ctx, chatID, msg.CommandArguments())

	case "login":
		token := strings.TrimSpace(msg.CommandArguments())
		if token == "" {
			b.reply(chatID, "Usage: /login <token>")
			return
		}
		user, err := b.auth.Parse(token)
		if err != nil {
			b.reply(chatID, "Invalid or expired session token.")
			return
		}
		b.update(chatID, func(c *Chat) { c.Token = token })
		b.reply(chatID, fmt.Sprintf("Signed in as %s.", user.Email))

	case "logout":
		if err := b.state.Delete(chatID); err != nil {
			b.log.Error("[bot] ошибка удаления состояния", "chat", chatID, "err", err)
		}
		b.reply(chatID, "Signed out.")

	case "cancel":
		b.update(chatID, func(c *Chat) { c.Dialog = nil })
		b.reply(chatID, "Booking cancelled.")

	default:
		b.reply(chatID, MsgBrowseHint)
	}
}

func (b *Bot) listTours(ctx context.Context, chatID int64, filter string) {
	page := b.catalog.Page(ctx, filter)
	for _, n := range page.Notices {
		b.reply(chatID, n.Message)
	}
	if len(page.Tours) == 0 {
		if page.Filter != "" {
			b.reply(chatID, "No tours found in "+page.Filter)
		} else {
			b.reply(chatID, "No tours available")
		}
		return
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(page.Tours))
	for _, t := range page.Tours {
		name := t.Name
		if len([]rune(name)) > 30 {
			name = string([]rune(name)[:30]) + "..."
		}
		label := fmt.Sprintf("%s · %s", name, pricing.FormatINR(pricing.Normalize(t.Price)))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, callbackTour+t.ID.String())))
	}
	reply := tgbotapi.NewMessage(chatID, fmt.Sprintf("Found: %d", len(page.Tours)))
	reply.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.send(reply)
}

func (b *Bot) handleCallback(ctx context.Context, chatID int64, data string) {
	switch {
	// Показ карточки тура
	case strings.HasPrefix(data, callbackTour):
		card, ok := b.card(ctx, chatID, strings.TrimPrefix(data, callbackTour))
		if !ok {
			return
		}
		card.OpenDetails()
		msg := tgbotapi.NewMessage(chatID, detailsText(card))
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Book Now", callbackBook+card.Tour.ID.String())))
		b.send(msg)

	// Начать бронирование
	case strings.HasPrefix(data, callbackBook):
		card, ok := b.card(ctx, chatID, strings.TrimPrefix(data, callbackBook))
		if !ok {
			return
		}
		chat, err := b.state.Load(chatID)
		if err != nil {
			b.log.Error("[bot] ошибка чтения состояния", "chat", chatID, "err", err)
			b.reply(chatID, MsgStateFailed)
			return
		}
		if err := card.BookNow(b.user(chat)); err != nil {
			b.reply(chatID, service.NoticeFor(err).Message+". "+MsgLoginHint)
			return
		}
		chat.Dialog = &Dialog{TourID: card.Tour.ID, Step: StepLeader, Draft: card.Form.Draft()}
		if err := b.state.Save(chatID, chat); err != nil {
			b.log.Error("[bot] ошибка сохранения состояния", "chat", chatID, "err", err)
			b.reply(chatID, MsgStateFailed)
			return
		}
		b.reply(chatID, fmt.Sprintf("Booking %s (max %d people).\n%s", card.Form.TourName, card.Form.MaxPeople(), prompts[StepLeader]))
	}
}

func (b *Bot) card(ctx context.Context, chatID int64, rawID string) (*service.TourCard, bool) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		b.reply(chatID, MsgTourMissing)
		return nil, false
	}
	tour, err := b.catalog.Tour(ctx, id)
	if err != nil {
		b.log.Warn("[bot] тур недоступен", "tour", id, "err", err)
		b.reply(chatID, MsgTourMissing)
		return nil, false
	}
	return service.NewTourCard(*tour, b.bookings), true
}

// user возвращает пользователя привязанного токена или nil.
func (b *Bot) user(chat Chat) *model.User {
	if chat.Token == "" {
		return nil
	}
	u, err := b.auth.Parse(chat.Token)
	if err != nil {
		return nil
	}
	return u
}

func (b *Bot) continueDialog(ctx context.Context, chatID int64, chat Chat, text string) {
	d := chat.Dialog
	if text == "" {
		b.reply(chatID, prompts[d.Step])
		return
	}
	switch d.Step {
	case StepLeader:
		d.Draft.LeaderName = text
		d.Step = StepEmail
	case StepEmail:
		d.Draft.Email = text
		d.Step = StepPhone
	case StepPhone:
		d.Draft.Phone = text
		d.Step = StepPeople
	case StepPeople:
		b.partySize(ctx, chatID, chat, text)
		return
	}
	b.save(chatID, chat)
	if d.Step == StepPeople {
		b.reply(chatID, fmt.Sprintf("%s Currently %s.", prompts[StepPeople], d.Draft.NumberOfPeople))
		return
	}
	b.reply(chatID, prompts[d.Step])
}

// partySize обрабатывает шаг количества человек: "+" и "-" меняют значение, число или "ok"
// отправляют бронирование.
func (b *Bot) partySize(ctx context.Context, chatID int64, chat Chat, text string) {
	d := chat.Dialog
	card, ok := b.card(ctx, chatID, d.TourID.String())
	if !ok {
		chat.Dialog = nil
		b.save(chatID, chat)
		return
	}
	user := b.user(chat)
	if err := card.BookNow(user); err != nil {
		chat.Dialog = nil
		b.save(chatID, chat)
		b.reply(chatID, service.NoticeFor(err).Message+". "+MsgLoginHint)
		return
	}
	card.Form.Fill(d.Draft)

	switch {
	case text == "+" || text == "-":
		if text == "+" {
			card.Form.Increment()
		} else {
			card.Form.Decrement()
		}
		d.Draft = card.Form.Draft()
		b.save(chatID, chat)
		b.reply(chatID, fmt.Sprintf("%s people, total %s.", card.Form.PartySize(), pricing.FormatINR(card.Form.Total())))
		return
	case !strings.EqualFold(text, confirmWord):
		card.Form.SetPartySize(text)
		d.Draft = card.Form.Draft()
	}

	notice, err := card.Submit(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrMissingFields):
			// поля потерялись: начинаем диалог заново
			d.Step = StepLeader
			b.save(chatID, chat)
			b.reply(chatID, notice.Message+"\n"+prompts[StepLeader])
		case booking.IsValidation(err):
			b.save(chatID, chat)
			b.reply(chatID, notice.Message+"\n"+prompts[StepPeople])
		case errors.Is(err, service.ErrAuthRequired):
			chat.Dialog = nil
			b.save(chatID, chat)
			b.reply(chatID, notice.Message+". "+MsgLoginHint)
		default:
			b.save(chatID, chat)
			b.reply(chatID, notice.Message+"\nSend \"ok\" to retry or /cancel.")
		}
		return
	}

	chat.Dialog = nil
	b.save(chatID, chat)
	b.reply(chatID, fmt.Sprintf("%s Total %s.", notice.Message, pricing.FormatINR(card.Booking.TotalCost)))
	b.sendReceipt(ctx, chatID, user, card.Booking.ID)
}

func (b *Bot) sendReceipt(ctx context.Context, chatID int64, user *model.User, bookingID uuid.UUID) {
	bk, pdf, err := b.bookings.Receipt(ctx, user, bookingID)
	if err != nil {
		b.log.Error("[bot] не удалось сформировать квитанцию", "booking", bookingID, "err", err)
		return
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: receipt.FileName(*bk), Bytes: pdf})
	doc.Caption = "Booking receipt"
	b.send(doc)
}

func detailsText(card *service.TourCard) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n%s\n", card.Tour.Name, card.LocationLabel())
	if d := card.DurationLabel(); d != "" {
		fmt.Fprintf(&sb, "Duration: %s\n", d)
	}
	if d := card.DateLabel(); d != "" {
		fmt.Fprintf(&sb, "Date: %s\n", d)
	}
	fmt.Fprintf(&sb, "Price: %s per person\nMax people: %d\n\n%s", card.PriceLabel(), card.Tour.Capacity(), card.DescriptionText())
	if len(card.Tour.Services) > 0 {
		sb.WriteString("\n\nIncluded:\n- " + strings.Join(card.Tour.Services, "\n- "))
	}
	return sb.String()
}

func (b *Bot) update(chatID int64, fn func(*Chat)) {
	chat, err := b.state.Load(chatID)
	if err != nil {
		b.log.Error("[bot] ошибка чтения состояния", "chat", chatID, "err", err)
		return
	}
	fn(&chat)
	b.save(chatID, chat)
}

func (b *Bot) save(chatID int64, chat Chat) {
	if err := b.state.Save(chatID, chat); err != nil {
		b.log.Error("[bot] ошибка сохранения состояния", "chat", chatID, "err", err)
	}
}

func (b *Bot) reply(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		b.log.Error("[bot] ошибка отправки сообщения", "err", err)
	}
}
