// Package bot routes incoming chat commands to the ledger and turns the
// results into reply texts.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Maikai1er/la-baza-bot/internal/domain/models"
	"github.com/Maikai1er/la-baza-bot/internal/lib/logger/sl"
	"github.com/Maikai1er/la-baza-bot/internal/services/datefmt"
	"github.com/Maikai1er/la-baza-bot/internal/services/ledger"
	"github.com/Maikai1er/la-baza-bot/internal/telegram"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
)

type Ledger interface {
	RegisterUser(ctx context.Context, telegramID int64, nickname string) (models.User, error)
	Join(ctx context.Context, telegramID int64, comment string) (ledger.RenderedList, error)
	Invite(ctx context.Context, nickname, comment string) (ledger.RenderedList, error)
	CancelByTelegramID(ctx context.Context, telegramID int64) (ledger.RenderedList, error)
	CancelByNickname(ctx context.Context, nickname string) (ledger.RenderedList, error)
	Clear(ctx context.Context) error
	Open(dateInput, location, timeLabel string, now time.Time) (models.Event, error)
}

type Sender interface {
	SendMessage(ctx context.Context, chatID, replyTo int64, text string) error
}

type Authorizer interface {
	IsOrganizer(ctx context.Context, chatID, userID int64) (bool, error)
}

type Bot struct {
	log       *slog.Logger
	ledger    Ledger
	sender    Sender
	authz     Authorizer
	validator *validator.Validate
	commands  *prometheus.CounterVec
}

func New(
	log *slog.Logger,
	ledgerSvc Ledger,
	sender Sender,
	authz Authorizer,
	commands *prometheus.CounterVec,
) *Bot {
	return &Bot{
		log:       log,
		ledger:    ledgerSvc,
		sender:    sender,
		authz:     authz,
		validator: validator.New(),
		commands:  commands,
	}
}

// HandleUpdate dispatches one incoming update. Non-command messages are
// ignored. Every failure is terminal for this single update; nothing is
// retried.
func (b *Bot) HandleUpdate(ctx context.Context, upd telegram.Update) {
	msg := upd.Message
	if msg == nil || msg.From == nil || !strings.HasPrefix(msg.Text, "/") {
		return
	}

	fields := strings.Fields(msg.Text)
	command := fields[0]
	// In group chats commands arrive as /command@BotName.
	if at := strings.IndexByte(command, '@'); at > 0 {
		command = command[:at]
	}
	args := fields[1:]

	if b.commands != nil {
		b.commands.WithLabelValues(strings.TrimPrefix(command, "/")).Inc()
	}

	switch command {
	case "/start":
		b.reply(ctx, msg, MsgWelcome)
	case "/help":
		b.reply(ctx, msg, MsgHelp)
	case "/register":
		b.handleRegister(ctx, msg, args)
	case "/join":
		b.handleJoin(ctx, msg, args)
	case "/invite":
		b.handleInvite(ctx, msg, args)
	case "/cancel":
		b.handleCancel(ctx, msg, args)
	case "/open":
		b.handleOpen(ctx, msg, args)
	case "/clear":
		b.handleClear(ctx, msg)
	}
}

func (b *Bot) handleRegister(ctx context.Context, msg *telegram.Message, args []string) {
	if len(args) == 0 {
		b.reply(ctx, msg, MsgRegisterUsage)
		return
	}

	nickname := strings.Join(args, " ")
	if err := b.validator.Var(nickname, "required,min=2,max=32"); err != nil {
		b.reply(ctx, msg, MsgRegisterUsage)
		return
	}

	user, err := b.ledger.RegisterUser(ctx, msg.From.ID, nickname)
	if err != nil {
		b.reply(ctx, msg, MsgInternalError)
		return
	}

	b.reply(ctx, msg, fmt.Sprintf(MsgRegistered, user.Nickname))
}

func (b *Bot) handleJoin(ctx context.Context, msg *telegram.Message, args []string) {
	comment := strings.Join(args, " ")

	list, err := b.ledger.Join(ctx, msg.From.ID, comment)
	if err != nil {
		b.replyRejection(ctx, msg, err)
		return
	}

	b.reply(ctx, msg, FormatList(list))
}

func (b *Bot) handleInvite(ctx context.Context, msg *telegram.Message, args []string) {
	if len(args) == 0 {
		b.reply(ctx, msg, MsgInviteUsage)
		return
	}

	nickname := args[0]
	comment := strings.Join(args[1:], " ")

	if err := b.validator.Var(nickname, "required,min=2,max=32"); err != nil {
		b.reply(ctx, msg, MsgInviteUsage)
		return
	}

	list, err := b.ledger.Invite(ctx, nickname, comment)
	if err != nil {
		b.replyRejection(ctx, msg, err)
		return
	}

	b.reply(ctx, msg, FormatList(list))
}

func (b *Bot) handleCancel(ctx context.Context, msg *telegram.Message, args []string) {
	var (
		list ledger.RenderedList
		err  error
	)

	if len(args) > 0 {
		list, err = b.ledger.CancelByNickname(ctx, args[0])
	} else {
		list, err = b.ledger.CancelByTelegramID(ctx, msg.From.ID)
	}
	if err != nil {
		b.replyRejection(ctx, msg, err)
		return
	}

	b.reply(ctx, msg, FormatList(list))
}

func (b *Bot) handleOpen(ctx context.Context, msg *telegram.Message, args []string) {
	ok, err := b.authz.IsOrganizer(ctx, msg.Chat.ID, msg.From.ID)
	if err != nil {
		b.log.Error("failed to check organizer role", sl.Err(err))
		b.reply(ctx, msg, MsgInternalError)
		return
	}
	if !ok {
		b.reply(ctx, msg, MsgNotOrganizer)
		return
	}

	if len(args) == 0 {
		b.reply(ctx, msg, MsgOpenUsage)
		return
	}

	var location, timeLabel string
	if len(args) > 1 {
		location = args[1]
	}
	if len(args) > 2 {
		timeLabel = args[2]
	}

	event, err := b.ledger.Open(args[0], location, timeLabel, time.Now())
	if err != nil {
		if errors.Is(err, datefmt.ErrInvalidDate) {
			b.reply(ctx, msg, MsgOpenUsage)
			return
		}

		b.reply(ctx, msg, MsgInternalError)
		return
	}

	b.reply(ctx, msg, fmt.Sprintf(announcementFormat, event.Date, event.Time, event.Location))
}

func (b *Bot) handleClear(ctx context.Context, msg *telegram.Message) {
	ok, err := b.authz.IsOrganizer(ctx, msg.Chat.ID, msg.From.ID)
	if err != nil {
		b.log.Error("failed to check organizer role", sl.Err(err))
		b.reply(ctx, msg, MsgInternalError)
		return
	}
	if !ok {
		b.reply(ctx, msg, MsgNotOrganizer)
		return
	}

	if err := b.ledger.Clear(ctx); err != nil {
		b.reply(ctx, msg, MsgInternalError)
		return
	}

	b.reply(ctx, msg, MsgCleared)
}

// replyRejection maps ledger business failures to their fixed reply texts
// and anything else to the generic error text.
func (b *Bot) replyRejection(ctx context.Context, msg *telegram.Message, err error) {
	switch {
	case errors.Is(err, ledger.ErrRegistrationClosed):
		b.reply(ctx, msg, MsgNoActiveEvent)
	case errors.Is(err, ledger.ErrNotRegistered):
		b.reply(ctx, msg, MsgRegisterFirst)
	case errors.Is(err, ledger.ErrNoActiveRegistration):
		b.reply(ctx, msg, MsgNoRegistration)
	default:
		b.log.Error("command failed", sl.Err(err))
		b.reply(ctx, msg, MsgInternalError)
	}
}

func (b *Bot) reply(ctx context.Context, msg *telegram.Message, text string) {
	if err := b.sender.SendMessage(ctx, msg.Chat.ID, msg.MessageID, text); err != nil {
		b.log.Error("failed to send reply", sl.Err(err), slog.Int64("chat_id", msg.Chat.ID))
	}
}

// FormatList renders the sign-up list reply: the announced date, the
// numbered list and the time/location footer.
func FormatList(list ledger.RenderedList) string {
	return fmt.Sprintf(listFormat,
		list.Event.Date,
		strings.Join(list.Lines, "\n"),
		list.Event.Time,
		list.Event.Location,
	)
}
