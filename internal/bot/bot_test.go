package bot_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Maikai1er/la-baza-bot/internal/bot"
	"github.com/Maikai1er/la-baza-bot/internal/domain/models"
	"github.com/Maikai1er/la-baza-bot/internal/services/datefmt"
	"github.com/Maikai1er/la-baza-bot/internal/services/ledger"
	"github.com/Maikai1er/la-baza-bot/internal/telegram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLedger struct {
	joinErr   error
	cancelErr error
	openErr   error
	list      ledger.RenderedList
	event     models.Event

	registered []string
	cleared    bool
}

func (f *fakeLedger) RegisterUser(_ context.Context, _ int64, nickname string) (models.User, error) {
	f.registered = append(f.registered, nickname)
	return models.User{Nickname: "Ann"}, nil
}

func (f *fakeLedger) Join(_ context.Context, _ int64, _ string) (ledger.RenderedList, error) {
	return f.list, f.joinErr
}

func (f *fakeLedger) Invite(_ context.Context, _, _ string) (ledger.RenderedList, error) {
	return f.list, f.joinErr
}

func (f *fakeLedger) CancelByTelegramID(_ context.Context, _ int64) (ledger.RenderedList, error) {
	return f.list, f.cancelErr
}

func (f *fakeLedger) CancelByNickname(_ context.Context, _ string) (ledger.RenderedList, error) {
	return f.list, f.cancelErr
}

func (f *fakeLedger) Clear(_ context.Context) error {
	f.cleared = true
	return nil
}

func (f *fakeLedger) Open(_, _, _ string, _ time.Time) (models.Event, error) {
	return f.event, f.openErr
}

type fakeSender struct {
	texts []string
}

func (f *fakeSender) SendMessage(_ context.Context, _, _ int64, text string) error {
	f.texts = append(f.texts, text)
	return nil
}

type fakeAuthz struct {
	organizers map[int64]bool
}

func (f *fakeAuthz) IsOrganizer(_ context.Context, _, userID int64) (bool, error) {
	return f.organizers[userID], nil
}

func update(userID int64, text string) telegram.Update {
	return telegram.Update{
		Message: &telegram.Message{
			MessageID: 7,
			From:      &telegram.User{ID: userID},
			Chat:      telegram.Chat{ID: -100, Type: "group"},
			Text:      text,
		},
	}
}

func newBot(l *fakeLedger, authz *fakeAuthz) (*bot.Bot, *fakeSender) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	sender := &fakeSender{}
	if authz == nil {
		authz = &fakeAuthz{}
	}

	return bot.New(log, l, sender, authz, nil), sender
}

func lastReply(t *testing.T, sender *fakeSender) string {
	t.Helper()
	require.NotEmpty(t, sender.texts)
	return sender.texts[len(sender.texts)-1]
}

func TestHandleUpdate_IgnoresNonCommands(t *testing.T) {
	b, sender := newBot(&fakeLedger{}, nil)

	b.HandleUpdate(context.Background(), update(1, "привет"))
	b.HandleUpdate(context.Background(), telegram.Update{})
	b.HandleUpdate(context.Background(), update(1, "/unknowncmd"))

	assert.Empty(t, sender.texts)
}

func TestHandleUpdate_StartAndHelp(t *testing.T) {
	b, sender := newBot(&fakeLedger{}, nil)

	b.HandleUpdate(context.Background(), update(1, "/start"))
	assert.Equal(t, bot.MsgWelcome, lastReply(t, sender))

	b.HandleUpdate(context.Background(), update(1, "/help"))
	assert.Equal(t, bot.MsgHelp, lastReply(t, sender))
}

func TestHandleUpdate_Register(t *testing.T) {
	l := &fakeLedger{}
	b, sender := newBot(l, nil)

	b.HandleUpdate(context.Background(), update(1, "/register ann"))

	assert.Equal(t, []string{"ann"}, l.registered)
	assert.Equal(t, fmt.Sprintf(bot.MsgRegistered, "Ann"), lastReply(t, sender))
}

func TestHandleUpdate_RegisterUsage(t *testing.T) {
	b, sender := newBot(&fakeLedger{}, nil)

	b.HandleUpdate(context.Background(), update(1, "/register"))
	assert.Equal(t, bot.MsgRegisterUsage, lastReply(t, sender))

	// A single letter is not a usable nickname.
	b.HandleUpdate(context.Background(), update(1, "/register a"))
	assert.Equal(t, bot.MsgRegisterUsage, lastReply(t, sender))
}

func TestHandleUpdate_CommandWithBotSuffix(t *testing.T) {
	b, sender := newBot(&fakeLedger{}, nil)

	b.HandleUpdate(context.Background(), update(1, "/start@la_baza_bot"))
	assert.Equal(t, bot.MsgWelcome, lastReply(t, sender))
}

func TestHandleUpdate_JoinRejections(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"closed", ledger.ErrRegistrationClosed, bot.MsgNoActiveEvent},
		{"not registered", ledger.ErrNotRegistered, bot.MsgRegisterFirst},
		{"storage failure", fmt.Errorf("storage: broken"), bot.MsgInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, sender := newBot(&fakeLedger{joinErr: tt.err}, nil)

			b.HandleUpdate(context.Background(), update(1, "/join"))
			assert.Equal(t, tt.want, lastReply(t, sender))
		})
	}
}

func TestHandleUpdate_JoinRendersList(t *testing.T) {
	l := &fakeLedger{list: ledger.RenderedList{
		Lines: []string{"1. Ann", "2. Boris 19:00"},
		Event: models.Event{
			Date:     "24 декабря 2026 (четверг)",
			Time:     "18:00",
			Location: "https://maps.example.com/club",
			Open:     true,
		},
	}}
	b, sender := newBot(l, nil)

	b.HandleUpdate(context.Background(), update(1, "/join 19:00"))

	want := "24 декабря 2026 (четверг), Запись открыта! 😎\n\n" +
		"1. Ann\n2. Boris 19:00\n\n" +
		"🕐 18:00\n🗺 https://maps.example.com/club"
	assert.Equal(t, want, lastReply(t, sender))
}

func TestHandleUpdate_CancelRejection(t *testing.T) {
	b, sender := newBot(&fakeLedger{cancelErr: ledger.ErrNoActiveRegistration}, nil)

	b.HandleUpdate(context.Background(), update(1, "/cancel Боб"))
	assert.Equal(t, bot.MsgNoRegistration, lastReply(t, sender))
}

func TestHandleUpdate_InviteUsage(t *testing.T) {
	b, sender := newBot(&fakeLedger{}, nil)

	b.HandleUpdate(context.Background(), update(1, "/invite"))
	assert.Equal(t, bot.MsgInviteUsage, lastReply(t, sender))
}

func TestHandleUpdate_OpenRequiresOrganizer(t *testing.T) {
	b, sender := newBot(&fakeLedger{}, &fakeAuthz{organizers: map[int64]bool{}})

	b.HandleUpdate(context.Background(), update(1, "/open 24.12"))
	assert.Equal(t, bot.MsgNotOrganizer, lastReply(t, sender))
}

func TestHandleUpdate_Open(t *testing.T) {
	l := &fakeLedger{event: models.Event{
		Date:     "24 декабря 2026 (четверг)",
		Time:     "18:00",
		Location: ledger.DefaultLocation,
		Open:     true,
	}}
	b, sender := newBot(l, &fakeAuthz{organizers: map[int64]bool{1: true}})

	b.HandleUpdate(context.Background(), update(1, "/open 24.12"))

	want := fmt.Sprintf("24 декабря 2026 (четверг), Запись открыта! 😎\n\n🕐 18:00\n🗺 %s",
		ledger.DefaultLocation)
	assert.Equal(t, want, lastReply(t, sender))
}

func TestHandleUpdate_OpenUsage(t *testing.T) {
	authz := &fakeAuthz{organizers: map[int64]bool{1: true}}

	b, sender := newBot(&fakeLedger{}, authz)
	b.HandleUpdate(context.Background(), update(1, "/open"))
	assert.Equal(t, bot.MsgOpenUsage, lastReply(t, sender))

	b, sender = newBot(&fakeLedger{openErr: fmt.Errorf("resolve: %w", datefmt.ErrInvalidDate)}, authz)
	b.HandleUpdate(context.Background(), update(1, "/open каждый_день"))
	assert.Equal(t, bot.MsgOpenUsage, lastReply(t, sender))
}

func TestHandleUpdate_Clear(t *testing.T) {
	l := &fakeLedger{}
	b, sender := newBot(l, &fakeAuthz{organizers: map[int64]bool{1: true}})

	b.HandleUpdate(context.Background(), update(1, "/clear"))

	assert.True(t, l.cleared)
	assert.Equal(t, bot.MsgCleared, lastReply(t, sender))
}

func TestHandleUpdate_ClearRequiresOrganizer(t *testing.T) {
	l := &fakeLedger{}
	b, sender := newBot(l, nil)

	b.HandleUpdate(context.Background(), update(2, "/clear"))

	assert.False(t, l.cleared)
	assert.Equal(t, bot.MsgNotOrganizer, lastReply(t, sender))
}
