package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang-portfolio-guardian/internal/entity"
	"golang-portfolio-guardian/pkg/telegram"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentEmail struct {
	to      string
	subject string
	body    string
}

type fakeMailer struct {
	sent []sentEmail
	err  error
}

func (f *fakeMailer) Send(to, subject, htmlBody string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentEmail{to: to, subject: subject, body: htmlBody})
	return nil
}

type telegramMessage struct {
	text    string
	chatID  int64
	buttons []telegram.Button
}

type fakeTelegramNotifier struct {
	plain       []telegramMessage
	interactive []telegramMessage
	err         error
}

func (f *fakeTelegramNotifier) SendMessage(text string) error {
	return f.SendMessageUser(text, 0)
}

func (f *fakeTelegramNotifier) SendMessageUser(text string, chatID int64) error {
	if f.err != nil {
		return f.err
	}
	f.plain = append(f.plain, telegramMessage{text: text, chatID: chatID})
	return nil
}

func (f *fakeTelegramNotifier) SendInteractiveMessageUser(text string, chatID int64, buttons []telegram.Button) error {
	if f.err != nil {
		return f.err
	}
	f.interactive = append(f.interactive, telegramMessage{text: text, chatID: chatID, buttons: buttons})
	return nil
}

type notificationFixture struct {
	users    *fakeUserRepo
	mail     *fakeMailer
	telegram *fakeTelegramNotifier
	svc      NotificationService
}

func newNotificationFixture() *notificationFixture {
	f := &notificationFixture{
		users:    newFakeUserRepo(&entity.User{ID: 7, Email: "sam@example.com", Name: "Sam", TelegramChatID: 4242}),
		mail:     &fakeMailer{},
		telegram: &fakeTelegramNotifier{},
	}
	f.svc = NewNotificationService(testConfig(), f.users, f.telegram, f.mail, newTestLogger())
	return f
}

func windowedOrder() *entity.PendingSellOrder {
	expires := time.Now().UTC().Add(5 * time.Minute)
	return &entity.PendingSellOrder{
		ID:            "order-1",
		UserID:        7,
		Ticker:        "AAPL",
		Quantity:      10,
		TriggerPrice:  188,
		StopLossPrice: 190,
		PercentChange: -1.05,
		MarketValue:   1880,
		Status:        entity.OrderStatusPending,
		ExpiresAt:     &expires,
	}
}

func TestNotifyOrderCreated(t *testing.T) {
	f := newNotificationFixture()

	emailSent, inAppSent := f.svc.NotifyOrderCreated(context.Background(), windowedOrder())

	assert.True(t, emailSent)
	assert.True(t, inAppSent)

	require.Len(t, f.mail.sent, 1)
	mail := f.mail.sent[0]
	assert.Equal(t, "sam@example.com", mail.to)
	assert.Equal(t, "Stop-loss triggered: AAPL", mail.subject)
	assert.Contains(t, mail.body, "http://localhost:8080/orders/order-1/confirm")
	assert.Contains(t, mail.body, "http://localhost:8080/orders/order-1/cancel")

	require.Len(t, f.telegram.interactive, 1)
	msg := f.telegram.interactive[0]
	assert.Equal(t, int64(4242), msg.chatID)
	require.Len(t, msg.buttons, 2)
	assert.Equal(t, "confirm:order-1", msg.buttons[0].Data)
	assert.Equal(t, "cancel:order-1", msg.buttons[1].Data)
}

func TestNotifyOrderCreated_EmailRationale(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*entity.PendingSellOrder)
		snippet string
	}{
		{
			name:    "two-step waits for the user",
			mutate:  func(o *entity.PendingSellOrder) { o.RequiresConfirmation = true },
			snippet: "nothing is sold until you confirm",
		},
		{
			name:    "windowed sells automatically",
			mutate:  func(o *entity.PendingSellOrder) {},
			snippet: "sells automatically at",
		},
		{
			name:    "windowless waits indefinitely",
			mutate:  func(o *entity.PendingSellOrder) { o.ExpiresAt = nil },
			snippet: "waits for your confirmation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newNotificationFixture()
			order := windowedOrder()
			tt.mutate(order)

			f.svc.NotifyOrderCreated(context.Background(), order)

			require.Len(t, f.mail.sent, 1)
			assert.Contains(t, f.mail.sent[0].body, tt.snippet)
		})
	}
}

func TestNotifyOrderCreated_NoEmailAddress(t *testing.T) {
	f := newNotificationFixture()
	f.users = newFakeUserRepo(&entity.User{ID: 7, TelegramChatID: 4242})
	f.svc = NewNotificationService(testConfig(), f.users, f.telegram, f.mail, newTestLogger())

	emailSent, inAppSent := f.svc.NotifyOrderCreated(context.Background(), windowedOrder())

	assert.False(t, emailSent)
	assert.True(t, inAppSent)
	assert.Empty(t, f.mail.sent)
}

func TestNotifyOrderCreated_TelegramFailure(t *testing.T) {
	f := newNotificationFixture()
	f.telegram.err = errors.New("chat not found")

	emailSent, inAppSent := f.svc.NotifyOrderCreated(context.Background(), windowedOrder())

	assert.True(t, emailSent)
	assert.False(t, inAppSent)
}

func TestNotifyOrderCreated_UnknownUser(t *testing.T) {
	f := newNotificationFixture()
	order := windowedOrder()
	order.UserID = 99

	emailSent, inAppSent := f.svc.NotifyOrderCreated(context.Background(), order)

	assert.False(t, emailSent)
	assert.False(t, inAppSent)
	assert.Empty(t, f.mail.sent)
	assert.Empty(t, f.telegram.interactive)
}

func TestNotifyOrderExecuted(t *testing.T) {
	f := newNotificationFixture()
	order := windowedOrder()
	order.Status = entity.OrderStatusExecuted
	price := 187.1
	qty := 6.0
	order.ExecutedPrice = &price
	order.ExecutedQuantity = &qty
	order.PartialFill = true

	f.svc.NotifyOrderExecuted(context.Background(), order)

	require.Len(t, f.mail.sent, 1)
	assert.Equal(t, "Sell executed: AAPL", f.mail.sent[0].subject)
	assert.Contains(t, f.mail.sent[0].body, "Executed 6.0000 at $187.10")
	assert.Contains(t, f.mail.sent[0].body, "partial")

	require.Len(t, f.telegram.plain, 1)
	assert.Equal(t, int64(4242), f.telegram.plain[0].chatID)
}

func TestNotifyOrderExpired(t *testing.T) {
	f := newNotificationFixture()
	order := windowedOrder()
	order.Status = entity.OrderStatusExpired

	f.svc.NotifyOrderExpired(context.Background(), order)

	require.Len(t, f.mail.sent, 1)
	assert.Equal(t, "Sell order expired: AAPL", f.mail.sent[0].subject)
	assert.Contains(t, f.mail.sent[0].body, "position was kept")
	require.Len(t, f.telegram.plain, 1)
}
