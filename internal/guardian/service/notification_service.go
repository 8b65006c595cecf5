package service

import (
	"context"
	"fmt"
	"strings"

	"golang-portfolio-guardian/internal/entity"
	"golang-portfolio-guardian/internal/guardian/config"
	"golang-portfolio-guardian/internal/guardian/repository"
	"golang-portfolio-guardian/pkg/logger"
	"golang-portfolio-guardian/pkg/mailer"
	"golang-portfolio-guardian/pkg/telegram"
	"golang-portfolio-guardian/pkg/utils"
)

// NotificationService dispatches order lifecycle notifications over email
// and the in-app (Telegram) channel. Every send is best-effort: failures
// are logged and reported back as flags, never as errors.
type NotificationService interface {
	// NotifyOrderCreated reports which channels succeeded so the order's
	// notification flags can record it.
	NotifyOrderCreated(ctx context.Context, order *entity.PendingSellOrder) (emailSent, inAppSent bool)
	NotifyOrderExecuted(ctx context.Context, order *entity.PendingSellOrder)
	NotifyOrderFailed(ctx context.Context, order *entity.PendingSellOrder)
	NotifyOrderCancelled(ctx context.Context, order *entity.PendingSellOrder)
	NotifyOrderExpired(ctx context.Context, order *entity.PendingSellOrder)
}

// NewNotificationService creates a new notification dispatcher.
func NewNotificationService(
	cfg *config.Config,
	userRepo repository.UserRepository,
	telegramNotifier telegram.Notifier,
	mailClient mailer.Mailer,
	logger *logger.Logger,
) NotificationService {
	return &notificationService{
		cfg:              cfg,
		userRepo:         userRepo,
		telegramNotifier: telegramNotifier,
		mailer:           mailClient,
		logger:           logger,
	}
}

type notificationService struct {
	cfg              *config.Config
	userRepo         repository.UserRepository
	telegramNotifier telegram.Notifier
	mailer           mailer.Mailer
	logger           *logger.Logger
}

func (s *notificationService) NotifyOrderCreated(ctx context.Context, order *entity.PendingSellOrder) (bool, bool) {
	user := s.lookupUser(ctx, order.UserID)
	if user == nil {
		return false, false
	}

	subject, body := s.buildCreatedEmail(order)
	emailSent := s.sendEmail(user, subject, body, order.ID)

	buttons := []telegram.Button{
		{Text: "✅ Confirm", Data: "confirm:" + order.ID},
		{Text: "❌ Cancel", Data: "cancel:" + order.ID},
	}
	message := telegram.FormatSellTriggeredForTelegram(order)
	inAppSent := true
	if err := s.telegramNotifier.SendInteractiveMessageUser(message, user.TelegramChatID, buttons); err != nil {
		s.logger.Warn("Failed to send in-app notification",
			logger.ErrorField(err), logger.StringField("order_id", order.ID))
		inAppSent = false
	}

	return emailSent, inAppSent
}

func (s *notificationService) NotifyOrderExecuted(ctx context.Context, order *entity.PendingSellOrder) {
	subject := fmt.Sprintf("Sell executed: %s", order.Ticker)
	body := s.buildOutcomeEmail(order, "Your stop-loss sell order was executed.")
	s.sendTerminal(ctx, order, subject, body, telegram.FormatOrderExecutedForTelegram(order))
}

func (s *notificationService) NotifyOrderFailed(ctx context.Context, order *entity.PendingSellOrder) {
	subject := fmt.Sprintf("Sell failed: %s", order.Ticker)
	body := s.buildOutcomeEmail(order, "Your stop-loss sell order could not be executed.")
	s.sendTerminal(ctx, order, subject, body, telegram.FormatOrderFailedForTelegram(order))
}

func (s *notificationService) NotifyOrderCancelled(ctx context.Context, order *entity.PendingSellOrder) {
	subject := fmt.Sprintf("Sell cancelled: %s", order.Ticker)
	body := s.buildOutcomeEmail(order, "Your stop-loss sell order was cancelled. The position was kept.")
	s.sendTerminal(ctx, order, subject, body, telegram.FormatOrderCancelledForTelegram(order))
}

func (s *notificationService) NotifyOrderExpired(ctx context.Context, order *entity.PendingSellOrder) {
	subject := fmt.Sprintf("Sell order expired: %s", order.Ticker)
	body := s.buildOutcomeEmail(order, "Your stop-loss sell order expired without action. The position was kept.")
	s.sendTerminal(ctx, order, subject, body, telegram.FormatOrderExpiredForTelegram(order))
}

func (s *notificationService) sendTerminal(ctx context.Context, order *entity.PendingSellOrder, subject, body, inAppMessage string) {
	user := s.lookupUser(ctx, order.UserID)
	if user == nil {
		return
	}

	s.sendEmail(user, subject, body, order.ID)

	if err := s.telegramNotifier.SendMessageUser(inAppMessage, user.TelegramChatID); err != nil {
		s.logger.Warn("Failed to send in-app notification",
			logger.ErrorField(err), logger.StringField("order_id", order.ID))
	}
}

func (s *notificationService) sendEmail(user *entity.User, subject, body, orderID string) bool {
	if user.Email == "" {
		return false
	}
	if err := s.mailer.Send(user.Email, subject, body); err != nil {
		s.logger.Warn("Failed to send email notification",
			logger.ErrorField(err), logger.StringField("order_id", orderID))
		return false
	}
	return true
}

func (s *notificationService) lookupUser(ctx context.Context, userID uint) *entity.User {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		s.logger.Warn("Failed to resolve user for notification",
			logger.ErrorField(err), logger.Field("user_id", userID))
		return nil
	}
	return user
}

func (s *notificationService) buildCreatedEmail(order *entity.PendingSellOrder) (string, string) {
	subject := fmt.Sprintf("Stop-loss triggered: %s", order.Ticker)

	var rationale string
	switch {
	case order.RequiresConfirmation:
		rationale = "This position is a large share of your portfolio, so nothing is sold until you confirm."
	case order.ExpiresAt != nil:
		rationale = fmt.Sprintf("The position sells automatically at %s unless you cancel before then.", utils.PrettyDate(*order.ExpiresAt))
	default:
		rationale = "The order waits for your confirmation or cancellation."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<h2>Stop-loss triggered for %s</h2>", order.Ticker))
	sb.WriteString(fmt.Sprintf("<p>Current price $%.2f crossed your stop price $%.2f (%.2f%%).</p>", order.TriggerPrice, order.StopLossPrice, order.PercentChange))
	sb.WriteString(fmt.Sprintf("<p>Quantity: %.4f &middot; Market value: $%.2f (%.1f%% of portfolio)</p>", order.Quantity, order.MarketValue, order.PortfolioPercent))
	sb.WriteString(fmt.Sprintf("<p>%s</p>", rationale))
	sb.WriteString(fmt.Sprintf(
		`<p><a href="%s/orders/%s/confirm">Confirm sale</a> &middot; <a href="%s/orders/%s/cancel">Cancel and keep position</a></p>`,
		s.cfg.Guardian.AppBaseURL, order.ID, s.cfg.Guardian.AppBaseURL, order.ID))
	sb.WriteString(fmt.Sprintf("<p><small>Order %s</small></p>", order.ID))

	return subject, sb.String()
}

func (s *notificationService) buildOutcomeEmail(order *entity.PendingSellOrder, summary string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<h2>%s</h2>", summary))
	sb.WriteString(fmt.Sprintf("<p>Ticker: %s &middot; Quantity: %.4f</p>", order.Ticker, order.Quantity))
	if order.ExecutedPrice != nil && order.ExecutedQuantity != nil {
		sb.WriteString(fmt.Sprintf("<p>Executed %.4f at $%.2f.</p>", *order.ExecutedQuantity, *order.ExecutedPrice))
	}
	if order.PartialFill {
		sb.WriteString("<p>The fill was partial; the remainder of the position is still held.</p>")
	}
	if order.Reason != "" {
		sb.WriteString(fmt.Sprintf("<p>Reason: %s</p>", utils.CapitalizeSentence(order.Reason)))
	}
	sb.WriteString(fmt.Sprintf("<p><small>Order %s</small></p>", order.ID))
	return sb.String()
}
