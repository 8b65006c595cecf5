package telegram

import (
	"fmt"
	"strings"

	"golang-portfolio-guardian/internal/entity"
	"golang-portfolio-guardian/pkg/utils"
)

// FormatSellTriggeredForTelegram formats a freshly created sell order into
// a Markdown alert.
func FormatSellTriggeredForTelegram(order *entity.PendingSellOrder) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("⚠️ [%s] Stop-Loss Triggered!\n\n", order.Ticker))
	sb.WriteString(fmt.Sprintf("• 💰 Current Price: $%.2f\n", order.TriggerPrice))
	sb.WriteString(fmt.Sprintf("• 🛡 Stop Price: $%.2f (%.2f%%)\n", order.StopLossPrice, order.PercentChange))
	sb.WriteString(fmt.Sprintf("• 📦 Quantity: %.4f\n", order.Quantity))
	sb.WriteString(fmt.Sprintf("• 💵 Market Value: $%.2f (%.1f%% of portfolio)\n\n", order.MarketValue, order.PortfolioPercent))

	switch {
	case order.RequiresConfirmation:
		sb.WriteString("🔒 *High-value position: your confirmation is required before selling.*\n")
	case order.ExpiresAt != nil:
		sb.WriteString(fmt.Sprintf("⏳ *Sells automatically at %s unless you cancel.*\n", utils.PrettyDate(*order.ExpiresAt)))
	default:
		sb.WriteString("✅ *Confirm to sell, or cancel to keep the position.*\n")
	}
	sb.WriteString(fmt.Sprintf("\n🆔 Order: `%s`\n", order.ID))

	return sb.String()
}

// FormatOrderExecutedForTelegram formats an executed sell order.
func FormatOrderExecutedForTelegram(order *entity.PendingSellOrder) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("✅ [%s] Sell Executed\n\n", order.Ticker))
	if order.ExecutedPrice != nil {
		sb.WriteString(fmt.Sprintf("• 💰 Executed Price: $%.2f\n", *order.ExecutedPrice))
	}
	if order.ExecutedQuantity != nil {
		sb.WriteString(fmt.Sprintf("• 📦 Executed Quantity: %.4f\n", *order.ExecutedQuantity))
	}
	if order.Slippage != nil {
		sb.WriteString(fmt.Sprintf("• 📉 Slippage: $%.2f\n", *order.Slippage))
	}
	if order.PartialFill {
		sb.WriteString("• ⚠️ _Partial fill: the rest of the position remains._\n")
	}
	if order.TradeID != nil {
		sb.WriteString(fmt.Sprintf("• 🧾 Trade: `%s`\n", *order.TradeID))
	}
	if order.ExecutedAt != nil {
		sb.WriteString(fmt.Sprintf("\n%s\n", utils.PrettyDate(*order.ExecutedAt)))
	}

	return sb.String()
}

// FormatOrderFailedForTelegram formats a failed sell order.
func FormatOrderFailedForTelegram(order *entity.PendingSellOrder) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("❌ [%s] Sell Failed\n\n", order.Ticker))
	sb.WriteString(fmt.Sprintf("• 📦 Quantity: %.4f\n", order.Quantity))
	if order.Reason != "" {
		sb.WriteString(fmt.Sprintf("• ⚠️ Reason: %s\n", order.Reason))
	}
	sb.WriteString("\n_The position was not sold. A new order is created if the breach persists._\n")

	return sb.String()
}

// FormatOrderCancelledForTelegram formats a cancelled sell order.
func FormatOrderCancelledForTelegram(order *entity.PendingSellOrder) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("🚫 [%s] Sell Cancelled\n\n", order.Ticker))
	sb.WriteString(fmt.Sprintf("• 📦 Quantity kept: %.4f\n", order.Quantity))
	if order.CancelledAt != nil {
		sb.WriteString(fmt.Sprintf("\n%s\n", utils.PrettyDate(*order.CancelledAt)))
	}

	return sb.String()
}

// FormatOrderExpiredForTelegram formats an expired sell order.
func FormatOrderExpiredForTelegram(order *entity.PendingSellOrder) string {
	return fmt.Sprintf("⌛ [%s] Sell order expired without action. The position was kept.\n🆔 Order: `%s`", order.Ticker, order.ID)
}

// FormatErrorAlertMessage formats an operational error notice for the
// default ops chat.
func FormatErrorAlertMessage(errType, errMsg, data string) string {
	return fmt.Sprintf(`📛 [ERROR ALERT]
%s
🔧 %s
⚠️ %s

📄 Data: %s
`, utils.PrettyDate(utils.TimeNowUTC()), errType, errMsg, data)
}
