// Package notify sends operator notifications about betting activity.
package notify

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/tencric/cricbet/internal/pkg/models"
)

// Min interval between two Telegram messages to the same chat; the Bot API
// throttles around 30 messages per minute per chat.
const sendInterval = 2 * time.Second

// Notifier reports placed bets and failures to a Telegram chat. A nil
// Notifier is valid and drops everything, so call sites never branch on
// whether notifications are configured.
type Notifier struct {
	bot      *tgbotapi.BotAPI
	chatID   int64
	mu       sync.Mutex
	lastSend time.Time
}

// NewNotifier connects to the Telegram Bot API. Returns nil (with a logged
// warning) on failure; notifications are not worth failing a betting run.
func NewNotifier(token string, chatID int64) *Notifier {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		slog.Warn("Failed to create telegram bot, notifications disabled", "error", err)
		return nil
	}
	bot.Debug = false

	if _, err := bot.GetMe(); err != nil {
		slog.Warn("Failed to reach telegram, notifications disabled", "error", err)
		return nil
	}

	return &Notifier{bot: bot, chatID: chatID}
}

// BetPlaced reports one successfully placed bet.
func (n *Notifier) BetPlaced(record models.StakeRecord) {
	text := fmt.Sprintf(
		"✅ Bet placed\n\nMatch: %s\nMarket: %s\nSelection: %s\nOdds: %.2f\nStake: %.2f\nPotential return: %.2f\nBet ID: %s",
		record.MatchName,
		record.MarketName,
		record.SelectionName,
		record.Odds,
		record.Stake,
		record.PotentialReturn,
		record.BetID,
	)
	n.send(text)
}

// BetFailed reports a placement failure so the operator can act manually
// while the market is still open.
func (n *Notifier) BetFailed(bet models.SanctionedBet, matchName string, err error) {
	text := fmt.Sprintf(
		"❌ Bet failed\n\nMatch: %s\nMarket: %s\nSelection: %s\nOdds: %.2f\nStake: %.2f\nError: %v",
		matchName,
		bet.MarketName,
		bet.SelectionName,
		bet.Odds,
		bet.Stake,
		err,
	)
	n.send(text)
}

// RunSummary reports the outcome of one betting cycle.
func (n *Notifier) RunSummary(matchName string, placed, skipped, failed int) {
	text := fmt.Sprintf(
		"📊 Betting run finished\n\nMatch: %s\nPlaced: %d\nSkipped (duplicates): %d\nFailed: %d",
		matchName, placed, skipped, failed,
	)
	n.send(text)
}

func (n *Notifier) send(text string) {
	if n == nil {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if wait := sendInterval - time.Since(n.lastSend); wait > 0 {
		time.Sleep(wait)
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		slog.Warn("Failed to send telegram notification", "error", err)
	}
	n.lastSend = time.Now()
}
