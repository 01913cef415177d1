// Package performance computes win/loss statistics from the stake ledger.
package performance

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tencric/cricbet/internal/pkg/models"
)

// MarketStats aggregates outcomes for one market name.
type MarketStats struct {
	Bets   int     `json:"bets"`
	Won    int     `json:"won"`
	Lost   int     `json:"lost"`
	Stake  float64 `json:"stake"`
	Profit float64 `json:"profit"`
}

// Report is a snapshot of betting performance over a set of ledger
// records. Profit counts settled bets only; pending stakes are excluded
// from ROI until they resolve.
type Report struct {
	TotalBets   int                    `json:"total_bets"`
	TotalStake  float64                `json:"total_stake"`
	Won         int                    `json:"won"`
	Lost        int                    `json:"lost"`
	Pending     int                    `json:"pending"`
	WinPercent  float64                `json:"win_percent"`
	ProfitLoss  float64                `json:"profit_loss"`
	ROI         float64                `json:"roi"`
	Markets     map[string]MarketStats `json:"markets"`
	LastUpdated string                 `json:"last_updated"`
}

// Compute builds a report from ledger records. lastUpdated is the report
// generation instant, formatted by the caller so the report stays clock
// free.
func Compute(records []models.StakeRecord, lastUpdated string) Report {
	r := Report{
		Markets:     make(map[string]MarketStats),
		LastUpdated: lastUpdated,
	}

	var settledStake float64
	for _, rec := range records {
		r.TotalBets++
		r.TotalStake += rec.Stake

		stats := r.Markets[rec.MarketName]
		stats.Bets++
		stats.Stake += rec.Stake

		switch rec.Status {
		case models.BetStatusWon:
			r.Won++
			stats.Won++
			profit := rec.PotentialReturn - rec.Stake
			r.ProfitLoss += profit
			stats.Profit += profit
			settledStake += rec.Stake
		case models.BetStatusLost:
			r.Lost++
			stats.Lost++
			r.ProfitLoss -= rec.Stake
			stats.Profit -= rec.Stake
			settledStake += rec.Stake
		default:
			r.Pending++
		}

		r.Markets[rec.MarketName] = stats
	}

	settled := r.Won + r.Lost
	if settled > 0 {
		r.WinPercent = float64(r.Won) / float64(settled) * 100
	}
	if settledStake > 0 {
		r.ROI = r.ProfitLoss / settledStake * 100
	}
	return r
}

// Format renders the report for terminal output.
func (r Report) Format() string {
	var b strings.Builder

	b.WriteString("=== Betting Performance ===\n")
	fmt.Fprintf(&b, "Total bets:   %d (stake %.2f)\n", r.TotalBets, r.TotalStake)
	fmt.Fprintf(&b, "Won:          %d\n", r.Won)
	fmt.Fprintf(&b, "Lost:         %d\n", r.Lost)
	fmt.Fprintf(&b, "Pending:      %d\n", r.Pending)
	fmt.Fprintf(&b, "Win rate:     %.1f%%\n", r.WinPercent)
	fmt.Fprintf(&b, "Profit/loss:  %+.2f\n", r.ProfitLoss)
	fmt.Fprintf(&b, "ROI:          %+.1f%%\n", r.ROI)

	if len(r.Markets) > 0 {
		b.WriteString("\nBy market:\n")
		names := make([]string, 0, len(r.Markets))
		for name := range r.Markets {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			stats := r.Markets[name]
			fmt.Fprintf(&b, "  %-50s %d bets, %dW/%dL, %+.2f\n",
				name, stats.Bets, stats.Won, stats.Lost, stats.Profit)
		}
	}

	if r.LastUpdated != "" {
		fmt.Fprintf(&b, "\nUpdated: %s\n", r.LastUpdated)
	}
	return b.String()
}
