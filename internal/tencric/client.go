// Package tencric is the HTTP client for the 10CRIC sportsbook GraphQL
// API: event discovery, market catalogs, bet placement and bet history.
package tencric

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/tencric/cricbet/internal/pkg/config"
	"github.com/tencric/cricbet/internal/pkg/models"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Client talks to the sportsbook API with one authenticated session.
// The operator-facing domain rotates, so every call walks the configured
// domain list until one answers.
type Client struct {
	cfg             *config.TencricConfig
	playerID        string
	sportsbookToken string
	httpClient      *http.Client
}

func NewClient(cfg *config.TencricConfig, playerID, sportsbookToken string) *Client {
	return &Client{
		cfg:             cfg,
		playerID:        playerID,
		sportsbookToken: sportsbookToken,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// domains returns the base URL followed by the configured mirrors.
func (c *Client) domains() []string {
	out := make([]string, 0, 1+len(c.cfg.MirrorURLs))
	out = append(out, c.cfg.BaseURL)
	for _, m := range c.cfg.MirrorURLs {
		if m != c.cfg.BaseURL {
			out = append(out, m)
		}
	}
	return out
}

// do executes one GraphQL request, trying each domain in order. A domain
// counts as failed on transport errors, non-200 statuses and GraphQL-level
// errors alike.
func (c *Client) do(ctx context.Context, req graphQLRequest, out any) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", req.OperationName, err)
	}

	var lastErr error
	for _, domain := range c.domains() {
		if err := c.doOnce(ctx, domain, req.OperationName, body, out); err != nil {
			slog.Warn("Sportsbook request failed, trying next domain",
				"operation", req.OperationName,
				"domain", domain,
				"error", err)
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("%s failed on all domains: %w", req.OperationName, lastErr)
}

func (c *Client) doOnce(ctx context.Context, domain, operation string, body []byte, out any) error {
	url := strings.TrimRight(domain, "/") + "/graphql"

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-player-id", c.playerID)
	httpReq.Header.Set("x-sportsbook-token", c.sportsbookToken)
	httpReq.Header.Set("x-tenant", c.cfg.Tenant)
	ua := c.cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	httpReq.Header.Set("User-Agent", ua)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(string(data), 200))
	}

	var envelope graphQLResponse
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("graphql error: %s", envelope.Errors[0].Message)
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("failed to parse %s data: %w", operation, err)
		}
	}
	return nil
}

// ListUpcomingEvents fetches the upcoming-events widget for the configured
// sport and keeps fixtures from the configured league. Fixtures whose
// start date fails to parse are kept with a zero start time; the scheduler
// decides what to do with them.
func (c *Client) ListUpcomingEvents(ctx context.Context) ([]models.Match, error) {
	req := graphQLRequest{
		OperationName: "listWidgetEvents",
		Variables: listWidgetEventsVariables{
			Payload: listWidgetEventsPayload{
				SportID:    c.cfg.SportID,
				WidgetType: "WIDGET_TYPE_UPCOMING_EVENTS",
			},
		},
		Query: listWidgetEventsQuery,
	}

	var data listWidgetEventsData
	if err := c.do(ctx, req, &data); err != nil {
		return nil, err
	}

	var matches []models.Match
	for _, ev := range data.ListWidgetEvents.Events {
		if c.cfg.LeagueName != "" && !strings.EqualFold(ev.LeagueName, c.cfg.LeagueName) {
			continue
		}
		match := models.Match{
			EventID:    ev.ID,
			Name:       ev.Name,
			LeagueName: ev.LeagueName,
			StartTime:  models.ParseEventDate(ev.StartEventDate),
		}
		if home, away, ok := models.SplitTeams(ev.Name); ok {
			match.HomeTeam = home
			match.AwayTeam = away
		}
		matches = append(matches, match)
	}

	slog.Info("Fetched upcoming events",
		"total", len(data.ListWidgetEvents.Events),
		"league_matches", len(matches))
	return matches, nil
}

// FetchEventMarkets fetches the full market catalog for one event.
func (c *Client) FetchEventMarkets(ctx context.Context, eventID string) (*models.SportEvent, error) {
	req := graphQLRequest{
		OperationName: "lazyEvent",
		Variables: lazyEventVariables{
			Payload: lazyEventPayload{EventID: eventID},
		},
		Query: lazyEventQuery,
	}

	var data lazyEventData
	if err := c.do(ctx, req, &data); err != nil {
		return nil, err
	}
	if data.LazyEvent.SportEvent == nil {
		return nil, fmt.Errorf("event %s not found", eventID)
	}

	slog.Info("Fetched event markets",
		"event_id", eventID,
		"event", data.LazyEvent.SportEvent.Name,
		"markets", len(data.LazyEvent.SportEvent.ExpandedMarkets))
	return data.LazyEvent.SportEvent, nil
}

// PlaceBet submits a single bet and returns the sportsbook's bet id. The
// client-side id is generated here; the server echoes its own id back.
func (c *Client) PlaceBet(ctx context.Context, bet models.SanctionedBet, eventID string) (string, error) {
	clientBetID := uuid.NewString()
	potentialReturn := models.PotentialReturn(bet.Stake, bet.Odds)

	req := graphQLRequest{
		OperationName: "placeBet",
		Variables: placeBetVariables{
			Payload: placeBetPayload{
				Bet: betPayload{
					ID:              clientBetID,
					Stake:           formatAmount(bet.Stake),
					OddsType:        "ODDS_TYPE_DECIMAL",
					BetType:         "BET_TYPE_SINGLE_BET",
					Odds:            formatAmount(bet.Odds),
					PotentialReturn: formatAmount(potentialReturn),
					Selections: []selectionPayload{{
						ID:            bet.SelectionID,
						EventID:       eventID,
						LeagueID:      c.cfg.LeagueID,
						LeagueName:    c.cfg.LeagueName,
						MarketID:      bet.MarketID,
						MarketLineID:  bet.MarketLineID,
						SportID:       c.cfg.SportID,
						SportName:     c.cfg.SportName,
						Odds:          formatAmount(bet.Odds),
						PageSource:    "PAGE_SOURCE_EVENT_PAGE",
						EarlyPayoutID: 3,
					}},
					OddsChangeStrategy: "ODDS_CHANGE_STRATEGY_NONE",
					LoyaltyPoints:      nil,
				},
				Currency:   c.cfg.Currency,
				SportToken: c.sportsbookToken,
				PlayerID:   c.playerID,
			},
		},
		Query: placeBetMutation,
	}

	var data placeBetData
	if err := c.do(ctx, req, &data); err != nil {
		return "", fmt.Errorf("failed to place bet on %q: %w", bet.SelectionName, err)
	}
	if data.PlaceBet.BetID == "" {
		return "", fmt.Errorf("bet on %q accepted without a bet id", bet.SelectionName)
	}

	slog.Info("Bet placed",
		"bet_id", data.PlaceBet.BetID,
		"selection", bet.SelectionName,
		"stake", bet.Stake,
		"odds", bet.Odds)
	return data.PlaceBet.BetID, nil
}

// ListBetPage fetches one page of the account's bet history covering the
// last hours.
func (c *Client) ListBetPage(ctx context.Context, hours, page int) (*BetPage, error) {
	if page < 1 {
		page = 1
	}
	req := graphQLRequest{
		OperationName: "GetBetPage",
		Variables: getBetPageVariables{
			Payload: getBetPagePayload{
				Filter: betPageFilter{
					OddsType: "ODDS_TYPE_DECIMAL",
					Hours:    hours,
				},
				Pagination: betPagePagination{
					Page:         page,
					ItemsPerPage: 50,
				},
			},
		},
		Query: getBetPageQuery,
	}

	var data getBetPageData
	if err := c.do(ctx, req, &data); err != nil {
		return nil, err
	}
	return &data.ListBetPage, nil
}

// formatAmount renders a stake or odds value the way the API expects:
// decimal string without a float exponent.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
