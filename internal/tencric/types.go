package tencric

import (
	"encoding/json"

	"github.com/tencric/cricbet/internal/pkg/models"
)

// graphQLRequest is the envelope every sportsbook call is wrapped in.
type graphQLRequest struct {
	OperationName string `json:"operationName"`
	Variables     any    `json:"variables"`
	Query         string `json:"query"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors,omitempty"`
}

// listWidgetEvents

type listWidgetEventsVariables struct {
	Payload listWidgetEventsPayload `json:"payload"`
}

type listWidgetEventsPayload struct {
	SportID    string `json:"sportId"`
	WidgetType string `json:"widgetType"`
}

type widgetEvent struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	LeagueName     string `json:"leagueName"`
	StartEventDate string `json:"startEventDate"`
}

type listWidgetEventsData struct {
	ListWidgetEvents struct {
		Events []widgetEvent `json:"events"`
	} `json:"listWidgetEvents"`
}

// lazyEvent

type lazyEventVariables struct {
	Payload lazyEventPayload `json:"payload"`
}

type lazyEventPayload struct {
	EventID string `json:"eventId"`
}

type lazyEventData struct {
	LazyEvent struct {
		SportEvent *models.SportEvent `json:"sportEvent"`
	} `json:"lazyEvent"`
}

// placeBet
//
// Numeric fields travel as strings; the server rejects JSON numbers here.

type placeBetVariables struct {
	Payload placeBetPayload `json:"payload"`
}

type placeBetPayload struct {
	Bet      betPayload `json:"bet"`
	Currency string     `json:"currency"`
	// SportToken duplicates the x-sportsbook-token header; the API checks
	// both.
	SportToken string `json:"sportToken"`
	PlayerID   string `json:"playerId"`
}

type betPayload struct {
	ID                 string             `json:"id"`
	Stake              string             `json:"stake"`
	OddsType           string             `json:"oddsType"`
	BetType            string             `json:"betType"`
	Odds               string             `json:"odds"`
	PotentialReturn    string             `json:"potentialReturn"`
	Selections         []selectionPayload `json:"selections"`
	OddsChangeStrategy string             `json:"oddsChangeStrategy"`
	LoyaltyPoints      *int               `json:"loyaltyPoints"`
}

type selectionPayload struct {
	ID            string `json:"id"`
	EventID       string `json:"eventId"`
	LeagueID      string `json:"leagueId"`
	LeagueName    string `json:"leagueName"`
	MarketID      string `json:"marketId"`
	MarketLineID  string `json:"marketLineId"`
	SportID       string `json:"sportId"`
	SportName     string `json:"sportName"`
	Odds          string `json:"odds"`
	PageSource    string `json:"pageSource"`
	EarlyPayoutID int    `json:"earlyPayoutId"`
}

type placeBetData struct {
	PlaceBet struct {
		BetID string `json:"betId"`
	} `json:"placeBet"`
}

// GetBetPage

type getBetPageVariables struct {
	Payload getBetPagePayload `json:"payload"`
}

type getBetPagePayload struct {
	Filter     betPageFilter     `json:"filter"`
	Pagination betPagePagination `json:"pagination"`
}

type betPageFilter struct {
	OddsType string `json:"oddsType"`
	Hours    int    `json:"hours"`
}

type betPagePagination struct {
	Page         int `json:"page"`
	ItemsPerPage int `json:"itemsPerPage"`
}

// Money is a currency amount as the bet-page API reports it.
type Money struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// BetEvent is one leg of a settled or pending bet.
type BetEvent struct {
	Name      string  `json:"name"`
	HomeTeam  string  `json:"homeTeam"`
	AwayTeam  string  `json:"awayTeam"`
	UserBet   string  `json:"userBet"`
	EventType string  `json:"eventType"`
	Odds      float64 `json:"odds"`
	Status    string  `json:"status"`
}

// BetPageEntry is one bet from the account's bet history.
type BetPageEntry struct {
	InternalBetUUID string     `json:"internalBetUuid"`
	TicketID        string     `json:"ticketId"`
	PurchaseTime    string     `json:"purchaseTime"`
	BetType         string     `json:"betType"`
	BetTypeName     string     `json:"betTypeName"`
	Odds            float64    `json:"odds"`
	Stake           Money      `json:"stake"`
	Status          string     `json:"status"`
	UpdateTime      string     `json:"updateTime"`
	Events          []BetEvent `json:"events"`
	Payout          *Money     `json:"payout"`
}

// BetPage is one page of bet history.
type BetPage struct {
	Bets       []BetPageEntry `json:"bets"`
	HasNext    bool           `json:"hasNext"`
	TotalCount int            `json:"totalCount"`
}

type getBetPageData struct {
	ListBetPage BetPage `json:"listBetPage"`
}
