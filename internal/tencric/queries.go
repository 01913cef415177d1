package tencric

// GraphQL documents for the sportsbook API. Field sets are exactly what the
// web client requests; trimming them changes the server's cache behavior.

const listWidgetEventsQuery = `query listWidgetEvents($payload: ListWidgetEventsRequest!) { listWidgetEvents(payload: $payload) { events { id name leagueName startEventDate } } }`

const lazyEventQuery = `query lazyEvent($payload: LazyEventRequest!) {
  lazyEvent(payload: $payload) {
    sportEvent {
      id
      name
      leagueId
      leagueName
      regionName
      sportId
      sportName
      isLive
      startEventDate
      participantHomeName
      participantAwayName
      expandedMarkets {
        id
        name
        marketLines {
          id
          name
          isSuspended
          marketLineStatus
          selections {
            id
            name
            odds
            isActive
            __typename
          }
          __typename
        }
        __typename
      }
      __typename
    }
    __typename
  }
}`

const placeBetMutation = `mutation placeBet($payload: PlaceBetRequest!) {
  placeBet(payload: $payload) {
    betId
    __typename
  }
}`

const getBetPageQuery = `query GetBetPage($payload: ListBetPageRequest!) {
  listBetPage(payload: $payload) {
    bets {
      internalBetUuid
      ticketId
      purchaseTime
      betType
      betTypeName
      odds
      stake {
        value
        currency
        __typename
      }
      status
      updateTime
      events {
        name
        homeTeam
        awayTeam
        userBet
        eventType
        odds
        status
        __typename
      }
      payout {
        value
        currency
        __typename
      }
      __typename
    }
    hasNext
    totalCount
    __typename
  }
}`
