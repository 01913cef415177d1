package models

// SanctionPolicy is the operator-edited staking policy: which overs are in
// play, how much to stake, and whether automatic staking is on at all.
type SanctionPolicy struct {
	FirstOversRange []int   `json:"first_overs_range"`
	LastOversRange  []int   `json:"last_overs_range"`
	Stake           float64 `json:"stake"`
	Active          bool    `json:"active"`
}

// PolicyDocument is the persisted shape: the policy settings plus the
// last-computed bet list. SelectedBets is an overwritable cache of the most
// recent matcher run, not authoritative state.
type PolicyDocument struct {
	Settings     SanctionPolicy  `json:"settings"`
	SelectedBets []SanctionedBet `json:"selected_bets"`
}

// DefaultSanctionPolicy returns the policy written when no document exists
// yet: first six and last four overs of a T20 innings, flat 100 stake.
func DefaultSanctionPolicy() SanctionPolicy {
	return SanctionPolicy{
		FirstOversRange: []int{1, 2, 3, 4, 5, 6},
		LastOversRange:  []int{17, 18, 19, 20},
		Stake:           100,
		Active:          true,
	}
}

// AllowsOver reports whether the over number is in either configured range.
func (p SanctionPolicy) AllowsOver(over int) bool {
	for _, n := range p.FirstOversRange {
		if n == over {
			return true
		}
	}
	for _, n := range p.LastOversRange {
		if n == over {
			return true
		}
	}
	return false
}
