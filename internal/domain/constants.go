package domain

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// Referral lifecycle statuses. Closed and Lost are terminal.
const (
	StatusOpen       = "Open"
	StatusContacted  = "Contacted"
	StatusApproved   = "Approved"
	StatusNoResponse = "No Response"
	StatusBadFit     = "Bad Fit"
	StatusClosed     = "Closed" // "Got The Business"
	StatusLost       = "Lost"
)

// statusRank orders the lifecycle for forward-only progression.
// Approved / No Response / Bad Fit share a rank; Closed and Lost share the terminal rank.
var statusRank = map[string]int{
	StatusOpen:       0,
	StatusContacted:  1,
	StatusApproved:   2,
	StatusNoResponse: 2,
	StatusBadFit:     2,
	StatusClosed:     3,
	StatusLost:       3,
}

func ValidStatus(s string) bool {
	_, ok := statusRank[s]
	return ok
}

func TerminalStatus(s string) bool {
	return s == StatusClosed || s == StatusLost
}

// CanTransition reports whether a non-admin move from cur to next is allowed:
// never out of a terminal state, never backwards, never a no-op.
func CanTransition(cur, next string) bool {
	cr, ok1 := statusRank[cur]
	nr, ok2 := statusRank[next]
	if !ok1 || !ok2 {
		return false
	}
	if TerminalStatus(cur) {
		return false
	}
	return nr > cr
}

const (
	HeatHot  = "Hot"
	HeatWarm = "Warm"
	HeatCold = "Cold"
)

func ValidHeat(h string) bool {
	return h == HeatHot || h == HeatWarm || h == HeatCold
}

// Referral tiers: inside network, outside network, spin-off.
const (
	TierOne   = "Tier 1"
	TierTwo   = "Tier 2"
	TierThree = "Tier 3"
)

func ValidTier(t string) bool {
	return t == TierOne || t == TierTwo || t == TierThree
}

// Listing directions for referrals and revenue totals.
const (
	DirectionGiven    = "given"
	DirectionReceived = "received"
	DirectionBoth     = "both"
)

// Reporting windows.
const (
	Window6M       = "6m"
	Window12M      = "12m"
	WindowLifetime = "lifetime"
)

const (
	RevenueSourceReferral   = "referral"
	RevenueSourceMembership = "membership"
)

const (
	NotifTypeReferral = "referral"
	NotifTypeTYFCB    = "tyfcb"
)

// Keys for runtime-tunable analytics settings (seeded with defaults on boot).
const (
	SettingEngagementRecentDays    = "engagement_recent_days"
	SettingEngagementMinEvents     = "engagement_min_events"
	SettingPointsWeightReferral    = "points_weight_referral"
	SettingPointsWeightRevenueUnit = "points_weight_revenue_unit"
)
