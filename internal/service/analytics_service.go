package service

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"refnet/config"
	"refnet/internal/domain"
	"refnet/internal/models"
	"refnet/internal/repository"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// AnalyticsService computes read-time projections over the referral and
// revenue ledgers. Nothing here writes; every view is recomputed on demand
// and the per-member dashboard summary is memoised in an expiring LRU so
// dashboard reloads don't rescan the ledgers. Staleness up to the TTL is
// acceptable: these numbers are advisory, never used for authorization.
type AnalyticsService struct {
	referralRepo *repository.ReferralRepository
	revenueRepo  *repository.RevenueRepository
	userRepo     *repository.UserRepository
	settingRepo  *repository.SettingRepository
	cfg          *config.AnalyticsConfig

	summaries *expirable.LRU[string, DashboardSummary]
}

func NewAnalyticsService(
	referralRepo *repository.ReferralRepository,
	revenueRepo *repository.RevenueRepository,
	userRepo *repository.UserRepository,
	settingRepo *repository.SettingRepository,
	cfg *config.AnalyticsConfig,
) *AnalyticsService {
	return &AnalyticsService{
		referralRepo: referralRepo,
		revenueRepo:  revenueRepo,
		userRepo:     userRepo,
		settingRepo:  settingRepo,
		cfg:          cfg,
		summaries:    expirable.NewLRU[string, DashboardSummary](cfg.SummaryCacheSize, nil, cfg.SummaryCacheTTL),
	}
}

type DashboardSummary struct {
	ReferralsGiven       int        `json:"referrals_given"`
	ReferralsReceived    int        `json:"referrals_received"`
	RevenueGivenCents    int64      `json:"revenue_given_cents"`
	RevenueReceivedCents int64      `json:"revenue_received_cents"`
	LastActivityAt       *time.Time `json:"last_activity_at"`
}

type Performer struct {
	MemberID             uint   `json:"member_id"`
	Name                 string `json:"name"`
	Points               int64  `json:"points"`
	ReferralsGiven       int    `json:"referrals_given"`
	RevenueReceivedCents int64  `json:"revenue_received_cents"`
}

type EngagementRow struct {
	MemberID uint   `json:"member_id"`
	Name     string `json:"name"`
	Status   string `json:"status"` // Active | Growing | Inactive
	Points   int64  `json:"points"`
	DashboardSummary
}

const (
	EngagementActive   = "Active"
	EngagementGrowing  = "Growing"
	EngagementInactive = "Inactive"
)

type TrendPoint struct {
	Month        string `json:"month"` // 2006-01
	Label        string `json:"label"` // Jan 2006
	RevenueCents int64  `json:"revenue_cents"`
	Referrals    int    `json:"referrals"`
}

type MemberRevenue struct {
	MemberID    uint   `json:"member_id"`
	Name        string `json:"name"`
	AmountCents int64  `json:"amount_cents"`
	Slips       int    `json:"slips"`
}

type GrowthPoint struct {
	Month   string `json:"month"`
	Label   string `json:"label"`
	Members int    `json:"members"`
}

// Window validates a requested window, falling back to the configured default
// when empty.
func (s *AnalyticsService) Window(requested string) (string, error) {
	if requested == "" {
		requested = s.cfg.DefaultWindow
	}
	switch requested {
	case domain.Window6M, domain.Window12M, domain.WindowLifetime:
		return requested, nil
	default:
		return "", fmt.Errorf("%w: unknown window %q", domain.ErrValidation, requested)
	}
}

// MemberSummary returns the cached dashboard summary for one member.
func (s *AnalyticsService) MemberSummary(memberID uint, window string) (DashboardSummary, error) {
	key := fmt.Sprintf("%d|%s", memberID, window)
	if cached, ok := s.summaries.Get(key); ok {
		return cached, nil
	}
	since, err := windowStart(window, time.Now())
	if err != nil {
		return DashboardSummary{}, err
	}
	referrals, err := s.referralRepo.ListSince(since)
	if err != nil {
		return DashboardSummary{}, storeErr(err)
	}
	revenue, err := s.revenueRepo.ListSince(since)
	if err != nil {
		return DashboardSummary{}, storeErr(err)
	}
	sum := summarise(memberID, referrals, revenue)
	s.summaries.Add(key, sum)
	return sum, nil
}

func summarise(memberID uint, referrals []models.Referral, revenue []models.Revenue) DashboardSummary {
	var sum DashboardSummary
	touch := func(t time.Time) {
		if sum.LastActivityAt == nil || t.After(*sum.LastActivityAt) {
			at := t
			sum.LastActivityAt = &at
		}
	}
	for _, r := range referrals {
		if r.FromMemberID == memberID {
			sum.ReferralsGiven++
			touch(r.CreatedAt)
		}
		if r.ToMemberID == memberID {
			sum.ReferralsReceived++
			touch(r.CreatedAt)
		}
	}
	for _, rev := range revenue {
		if rev.MemberID == memberID {
			sum.RevenueGivenCents += rev.AmountCents
			touch(rev.CreatedAt)
		}
		if rev.CreatedBy == memberID {
			sum.RevenueReceivedCents += rev.AmountCents
			touch(rev.CreatedAt)
		}
	}
	return sum
}

// TopPerformers ranks members by weighted points: referrals given times the
// referral weight plus whole currency units received times the revenue
// weight. Both weights are operator-tunable settings. Ties break on member ID
// so rankings are stable between recomputations.
func (s *AnalyticsService) TopPerformers(window string, limit int) ([]Performer, error) {
	if limit <= 0 {
		limit = 10
	}
	since, err := windowStart(window, time.Now())
	if err != nil {
		return nil, err
	}
	members, err := s.userRepo.ListMembers("")
	if err != nil {
		return nil, storeErr(err)
	}
	referrals, err := s.referralRepo.ListSince(since)
	if err != nil {
		return nil, storeErr(err)
	}
	revenue, err := s.revenueRepo.ListSince(since)
	if err != nil {
		return nil, storeErr(err)
	}

	wReferral := int64(s.settingInt(domain.SettingPointsWeightReferral, s.cfg.PointsWeightReferral))
	wRevenue := int64(s.settingInt(domain.SettingPointsWeightRevenueUnit, s.cfg.PointsWeightRevenueUnit))

	ranked := make([]Performer, 0, len(members))
	for _, m := range members {
		sum := summarise(m.ID, referrals, revenue)
		ranked = append(ranked, Performer{
			MemberID:             m.ID,
			Name:                 m.Name,
			Points:               int64(sum.ReferralsGiven)*wReferral + (sum.RevenueReceivedCents/100)*wRevenue,
			ReferralsGiven:       sum.ReferralsGiven,
			RevenueReceivedCents: sum.RevenueReceivedCents,
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Points != ranked[j].Points {
			return ranked[i].Points > ranked[j].Points
		}
		return ranked[i].MemberID < ranked[j].MemberID
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// Engagement classifies every member: Active when enough recent events fall
// inside the recent sub-window, Growing when activity in the later half of
// the window beats the earlier half, Inactive otherwise. Thresholds come
// from settings so operators can tune them live.
func (s *AnalyticsService) Engagement(window string) ([]EngagementRow, error) {
	now := time.Now()
	since, err := windowStart(window, now)
	if err != nil {
		return nil, err
	}
	members, err := s.userRepo.ListMembers("")
	if err != nil {
		return nil, storeErr(err)
	}
	referrals, err := s.referralRepo.ListSince(since)
	if err != nil {
		return nil, storeErr(err)
	}
	revenue, err := s.revenueRepo.ListSince(since)
	if err != nil {
		return nil, storeErr(err)
	}

	recentDays := s.settingInt(domain.SettingEngagementRecentDays, s.cfg.EngagementRecentDays)
	minEvents := s.settingInt(domain.SettingEngagementMinEvents, s.cfg.EngagementMinEvents)
	wReferral := int64(s.settingInt(domain.SettingPointsWeightReferral, s.cfg.PointsWeightReferral))
	wRevenue := int64(s.settingInt(domain.SettingPointsWeightRevenueUnit, s.cfg.PointsWeightRevenueUnit))

	// The trend comparison needs a bounded range; lifetime falls back to the
	// last twelve months.
	trendStart := since
	if trendStart.IsZero() {
		trendStart = now.AddDate(0, -12, 0)
	}

	rows := make([]EngagementRow, 0, len(members))
	for _, m := range members {
		var events []time.Time
		for _, r := range referrals {
			if r.FromMemberID == m.ID || r.ToMemberID == m.ID {
				events = append(events, r.CreatedAt)
			}
		}
		for _, rev := range revenue {
			if rev.MemberID == m.ID || rev.CreatedBy == m.ID {
				events = append(events, rev.CreatedAt)
			}
		}
		sum := summarise(m.ID, referrals, revenue)
		rows = append(rows, EngagementRow{
			MemberID:         m.ID,
			Name:             m.Name,
			Status:           classify(events, now, trendStart, recentDays, minEvents),
			Points:           int64(sum.ReferralsGiven)*wReferral + (sum.RevenueReceivedCents/100)*wRevenue,
			DashboardSummary: sum,
		})
	}
	return rows, nil
}

func classify(events []time.Time, now, trendStart time.Time, recentDays, minEvents int) string {
	recentCutoff := now.AddDate(0, 0, -recentDays)
	recent := 0
	for _, e := range events {
		if e.After(recentCutoff) {
			recent++
		}
	}
	if recent >= minEvents {
		return EngagementActive
	}
	mid := trendStart.Add(now.Sub(trendStart) / 2)
	earlier, later := 0, 0
	for _, e := range events {
		if e.Before(trendStart) {
			continue
		}
		if e.After(mid) {
			later++
		} else {
			earlier++
		}
	}
	if later > earlier {
		return EngagementGrowing
	}
	return EngagementInactive
}

// MonthlyTrend returns one point per calendar month of the window, with
// explicit zeroes for quiet months so chart axes stay continuous.
func (s *AnalyticsService) MonthlyTrend(window string) ([]TrendPoint, error) {
	now := time.Now()
	since, err := windowStart(window, now)
	if err != nil {
		return nil, err
	}
	referrals, err := s.referralRepo.ListSince(since)
	if err != nil {
		return nil, storeErr(err)
	}
	revenue, err := s.revenueRepo.ListSince(since)
	if err != nil {
		return nil, storeErr(err)
	}

	start := since
	if start.IsZero() {
		// Lifetime: begin at the earliest recorded activity.
		start = now
		if len(referrals) > 0 && referrals[0].CreatedAt.Before(start) {
			start = referrals[0].CreatedAt
		}
		if len(revenue) > 0 && revenue[0].CreatedAt.Before(start) {
			start = revenue[0].CreatedAt
		}
	}

	byMonth := make(map[string]*TrendPoint)
	points := make([]TrendPoint, 0)
	for _, m := range monthsOf(start, now) {
		points = append(points, TrendPoint{Month: monthKey(m), Label: monthLabel(m)})
	}
	for i := range points {
		byMonth[points[i].Month] = &points[i]
	}
	for _, r := range referrals {
		if p, ok := byMonth[monthKey(r.CreatedAt)]; ok {
			p.Referrals++
		}
	}
	for _, rev := range revenue {
		if p, ok := byMonth[monthKey(rev.CreatedAt)]; ok {
			p.RevenueCents += rev.AmountCents
		}
	}
	return points, nil
}

// RevenueByMember rolls slips up by the credited giver.
func (s *AnalyticsService) RevenueByMember(window string) ([]MemberRevenue, error) {
	since, err := windowStart(window, time.Now())
	if err != nil {
		return nil, err
	}
	members, err := s.userRepo.ListMembers("")
	if err != nil {
		return nil, storeErr(err)
	}
	revenue, err := s.revenueRepo.ListSince(since)
	if err != nil {
		return nil, storeErr(err)
	}
	byMember := make(map[uint]*MemberRevenue, len(members))
	out := make([]MemberRevenue, 0, len(members))
	for _, m := range members {
		out = append(out, MemberRevenue{MemberID: m.ID, Name: m.Name})
	}
	for i := range out {
		byMember[out[i].MemberID] = &out[i]
	}
	for _, rev := range revenue {
		if mr, ok := byMember[rev.MemberID]; ok {
			mr.AmountCents += rev.AmountCents
			mr.Slips++
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AmountCents != out[j].AmountCents {
			return out[i].AmountCents > out[j].AmountCents
		}
		return out[i].MemberID < out[j].MemberID
	})
	return out, nil
}

// HeatDistribution counts referrals per heat rating, for the intake-quality
// chart. Every rating is present even at zero.
func (s *AnalyticsService) HeatDistribution(window string) (map[string]int, error) {
	since, err := windowStart(window, time.Now())
	if err != nil {
		return nil, err
	}
	referrals, err := s.referralRepo.ListSince(since)
	if err != nil {
		return nil, storeErr(err)
	}
	dist := map[string]int{domain.HeatHot: 0, domain.HeatWarm: 0, domain.HeatCold: 0}
	for _, r := range referrals {
		dist[r.Heat]++
	}
	return dist, nil
}

// MemberGrowth counts member signups per calendar month, zero-filled.
func (s *AnalyticsService) MemberGrowth(window string) ([]GrowthPoint, error) {
	now := time.Now()
	since, err := windowStart(window, now)
	if err != nil {
		return nil, err
	}
	members, err := s.userRepo.ListMembers("")
	if err != nil {
		return nil, storeErr(err)
	}
	start := since
	if start.IsZero() {
		start = now
		for _, m := range members {
			if m.CreatedAt.Before(start) {
				start = m.CreatedAt
			}
		}
	}
	byMonth := make(map[string]*GrowthPoint)
	points := make([]GrowthPoint, 0)
	for _, mo := range monthsOf(start, now) {
		points = append(points, GrowthPoint{Month: monthKey(mo), Label: monthLabel(mo)})
	}
	for i := range points {
		byMonth[points[i].Month] = &points[i]
	}
	for _, m := range members {
		if m.CreatedAt.Before(start) {
			continue
		}
		if p, ok := byMonth[monthKey(m.CreatedAt)]; ok {
			p.Members++
		}
	}
	return points, nil
}

func (s *AnalyticsService) settingInt(key string, fallback int) int {
	val, err := s.settingRepo.Get(key)
	if err != nil || val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return n
}
