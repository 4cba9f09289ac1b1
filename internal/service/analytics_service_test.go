package service

import (
	"testing"
	"time"

	"refnet/internal/domain"
	"refnet/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindow_DefaultsAndValidates(t *testing.T) {
	f := newFixture(t)

	w, err := f.analyticsSvc.Window("")
	require.NoError(t, err)
	assert.Equal(t, domain.Window6M, w)

	w, err = f.analyticsSvc.Window(domain.WindowLifetime)
	require.NoError(t, err)
	assert.Equal(t, domain.WindowLifetime, w)

	_, err = f.analyticsSvc.Window("7y")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestMemberSummary_CountsBothSides(t *testing.T) {
	f := newFixture(t)
	a := f.member(t, "alice")
	b := f.member(t, "bob")
	ref := f.referral(t, a, b)

	_, err := f.revenueSvc.Record(b, RecordRevenueInput{
		MemberID: a.ID, AmountCents: 50_000_00, ReferralID: &ref.ID,
	})
	require.NoError(t, err)

	sumA, err := f.analyticsSvc.MemberSummary(a.ID, domain.WindowLifetime)
	require.NoError(t, err)
	assert.Equal(t, 1, sumA.ReferralsGiven)
	assert.Equal(t, 0, sumA.ReferralsReceived)
	assert.Equal(t, int64(50_000_00), sumA.RevenueGivenCents)
	assert.Zero(t, sumA.RevenueReceivedCents)
	require.NotNil(t, sumA.LastActivityAt)

	sumB, err := f.analyticsSvc.MemberSummary(b.ID, domain.WindowLifetime)
	require.NoError(t, err)
	assert.Equal(t, 1, sumB.ReferralsReceived)
	assert.Equal(t, int64(50_000_00), sumB.RevenueReceivedCents)
	assert.Zero(t, sumB.RevenueGivenCents)
}

func TestMemberSummary_ServedFromCacheUntilTTL(t *testing.T) {
	f := newFixture(t)
	a := f.member(t, "alice")
	b := f.member(t, "bob")

	before, err := f.analyticsSvc.MemberSummary(a.ID, domain.WindowLifetime)
	require.NoError(t, err)
	assert.Zero(t, before.RevenueGivenCents)

	_, err = f.revenueSvc.Record(b, RecordRevenueInput{MemberID: a.ID, AmountCents: 100})
	require.NoError(t, err)

	// Within the TTL the stale summary is returned as-is.
	after, err := f.analyticsSvc.MemberSummary(a.ID, domain.WindowLifetime)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	// A different window is a different cache key and sees the new slip.
	fresh, err := f.analyticsSvc.MemberSummary(a.ID, domain.Window6M)
	require.NoError(t, err)
	assert.Equal(t, int64(100), fresh.RevenueGivenCents)
}

func TestTopPerformers_WeightsAndTieBreak(t *testing.T) {
	f := newFixture(t)
	a := f.member(t, "alice")
	b := f.member(t, "bob")
	c := f.member(t, "carol")

	// alice gives two referrals: 2 * weight 2 = 4 points.
	f.referral(t, a, b)
	f.referral(t, a, b)
	// bob records 400 cents of received business: 4 units * weight 1 = 4 points.
	_, err := f.revenueSvc.Record(b, RecordRevenueInput{MemberID: c.ID, AmountCents: 400})
	require.NoError(t, err)

	ranked, err := f.analyticsSvc.TopPerformers(domain.WindowLifetime, 10)
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	assert.Equal(t, a.ID, ranked[0].MemberID, "equal points break on member ID")
	assert.Equal(t, int64(4), ranked[0].Points)
	assert.Equal(t, b.ID, ranked[1].MemberID)
	assert.Equal(t, int64(4), ranked[1].Points)
	assert.Equal(t, c.ID, ranked[2].MemberID)
	assert.Equal(t, int64(0), ranked[2].Points)
}

func TestTopPerformers_WeightsComeFromSettings(t *testing.T) {
	f := newFixture(t)
	a := f.member(t, "alice")
	b := f.member(t, "bob")
	f.referral(t, a, b)

	require.NoError(t, f.settingRepo.Set(domain.SettingPointsWeightReferral, "5"))

	ranked, err := f.analyticsSvc.TopPerformers(domain.WindowLifetime, 10)
	require.NoError(t, err)
	require.NotEmpty(t, ranked)
	assert.Equal(t, a.ID, ranked[0].MemberID)
	assert.Equal(t, int64(5), ranked[0].Points)
}

func TestTopPerformers_Limit(t *testing.T) {
	f := newFixture(t)
	for _, name := range []string{"alice", "bob", "carol", "dave"} {
		f.member(t, name)
	}

	ranked, err := f.analyticsSvc.TopPerformers(domain.WindowLifetime, 2)
	require.NoError(t, err)
	assert.Len(t, ranked, 2)
}

func TestEngagement_Classification(t *testing.T) {
	f := newFixture(t)
	active := f.member(t, "alice")
	growing := f.member(t, "bob")
	inactive := f.member(t, "carol")
	idle := f.member(t, "dave")
	now := time.Now()

	// Recent activity inside the 30-day sub-window.
	f.referral(t, active, idle)

	// Activity in the later half of the 6-month window but outside the
	// recent sub-window.
	ref := f.referral(t, growing, idle)
	f.backdate(t, &models.Referral{}, ref.ID, now.AddDate(0, 0, -60))

	// Activity only in the earlier half of the window.
	ref = f.referral(t, inactive, idle)
	f.backdate(t, &models.Referral{}, ref.ID, now.AddDate(0, -5, 0))

	rows, err := f.analyticsSvc.Engagement(domain.Window6M)
	require.NoError(t, err)
	byID := make(map[uint]EngagementRow, len(rows))
	for _, r := range rows {
		byID[r.MemberID] = r
	}

	assert.Equal(t, EngagementActive, byID[active.ID].Status)
	assert.Equal(t, EngagementGrowing, byID[growing.ID].Status)
	assert.Equal(t, EngagementInactive, byID[inactive.ID].Status)
	// A member on the receiving end of recent referrals counts as engaged too.
	assert.Equal(t, EngagementActive, byID[idle.ID].Status)
}

func TestMonthlyTrend_ZeroFillsQuietMonths(t *testing.T) {
	f := newFixture(t)
	a := f.member(t, "alice")
	b := f.member(t, "bob")
	now := time.Now()

	f.referral(t, a, b)
	rev, err := f.revenueSvc.Record(b, RecordRevenueInput{MemberID: a.ID, AmountCents: 500})
	require.NoError(t, err)
	threeMonthsAgo := now.AddDate(0, -3, 0)
	f.backdate(t, &models.Revenue{}, rev.ID, threeMonthsAgo)

	points, err := f.analyticsSvc.MonthlyTrend(domain.Window6M)
	require.NoError(t, err)
	require.Len(t, points, 7, "six months back through the current month")

	byMonth := make(map[string]TrendPoint, len(points))
	for _, p := range points {
		byMonth[p.Month] = p
	}
	assert.Equal(t, 1, byMonth[monthKey(now)].Referrals)
	assert.Equal(t, int64(500), byMonth[monthKey(threeMonthsAgo)].RevenueCents)

	zeroes := 0
	for _, p := range points {
		if p.Referrals == 0 && p.RevenueCents == 0 {
			zeroes++
			assert.NotEmpty(t, p.Label)
		}
	}
	assert.GreaterOrEqual(t, zeroes, 4, "quiet months appear as explicit zero points")
}

func TestRevenueByMember_RollsUpByCreditedGiver(t *testing.T) {
	f := newFixture(t)
	a := f.member(t, "alice")
	b := f.member(t, "bob")
	c := f.member(t, "carol")

	_, err := f.revenueSvc.Record(b, RecordRevenueInput{MemberID: a.ID, AmountCents: 300})
	require.NoError(t, err)
	_, err = f.revenueSvc.Record(c, RecordRevenueInput{MemberID: a.ID, AmountCents: 200})
	require.NoError(t, err)
	_, err = f.revenueSvc.Record(a, RecordRevenueInput{MemberID: b.ID, AmountCents: 100})
	require.NoError(t, err)

	out, err := f.analyticsSvc.RevenueByMember(domain.WindowLifetime)
	require.NoError(t, err)
	require.Len(t, out, 3)

	assert.Equal(t, a.ID, out[0].MemberID)
	assert.Equal(t, int64(500), out[0].AmountCents)
	assert.Equal(t, 2, out[0].Slips)
	assert.Equal(t, b.ID, out[1].MemberID)
	assert.Equal(t, int64(100), out[1].AmountCents)
	assert.Equal(t, c.ID, out[2].MemberID)
	assert.Zero(t, out[2].AmountCents)
}

func TestHeatDistribution_AllRatingsPresent(t *testing.T) {
	f := newFixture(t)
	a := f.member(t, "alice")
	b := f.member(t, "bob")
	f.referral(t, a, b) // helper creates Hot referrals

	dist, err := f.analyticsSvc.HeatDistribution(domain.WindowLifetime)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		domain.HeatHot:  1,
		domain.HeatWarm: 0,
		domain.HeatCold: 0,
	}, dist)
}

func TestMemberGrowth_CountsSignupsPerMonth(t *testing.T) {
	f := newFixture(t)
	f.member(t, "alice")
	f.member(t, "bob")

	points, err := f.analyticsSvc.MemberGrowth(domain.Window6M)
	require.NoError(t, err)
	require.Len(t, points, 7)
	assert.Equal(t, 2, points[len(points)-1].Members)
}
