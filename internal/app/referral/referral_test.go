package referral

import (
	"testing"
	"time"

	"github.com/remotask-app/remotask/internal/app/pending"
	"github.com/remotask-app/remotask/internal/domain"
	"github.com/remotask-app/remotask/internal/infra/memstore"
)

var t0 = time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, threshold float64) (*Service, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	svc := New(store, pending.New(store, 2*time.Hour), threshold)
	svc.intn = func(n int) int { return 0 } // always enqueue 1
	return svc, store
}

func TestCodeGeneratedOnceAndImmutable(t *testing.T) {
	svc, _ := newTestService(t, 15)

	code, err := svc.Code()
	if err != nil {
		t.Fatalf("code: %v", err)
	}
	if !domain.ValidReferralCode(code) {
		t.Fatalf("generated code %q is not valid", code)
	}
	again, _ := svc.Code()
	if again != code {
		t.Errorf("code changed between calls: %q then %q", code, again)
	}
}

func TestHandleShareCountsAndEnqueues(t *testing.T) {
	svc, store := newTestService(t, 15)

	res, err := svc.HandleShare(t0)
	if err != nil {
		t.Fatalf("share: %v", err)
	}
	if res.Decision != domain.ShareCounted {
		t.Fatalf("decision = %v, want counted", res.Decision)
	}
	if res.Enqueued != 1 {
		t.Errorf("enqueued = %d, want 1", res.Enqueued)
	}
	if res.Message == "" {
		t.Error("counted share must carry the invitation message")
	}
	if count, _ := store.Counter(domain.CounterShareCount); count != 1 {
		t.Errorf("share count = %d, want 1", count)
	}
	if e, found, _ := store.PendingEffect(domain.EffectReferrals); !found || e.Amount != 1 {
		t.Errorf("pending referrals = %v (found=%v), want 1", e.Amount, found)
	}
}

func TestHandleShareActivationGate(t *testing.T) {
	svc, store := newTestService(t, 15)
	store.SetCounter(domain.CounterShareCount, 10)

	res, err := svc.HandleShare(t0)
	if err != nil {
		t.Fatalf("share: %v", err)
	}
	if res.Decision != domain.ShareNeedsActivation {
		t.Fatalf("decision = %v, want needs-activation", res.Decision)
	}
	// A blocked share changes nothing.
	if count, _ := store.Counter(domain.CounterShareCount); count != 10 {
		t.Errorf("share count = %d, want unchanged 10", count)
	}
	if _, found, _ := store.PendingEffect(domain.EffectReferrals); found {
		t.Error("blocked share must not enqueue referrals")
	}

	// Activation lifts the gate.
	store.SetFlag(domain.FlagActivated)
	res, _ = svc.HandleShare(t0)
	if res.Decision != domain.ShareCounted {
		t.Errorf("after activation: decision = %v, want counted", res.Decision)
	}
}

func TestHandleShareUpgradeGate(t *testing.T) {
	svc, store := newTestService(t, 10) // threshold ≤ 10 disarms the activation gate
	store.SetCounter(domain.CounterShareCount, 20)
	store.SetFloat(domain.FloatReferralEarnings, 40)

	res, _ := svc.HandleShare(t0)
	if res.Decision != domain.ShareNeedsUpgrade {
		t.Fatalf("decision = %v, want needs-upgrade", res.Decision)
	}
	if count, _ := store.Counter(domain.CounterShareCount); count != 20 {
		t.Errorf("share count = %d, want unchanged 20", count)
	}

	store.SetFlag(domain.FlagUpgraded)
	res, _ = svc.HandleShare(t0)
	if res.Decision != domain.ShareCounted {
		t.Errorf("upgraded: decision = %v, want counted", res.Decision)
	}
}

func TestHandleShareUncountedPastLimit(t *testing.T) {
	svc, store := newTestService(t, 10)
	store.SetCounter(domain.CounterShareCount, 20) // past limit, no earnings

	res, _ := svc.HandleShare(t0)
	if res.Decision != domain.ShareUncounted {
		t.Fatalf("decision = %v, want uncounted", res.Decision)
	}
	if res.Enqueued != 0 {
		t.Errorf("uncounted share enqueued %d referrals", res.Enqueued)
	}
	// The counter still advances.
	if count, _ := store.Counter(domain.CounterShareCount); count != 21 {
		t.Errorf("share count = %d, want 21", count)
	}
}

func TestHandleShareCapStopsEnqueueing(t *testing.T) {
	svc, store := newTestService(t, 15)
	store.SetFlag(domain.FlagUpgraded)
	store.SetCounter(domain.CounterShareCount, domain.ShareCap)

	res, _ := svc.HandleShare(t0)
	if res.Decision != domain.ShareCounted {
		t.Fatalf("decision = %v, want counted", res.Decision)
	}
	if res.Enqueued != 0 {
		t.Errorf("share past cap enqueued %d referrals", res.Enqueued)
	}
	if count, _ := store.Counter(domain.CounterShareCount); count != domain.ShareCap+1 {
		t.Errorf("share count = %d, want %d", count, domain.ShareCap+1)
	}
}

func TestMatureReferralsRecomputesEarnings(t *testing.T) {
	svc, store := newTestService(t, 15)
	store.SetCounter(domain.CounterTotalReferrals, 98)
	store.PutPendingEffect(domain.PendingEffect{
		Kind: domain.EffectReferrals, Amount: 2, Deadline: t0,
	})

	matured, err := svc.TryMatureReferrals(t0)
	if err != nil {
		t.Fatalf("mature: %v", err)
	}
	if matured != 2 {
		t.Errorf("matured = %d, want 2", matured)
	}
	if total, _ := store.Counter(domain.CounterTotalReferrals); total != 100 {
		t.Errorf("total = %d, want 100", total)
	}
	// 100 → 40 → 26 → 17 → 16 activated → $80.
	if earnings, _ := store.Float(domain.FloatReferralEarnings); earnings != 80 {
		t.Errorf("earnings = %v, want 80", earnings)
	}
	if e, found, _ := store.PendingEffect(domain.EffectEarnings); !found || e.Amount != 80 {
		t.Errorf("pending earnings = %v (found=%v), want 80", e.Amount, found)
	}
	if credited, _ := store.Float(domain.FloatCreditedReferrals); credited != 80 {
		t.Errorf("credited = %v, want 80", credited)
	}
}

func TestMatureReferralsCreditsOnlyDelta(t *testing.T) {
	svc, store := newTestService(t, 15)
	// 100 referrals worth $80 already credited.
	store.SetCounter(domain.CounterTotalReferrals, 100)
	store.SetFloat(domain.FloatReferralEarnings, 80)
	store.SetFloat(domain.FloatCreditedReferrals, 80)
	store.PutPendingEffect(domain.PendingEffect{
		Kind: domain.EffectReferrals, Amount: 150, Deadline: t0,
	})

	if _, err := svc.TryMatureReferrals(t0); err != nil {
		t.Fatalf("mature: %v", err)
	}
	// 250 → 100 → 66 → 44 → 41 activated → $205 total, $125 new.
	if earnings, _ := store.Float(domain.FloatReferralEarnings); earnings != 205 {
		t.Errorf("earnings = %v, want 205", earnings)
	}
	if e, _, _ := store.PendingEffect(domain.EffectEarnings); e.Amount != 125 {
		t.Errorf("pending earnings = %v, want delta 125", e.Amount)
	}
	if credited, _ := store.Float(domain.FloatCreditedReferrals); credited != 205 {
		t.Errorf("credited = %v, want 205", credited)
	}
}

func TestMatureReferralsNoDeltaSchedulesNothing(t *testing.T) {
	svc, store := newTestService(t, 15)
	// Small totals attrite to zero activations: no earnings, no delta.
	store.PutPendingEffect(domain.PendingEffect{
		Kind: domain.EffectReferrals, Amount: 2, Deadline: t0,
	})

	if _, err := svc.TryMatureReferrals(t0); err != nil {
		t.Fatalf("mature: %v", err)
	}
	if _, found, _ := store.PendingEffect(domain.EffectEarnings); found {
		t.Error("zero-delta maturation must not schedule earnings")
	}
}

func TestMatureEarningsCreditsBalance(t *testing.T) {
	svc, store := newTestService(t, 15)
	store.SetBalance(10)
	store.PutPendingEffect(domain.PendingEffect{
		Kind: domain.EffectEarnings, Amount: 80, Deadline: t0,
	})

	credited, err := svc.TryMatureEarnings(t0)
	if err != nil {
		t.Fatalf("mature: %v", err)
	}
	if credited != 80 {
		t.Errorf("credited = %v, want 80", credited)
	}
	if b, _ := store.Balance(); b != 90 {
		t.Errorf("balance = %v, want 90", b)
	}

	// Re-running is a no-op.
	credited, _ = svc.TryMatureEarnings(t0.Add(time.Minute))
	if credited != 0 {
		t.Errorf("second pass credited %v, want 0", credited)
	}
	if b, _ := store.Balance(); b != 90 {
		t.Errorf("balance after second pass = %v, want 90", b)
	}
}

func TestFullChainShareToBalance(t *testing.T) {
	svc, store := newTestService(t, 15)
	store.SetFlag(domain.FlagUpgraded)
	store.SetCounter(domain.CounterTotalReferrals, 98)

	// Two shares enqueue two referrals under one envelope.
	svc.HandleShare(t0)
	svc.HandleShare(t0.Add(time.Minute))

	due := t0.Add(2 * time.Hour)
	if _, err := svc.TryMatureReferrals(due); err != nil {
		t.Fatalf("mature referrals: %v", err)
	}
	// Earnings envelope was scheduled at maturation time; 2h later it lands.
	if _, err := svc.TryMatureEarnings(due.Add(2 * time.Hour)); err != nil {
		t.Fatalf("mature earnings: %v", err)
	}
	if b, _ := store.Balance(); b != 80 {
		t.Errorf("balance = %v, want 80", b)
	}
}

func TestStats(t *testing.T) {
	svc, store := newTestService(t, 15)
	store.SetCounter(domain.CounterShareCount, 5)
	store.SetCounter(domain.CounterTotalReferrals, 100)
	store.SetFloat(domain.FloatReferralEarnings, 80)
	store.PutPendingEffect(domain.PendingEffect{
		Kind: domain.EffectReferrals, Amount: 3, Deadline: t0.Add(time.Hour),
	})

	st, err := svc.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.ShareCount != 5 {
		t.Errorf("share count = %d, want 5", st.ShareCount)
	}
	if st.Attrition.Activated != 16 {
		t.Errorf("activated = %d, want 16", st.Attrition.Activated)
	}
	if st.ReferralEarnings != 80 {
		t.Errorf("earnings = %v, want 80", st.ReferralEarnings)
	}
	if st.PendingReferrals != 3 {
		t.Errorf("pending referrals = %v, want 3", st.PendingReferrals)
	}
	if !domain.ValidReferralCode(st.Code) {
		t.Errorf("stats code %q invalid", st.Code)
	}
}
