package domain

import (
	"strings"
	"testing"
	"time"
)

// ─── Attrition ──────────────────────────────────────────────────────────────

func TestAttrite(t *testing.T) {
	tests := []struct {
		total     int64
		adjusted  int64
		stage1    int64
		stage2    int64
		activated int64
		earnings  float64
	}{
		{0, 0, 0, 0, 0, 0},
		{1, 0, 0, 0, 0, 0},
		{10, 4, 2, 1, 0, 0},
		{100, 40, 26, 17, 16, 80},
		{250, 100, 66, 44, 41, 205},
	}

	for _, tt := range tests {
		a := Attrite(tt.total)
		if a.Adjusted != tt.adjusted {
			t.Errorf("Attrite(%d).Adjusted = %d, want %d", tt.total, a.Adjusted, tt.adjusted)
		}
		if a.Stage1 != tt.stage1 {
			t.Errorf("Attrite(%d).Stage1 = %d, want %d", tt.total, a.Stage1, tt.stage1)
		}
		if a.Stage2 != tt.stage2 {
			t.Errorf("Attrite(%d).Stage2 = %d, want %d", tt.total, a.Stage2, tt.stage2)
		}
		if a.Activated != tt.activated {
			t.Errorf("Attrite(%d).Activated = %d, want %d", tt.total, a.Activated, tt.activated)
		}
		if got := a.Earnings(); got != tt.earnings {
			t.Errorf("Attrite(%d).Earnings() = %v, want %v", tt.total, got, tt.earnings)
		}
	}
}

func TestAttriteIdempotent(t *testing.T) {
	first := Attrite(100)
	second := Attrite(100)
	if first != second {
		t.Errorf("same total gave different attritions: %+v vs %+v", first, second)
	}
}

// ─── Share Gating ───────────────────────────────────────────────────────────

func TestShareGateDecide(t *testing.T) {
	tests := []struct {
		name string
		gate ShareGate
		want ShareDecision
	}{
		{"fresh account", ShareGate{ShareCount: 0, ActivationThreshold: 5}, ShareCounted},
		{"under free limit", ShareGate{ShareCount: 14, ActivationThreshold: 5}, ShareCounted},
		{"past limit, no earnings", ShareGate{ShareCount: 15, ActivationThreshold: 5}, ShareUncounted},
		{"past limit with earnings", ShareGate{ShareCount: 15, HasEarnings: true, ActivationThreshold: 5}, ShareNeedsUpgrade},
		{"upgraded past limit", ShareGate{ShareCount: 500, Upgraded: true, ActivationThreshold: 5}, ShareCounted},
		{"activation gate hit", ShareGate{ShareCount: 10, ActivationThreshold: 15}, ShareNeedsActivation},
		{"activation gate, activated", ShareGate{ShareCount: 10, Activated: true, ActivationThreshold: 15}, ShareCounted},
		{"activation gate precedes upgrade", ShareGate{ShareCount: 20, Upgraded: true, ActivationThreshold: 15}, ShareNeedsActivation},
		{"below activation gate", ShareGate{ShareCount: 9, ActivationThreshold: 15}, ShareCounted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.gate.Decide(); got != tt.want {
				t.Errorf("Decide() = %v, want %v", got, tt.want)
			}
		})
	}
}

// ─── Transactions ───────────────────────────────────────────────────────────

func TestNormalizeTransactionsPadsShortArrays(t *testing.T) {
	ids := []string{"TXN1", "TXN2", "TXN3"}
	dates := []string{"01/02/2026"}
	amounts := []float64{25}
	statuses := []TxStatus{TxCompleted}

	txs := NormalizeTransactions(ids, dates, amounts, statuses)
	if len(txs) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(txs))
	}

	if txs[0].Date != "01/02/2026" || txs[0].Amount != 25 || txs[0].Status != TxCompleted {
		t.Errorf("first transaction not preserved: %+v", txs[0])
	}
	for i := 1; i < 3; i++ {
		if txs[i].Status != TxPending {
			t.Errorf("tx[%d].Status = %q, want Pending", i, txs[i].Status)
		}
		if txs[i].Amount != 0 {
			t.Errorf("tx[%d].Amount = %v, want 0", i, txs[i].Amount)
		}
		if txs[i].Date != PlaceholderDate {
			t.Errorf("tx[%d].Date = %q, want placeholder", i, txs[i].Date)
		}
	}
}

func TestNewTransactionID(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	id := NewTransactionID(now)
	if !strings.HasPrefix(id, "TXN") {
		t.Errorf("id %q missing TXN prefix", id)
	}
	if len(id) != len("TXN")+13+4 {
		t.Errorf("id %q has unexpected length %d", id, len(id))
	}
}

func TestTxStatusTerminal(t *testing.T) {
	if TxPending.Terminal() {
		t.Error("Pending must not be terminal")
	}
	if !TxCompleted.Terminal() || !TxFailed.Terminal() {
		t.Error("Completed and Failed must be terminal")
	}
}

// ─── Status Projection ──────────────────────────────────────────────────────

func TestProjectStatus(t *testing.T) {
	failed := []Transaction{{ID: "TXN1", Status: TxFailed}}
	clean := []Transaction{{ID: "TXN1", Status: TxCompleted}, {ID: "TXN2", Status: TxPending}}

	if got := ProjectStatus(true, failed); got != StatusActivated {
		t.Errorf("activated wins: got %v", got)
	}
	if got := ProjectStatus(false, failed); got != StatusFailedPending {
		t.Errorf("failed tx: got %v", got)
	}
	if got := ProjectStatus(false, clean); got != StatusClear {
		t.Errorf("clean ledger: got %v", got)
	}
	if got := ProjectStatus(false, nil); got != StatusClear {
		t.Errorf("empty ledger: got %v", got)
	}
}

// ─── Settlement Calendar ────────────────────────────────────────────────────

func TestIsSettlementDay(t *testing.T) {
	for day := 1; day <= 28; day++ {
		d := time.Date(2026, 4, day, 12, 0, 0, 0, time.UTC)
		want := day == 1 || day == 15
		if got := IsSettlementDay(d); got != want {
			t.Errorf("IsSettlementDay(day %d) = %v, want %v", day, got, want)
		}
	}
}

func TestNextSettlementDay(t *testing.T) {
	tests := []struct {
		now       time.Time
		wantDay   int
		wantLabel string
	}{
		{time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC), 15, "15th (in 12 days)"},
		{time.Date(2026, 4, 14, 0, 0, 0, 0, time.UTC), 15, "15th (in 1 days)"},
		{time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC), 1, "1st (in 16 days)"},
		{time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC), 1, "1st (in 1 days)"},
	}

	for _, tt := range tests {
		next, label := NextSettlementDay(tt.now)
		if next.Day() != tt.wantDay {
			t.Errorf("NextSettlementDay(%v).Day = %d, want %d", tt.now, next.Day(), tt.wantDay)
		}
		if label != tt.wantLabel {
			t.Errorf("NextSettlementDay(%v) label = %q, want %q", tt.now, label, tt.wantLabel)
		}
	}
}

// ─── Referral Code ──────────────────────────────────────────────────────────

func TestNewReferralCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code := NewReferralCode()
		if !ValidReferralCode(code) {
			t.Fatalf("generated invalid code %q", code)
		}
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Error("referral codes do not vary")
	}
}

func TestValidReferralCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"ABCD1234", true},
		{"ZZZZZZZZ", true},
		{"abcd1234", false},
		{"ABC123", false},
		{"ABCD12345", false},
		{"ABCD-123", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidReferralCode(tt.code); got != tt.want {
			t.Errorf("ValidReferralCode(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
