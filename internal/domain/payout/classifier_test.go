package payout

import (
	"errors"
	"testing"

	"github.com/advisory-portal/backend/internal/domain/entity"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		kind     entity.TransactionKind
		expected Flow
	}{
		{entity.KindDeposit, FlowContribution},
		{entity.KindInvestment, FlowContribution},
		{entity.KindLoanGiven, FlowContribution},
		{entity.KindWithdrawal, FlowPayout},
		{entity.KindDividend, FlowPayout},
		{entity.KindInterest, FlowPayout},
		{entity.KindLoanRepayment, FlowPayout},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			got, err := Classify(tt.kind)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}

			again, _ := Classify(tt.kind)
			if again != got {
				t.Errorf("expected repeated classification to be stable, got %s then %s", got, again)
			}
		})
	}
}

func TestClassify_CoversEveryKindExactlyOnce(t *testing.T) {
	contributions, payouts := 0, 0
	for _, kind := range entity.TransactionKinds {
		flow, err := Classify(kind)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", kind, err)
		}
		switch flow {
		case FlowContribution:
			contributions++
		case FlowPayout:
			payouts++
		default:
			t.Errorf("unexpected flow %q for %s", flow, kind)
		}
	}

	if contributions+payouts != len(entity.TransactionKinds) {
		t.Errorf("expected every kind to be classified, got %d of %d", contributions+payouts, len(entity.TransactionKinds))
	}
	if contributions != 3 || payouts != 4 {
		t.Errorf("expected 3 contribution and 4 payout kinds, got %d and %d", contributions, payouts)
	}
}

func TestClassify_UnknownKind(t *testing.T) {
	for _, kind := range []entity.TransactionKind{"", "transfer", "DEPOSIT"} {
		t.Run(string(kind), func(t *testing.T) {
			_, err := Classify(kind)
			if !errors.Is(err, ErrUnknownTransactionKind) {
				t.Errorf("expected ErrUnknownTransactionKind, got %v", err)
			}
			if IsContribution(kind) {
				t.Error("expected unknown kind not to be a contribution")
			}
		})
	}
}
