// Package payout implements the rules that turn an investor's transaction history into
// principal, payout eligibility, cycle returns and payout drafts.
// Every function here is pure: the caller supplies the transactions and the reference date.
package payout

import (
	"errors"
	"fmt"

	"github.com/advisory-portal/backend/internal/domain/entity"
)

// Flow tells whether a transaction adds principal to an account or takes money out of it.
type Flow string

const (
	FlowContribution Flow = "contribution"
	FlowPayout       Flow = "payout"
)

// ErrUnknownTransactionKind is returned when a kind outside the supported set is classified.
var ErrUnknownTransactionKind = errors.New("unknown transaction kind")

var flowByKind = map[entity.TransactionKind]Flow{
	entity.KindDeposit:       FlowContribution,
	entity.KindInvestment:    FlowContribution,
	entity.KindLoanGiven:     FlowContribution,
	entity.KindWithdrawal:    FlowPayout,
	entity.KindDividend:      FlowPayout,
	entity.KindInterest:      FlowPayout,
	entity.KindLoanRepayment: FlowPayout,
}

// Classify maps a transaction kind to its flow.
func Classify(kind entity.TransactionKind) (Flow, error) {
	flow, ok := flowByKind[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTransactionKind, kind)
	}
	return flow, nil
}

// IsContribution reports whether the kind adds principal. Unknown kinds report false.
func IsContribution(kind entity.TransactionKind) bool {
	return flowByKind[kind] == FlowContribution
}
