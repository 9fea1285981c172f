package audit

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/thejohanmagnusson/bidding-contract/core"
)

// Summary aggregates the audit trail: how many commands ran per action, and
// the total and mean commission skimmed across all bids.
type Summary struct {
	ActionCounts    map[string]int  `json:"action_counts"`
	BidCount        int             `json:"bid_count"`
	TotalCommission core.Uint       `json:"total_commission"`
	MeanCommission  decimal.Decimal `json:"mean_commission"`
}

// Summarize computes the Summary over all recorded commands. The mean uses
// decimal arithmetic so fractional commissions report exactly.
func (l *Log) Summarize() (*Summary, error) {
	entries, err := l.Entries()
	if err != nil {
		return nil, err
	}

	s := &Summary{
		ActionCounts:    make(map[string]int),
		TotalCommission: core.ZeroUint(),
	}
	total := decimal.Zero

	for _, e := range entries {
		s.ActionCounts[e.Action]++
		if e.Action != "bid" {
			continue
		}
		s.BidCount++
		for _, attr := range e.Attributes {
			if attr.Key != "commission" {
				continue
			}
			amount, err := core.UintFromString(attr.Value)
			if err != nil {
				return nil, fmt.Errorf("commission attribute in %s: %w", e.ID, err)
			}
			s.TotalCommission = s.TotalCommission.Add(amount)

			d, err := decimal.NewFromString(attr.Value)
			if err != nil {
				return nil, fmt.Errorf("commission attribute in %s: %w", e.ID, err)
			}
			total = total.Add(d)
		}
	}

	if s.BidCount > 0 {
		s.MeanCommission = total.DivRound(decimal.NewFromInt(int64(s.BidCount)), 4)
	}
	return s, nil
}
