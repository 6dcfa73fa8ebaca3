// Package summary aggregates the ledgers into zone, overall and daily
// totals. It never mutates anything.
package summary

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/utsav-books/utsav-books/internal/debit"
	"github.com/utsav-books/utsav-books/internal/ledger"
	"github.com/utsav-books/utsav-books/internal/zone"
)

// CreditSource exposes the credit-side reads the summaries need.
type CreditSource interface {
	AllCredits(ctx context.Context) ([]ledger.CreditRecord, error)
	AllDues(ctx context.Context) ([]ledger.DueRecord, error)
	CreditsOnDate(ctx context.Context, date time.Time) ([]ledger.CreditRecord, error)
}

// DebitSource exposes the expense-side reads the summaries need.
type DebitSource interface {
	Total(ctx context.Context) (int64, error)
	EntriesOnDate(ctx context.Context, date time.Time) ([]debit.Entry, int64, error)
}

// ZoneTotals carries one zone's received and outstanding amounts.
type ZoneTotals struct {
	Zone     zone.Zone       `json:"zone"`
	Received decimal.Decimal `json:"received"`
	Due      decimal.Decimal `json:"due"`
}

// Overall carries the all-zones totals.
type Overall struct {
	Received   decimal.Decimal `json:"received"`
	Debited    int64           `json:"debited"`
	CashInHand decimal.Decimal `json:"cash_in_hand"`
	Due        decimal.Decimal `json:"due"`
}

// DailyReport slices both ledgers for one calendar date.
type DailyReport struct {
	Date        string                `json:"date"`
	Credits     []ledger.CreditRecord `json:"credits"`
	CreditTotal decimal.Decimal       `json:"credit_total"`
	Debits      []debit.Entry         `json:"debits"`
	DebitTotal  int64                 `json:"debit_total"`
}

// Service computes the aggregations.
type Service struct {
	credits CreditSource
	debits  DebitSource
}

// NewService builds a Service instance.
func NewService(credits CreditSource, debits DebitSource) *Service {
	return &Service{credits: credits, debits: debits}
}

// ZoneSummary sums one zone's received and outstanding amounts.
func (s *Service) ZoneSummary(ctx context.Context, z zone.Zone) (ZoneTotals, error) {
	credits, err := s.credits.AllCredits(ctx)
	if err != nil {
		return ZoneTotals{}, err
	}
	dues, err := s.credits.AllDues(ctx)
	if err != nil {
		return ZoneTotals{}, err
	}

	totals := ZoneTotals{Zone: z, Received: decimal.Zero, Due: decimal.Zero}
	for _, rec := range credits {
		if rec.Zone == z {
			totals.Received = totals.Received.Add(rec.Received)
		}
	}
	for _, rec := range dues {
		if rec.Zone == z {
			totals.Due = totals.Due.Add(rec.Amount)
		}
	}
	return totals, nil
}

// OverallSummary sums across all zones. Cash in hand is everything received
// minus everything spent.
func (s *Service) OverallSummary(ctx context.Context) (Overall, error) {
	credits, err := s.credits.AllCredits(ctx)
	if err != nil {
		return Overall{}, err
	}
	dues, err := s.credits.AllDues(ctx)
	if err != nil {
		return Overall{}, err
	}
	debited, err := s.debits.Total(ctx)
	if err != nil {
		return Overall{}, err
	}

	received := decimal.Zero
	for _, rec := range credits {
		received = received.Add(rec.Received)
	}
	due := decimal.Zero
	for _, rec := range dues {
		due = due.Add(rec.Amount)
	}

	return Overall{
		Received:   received,
		Debited:    debited,
		CashInHand: received.Sub(decimal.NewFromInt(debited)),
		Due:        due,
	}, nil
}

// ByDate slices both ledgers for one calendar date with daily totals.
func (s *Service) ByDate(ctx context.Context, date time.Time) (DailyReport, error) {
	credits, err := s.credits.CreditsOnDate(ctx, date)
	if err != nil {
		return DailyReport{}, err
	}
	debits, debitTotal, err := s.debits.EntriesOnDate(ctx, date)
	if err != nil {
		return DailyReport{}, err
	}

	creditTotal := decimal.Zero
	for _, rec := range credits {
		creditTotal = creditTotal.Add(rec.Received)
	}

	return DailyReport{
		Date:        date.Format("2006-01-02"),
		Credits:     credits,
		CreditTotal: creditTotal,
		Debits:      debits,
		DebitTotal:  debitTotal,
	}, nil
}

// AllZoneSummaries computes the per-zone totals for every zone in order.
func (s *Service) AllZoneSummaries(ctx context.Context) ([]ZoneTotals, error) {
	credits, err := s.credits.AllCredits(ctx)
	if err != nil {
		return nil, err
	}
	dues, err := s.credits.AllDues(ctx)
	if err != nil {
		return nil, err
	}

	received := make(map[zone.Zone]decimal.Decimal)
	outstanding := make(map[zone.Zone]decimal.Decimal)
	for _, rec := range credits {
		received[rec.Zone] = received[rec.Zone].Add(rec.Received)
	}
	for _, rec := range dues {
		outstanding[rec.Zone] = outstanding[rec.Zone].Add(rec.Amount)
	}

	zones := zone.All()
	out := make([]ZoneTotals, 0, len(zones))
	for _, z := range zones {
		out = append(out, ZoneTotals{Zone: z, Received: received[z], Due: outstanding[z]})
	}
	return out, nil
}
