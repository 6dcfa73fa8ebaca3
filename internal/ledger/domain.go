package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/utsav-books/utsav-books/internal/zone"
)

// CollectionStatus enumerates due collection outcomes.
type CollectionStatus string

const (
	StatusPartiallyPaid CollectionStatus = "Partially Paid"
	StatusFullyPaid     CollectionStatus = "Fully Paid"
)

// BillKey identifies a bill within its zone. Bill numbers are unique per
// zone, not globally.
type BillKey struct {
	Zone   zone.Zone
	BillNo int
}

// CreditRecord is one issued bill. Received is the only mutable amount; it
// grows as due payments arrive.
type CreditRecord struct {
	Zone          zone.Zone
	BillNo        int
	Name          string
	Address       string
	Billed        decimal.Decimal
	Received      decimal.Decimal
	Date          time.Time
	DuePaidOn     *time.Time
	PartialPaidOn *time.Time
}

// Key returns the record's bill key.
func (c CreditRecord) Key() BillKey {
	return BillKey{Zone: c.Zone, BillNo: c.BillNo}
}

// Due is the outstanding balance, billed minus received.
func (c CreditRecord) Due() decimal.Decimal {
	return c.Billed.Sub(c.Received)
}

// DueRecord is the materialized projection of a credit record whose due is
// positive. Name and address are denormalized copies.
type DueRecord struct {
	Zone    zone.Zone
	BillNo  int
	Name    string
	Address string
	Amount  decimal.Decimal
}

// Key returns the record's bill key.
func (d DueRecord) Key() BillKey {
	return BillKey{Zone: d.Zone, BillNo: d.BillNo}
}

// CollectionEntry is one due settlement event in the append-only history.
type CollectionEntry struct {
	Zone          zone.Zone
	BillNo        int
	Name          string
	Address       string
	Billed        decimal.Decimal
	TotalReceived decimal.Decimal
	PaidNow       decimal.Decimal
	RemainingDue  decimal.Decimal
	PaidOn        time.Time
	Status        CollectionStatus
}

// Tables holds the three related ledger tables in memory. Credits and dues
// are keyed so duplicate bills are structurally impossible.
type Tables struct {
	Credits     map[BillKey]CreditRecord
	Dues        map[BillKey]DueRecord
	Collections []CollectionEntry
}

// NewTables builds empty tables.
func NewTables() *Tables {
	return &Tables{
		Credits: make(map[BillKey]CreditRecord),
		Dues:    make(map[BillKey]DueRecord),
	}
}

// PaymentResult reports the outcome of a due payment.
type PaymentResult struct {
	Status       CollectionStatus
	RemainingDue decimal.Decimal
}
