package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/utsav-books/utsav-books/internal/zone"
)

// CreditJSON is the wire form of a credit record.
type CreditJSON struct {
	Zone          zone.Zone       `json:"zone"`
	BillNo        int             `json:"bill_no"`
	Name          string          `json:"name"`
	Address       string          `json:"address"`
	Billed        decimal.Decimal `json:"billed"`
	Received      decimal.Decimal `json:"received"`
	Due           decimal.Decimal `json:"due"`
	Date          string          `json:"date"`
	DuePaidOn     string          `json:"due_paid_on,omitempty"`
	PartialPaidOn string          `json:"partial_paid_on,omitempty"`
}

// DueJSON is the wire form of a due record.
type DueJSON struct {
	Zone    zone.Zone       `json:"zone"`
	BillNo  int             `json:"bill_no"`
	Name    string          `json:"name"`
	Address string          `json:"address"`
	Amount  decimal.Decimal `json:"amount"`
}

// CollectionJSON is the wire form of a collection history entry.
type CollectionJSON struct {
	Zone          zone.Zone        `json:"zone"`
	BillNo        int              `json:"bill_no"`
	Name          string           `json:"name"`
	Address       string           `json:"address"`
	Billed        decimal.Decimal  `json:"billed"`
	TotalReceived decimal.Decimal  `json:"total_received"`
	PaidNow       decimal.Decimal  `json:"paid_now"`
	RemainingDue  decimal.Decimal  `json:"remaining_due"`
	PaidOn        string           `json:"paid_on"`
	Status        CollectionStatus `json:"status"`
}

// ToCreditJSON converts a credit record for responses.
func ToCreditJSON(rec CreditRecord) CreditJSON {
	return CreditJSON{
		Zone:          rec.Zone,
		BillNo:        rec.BillNo,
		Name:          rec.Name,
		Address:       rec.Address,
		Billed:        rec.Billed,
		Received:      rec.Received,
		Due:           rec.Due(),
		Date:          rec.Date.Format(dateLayout),
		DuePaidOn:     formatDate(rec.DuePaidOn),
		PartialPaidOn: formatDate(rec.PartialPaidOn),
	}
}

// ToCreditJSONList converts a slice of credit records.
func ToCreditJSONList(recs []CreditRecord) []CreditJSON {
	out := make([]CreditJSON, 0, len(recs))
	for _, rec := range recs {
		out = append(out, ToCreditJSON(rec))
	}
	return out
}

// ToDueJSONList converts a slice of due records.
func ToDueJSONList(recs []DueRecord) []DueJSON {
	out := make([]DueJSON, 0, len(recs))
	for _, rec := range recs {
		out = append(out, DueJSON{
			Zone:    rec.Zone,
			BillNo:  rec.BillNo,
			Name:    rec.Name,
			Address: rec.Address,
			Amount:  rec.Amount,
		})
	}
	return out
}

// ToCollectionJSONList converts a slice of collection entries.
func ToCollectionJSONList(entries []CollectionEntry) []CollectionJSON {
	out := make([]CollectionJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, CollectionJSON{
			Zone:          e.Zone,
			BillNo:        e.BillNo,
			Name:          e.Name,
			Address:       e.Address,
			Billed:        e.Billed,
			TotalReceived: e.TotalReceived,
			PaidNow:       e.PaidNow,
			RemainingDue:  e.RemainingDue,
			PaidOn:        e.PaidOn.Format(dateLayout),
			Status:        e.Status,
		})
	}
	return out
}

// ParseDate parses the wire date format used across the API.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}
