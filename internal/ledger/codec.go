package ledger

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/utsav-books/utsav-books/internal/zone"
)

// dateLayout is the calendar-date encoding used across all files.
const dateLayout = "2006-01-02"

var creditHeader = []string{
	"Zone", "Bill No", "Name", "Address", "Amount on Billbook",
	"Actual Amount Received", "Date", "Due Payment Date", "Partial Due Payment Date",
}

var dueHeader = []string{"Zone", "Bill No", "Name", "Address", "Due Amount"}

var collectionHeader = []string{
	"Zone", "Bill No", "Name", "Address", "Amount on Billbook",
	"Total Amount Received", "Amount Paid Now", "Remaining Due", "Payment Date", "Status",
}

// EncodeCredits serialises the credit ledger sorted by zone then bill number.
func EncodeCredits(credits map[BillKey]CreditRecord) ([]byte, error) {
	rows := make([]CreditRecord, 0, len(credits))
	for _, rec := range credits {
		rows = append(rows, rec)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Zone != rows[j].Zone {
			return rows[i].Zone < rows[j].Zone
		}
		return rows[i].BillNo < rows[j].BillNo
	})

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(creditHeader); err != nil {
		return nil, err
	}
	for _, rec := range rows {
		if err := w.Write([]string{
			string(rec.Zone),
			strconv.Itoa(rec.BillNo),
			rec.Name,
			rec.Address,
			rec.Billed.String(),
			rec.Received.String(),
			rec.Date.Format(dateLayout),
			formatDate(rec.DuePaidOn),
			formatDate(rec.PartialPaidOn),
		}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeCredits parses a credit ledger file into a keyed table.
func DecodeCredits(data []byte) (map[BillKey]CreditRecord, error) {
	rows, err := readRows(data, len(creditHeader))
	if err != nil {
		return nil, err
	}
	credits := make(map[BillKey]CreditRecord, len(rows))
	for _, row := range rows {
		billNo, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, fmt.Errorf("ledger: credit row bill no %q: %w", row[1], err)
		}
		billed, err := decimal.NewFromString(row[4])
		if err != nil {
			return nil, fmt.Errorf("ledger: credit row billed amount %q: %w", row[4], err)
		}
		received, err := decimal.NewFromString(row[5])
		if err != nil {
			return nil, fmt.Errorf("ledger: credit row received amount %q: %w", row[5], err)
		}
		date, err := time.Parse(dateLayout, row[6])
		if err != nil {
			return nil, fmt.Errorf("ledger: credit row date %q: %w", row[6], err)
		}
		duePaidOn, err := parseDate(row[7])
		if err != nil {
			return nil, fmt.Errorf("ledger: credit row due payment date %q: %w", row[7], err)
		}
		partialPaidOn, err := parseDate(row[8])
		if err != nil {
			return nil, fmt.Errorf("ledger: credit row partial payment date %q: %w", row[8], err)
		}
		rec := CreditRecord{
			Zone:          zone.Zone(row[0]),
			BillNo:        billNo,
			Name:          row[2],
			Address:       row[3],
			Billed:        billed,
			Received:      received,
			Date:          date,
			DuePaidOn:     duePaidOn,
			PartialPaidOn: partialPaidOn,
		}
		credits[rec.Key()] = rec
	}
	return credits, nil
}

// EncodeDues serialises the due ledger sorted by zone then bill number.
func EncodeDues(dues map[BillKey]DueRecord) ([]byte, error) {
	rows := make([]DueRecord, 0, len(dues))
	for _, rec := range dues {
		rows = append(rows, rec)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Zone != rows[j].Zone {
			return rows[i].Zone < rows[j].Zone
		}
		return rows[i].BillNo < rows[j].BillNo
	})

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(dueHeader); err != nil {
		return nil, err
	}
	for _, rec := range rows {
		if err := w.Write([]string{
			string(rec.Zone),
			strconv.Itoa(rec.BillNo),
			rec.Name,
			rec.Address,
			rec.Amount.String(),
		}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeDues parses a due ledger file into a keyed table.
func DecodeDues(data []byte) (map[BillKey]DueRecord, error) {
	rows, err := readRows(data, len(dueHeader))
	if err != nil {
		return nil, err
	}
	dues := make(map[BillKey]DueRecord, len(rows))
	for _, row := range rows {
		billNo, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, fmt.Errorf("ledger: due row bill no %q: %w", row[1], err)
		}
		amount, err := decimal.NewFromString(row[4])
		if err != nil {
			return nil, fmt.Errorf("ledger: due row amount %q: %w", row[4], err)
		}
		rec := DueRecord{
			Zone:    zone.Zone(row[0]),
			BillNo:  billNo,
			Name:    row[2],
			Address: row[3],
			Amount:  amount,
		}
		dues[rec.Key()] = rec
	}
	return dues, nil
}

// EncodeCollections serialises the collection history in append order.
func EncodeCollections(entries []CollectionEntry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(collectionHeader); err != nil {
		return nil, err
	}
	for _, e := range entries {
		if err := w.Write([]string{
			string(e.Zone),
			strconv.Itoa(e.BillNo),
			e.Name,
			e.Address,
			e.Billed.String(),
			e.TotalReceived.String(),
			e.PaidNow.String(),
			e.RemainingDue.String(),
			e.PaidOn.Format(dateLayout),
			string(e.Status),
		}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeCollections parses the collection history file.
func DecodeCollections(data []byte) ([]CollectionEntry, error) {
	rows, err := readRows(data, len(collectionHeader))
	if err != nil {
		return nil, err
	}
	entries := make([]CollectionEntry, 0, len(rows))
	for _, row := range rows {
		billNo, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, fmt.Errorf("ledger: collection row bill no %q: %w", row[1], err)
		}
		billed, err := decimal.NewFromString(row[4])
		if err != nil {
			return nil, fmt.Errorf("ledger: collection row billed amount %q: %w", row[4], err)
		}
		total, err := decimal.NewFromString(row[5])
		if err != nil {
			return nil, fmt.Errorf("ledger: collection row total received %q: %w", row[5], err)
		}
		paidNow, err := decimal.NewFromString(row[6])
		if err != nil {
			return nil, fmt.Errorf("ledger: collection row paid now %q: %w", row[6], err)
		}
		remaining, err := decimal.NewFromString(row[7])
		if err != nil {
			return nil, fmt.Errorf("ledger: collection row remaining due %q: %w", row[7], err)
		}
		paidOn, err := time.Parse(dateLayout, row[8])
		if err != nil {
			return nil, fmt.Errorf("ledger: collection row payment date %q: %w", row[8], err)
		}
		entries = append(entries, CollectionEntry{
			Zone:          zone.Zone(row[0]),
			BillNo:        billNo,
			Name:          row[2],
			Address:       row[3],
			Billed:        billed,
			TotalReceived: total,
			PaidNow:       paidNow,
			RemainingDue:  remaining,
			PaidOn:        paidOn,
			Status:        CollectionStatus(row[9]),
		})
	}
	return entries, nil
}

// readRows parses CSV content, skipping the header row and blank files.
func readRows(data []byte, fields int) ([][]string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = fields
	all, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ledger: parse csv: %w", err)
	}
	if len(all) <= 1 {
		return nil, nil
	}
	return all[1:], nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
