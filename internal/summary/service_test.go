package summary

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/utsav-books/utsav-books/internal/debit"
	"github.com/utsav-books/utsav-books/internal/ledger"
	"github.com/utsav-books/utsav-books/internal/platform/blob"
	"github.com/utsav-books/utsav-books/internal/zone"
)

const zoneOne = zone.Zone("BILL no. 1- (1-100)")
const zoneTwo = zone.Zone("BILL no. 2- (101-200)")

func newTestSummary(t *testing.T) (*Service, *ledger.Service, *debit.Service) {
	t.Helper()
	ctx := context.Background()
	store := blob.NewMemStore()

	ledgerRepo := ledger.NewRepository(store, ledger.DefaultPaths, nil)
	require.NoError(t, ledgerRepo.Ensure(ctx))
	ledgerSvc := ledger.NewService(ledgerRepo)

	debitRepo := debit.NewRepository(store, debit.DefaultPath)
	require.NoError(t, debitRepo.Ensure(ctx))
	debitSvc := debit.NewService(debitRepo)

	return NewService(ledgerSvc, debitSvc), ledgerSvc, debitSvc
}

func seedBill(t *testing.T, svc *ledger.Service, z zone.Zone, billNo int, billed, received int64, day time.Time) {
	t.Helper()
	_, err := svc.RecordCredit(context.Background(), ledger.CreditInput{
		Zone:     z,
		BillNo:   billNo,
		Name:     "Arjun Das",
		Address:  "12 Lake Road",
		Billed:   decimal.NewFromInt(billed),
		Received: decimal.NewFromInt(received),
		Date:     day,
	})
	require.NoError(t, err)
}

func TestOverallSummaryCashInHand(t *testing.T) {
	ctx := context.Background()
	svc, ledgerSvc, debitSvc := newTestSummary(t)

	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	seedBill(t, ledgerSvc, zoneOne, 1, 500, 300, day)
	seedBill(t, ledgerSvc, zoneTwo, 101, 1000, 1000, day)
	require.NoError(t, debitSvc.RecordDebit(ctx, day, 400, "pandal bamboo"))

	overall, err := svc.OverallSummary(ctx)
	require.NoError(t, err)
	require.True(t, overall.Received.Equal(decimal.NewFromInt(1300)))
	require.Equal(t, int64(400), overall.Debited)
	require.True(t, overall.CashInHand.Equal(decimal.NewFromInt(900)))
	require.True(t, overall.Due.Equal(decimal.NewFromInt(200)))
}

func TestZoneSummary(t *testing.T) {
	ctx := context.Background()
	svc, ledgerSvc, _ := newTestSummary(t)

	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	seedBill(t, ledgerSvc, zoneOne, 1, 500, 300, day)
	seedBill(t, ledgerSvc, zoneOne, 2, 200, 200, day)
	seedBill(t, ledgerSvc, zoneTwo, 101, 900, 100, day)

	totals, err := svc.ZoneSummary(ctx, zoneOne)
	require.NoError(t, err)
	require.True(t, totals.Received.Equal(decimal.NewFromInt(500)))
	require.True(t, totals.Due.Equal(decimal.NewFromInt(200)))
}

func TestAllZoneSummariesCoverEveryZone(t *testing.T) {
	ctx := context.Background()
	svc, ledgerSvc, _ := newTestSummary(t)

	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	seedBill(t, ledgerSvc, zoneOne, 1, 500, 300, day)

	zones, err := svc.AllZoneSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, zones, len(zone.All()))
	require.Equal(t, zoneOne, zones[0].Zone)
	require.True(t, zones[0].Received.Equal(decimal.NewFromInt(300)))
	// Zones with no bills report zero, not absence.
	require.True(t, zones[5].Received.IsZero())
	require.Equal(t, zone.Donation, zones[len(zones)-1].Zone)
}

func TestByDateSlicesBothLedgers(t *testing.T) {
	ctx := context.Background()
	svc, ledgerSvc, debitSvc := newTestSummary(t)

	day1 := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
	seedBill(t, ledgerSvc, zoneOne, 1, 500, 300, day1)
	seedBill(t, ledgerSvc, zoneOne, 2, 400, 400, day2)
	require.NoError(t, debitSvc.RecordDebit(ctx, day2, 150, "flowers"))

	report, err := svc.ByDate(ctx, day2)
	require.NoError(t, err)
	require.Equal(t, "2026-09-02", report.Date)
	require.Len(t, report.Credits, 1)
	require.True(t, report.CreditTotal.Equal(decimal.NewFromInt(400)))
	require.Len(t, report.Debits, 1)
	require.Equal(t, int64(150), report.DebitTotal)
}

func TestWriteSummaryCSV(t *testing.T) {
	zones := []ZoneTotals{
		{Zone: zoneOne, Received: decimal.NewFromInt(150000), Due: decimal.NewFromInt(2500)},
	}
	overall := Overall{
		Received:   decimal.NewFromInt(150000),
		Debited:    40000,
		CashInHand: decimal.NewFromInt(110000),
		Due:        decimal.NewFromInt(2500),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSummaryCSV(&buf, zones, overall))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "Zone,Total Received,Total Due\n"))
	require.Contains(t, out, "₹150,000.00")
	require.Contains(t, out, "Cash in Hand,\"₹110,000.00\"")
	require.Contains(t, out, "Total Debited,\"₹40,000\"")
}
