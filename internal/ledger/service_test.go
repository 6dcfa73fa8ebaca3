package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/utsav-books/utsav-books/internal/platform/blob"
	"github.com/utsav-books/utsav-books/internal/zone"
)

const testZone = zone.Zone("BILL no. 1- (1-100)")

func newTestService(t *testing.T) (*Service, *Repository) {
	t.Helper()
	repo := NewRepository(blob.NewMemStore(), DefaultPaths, nil)
	require.NoError(t, repo.Ensure(context.Background()))
	return NewService(repo), repo
}

func billDate() time.Time {
	return time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
}

func amount(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func recordBill(t *testing.T, svc *Service, billNo int, billed, received int64) CreditRecord {
	t.Helper()
	rec, err := svc.RecordCredit(context.Background(), CreditInput{
		Zone:     testZone,
		BillNo:   billNo,
		Name:     "Arjun Das",
		Address:  "12 Lake Road",
		Billed:   amount(billed),
		Received: amount(received),
		Date:     billDate(),
	})
	require.NoError(t, err)
	return rec
}

func TestRecordCreditOpensDue(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	rec := recordBill(t, svc, 1, 500, 200)
	require.True(t, rec.Due().Equal(amount(300)))
	require.Nil(t, rec.DuePaidOn)

	dues, err := svc.ZoneDues(ctx, testZone)
	require.NoError(t, err)
	require.Len(t, dues, 1)
	require.Equal(t, 1, dues[0].BillNo)
	require.True(t, dues[0].Amount.Equal(amount(300)))
	require.Equal(t, "Arjun Das", dues[0].Name)
}

func TestRecordCreditSettledBillHasNoDue(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	rec := recordBill(t, svc, 2, 500, 500)
	require.NotNil(t, rec.DuePaidOn)
	require.Equal(t, billDate(), *rec.DuePaidOn)

	dues, err := svc.AllDues(ctx)
	require.NoError(t, err)
	require.Empty(t, dues)
}

func TestRecordCreditRejectsDuplicateBill(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	recordBill(t, svc, 3, 100, 100)
	_, err := svc.RecordCredit(ctx, CreditInput{
		Zone:     testZone,
		BillNo:   3,
		Name:     "Someone Else",
		Address:  "Elsewhere",
		Billed:   amount(50),
		Received: amount(50),
		Date:     billDate(),
	})
	require.ErrorIs(t, err, ErrDuplicateBill)
}

func TestRecordCreditValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.RecordCredit(ctx, CreditInput{
		Zone:     "no such zone",
		BillNo:   1,
		Name:     "A",
		Address:  "B",
		Billed:   amount(10),
		Received: amount(10),
		Date:     billDate(),
	})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.RecordCredit(ctx, CreditInput{
		Zone:     testZone,
		BillNo:   1,
		Name:     "  ",
		Address:  "B",
		Billed:   amount(10),
		Received: amount(10),
		Date:     billDate(),
	})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.RecordCredit(ctx, CreditInput{
		Zone:     testZone,
		BillNo:   1,
		Name:     "A",
		Address:  "B",
		Billed:   amount(-10),
		Received: amount(0),
		Date:     billDate(),
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestNextBillNumberSkipsUsed(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	recordBill(t, svc, 1, 100, 100)
	recordBill(t, svc, 2, 100, 100)

	n, ok, err := svc.NextBillNumber(ctx, testZone)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 3, n)

	_, ok, err = svc.NextBillNumber(ctx, zone.Donation)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestApplyDuePaymentPartialThenFull(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	recordBill(t, svc, 5, 1000, 400)

	firstDay := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	result, err := svc.ApplyDuePayment(ctx, testZone, 5, amount(200), firstDay)
	require.NoError(t, err)
	require.Equal(t, StatusPartiallyPaid, result.Status)
	require.True(t, result.RemainingDue.Equal(amount(400)))

	credits, err := svc.ZoneCredits(ctx, testZone)
	require.NoError(t, err)
	require.Len(t, credits, 1)
	require.True(t, credits[0].Received.Equal(amount(600)))
	require.NotNil(t, credits[0].PartialPaidOn)
	require.Nil(t, credits[0].DuePaidOn)

	secondDay := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
	result, err = svc.ApplyDuePayment(ctx, testZone, 5, amount(400), secondDay)
	require.NoError(t, err)
	require.Equal(t, StatusFullyPaid, result.Status)
	require.True(t, result.RemainingDue.IsZero())

	credits, err = svc.ZoneCredits(ctx, testZone)
	require.NoError(t, err)
	require.True(t, credits[0].Received.Equal(amount(1000)))
	require.NotNil(t, credits[0].DuePaidOn)
	require.Nil(t, credits[0].PartialPaidOn)

	dues, err := svc.ZoneDues(ctx, testZone)
	require.NoError(t, err)
	require.Empty(t, dues)

	history, err := svc.ZoneCollections(ctx, testZone)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, StatusFullyPaid, history[0].Status)
	require.Equal(t, StatusPartiallyPaid, history[1].Status)
	require.True(t, history[1].TotalReceived.Equal(amount(600)))
}

func TestApplyDuePaymentRejectsOverpayment(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	recordBill(t, svc, 6, 500, 400)
	_, err := svc.ApplyDuePayment(ctx, testZone, 6, amount(200), billDate())
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.ApplyDuePayment(ctx, testZone, 6, amount(0), billDate())
	require.ErrorIs(t, err, ErrValidation)
}

func TestApplyDuePaymentRequiresOutstandingDue(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	recordBill(t, svc, 7, 500, 500)
	_, err := svc.ApplyDuePayment(ctx, testZone, 7, amount(100), billDate())
	require.ErrorIs(t, err, ErrNoDue)
}

func TestEditCreditAmountsInvalidateHistory(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	recordBill(t, svc, 8, 1000, 400)
	_, err := svc.ApplyDuePayment(ctx, testZone, 8, amount(100), billDate())
	require.NoError(t, err)

	history, err := svc.ZoneCollections(ctx, testZone)
	require.NoError(t, err)
	require.Len(t, history, 1)

	_, err = svc.EditCredit(ctx, CreditInput{
		Zone:     testZone,
		BillNo:   8,
		Name:     "Arjun Das",
		Address:  "12 Lake Road",
		Billed:   amount(800),
		Received: amount(500),
		Date:     billDate(),
	})
	require.NoError(t, err)

	history, err = svc.ZoneCollections(ctx, testZone)
	require.NoError(t, err)
	require.Empty(t, history)

	dues, err := svc.ZoneDues(ctx, testZone)
	require.NoError(t, err)
	require.Len(t, dues, 1)
	require.True(t, dues[0].Amount.Equal(amount(300)))
}

func TestEditCreditContactChangePatchesHistory(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	recordBill(t, svc, 9, 1000, 400)
	_, err := svc.ApplyDuePayment(ctx, testZone, 9, amount(100), billDate())
	require.NoError(t, err)

	_, err = svc.EditCredit(ctx, CreditInput{
		Zone:     testZone,
		BillNo:   9,
		Name:     "Arjun K. Das",
		Address:  "14 Lake Road",
		Billed:   amount(1000),
		Received: amount(500),
		Date:     billDate(),
	})
	require.NoError(t, err)

	history, err := svc.ZoneCollections(ctx, testZone)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, "Arjun K. Das", history[0].Name)
	require.Equal(t, "14 Lake Road", history[0].Address)

	dues, err := svc.ZoneDues(ctx, testZone)
	require.NoError(t, err)
	require.Len(t, dues, 1)
	require.Equal(t, "Arjun K. Das", dues[0].Name)
}

func TestEditCreditSettlingRemovesDue(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	recordBill(t, svc, 10, 500, 200)
	rec, err := svc.EditCredit(ctx, CreditInput{
		Zone:     testZone,
		BillNo:   10,
		Name:     "Arjun Das",
		Address:  "12 Lake Road",
		Billed:   amount(500),
		Received: amount(500),
		Date:     billDate(),
	})
	require.NoError(t, err)
	require.NotNil(t, rec.DuePaidOn)

	dues, err := svc.ZoneDues(ctx, testZone)
	require.NoError(t, err)
	require.Empty(t, dues)
}

func TestEditCreditUnknownBill(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.EditCredit(ctx, CreditInput{
		Zone:     testZone,
		BillNo:   42,
		Name:     "Nobody",
		Address:  "Nowhere",
		Billed:   amount(100),
		Received: amount(0),
		Date:     billDate(),
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCancelDueTwoPhase(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	recordBill(t, svc, 11, 500, 200)

	token, err := svc.RequestCancelDue(ctx, testZone, 11)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, svc.ConfirmCancelDue(ctx, testZone, 11, token))

	dues, err := svc.ZoneDues(ctx, testZone)
	require.NoError(t, err)
	require.Empty(t, dues)

	// Written off, not collected: the credit record keeps what was received.
	credits, err := svc.ZoneCredits(ctx, testZone)
	require.NoError(t, err)
	require.True(t, credits[0].Received.Equal(amount(200)))
}

func TestCancelDueRejectsWrongToken(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	recordBill(t, svc, 12, 500, 200)
	_, err := svc.RequestCancelDue(ctx, testZone, 12)
	require.NoError(t, err)

	err = svc.ConfirmCancelDue(ctx, testZone, 12, "not-the-token")
	require.ErrorIs(t, err, ErrCancelNotArmed)
}

func TestCancelDueDisarmedByOtherMutation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	recordBill(t, svc, 13, 500, 200)
	token, err := svc.RequestCancelDue(ctx, testZone, 13)
	require.NoError(t, err)

	recordBill(t, svc, 14, 100, 100)

	err = svc.ConfirmCancelDue(ctx, testZone, 13, token)
	require.ErrorIs(t, err, ErrCancelNotArmed)
}

func TestCancelDueRequiresOutstandingDue(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	recordBill(t, svc, 15, 100, 100)
	_, err := svc.RequestCancelDue(ctx, testZone, 15)
	require.ErrorIs(t, err, ErrNoDue)
}

func TestQueriesAreOrdered(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	recordBill(t, svc, 20, 100, 50)
	recordBill(t, svc, 4, 100, 50)
	recordBill(t, svc, 12, 100, 50)

	credits, err := svc.ZoneCredits(ctx, testZone)
	require.NoError(t, err)
	require.Len(t, credits, 3)
	require.Equal(t, 4, credits[0].BillNo)
	require.Equal(t, 12, credits[1].BillNo)
	require.Equal(t, 20, credits[2].BillNo)

	dues, err := svc.AllDues(ctx)
	require.NoError(t, err)
	require.Len(t, dues, 3)
	require.Equal(t, 4, dues[0].BillNo)
}

func TestBillInfoFindsAcrossZones(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	recordBill(t, svc, 50, 100, 100)
	_, err := svc.RecordCredit(ctx, CreditInput{
		Zone:     zone.Donation,
		BillNo:   50,
		Name:     "Mira Sen",
		Address:  "3 Temple Street",
		Billed:   amount(1000),
		Received: amount(1000),
		Date:     billDate(),
	})
	require.NoError(t, err)

	recs, err := svc.BillInfo(ctx, 50)
	require.NoError(t, err)
	require.Len(t, recs, 2)
}

func TestStateSurvivesReload(t *testing.T) {
	ctx := context.Background()
	store := blob.NewMemStore()
	repo := NewRepository(store, DefaultPaths, nil)
	require.NoError(t, repo.Ensure(ctx))
	svc := NewService(repo)

	recordBill(t, svc, 30, 700, 300)
	_, err := svc.ApplyDuePayment(ctx, testZone, 30, amount(100), billDate())
	require.NoError(t, err)

	// A fresh service over the same store sees precisely the persisted state.
	reloaded := NewService(NewRepository(store, DefaultPaths, nil))
	dues, err := reloaded.ZoneDues(ctx, testZone)
	require.NoError(t, err)
	require.Len(t, dues, 1)
	require.True(t, dues[0].Amount.Equal(amount(300)))

	history, err := reloaded.ZoneCollections(ctx, testZone)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, StatusPartiallyPaid, history[0].Status)
}
