package ledger

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/utsav-books/utsav-books/internal/zone"
)

// CreditInput carries the fields for recording or editing a bill.
type CreditInput struct {
	Zone     zone.Zone
	BillNo   int
	Name     string
	Address  string
	Billed   decimal.Decimal
	Received decimal.Decimal
	Date     time.Time
}

// cancelRequest is an armed two-phase due cancellation. It is scoped to one
// bill and expires as soon as any other ledger mutation runs.
type cancelRequest struct {
	key   BillKey
	token string
}

// Service owns the credit ledger, due ledger and collection history and
// enforces their consistency rules. One instance serialises all mutations;
// the system assumes a single operator session.
type Service struct {
	repo RepositoryPort

	mu    sync.Mutex
	armed *cancelRequest
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// NextBillNumber proposes the lowest unused bill number for the zone. The
// donation zone never proposes one.
func (s *Service) NextBillNumber(ctx context.Context, z zone.Zone) (int, bool, error) {
	if !zone.Valid(z) {
		return 0, false, fmt.Errorf("%w: unknown zone %q", ErrValidation, z)
	}
	t, err := s.repo.Load(ctx)
	if err != nil {
		return 0, false, err
	}
	used := make(map[int]struct{})
	for key := range t.Credits {
		if key.Zone == z {
			used[key.BillNo] = struct{}{}
		}
	}
	n, ok := zone.NextBillNumber(z, used)
	return n, ok, nil
}

// RecordCredit records a new bill. A positive due opens a due ledger row; a
// settled bill gets its due-payment date stamped immediately.
func (s *Service) RecordCredit(ctx context.Context, in CreditInput) (CreditRecord, error) {
	if err := validateCreditInput(in); err != nil {
		return CreditRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.disarmCancel()

	t, err := s.repo.Load(ctx)
	if err != nil {
		return CreditRecord{}, err
	}

	key := BillKey{Zone: in.Zone, BillNo: in.BillNo}
	if _, exists := t.Credits[key]; exists {
		return CreditRecord{}, fmt.Errorf("%w: bill %d in %s", ErrDuplicateBill, in.BillNo, in.Zone)
	}

	rec := CreditRecord{
		Zone:     in.Zone,
		BillNo:   in.BillNo,
		Name:     strings.TrimSpace(in.Name),
		Address:  strings.TrimSpace(in.Address),
		Billed:   in.Billed,
		Received: in.Received,
		Date:     in.Date,
	}

	due := rec.Due()
	touched := []Table{TableCredits}
	if due.IsPositive() {
		t.Dues[key] = DueRecord{
			Zone:    rec.Zone,
			BillNo:  rec.BillNo,
			Name:    rec.Name,
			Address: rec.Address,
			Amount:  due,
		}
		touched = append(touched, TableDues)
	} else {
		date := rec.Date
		rec.DuePaidOn = &date
	}
	t.Credits[key] = rec

	if err := s.repo.Save(ctx, t, touched...); err != nil {
		return CreditRecord{}, err
	}
	return rec, nil
}

// EditCredit rewrites a bill in place. Amount changes invalidate the bill's
// collection history; contact-only changes are patched through to it.
func (s *Service) EditCredit(ctx context.Context, in CreditInput) (CreditRecord, error) {
	if err := validateCreditInput(in); err != nil {
		return CreditRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.disarmCancel()

	t, err := s.repo.Load(ctx)
	if err != nil {
		return CreditRecord{}, err
	}

	key := BillKey{Zone: in.Zone, BillNo: in.BillNo}
	old, exists := t.Credits[key]
	if !exists {
		return CreditRecord{}, fmt.Errorf("%w: bill %d in %s", ErrNotFound, in.BillNo, in.Zone)
	}

	name := strings.TrimSpace(in.Name)
	address := strings.TrimSpace(in.Address)
	amountsChanged := !old.Billed.Equal(in.Billed) || !old.Received.Equal(in.Received)
	detailsChanged := old.Name != name || old.Address != address

	rec := CreditRecord{
		Zone:     in.Zone,
		BillNo:   in.BillNo,
		Name:     name,
		Address:  address,
		Billed:   in.Billed,
		Received: in.Received,
		Date:     in.Date,
	}

	touched := []Table{TableCredits, TableDues}
	if amountsChanged {
		if removed := deleteCollectionsFor(t, key); removed {
			touched = append(touched, TableCollections)
		}
	} else if detailsChanged {
		if patched := patchCollectionsFor(t, key, name, address); patched {
			touched = append(touched, TableCollections)
		}
	}

	due := rec.Due()
	if due.IsPositive() {
		t.Dues[key] = DueRecord{
			Zone:    rec.Zone,
			BillNo:  rec.BillNo,
			Name:    name,
			Address: address,
			Amount:  due,
		}
	} else {
		delete(t.Dues, key)
		date := rec.Date
		rec.DuePaidOn = &date
	}
	t.Credits[key] = rec

	if err := s.repo.Save(ctx, t, touched...); err != nil {
		return CreditRecord{}, err
	}
	return rec, nil
}

// ApplyDuePayment settles part or all of a bill's outstanding due and logs
// the settlement in the collection history.
func (s *Service) ApplyDuePayment(ctx context.Context, z zone.Zone, billNo int, amountNow decimal.Decimal, paidOn time.Time) (PaymentResult, error) {
	if !amountNow.IsPositive() {
		return PaymentResult{}, fmt.Errorf("%w: payment amount must be positive", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.disarmCancel()

	t, err := s.repo.Load(ctx)
	if err != nil {
		return PaymentResult{}, err
	}

	key := BillKey{Zone: z, BillNo: billNo}
	due, exists := t.Dues[key]
	if !exists {
		return PaymentResult{}, fmt.Errorf("%w: bill %d in %s", ErrNoDue, billNo, z)
	}
	if amountNow.GreaterThan(due.Amount) {
		return PaymentResult{}, fmt.Errorf("%w: payment %s exceeds outstanding due %s", ErrValidation, amountNow, due.Amount)
	}
	rec, exists := t.Credits[key]
	if !exists {
		return PaymentResult{}, fmt.Errorf("%w: bill %d in %s", ErrNotFound, billNo, z)
	}

	rec.Received = rec.Received.Add(amountNow)
	remaining := due.Amount.Sub(amountNow).Round(2)

	entry := CollectionEntry{
		Zone:          rec.Zone,
		BillNo:        rec.BillNo,
		Name:          rec.Name,
		Address:       rec.Address,
		Billed:        rec.Billed,
		TotalReceived: rec.Received,
		PaidNow:       amountNow,
		RemainingDue:  remaining,
		PaidOn:        paidOn,
	}

	var result PaymentResult
	if remaining.IsPositive() {
		date := paidOn
		rec.PartialPaidOn = &date
		rec.DuePaidOn = nil
		due.Amount = remaining
		t.Dues[key] = due
		entry.Status = StatusPartiallyPaid
		result = PaymentResult{Status: StatusPartiallyPaid, RemainingDue: remaining}
	} else {
		date := paidOn
		rec.DuePaidOn = &date
		rec.PartialPaidOn = nil
		delete(t.Dues, key)
		entry.Status = StatusFullyPaid
		result = PaymentResult{Status: StatusFullyPaid, RemainingDue: decimal.Zero}
	}
	t.Credits[key] = rec
	t.Collections = append(t.Collections, entry)

	if err := s.repo.Save(ctx, t, TableCredits, TableDues, TableCollections); err != nil {
		return PaymentResult{}, err
	}
	return result, nil
}

// RequestCancelDue arms a write-off for the bill and returns a confirmation
// token. The token is invalidated by any other ledger mutation.
func (s *Service) RequestCancelDue(ctx context.Context, z zone.Zone, billNo int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.repo.Load(ctx)
	if err != nil {
		return "", err
	}
	key := BillKey{Zone: z, BillNo: billNo}
	if _, exists := t.Dues[key]; !exists {
		return "", fmt.Errorf("%w: bill %d in %s", ErrNoDue, billNo, z)
	}

	token := uuid.NewString()
	s.armed = &cancelRequest{key: key, token: token}
	return token, nil
}

// ConfirmCancelDue completes an armed write-off: the due ledger row is
// removed but the credit record's received amount stays untouched, so the
// cleared amount is never counted as income.
func (s *Service) ConfirmCancelDue(ctx context.Context, z zone.Zone, billNo int, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := BillKey{Zone: z, BillNo: billNo}
	if s.armed == nil || s.armed.key != key || s.armed.token != token {
		return ErrCancelNotArmed
	}
	s.disarmCancel()

	t, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	if _, exists := t.Dues[key]; !exists {
		return fmt.Errorf("%w: bill %d in %s", ErrNoDue, billNo, z)
	}
	delete(t.Dues, key)

	return s.repo.Save(ctx, t, TableDues)
}

// ZoneCredits lists a zone's bills ordered by bill number.
func (s *Service) ZoneCredits(ctx context.Context, z zone.Zone) ([]CreditRecord, error) {
	t, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	var out []CreditRecord
	for key, rec := range t.Credits {
		if key.Zone == z {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BillNo < out[j].BillNo })
	return out, nil
}

// AllCredits lists every bill ordered by zone then bill number.
func (s *Service) AllCredits(ctx context.Context) ([]CreditRecord, error) {
	t, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CreditRecord, 0, len(t.Credits))
	for _, rec := range t.Credits {
		out = append(out, rec)
	}
	sortCredits(out)
	return out, nil
}

// CreditsOnDate lists the bills entered on the given calendar date.
func (s *Service) CreditsOnDate(ctx context.Context, date time.Time) ([]CreditRecord, error) {
	t, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	day := date.Format(dateLayout)
	var out []CreditRecord
	for _, rec := range t.Credits {
		if rec.Date.Format(dateLayout) == day {
			out = append(out, rec)
		}
	}
	sortCredits(out)
	return out, nil
}

// ZoneDues lists a zone's outstanding dues ordered by bill number.
func (s *Service) ZoneDues(ctx context.Context, z zone.Zone) ([]DueRecord, error) {
	t, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	var out []DueRecord
	for key, rec := range t.Dues {
		if key.Zone == z {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BillNo < out[j].BillNo })
	return out, nil
}

// AllDues lists every outstanding due ordered by zone then bill number.
func (s *Service) AllDues(ctx context.Context) ([]DueRecord, error) {
	t, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]DueRecord, 0, len(t.Dues))
	for _, rec := range t.Dues {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Zone != out[j].Zone {
			return out[i].Zone < out[j].Zone
		}
		return out[i].BillNo < out[j].BillNo
	})
	return out, nil
}

// ZoneCollections lists a zone's settlement history, newest first.
func (s *Service) ZoneCollections(ctx context.Context, z zone.Zone) ([]CollectionEntry, error) {
	t, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	var out []CollectionEntry
	for _, e := range t.Collections {
		if e.Zone == z {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PaidOn.After(out[j].PaidOn) })
	return out, nil
}

// BillInfo finds every bill with the given number across all zones. Bill
// numbers repeat only through the donation zone's manual numbering.
func (s *Service) BillInfo(ctx context.Context, billNo int) ([]CreditRecord, error) {
	t, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	var out []CreditRecord
	for key, rec := range t.Credits {
		if key.BillNo == billNo {
			out = append(out, rec)
		}
	}
	sortCredits(out)
	return out, nil
}

func (s *Service) disarmCancel() {
	s.armed = nil
}

func validateCreditInput(in CreditInput) error {
	if !zone.Valid(in.Zone) {
		return fmt.Errorf("%w: unknown zone %q", ErrValidation, in.Zone)
	}
	if in.BillNo < 1 {
		return fmt.Errorf("%w: bill number must be positive", ErrValidation)
	}
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if strings.TrimSpace(in.Address) == "" {
		return fmt.Errorf("%w: address is required", ErrValidation)
	}
	if in.Billed.IsNegative() {
		return fmt.Errorf("%w: billed amount cannot be negative", ErrValidation)
	}
	if in.Received.IsNegative() {
		return fmt.Errorf("%w: received amount cannot be negative", ErrValidation)
	}
	if in.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrValidation)
	}
	return nil
}

func deleteCollectionsFor(t *Tables, key BillKey) bool {
	kept := t.Collections[:0]
	removed := false
	for _, e := range t.Collections {
		if e.Zone == key.Zone && e.BillNo == key.BillNo {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	t.Collections = kept
	return removed
}

func patchCollectionsFor(t *Tables, key BillKey, name, address string) bool {
	patched := false
	for i := range t.Collections {
		if t.Collections[i].Zone == key.Zone && t.Collections[i].BillNo == key.BillNo {
			t.Collections[i].Name = name
			t.Collections[i].Address = address
			patched = true
		}
	}
	return patched
}

func sortCredits(out []CreditRecord) {
	sort.Slice(out, func(i, j int) bool {
		if out[i].Zone != out[j].Zone {
			return out[i].Zone < out[j].Zone
		}
		return out[i].BillNo < out[j].BillNo
	})
}
