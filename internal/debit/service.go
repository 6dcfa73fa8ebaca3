package debit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrValidation indicates rejected input; nothing was written.
var ErrValidation = errors.New("debit: validation failed")

// Service handles expense recording and reading.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// RecordDebit appends one expense line to the log.
func (s *Service) RecordDebit(ctx context.Context, date time.Time, amount int64, purpose string) error {
	purpose = strings.TrimSpace(purpose)
	if purpose == "" {
		return fmt.Errorf("%w: purpose is required", ErrValidation)
	}
	if amount < 0 {
		return fmt.Errorf("%w: amount cannot be negative", ErrValidation)
	}
	if date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrValidation)
	}
	line := fmt.Sprintf("%s | %d | %s\n", date.Format("2006-01-02"), amount, purpose)
	return s.repo.Append(ctx, line)
}

// Entries returns the parsed log along with the running total and any
// skipped-line warnings.
func (s *Service) Entries(ctx context.Context) ([]Entry, int64, []string, error) {
	text, err := s.repo.ReadAll(ctx)
	if err != nil {
		return nil, 0, nil, err
	}
	entries, total, warnings := Parse(text)
	return entries, total, warnings, nil
}

// Total returns the sum of all parseable debit amounts.
func (s *Service) Total(ctx context.Context) (int64, error) {
	_, total, _, err := s.Entries(ctx)
	return total, err
}

// EntriesOnDate returns the expenses recorded for one calendar date.
func (s *Service) EntriesOnDate(ctx context.Context, date time.Time) ([]Entry, int64, error) {
	entries, _, _, err := s.Entries(ctx)
	if err != nil {
		return nil, 0, err
	}
	day := date.Format("2006-01-02")
	var out []Entry
	var total int64
	for _, e := range entries {
		if e.Date == day {
			out = append(out, e)
			total += e.Amount
		}
	}
	return out, total, nil
}
