package usecase

import (
	"context"

	"github.com/dnrdl12/remit/internal/domain"
)

// LedgerUseCase handles ledger reads and reconciliation.
type LedgerUseCase struct {
	ledgerRepo   LedgerRepository
	snapshotRepo SnapshotRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(ledgerRepo LedgerRepository, snapshotRepo SnapshotRepository) *LedgerUseCase {
	return &LedgerUseCase{
		ledgerRepo:   ledgerRepo,
		snapshotRepo: snapshotRepo,
	}
}

// GetEntriesByTransfer returns the entries posted for a transfer.
func (uc *LedgerUseCase) GetEntriesByTransfer(ctx context.Context, transferID string) ([]*domain.LedgerEntry, error) {
	return uc.ledgerRepo.GetByTransfer(ctx, transferID)
}

// GetEntriesByAccount returns the entries touching an account, newest first.
func (uc *LedgerUseCase) GetEntriesByAccount(ctx context.Context, accountID int64, limit, offset int) ([]*domain.LedgerEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	if limit > 100 {
		limit = 100
	}

	return uc.ledgerRepo.GetByAccount(ctx, accountID, limit, offset)
}

// AccountMismatch is one account whose snapshot disagrees with its entries.
type AccountMismatch struct {
	AccountID int64 `json:"account_id"`
	Snapshot  int64 `json:"snapshot"`
	LedgerSum int64 `json:"ledger_sum"`
}

// ConsistencyReport is the result of reconciling snapshots against the
// ledger.
type ConsistencyReport struct {
	Consistent    bool              `json:"consistent"`
	TotalSnapshot int64             `json:"total_snapshot"`
	TotalLedger   int64             `json:"total_ledger"`
	Mismatches    []AccountMismatch `json:"mismatches,omitempty"`
}

// CheckConsistency verifies that every snapshot balance equals the sum of
// that account's ledger entries, and that the ledger as a whole sums to
// zero.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	accountIDs, err := uc.snapshotRepo.ListAccountIDs(ctx)
	if err != nil {
		return nil, err
	}

	report := &ConsistencyReport{Consistent: true}

	for _, id := range accountIDs {
		snapshot, err := uc.snapshotRepo.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		sum, err := uc.ledgerRepo.SumByAccount(ctx, id)
		if err != nil {
			return nil, err
		}

		report.TotalSnapshot += snapshot
		report.TotalLedger += sum

		if snapshot != sum {
			report.Consistent = false
			report.Mismatches = append(report.Mismatches, AccountMismatch{
				AccountID: id,
				Snapshot:  snapshot,
				LedgerSum: sum,
			})
		}
	}

	// A balanced double-entry ledger sums to zero across all accounts.
	if report.TotalLedger != 0 {
		report.Consistent = false
	}

	return report, nil
}
