package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/dnrdl12/remit/internal/domain"
	"github.com/dnrdl12/remit/internal/usecase"
	"github.com/dnrdl12/remit/internal/usecase/mocks"
)

func seedEntries(t *testing.T, ledger *mocks.MockLedgerRepository, entries []domain.LedgerEntry) {
	t.Helper()
	if err := ledger.CreateBatch(context.Background(), nil, entries); err != nil {
		t.Fatalf("seed entries: %v", err)
	}
}

func TestLedgerUseCase_CheckConsistency(t *testing.T) {
	now := time.Now()

	t.Run("consistent ledger", func(t *testing.T) {
		ledger := mocks.NewMockLedgerRepository()
		snapshots := mocks.NewMockSnapshotRepository()
		uc := usecase.NewLedgerUseCase(ledger, snapshots)

		seedEntries(t, ledger, []domain.LedgerEntry{
			domain.NewLedgerEntry("tr-1", 1, -100, "KRW", now),
			domain.NewLedgerEntry("tr-1", 10, 100, "KRW", now),
		})
		snapshots.SetBalance(1, -100)
		snapshots.SetBalance(10, 100)

		report, err := uc.CheckConsistency(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !report.Consistent {
			t.Errorf("expected consistent, got %+v", report)
		}
		if report.TotalLedger != 0 {
			t.Errorf("ledger total must be zero, got %d", report.TotalLedger)
		}
	})

	t.Run("snapshot drift is reported per account", func(t *testing.T) {
		ledger := mocks.NewMockLedgerRepository()
		snapshots := mocks.NewMockSnapshotRepository()
		uc := usecase.NewLedgerUseCase(ledger, snapshots)

		seedEntries(t, ledger, []domain.LedgerEntry{
			domain.NewLedgerEntry("tr-1", 1, -100, "KRW", now),
			domain.NewLedgerEntry("tr-1", 10, 100, "KRW", now),
		})
		snapshots.SetBalance(1, -100)
		snapshots.SetBalance(10, 150)

		report, err := uc.CheckConsistency(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Consistent {
			t.Errorf("expected inconsistent report")
		}
		if len(report.Mismatches) != 1 {
			t.Fatalf("expected 1 mismatch, got %d", len(report.Mismatches))
		}

		m := report.Mismatches[0]
		if m.AccountID != 10 || m.Snapshot != 150 || m.LedgerSum != 100 {
			t.Errorf("unexpected mismatch %+v", m)
		}
	})

	t.Run("nonzero ledger total fails even without per-account drift", func(t *testing.T) {
		ledger := mocks.NewMockLedgerRepository()
		snapshots := mocks.NewMockSnapshotRepository()
		uc := usecase.NewLedgerUseCase(ledger, snapshots)

		// One orphaned credit, snapshot in agreement with it.
		seedEntries(t, ledger, []domain.LedgerEntry{
			domain.NewLedgerEntry("tr-1", 10, 100, "KRW", now),
		})
		snapshots.SetBalance(10, 100)

		report, err := uc.CheckConsistency(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Consistent {
			t.Errorf("a ledger that does not sum to zero is inconsistent")
		}
		if len(report.Mismatches) != 0 {
			t.Errorf("no per-account mismatch expected, got %+v", report.Mismatches)
		}
	})
}

func TestLedgerUseCase_GetEntriesByAccountClampsLimit(t *testing.T) {
	ledger := mocks.NewMockLedgerRepository()
	snapshots := mocks.NewMockSnapshotRepository()
	uc := usecase.NewLedgerUseCase(ledger, snapshots)

	seedEntries(t, ledger, []domain.LedgerEntry{
		domain.NewLedgerEntry("tr-1", 10, 100, "KRW", time.Now()),
	})

	entries, err := uc.GetEntriesByAccount(context.Background(), 10, -1, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(entries))
	}
}
