package dto_test

import (
	"testing"

	"github.com/dnrdl12/remit/internal/adapter/http/dto"
	"github.com/dnrdl12/remit/internal/domain"
)

func TestMovementRequestsCarryHeaderIdentity(t *testing.T) {
	deposit := dto.DepositRequest{AccountNumber: "088-001-0000000010", Amount: 1000, Memo: "rent"}
	depositInput := deposit.ToUseCaseInput("client-a", "key-1")
	if depositInput.ClientID != "client-a" || depositInput.IdempotencyKey != "key-1" {
		t.Errorf("identity not propagated: %+v", depositInput)
	}
	if depositInput.AccountNumber != deposit.AccountNumber || depositInput.Amount != 1000 {
		t.Errorf("body not propagated: %+v", depositInput)
	}

	transfer := dto.TransferRequest{
		FromAccountNumber: "088-001-0000000010",
		ToAccountNumber:   "088-001-0000000020",
		Amount:            500,
	}
	transferInput := transfer.ToUseCaseInput("client-b", "key-2")
	if transferInput.ClientID != "client-b" || transferInput.IdempotencyKey != "key-2" {
		t.Errorf("identity not propagated: %+v", transferInput)
	}
}

func TestPatchAccountRequestStatusConversion(t *testing.T) {
	status := "SUSPENDED"
	req := dto.PatchAccountRequest{Status: &status}

	input := req.ToUseCaseInput()
	if input.Status == nil || *input.Status != domain.AccountStatusSuspended {
		t.Errorf("expected SUSPENDED status, got %+v", input.Status)
	}

	empty := dto.PatchAccountRequest{}
	if got := empty.ToUseCaseInput(); got.Status != nil || got.Nickname != nil {
		t.Errorf("expected nil fields for empty patch, got %+v", got)
	}
}
