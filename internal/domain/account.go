package domain

import "time"

// AccountStatus is the lifecycle state of an account.
// Transitions are one-directional toward CLOSED, except NORMAL<->SUSPENDED.
type AccountStatus string

const (
	AccountStatusNormal    AccountStatus = "NORMAL"
	AccountStatusSuspended AccountStatus = "SUSPENDED"
	AccountStatusClosed    AccountStatus = "CLOSED"
)

// Persisted status codes. Raw integers stay at the persistence boundary.
const (
	accountStatusNormalCode    = 1
	accountStatusSuspendedCode = 2
	accountStatusClosedCode    = 3
)

// AccountStatusFromCode converts a stored status code to an AccountStatus.
func AccountStatusFromCode(code int) (AccountStatus, error) {
	switch code {
	case accountStatusNormalCode:
		return AccountStatusNormal, nil
	case accountStatusSuspendedCode:
		return AccountStatusSuspended, nil
	case accountStatusClosedCode:
		return AccountStatusClosed, nil
	default:
		return "", ErrInvalidAccountStatus
	}
}

// Code returns the persisted status code.
func (s AccountStatus) Code() int {
	switch s {
	case AccountStatusNormal:
		return accountStatusNormalCode
	case AccountStatusSuspended:
		return accountStatusSuspendedCode
	case AccountStatusClosed:
		return accountStatusClosedCode
	default:
		return 0
	}
}

// AccountType is the product type of an account.
type AccountType string

const (
	AccountTypeNormal AccountType = "NORMAL"
	AccountTypeSalary AccountType = "SALARY"
	AccountTypeLimit  AccountType = "LIMIT"
)

const (
	accountTypeNormalCode = 1
	accountTypeSalaryCode = 2
	accountTypeLimitCode  = 3
)

// AccountTypeFromCode converts a stored type code to an AccountType.
func AccountTypeFromCode(code int) (AccountType, error) {
	switch code {
	case accountTypeNormalCode:
		return AccountTypeNormal, nil
	case accountTypeSalaryCode:
		return AccountTypeSalary, nil
	case accountTypeLimitCode:
		return AccountTypeLimit, nil
	default:
		return "", ErrInvalidAccountType
	}
}

// Code returns the persisted type code.
func (t AccountType) Code() int {
	switch t {
	case AccountTypeNormal:
		return accountTypeNormalCode
	case AccountTypeSalary:
		return accountTypeSalaryCode
	case AccountTypeLimit:
		return accountTypeLimitCode
	default:
		return 0
	}
}

// Account represents a customer (or internal system) account.
type Account struct {
	ID                 int64
	AccountNumber      string
	MemberID           int64
	Status             AccountStatus
	Type               AccountType
	Nickname           string
	BankCode           string
	BranchCode         string
	FeePolicyID        *int64
	DailyTransferLimit int64
	DailyWithdrawLimit int64
	CreatedAt          time.Time
	ClosedAt           *time.Time
}

// ValidateDebitSide checks that the account can be debited.
// Any status other than NORMAL is a hard stop.
func (a *Account) ValidateDebitSide() error {
	return a.validateStatus()
}

// ValidateCreditSide checks that the account can be credited.
func (a *Account) ValidateCreditSide() error {
	return a.validateStatus()
}

func (a *Account) validateStatus() error {
	switch a.Status {
	case AccountStatusNormal:
		return nil
	case AccountStatusClosed:
		return ErrAccountClosed
	case AccountStatusSuspended:
		return ErrAccountSuspended
	default:
		// Unexpected status behaves like a missing account.
		return ErrAccountNotFound
	}
}
