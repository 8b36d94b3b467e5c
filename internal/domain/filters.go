package domain

// AccountSearchFilter narrows account searches. Nil or empty fields mean "any".
type AccountSearchFilter struct {
	AccountNumber string
	MemberID      *int64
	Status        *AccountStatus
	Type          *AccountType
}

// MemberSearchFilter narrows member searches. PhoneHash carries the HMAC of
// the exact phone number, never the plaintext.
type MemberSearchFilter struct {
	Name      string
	PhoneHash string
	Status    *MemberStatus
}
