package domain

import "time"

// MemberStatus is the lifecycle state of a member.
type MemberStatus string

const (
	MemberActive  MemberStatus = "ACTIVE"
	MemberDeleted MemberStatus = "DELETED"
)

const (
	memberActiveCode  = 1
	memberDeletedCode = 2
)

// MemberStatusFromCode converts a stored status code to a MemberStatus.
func MemberStatusFromCode(code int) (MemberStatus, error) {
	switch code {
	case memberActiveCode:
		return MemberActive, nil
	case memberDeletedCode:
		return MemberDeleted, nil
	default:
		return "", ErrInvalidMemberStatus
	}
}

// Code returns the persisted status code.
func (s MemberStatus) Code() int {
	switch s {
	case MemberActive:
		return memberActiveCode
	case MemberDeleted:
		return memberDeletedCode
	default:
		return 0
	}
}

// Member is an account holder. Phone, CI and DI are stored encrypted; the
// Hash fields carry HMAC digests of the plaintext for exact-match search.
type Member struct {
	ID           int64
	Name         string
	Phone        string
	PhoneHash    string
	CI           string
	CIHash       string
	DI           string
	DIHash       string
	Status       MemberStatus
	PrivConsent  bool
	MsgConsent   bool
	CreatedAt    time.Time
}
