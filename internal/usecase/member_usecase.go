package usecase

import (
	"context"
	"time"

	"github.com/dnrdl12/remit/internal/domain"
)

// MemberUseCase handles member registration and lookup. PII (phone, CI, DI)
// is encrypted at rest and hashed for exact-match search.
type MemberUseCase struct {
	memberRepo MemberRepository
	cryptor    Cryptor
}

// NewMemberUseCase creates a new MemberUseCase.
func NewMemberUseCase(memberRepo MemberRepository, cryptor Cryptor) *MemberUseCase {
	return &MemberUseCase{
		memberRepo: memberRepo,
		cryptor:    cryptor,
	}
}

// RegisterMemberInput represents input for registering a member.
type RegisterMemberInput struct {
	Name        string
	Phone       string
	CI          string
	DI          string
	PrivConsent bool
	MsgConsent  bool
}

// RegisterMember registers a member. A duplicate CI is a conflict.
func (uc *MemberUseCase) RegisterMember(ctx context.Context, input RegisterMemberInput) (*domain.Member, error) {
	ciHash := uc.cryptor.Hash(input.CI)

	exists, err := uc.memberRepo.ExistsByCIHash(ctx, ciHash)
	if err != nil {
		return nil, err
	}

	if exists {
		return nil, domain.ErrMemberAlreadyExists
	}

	phone, err := uc.cryptor.Encrypt(input.Phone)
	if err != nil {
		return nil, err
	}

	ci, err := uc.cryptor.Encrypt(input.CI)
	if err != nil {
		return nil, err
	}

	di, err := uc.cryptor.Encrypt(input.DI)
	if err != nil {
		return nil, err
	}

	member := &domain.Member{
		Name:        input.Name,
		Phone:       phone,
		PhoneHash:   uc.cryptor.Hash(input.Phone),
		CI:          ci,
		CIHash:      ciHash,
		DI:          di,
		DIHash:      uc.cryptor.Hash(input.DI),
		Status:      domain.MemberActive,
		PrivConsent: input.PrivConsent,
		MsgConsent:  input.MsgConsent,
		CreatedAt:   time.Now().UTC(),
	}

	id, err := uc.memberRepo.Create(ctx, member)
	if err != nil {
		return nil, err
	}

	member.ID = id

	return member, nil
}

// MemberView is a member with PII decrypted, optionally masked.
type MemberView struct {
	ID          int64
	Name        string
	Phone       string
	CI          string
	DI          string
	Status      domain.MemberStatus
	PrivConsent bool
	MsgConsent  bool
	CreatedAt   time.Time
}

// GetMember returns one member with decrypted PII.
func (uc *MemberUseCase) GetMember(ctx context.Context, id int64, masked bool) (*MemberView, error) {
	member, err := uc.memberRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return uc.toView(member, masked)
}

// SearchMembersInput narrows a member search. Phone is the plaintext number;
// it is hashed before it reaches the repository.
type SearchMembersInput struct {
	Name   string
	Phone  string
	Limit  int
	Offset int
}

// SearchMembers lists members matching the input, masked by default.
func (uc *MemberUseCase) SearchMembers(ctx context.Context, input SearchMembersInput, masked bool) ([]*MemberView, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	if input.Limit > 100 {
		input.Limit = 100
	}

	filter := domain.MemberSearchFilter{Name: input.Name}
	if input.Phone != "" {
		filter.PhoneHash = uc.cryptor.Hash(input.Phone)
	}

	members, err := uc.memberRepo.Search(ctx, filter, input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}

	views := make([]*MemberView, 0, len(members))
	for _, m := range members {
		v, err := uc.toView(m, masked)
		if err != nil {
			return nil, err
		}

		views = append(views, v)
	}

	return views, nil
}

// DeleteMember soft-deletes a member.
func (uc *MemberUseCase) DeleteMember(ctx context.Context, id int64) error {
	member, err := uc.memberRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if member.Status == domain.MemberDeleted {
		return domain.ErrMemberDeleted
	}

	member.Status = domain.MemberDeleted

	return uc.memberRepo.Update(ctx, member)
}

func (uc *MemberUseCase) toView(member *domain.Member, masked bool) (*MemberView, error) {
	phone, err := uc.cryptor.Decrypt(member.Phone)
	if err != nil {
		return nil, err
	}

	ci, err := uc.cryptor.Decrypt(member.CI)
	if err != nil {
		return nil, err
	}

	di, err := uc.cryptor.Decrypt(member.DI)
	if err != nil {
		return nil, err
	}

	if masked {
		phone = domain.MaskPhone(phone)
		ci = domain.MaskIdentifier(ci)
		di = domain.MaskIdentifier(di)
	}

	return &MemberView{
		ID:          member.ID,
		Name:        member.Name,
		Phone:       phone,
		CI:          ci,
		DI:          di,
		Status:      member.Status,
		PrivConsent: member.PrivConsent,
		MsgConsent:  member.MsgConsent,
		CreatedAt:   member.CreatedAt,
	}, nil
}
