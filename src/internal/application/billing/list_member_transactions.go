package billing

import (
	"context"

	"github.com/jackyeh168/gym_crm/src/internal/domain/billing"
	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
)

// ListMemberTransactionsQuery 查詢會員付款紀錄
//
// MemberID 為空時查詢操作者自己；查詢他人需要 staff / admin。
type ListMemberTransactionsQuery struct {
	Actor    member.Actor
	MemberID string
}

// ListMemberTransactionsResult 付款紀錄與統計（作廢交易列出但不計入統計）
type ListMemberTransactionsResult struct {
	MemberID      string
	Transactions  []TransactionDTO
	TotalSpent    string
	TotalPayments int
}

// ListMemberTransactionsUseCase 會員付款紀錄
type ListMemberTransactionsUseCase interface {
	Execute(ctx context.Context, query ListMemberTransactionsQuery) (*ListMemberTransactionsResult, error)
}

// ListMemberTransactionsUseCaseImpl 實作
type ListMemberTransactionsUseCaseImpl struct {
	memberRepo      member.MemberRepository
	transactionRepo billing.TransactionRepository
}

// NewListMemberTransactionsUseCase 建構函數
func NewListMemberTransactionsUseCase(memberRepo member.MemberRepository, transactionRepo billing.TransactionRepository) ListMemberTransactionsUseCase {
	return &ListMemberTransactionsUseCaseImpl{memberRepo: memberRepo, transactionRepo: transactionRepo}
}

// Execute 執行查詢
func (uc *ListMemberTransactionsUseCaseImpl) Execute(ctx context.Context, query ListMemberTransactionsQuery) (*ListMemberTransactionsResult, error) {
	memberID := query.Actor.ID
	if query.MemberID != "" && query.MemberID != query.Actor.ID.String() {
		if err := query.Actor.Require(member.RoleStaff, member.RoleAdmin); err != nil {
			return nil, err
		}
		id, err := member.MemberIDFromString(query.MemberID)
		if err != nil {
			return nil, err
		}
		memberID = id
	}

	if _, err := uc.memberRepo.FindByMemberID(nil, memberID); err != nil {
		return nil, err
	}

	transactions, err := uc.transactionRepo.FindByMemberID(nil, memberID)
	if err != nil {
		return nil, err
	}

	summary := billing.Summarize(transactions)
	result := &ListMemberTransactionsResult{
		MemberID:      memberID.String(),
		Transactions:  make([]TransactionDTO, 0, len(transactions)),
		TotalSpent:    summary.TotalSpent.StringFixed(2),
		TotalPayments: summary.TotalPayments,
	}
	for _, t := range transactions {
		result.Transactions = append(result.Transactions, toTransactionDTO(t))
	}
	return result, nil
}
