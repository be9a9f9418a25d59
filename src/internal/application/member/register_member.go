package member

import (
	"context"

	"github.com/jackyeh168/gym_crm/src/internal/domain/audit"
	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/jackyeh168/gym_crm/src/internal/domain/service"
	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
)

// ===========================
// UC-001: RegisterMember Use Case
// ===========================

// RegisterMemberCommand 註冊會員指令（Input DTO）
//
// 設計原則：
// - 只包含外部輸入數據
// - 使用原始類型（string），由 Use Case 轉換為 Value Object
type RegisterMemberCommand struct {
	Username string // 最多 16 個字元，不含空白
	Email    string // 選填
	Password string // 至少 6 個字元
}

// RegisterMemberResult 註冊會員結果（Output DTO）
type RegisterMemberResult struct {
	MemberID string
	Username string
	Email    string
	QRCode   []byte // PNG
}

// RegisterMemberUseCase 註冊會員 Use Case 接口
//
// 業務規則：
// 1. Username 不能重複
// 2. Email 提供時不能重複
// 3. 密碼以 bcrypt 雜湊後保存
// 4. 新帳號角色為 member，未開通
// 5. QR 內容為 {id, username, email}，建立後不可變更
// 6. 寫入審計日誌 "User Registered"（自助操作，沒有 actor）
type RegisterMemberUseCase interface {
	Execute(ctx context.Context, cmd RegisterMemberCommand) (*RegisterMemberResult, error)
}

// ===========================
// RegisterMemberUseCaseImpl
// ===========================

// RegisterMemberUseCaseImpl 註冊會員 Use Case 實作
//
// 職責：
// 1. 驗證輸入（轉換為 Value Object）
// 2. 檢查業務規則（重複性）
// 3. 調用 Domain 對象執行邏輯
// 4. 協調事務（使用 TransactionManager）
type RegisterMemberUseCaseImpl struct {
	memberRepo member.MemberRepository
	auditRepo  audit.EntryRepository
	hasher     service.PasswordHasher
	qrCode     service.QRCodeService
	txManager  shared.TransactionManager
	clock      shared.Clock
}

// NewRegisterMemberUseCase 創建 RegisterMemberUseCase 實例
func NewRegisterMemberUseCase(
	memberRepo member.MemberRepository,
	auditRepo audit.EntryRepository,
	hasher service.PasswordHasher,
	qrCode service.QRCodeService,
	txManager shared.TransactionManager,
	clock shared.Clock,
) RegisterMemberUseCase {
	return &RegisterMemberUseCaseImpl{
		memberRepo: memberRepo,
		auditRepo:  auditRepo,
		hasher:     hasher,
		qrCode:     qrCode,
		txManager:  txManager,
		clock:      clock,
	}
}

// Execute 執行註冊會員 Use Case
//
// 業務流程：
//  1. 驗證輸入並轉換為 Value Object，雜湊密碼
//  2. 在事務中執行：
//     a. 檢查 Username / Email 是否已被使用
//     b. 創建 Member 聚合並寫入 QR 內容
//     c. 保存並寫審計日誌
//  3. 渲染 QR PNG 並返回
//
// 錯誤處理：
// - 輸入驗證失敗 → ValidationError
// - Username 已存在 → member.ErrUsernameTaken
// - Email 已存在 → member.ErrEmailTaken
//
// 並行註冊同一個 Username 時，唯一索引保證只有一個成功，另一個同樣得到 ErrUsernameTaken。
func (uc *RegisterMemberUseCaseImpl) Execute(ctx context.Context, cmd RegisterMemberCommand) (*RegisterMemberResult, error) {
	// Step 1: 驗證輸入
	username, err := member.NewUsername(cmd.Username)
	if err != nil {
		return nil, err
	}
	email, err := member.NewOptionalEmail(cmd.Email)
	if err != nil {
		return nil, err
	}
	if err := member.ValidatePassword(cmd.Password); err != nil {
		return nil, err
	}

	hash, err := uc.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, err
	}

	// Step 2: 在事務中執行業務邏輯
	var newMember *member.Member

	err = uc.txManager.InTransaction(ctx, func(tx shared.TransactionContext) error {
		if err := ensureAvailable(tx, uc.memberRepo, username, email, member.MemberID{}); err != nil {
			return err
		}

		now := uc.clock.Now()
		newMember, err = member.NewMember(username, email, hash, member.RoleMember, now)
		if err != nil {
			return err
		}

		token, err := uc.qrCode.Token(service.QRPayload{
			ID:       newMember.MemberID().String(),
			Username: username.String(),
			Email:    email.String(),
		})
		if err != nil {
			return err
		}
		if err := newMember.AssignQRToken(token); err != nil {
			return err
		}

		if err := uc.memberRepo.Save(tx, newMember); err != nil {
			return err
		}

		return appendAudit(tx, uc.auditRepo, newMember.MemberID(), member.MemberID{}, audit.ActionUserRegistered, "", now)
	})
	if err != nil {
		return nil, err
	}

	// Step 3: 渲染 QR（帳號已建立；渲染失敗時可由 GetQRCode 重新取得）
	png, err := uc.qrCode.Render(newMember.QRToken())
	if err != nil {
		return nil, err
	}

	return &RegisterMemberResult{
		MemberID: newMember.MemberID().String(),
		Username: newMember.Username().String(),
		Email:    newMember.Email().String(),
		QRCode:   png,
	}, nil
}

// ensureAvailable 檢查 username / email 沒有被 exclude 以外的帳號使用
func ensureAvailable(tx shared.TransactionContext, repo member.MemberRepository, username member.Username, email member.Email, exclude member.MemberID) error {
	exists, err := repo.ExistsByUsername(tx, username, exclude)
	if err != nil {
		return err
	}
	if exists {
		return member.ErrUsernameTaken.WithContext("username", username.String())
	}

	if email.IsZero() {
		return nil
	}
	exists, err = repo.ExistsByEmail(tx, email, exclude)
	if err != nil {
		return err
	}
	if exists {
		return member.ErrEmailTaken.WithContext("email", email.String())
	}
	return nil
}
