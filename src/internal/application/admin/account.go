package admin

import (
	"time"

	"github.com/jackyeh168/gym_crm/src/internal/domain/audit"
	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/jackyeh168/gym_crm/src/internal/domain/service"
	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
)

type accountInput struct {
	Username string
	Email    string
	Password string
	Role     member.Role
}

// createAccount 驗證、檢查重複並保存一個沒有 QR 的帳號（staff / admin）
func createAccount(tx shared.TransactionContext, repo member.MemberRepository, hasher service.PasswordHasher, in accountInput, now time.Time) (*member.Member, error) {
	username, err := member.NewUsername(in.Username)
	if err != nil {
		return nil, err
	}
	email, err := member.NewOptionalEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if err := member.ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	exists, err := repo.ExistsByUsername(tx, username, member.MemberID{})
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, member.ErrUsernameTaken.WithContext("username", username.String())
	}
	if !email.IsZero() {
		exists, err = repo.ExistsByEmail(tx, email, member.MemberID{})
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, member.ErrEmailTaken.WithContext("email", email.String())
		}
	}

	hash, err := hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	account, err := member.NewMember(username, email, hash, in.Role, now)
	if err != nil {
		return nil, err
	}
	if err := repo.Save(tx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func appendAudit(tx shared.TransactionContext, repo audit.EntryRepository, subject, actor member.MemberID, action audit.Action, description string, at time.Time) error {
	entry, err := audit.NewEntry(subject, actor, action, description, at)
	if err != nil {
		return err
	}
	return repo.Append(tx, entry)
}
