package member

import (
	"time"

	"github.com/jackyeh168/gym_crm/src/internal/domain/audit"
	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
)

func appendAudit(tx shared.TransactionContext, repo audit.EntryRepository, subject, actor member.MemberID, action audit.Action, description string, at time.Time) error {
	entry, err := audit.NewEntry(subject, actor, action, description, at)
	if err != nil {
		return err
	}
	return repo.Append(tx, entry)
}
