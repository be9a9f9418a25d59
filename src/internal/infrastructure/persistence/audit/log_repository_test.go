package audit

import (
	"testing"
	"time"

	"github.com/jackyeh168/gym_crm/src/internal/domain/audit"
	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
	"github.com/jackyeh168/gym_crm/src/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var day = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	return persistence.OpenTestDB(t, &AuditLogGORM{}, &CheckInLogGORM{})
}

func appendEntry(t *testing.T, repo audit.EntryRepository, subject, actor member.MemberID, action audit.Action, at time.Time) *audit.Entry {
	e, err := audit.NewEntry(subject, actor, action, "", at)
	require.NoError(t, err)
	require.NoError(t, repo.Append(nil, e))
	return e
}

// Test 1: Append and Find round trip, actor optional
func TestEntryRepository_AppendFind(t *testing.T) {
	// Arrange
	repo := NewEntryRepository(setupTestDB(t))
	subject := member.NewMemberID()
	registered := appendEntry(t, repo, subject, member.MemberID{}, audit.ActionUserRegistered, day.Add(time.Hour))
	staff := member.NewMemberID()
	scanned := appendEntry(t, repo, subject, staff, audit.ActionScannedQR, day.Add(2*time.Hour))

	// Act
	entries, total, err := repo.Find(nil, audit.LogFilter{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, entries, 2)
	assert.Equal(t, scanned.ID(), entries[0].ID(), "newest first")
	assert.True(t, entries[0].ActorID().Equals(staff))
	assert.Equal(t, registered.ID(), entries[1].ID())
	assert.False(t, entries[1].HasActor())
	assert.Equal(t, "User Registered", entries[1].Description())
}

// Test 2: Filters by member ids (subject or actor), action and range
func TestEntryRepository_Find_Filters(t *testing.T) {
	// Arrange
	repo := NewEntryRepository(setupTestDB(t))
	alice, bob, staff := member.NewMemberID(), member.NewMemberID(), member.NewMemberID()
	appendEntry(t, repo, alice, staff, audit.ActionScannedQR, day.Add(9*time.Hour))
	appendEntry(t, repo, alice, staff, audit.ActionActivatedMember, day.Add(10*time.Hour))
	appendEntry(t, repo, bob, staff, audit.ActionScannedQR, day.AddDate(0, 0, 1))
	appendEntry(t, repo, bob, member.MemberID{}, audit.ActionUserRegistered, day.Add(11*time.Hour))

	from := day
	to := day.Add(24*time.Hour - time.Millisecond)

	// Act
	byMember, memberTotal, err1 := repo.Find(nil, audit.LogFilter{MemberIDs: []member.MemberID{alice}})
	byActor, actorTotal, err2 := repo.Find(nil, audit.LogFilter{MemberIDs: []member.MemberID{staff}, Action: audit.ActionScannedQR})
	inDay, dayTotal, err3 := repo.Find(nil, audit.LogFilter{Range: audit.TimeRange{From: &from, To: &to}})
	none, noneTotal, err4 := repo.Find(nil, audit.LogFilter{MemberIDs: []member.MemberID{}})

	// Assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	require.NoError(t, err3)
	require.NoError(t, err4)
	assert.Equal(t, int64(2), memberTotal)
	assert.Len(t, byMember, 2)
	assert.Equal(t, int64(2), actorTotal)
	assert.Len(t, byActor, 2)
	assert.Equal(t, int64(3), dayTotal)
	assert.Len(t, inDay, 3)
	assert.Equal(t, int64(0), noneTotal)
	assert.Empty(t, none)
}

// Test 3: Pagination keeps total
func TestEntryRepository_Find_Pagination(t *testing.T) {
	// Arrange
	repo := NewEntryRepository(setupTestDB(t))
	subject := member.NewMemberID()
	for i := 0; i < 12; i++ {
		appendEntry(t, repo, subject, member.MemberID{}, audit.ActionEditedMember, day.Add(time.Duration(i)*time.Minute))
	}

	// Act
	page2, total, err := repo.Find(nil, audit.LogFilter{Page: shared.NewPage(2, 10)})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	assert.Len(t, page2, 2)
	assert.True(t, page2[1].OccurredAt().Equal(day), "oldest entry is last on the last page")
}

// Test 4: CheckInLog append and find by staff
func TestCheckInLogRepository_AppendFind(t *testing.T) {
	// Arrange
	repo := NewCheckInLogRepository(setupTestDB(t))
	memberID, staffA, staffB := member.NewMemberID(), member.NewMemberID(), member.NewMemberID()
	require.NoError(t, repo.Append(nil, audit.NewCheckInLog(memberID, staffA, day.Add(8*time.Hour))))
	require.NoError(t, repo.Append(nil, audit.NewCheckInLog(memberID, staffB, day.Add(9*time.Hour))))

	// Act
	all, total, err := repo.Find(nil, audit.LogFilter{MemberIDs: []member.MemberID{memberID}})
	byStaff, staffTotal, err2 := repo.Find(nil, audit.LogFilter{MemberIDs: []member.MemberID{staffA}})

	// Assert
	require.NoError(t, err)
	require.NoError(t, err2)
	assert.Equal(t, int64(2), total)
	require.Len(t, all, 2)
	assert.True(t, all[0].StaffID().Equals(staffB))
	assert.Equal(t, int64(1), staffTotal)
	require.Len(t, byStaff, 1)
	assert.True(t, byStaff[0].CheckedInAt().Equal(day.Add(8*time.Hour)))
}
