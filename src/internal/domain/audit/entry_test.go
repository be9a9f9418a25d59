package audit

import (
	"errors"
	"testing"
	"time"

	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry_DefaultsDescriptionToAction(t *testing.T) {
	subject := member.NewMemberID()

	e, err := NewEntry(subject, member.MemberID{}, ActionUserRegistered, "", filterNow)

	require.NoError(t, err)
	assert.Equal(t, "User Registered", e.Description())
	assert.False(t, e.HasActor())
	assert.True(t, e.SubjectID().Equals(subject))
}

func TestNewEntry_MissingSubject_ReturnsError(t *testing.T) {
	_, err := NewEntry(member.MemberID{}, member.NewMemberID(), ActionScannedQR, "", filterNow)

	assert.True(t, errors.Is(err, ErrInvalidEntry))
}

func TestNewCheckInLog(t *testing.T) {
	memberID, staffID := member.NewMemberID(), member.NewMemberID()
	at := filterNow.Add(time.Minute)

	l := NewCheckInLog(memberID, staffID, at)

	assert.False(t, l.ID().IsEmpty())
	assert.True(t, l.StaffID().Equals(staffID))
	assert.Equal(t, at, l.CheckedInAt())
}

func TestParseAction(t *testing.T) {
	action, err := ParseAction("Scanned QR")
	require.NoError(t, err)
	assert.Equal(t, ActionScannedQR, action)

	action, err = ParseAction("")
	require.NoError(t, err)
	assert.Equal(t, Action(""), action)

	_, err = ParseAction("Dropped tables")
	assert.True(t, errors.Is(err, ErrInvalidFilter))
}
