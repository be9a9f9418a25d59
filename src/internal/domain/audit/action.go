package audit

// Action 審計動作標籤
type Action string

const (
	ActionScannedQR         Action = "Scanned QR"
	ActionEditedMember      Action = "Edited member details"
	ActionActivatedMember   Action = "Activated member"
	ActionDeactivatedMember Action = "Deactivated member"
	ActionUserRegistered    Action = "User Registered"
	ActionDeletedMember     Action = "Deleted member"
	ActionCreatedStaff      Action = "Created staff"
	ActionDeletedStaff      Action = "Deleted staff"
	ActionMembershipExpired Action = "Membership expired"
	ActionMissingDuration   Action = "No membership duration"
)

// String 返回動作標籤
func (a Action) String() string {
	return string(a)
}

// Actions 所有審計動作（查詢下拉選單）
var Actions = []Action{
	ActionScannedQR,
	ActionEditedMember,
	ActionActivatedMember,
	ActionDeactivatedMember,
	ActionUserRegistered,
	ActionDeletedMember,
	ActionCreatedStaff,
	ActionDeletedStaff,
	ActionMembershipExpired,
	ActionMissingDuration,
}

// ParseAction 解析動作標籤；空字串代表不限
func ParseAction(value string) (Action, error) {
	if value == "" {
		return "", nil
	}
	for _, action := range Actions {
		if string(action) == value {
			return action, nil
		}
	}
	return "", ErrInvalidFilter.WithContext("action", value)
}
