package audit

import "github.com/jackyeh168/gym_crm/src/internal/domain/shared"

// EntryMarker 審計日誌 ID 標記類型
type EntryMarker struct{}

// EntryID 審計日誌 ID
type EntryID = shared.EntityID[EntryMarker]

// CheckInLogMarker 入場紀錄 ID 標記類型
type CheckInLogMarker struct{}

// CheckInLogID 入場紀錄 ID
type CheckInLogID = shared.EntityID[CheckInLogMarker]
