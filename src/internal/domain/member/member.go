package member

import (
	"time"
)

// ===========================
// Member Aggregate Root
// ===========================

// Member 帳號聚合根（role = member / staff / admin）
//
// 不變量（Invariants）：
// 1. activated == true 時必須有有效期間（window 非零且 expiry > start）
// 2. activated == false 時有效期間清空
// 3. qrToken 建立後不可變更
// 4. 只有 role == member 的帳號可以被開通
// 5. scanCount 只對 staff 有意義（該 staff 完成的入場掃碼次數）
//
// 資料庫中可能存在 activated == true 但缺少 expiry 的舊資料，
// ReconstructMember 會如實載入，由 HasMissingExpiry 回報，交給入場流程強制停用。
type Member struct {
	memberID     MemberID
	username     Username
	email        Email
	passwordHash string
	role         Role

	// 會籍狀態
	activated bool
	window    ValidityWindow

	qrToken       string
	scanCount     int
	lastCheckInAt *time.Time

	// 審計欄位
	createdAt time.Time
	updatedAt time.Time
	version   int
}

// NewMember 創建新帳號（Checked Constructor）
//
// 新帳號一律為未開通狀態；QR 內容需要 MemberID，由 AssignQRToken 在建立後寫入。
func NewMember(username Username, email Email, passwordHash string, role Role, now time.Time) (*Member, error) {
	if username.IsZero() {
		return nil, ErrInvalidUsername.WithContext("reason", "cannot be empty")
	}
	if passwordHash == "" {
		return nil, ErrInvalidPassword.WithContext("reason", "password hash is empty")
	}
	if _, err := ParseRole(role.String()); err != nil {
		return nil, err
	}

	return &Member{
		memberID:     NewMemberID(),
		username:     username,
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		createdAt:    now,
		updatedAt:    now,
		version:      1,
	}, nil
}

// MemberSnapshot 從資料庫載入時使用的原始欄位
type MemberSnapshot struct {
	MemberID      MemberID
	Username      Username
	Email         Email
	PasswordHash  string
	Role          Role
	Activated     bool
	StartTime     *time.Time
	Expiry        *time.Time
	QRToken       string
	ScanCount     int
	LastCheckInAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Version       int
}

// ReconstructMember 重建聚合（用於從資料庫載入）
//
// startTime / expiry 缺少或不成立時，window 保持零值；
// 若此時 activated 仍為 true，即為 HasMissingExpiry 異常。
func ReconstructMember(s MemberSnapshot) (*Member, error) {
	if s.MemberID.IsEmpty() {
		return nil, ErrInvalidMemberID.WithContext("reason", "empty member id")
	}
	if s.Username.IsZero() {
		return nil, ErrInvalidUsername.WithContext("member_id", s.MemberID.String())
	}

	var window ValidityWindow
	if s.Activated && s.StartTime != nil && s.Expiry != nil {
		if w, err := NewValidityWindow(*s.StartTime, *s.Expiry); err == nil {
			window = w
		}
	}

	return &Member{
		memberID:      s.MemberID,
		username:      s.Username,
		email:         s.Email,
		passwordHash:  s.PasswordHash,
		role:          s.Role,
		activated:     s.Activated,
		window:        window,
		qrToken:       s.QRToken,
		scanCount:     s.ScanCount,
		lastCheckInAt: s.LastCheckInAt,
		createdAt:     s.CreatedAt,
		updatedAt:     s.UpdatedAt,
		version:       s.Version,
	}, nil
}

// ===========================
// 會籍狀態
// ===========================

// IsValid 純函數：activated 且有 expiry 且 now <= expiry
func IsValid(m *Member, now time.Time) bool {
	return m != nil && m.activated && m.window.Covers(now)
}

// IsValid 見 IsValid(m, now)
func (m *Member) IsValid(now time.Time) bool {
	return IsValid(m, now)
}

// HasMissingExpiry activated 為 true 但沒有可用的有效期間（資料異常）
func (m *Member) HasMissingExpiry() bool {
	return m.activated && m.window.IsZero()
}

// IsExpired activated 且有效期間已過
func (m *Member) IsExpired(now time.Time) bool {
	return m.activated && !m.window.IsZero() && now.After(m.window.Expiry())
}

// Activate 開通會籍（覆寫原有效期間）
func (m *Member) Activate(window ValidityWindow, now time.Time) error {
	if m.role != RoleMember {
		return ErrProtectedTarget.WithContext(
			"member_id", m.memberID.String(),
			"role", m.role.String(),
		)
	}
	if window.IsZero() {
		return ErrDurationRequired.WithContext("member_id", m.memberID.String())
	}

	m.activated = true
	m.window = window
	m.touch(now)
	return nil
}

// Deactivate 停用會籍並清空有效期間；已是停用狀態時返回 false 且不變更任何欄位
func (m *Member) Deactivate(now time.Time) bool {
	if !m.activated && m.window.IsZero() {
		return false
	}

	m.activated = false
	m.window = ValidityWindow{}
	m.touch(now)
	return true
}

// ===========================
// 其他行為
// ===========================

// AssignQRToken 寫入 QR 內容（只能寫入一次）
func (m *Member) AssignQRToken(token string) error {
	if m.qrToken != "" {
		return ErrQRTokenAlreadyAssigned.WithContext("member_id", m.memberID.String())
	}
	m.qrToken = token
	return nil
}

// UpdateProfile 更新使用者名稱與 Email（唯一性由呼叫端檢查）
func (m *Member) UpdateProfile(username Username, email Email, now time.Time) error {
	if username.IsZero() {
		return ErrInvalidUsername.WithContext("reason", "cannot be empty")
	}
	if m.username.Equals(username) && m.email.Equals(email) {
		return nil
	}

	m.username = username
	m.email = email
	m.touch(now)
	return nil
}

// RecordScan staff 完成一次入場掃碼
func (m *Member) RecordScan(now time.Time) error {
	if m.role != RoleStaff {
		return ErrForbidden.WithContext("member_id", m.memberID.String(), "role", m.role.String())
	}
	m.scanCount++
	m.touch(now)
	return nil
}

// CheckedIn 記錄最近一次入場時間
func (m *Member) CheckedIn(now time.Time) {
	t := now
	m.lastCheckInAt = &t
}

func (m *Member) touch(now time.Time) {
	m.updatedAt = now
	m.version++
}

// ===========================
// Getters
// ===========================

func (m *Member) MemberID() MemberID        { return m.memberID }
func (m *Member) Username() Username        { return m.username }
func (m *Member) Email() Email              { return m.email }
func (m *Member) PasswordHash() string      { return m.passwordHash }
func (m *Member) Role() Role                { return m.role }
func (m *Member) Activated() bool           { return m.activated }
func (m *Member) Window() ValidityWindow    { return m.window }
func (m *Member) QRToken() string           { return m.qrToken }
func (m *Member) ScanCount() int            { return m.scanCount }
func (m *Member) LastCheckInAt() *time.Time { return m.lastCheckInAt }
func (m *Member) CreatedAt() time.Time      { return m.createdAt }
func (m *Member) UpdatedAt() time.Time      { return m.updatedAt }
func (m *Member) Version() int              { return m.version }
