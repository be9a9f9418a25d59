package member

import (
	"time"

	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
)

// ===========================
// GORM Models
// ===========================

// MemberGORM 帳號資料表模型（member / staff / admin 共用一張表）
//
// 資料庫約束：
// - member_id: 主鍵（UUID）
// - username: 唯一索引
// - email: 唯一索引，可為空（多筆 NULL 不衝突）
// - start_time / expiry: 只在 activated 時有值
//
// created_at / updated_at 由 Domain 的 Clock 決定，關閉 GORM 自動時間戳。
type MemberGORM struct {
	MemberID     string  `gorm:"column:member_id;type:varchar(36);primaryKey"`
	Username     string  `gorm:"column:username;type:varchar(16);uniqueIndex:idx_members_username;not null"`
	Email        *string `gorm:"column:email;type:varchar(255);uniqueIndex:idx_members_email"`
	PasswordHash string  `gorm:"column:password_hash;type:varchar(255);not null"`
	Role         string  `gorm:"column:role;type:varchar(16);index;not null"`

	// 會籍狀態
	Activated bool       `gorm:"column:activated;not null;default:false;index"`
	StartTime *time.Time `gorm:"column:start_time"`
	Expiry    *time.Time `gorm:"column:expiry;index"`

	QRToken       string     `gorm:"column:qr_token;type:text"`
	ScanCount     int        `gorm:"column:scan_count;not null;default:0"`
	LastCheckInAt *time.Time `gorm:"column:last_check_in_at"`

	// 審計欄位
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime:false;index"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoUpdateTime:false"`
	Version   int       `gorm:"column:version;not null;default:1"`
}

// TableName 指定資料表名稱
func (MemberGORM) TableName() string {
	return "members"
}

// ===========================
// Mapper Functions
// ===========================

// toDomain 將 GORM 模型轉換為 Domain 模型
//
// start_time / expiry 原樣交給 ReconstructMember：
// activated 但缺少 expiry 的舊資料不在這裡修正，由入場流程偵測並停用。
func (m *MemberGORM) toDomain() (*member.Member, error) {
	memberID, err := member.MemberIDFromString(m.MemberID)
	if err != nil {
		return nil, err
	}

	username, err := member.NewUsername(m.Username)
	if err != nil {
		return nil, err
	}

	var email member.Email
	if m.Email != nil {
		email, err = member.NewOptionalEmail(*m.Email)
		if err != nil {
			return nil, err
		}
	}

	role, err := member.ParseRole(m.Role)
	if err != nil {
		return nil, err
	}

	return member.ReconstructMember(member.MemberSnapshot{
		MemberID:      memberID,
		Username:      username,
		Email:         email,
		PasswordHash:  m.PasswordHash,
		Role:          role,
		Activated:     m.Activated,
		StartTime:     m.StartTime,
		Expiry:        m.Expiry,
		QRToken:       m.QRToken,
		ScanCount:     m.ScanCount,
		LastCheckInAt: m.LastCheckInAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
		Version:       m.Version,
	})
}

// toGORM 將 Domain 模型轉換為 GORM 模型（時間一律以 UTC 儲存）
func toGORM(m *member.Member) *MemberGORM {
	var email *string
	if !m.Email().IsZero() {
		value := m.Email().String()
		email = &value
	}

	model := &MemberGORM{
		MemberID:      m.MemberID().String(),
		Username:      m.Username().String(),
		Email:         email,
		PasswordHash:  m.PasswordHash(),
		Role:          m.Role().String(),
		Activated:     m.Activated(),
		QRToken:       m.QRToken(),
		ScanCount:     m.ScanCount(),
		LastCheckInAt: utcPtr(m.LastCheckInAt()),
		CreatedAt:     m.CreatedAt().UTC(),
		UpdatedAt:     m.UpdatedAt().UTC(),
		Version:       m.Version(),
	}

	if window := m.Window(); !window.IsZero() {
		start, expiry := window.Start(), window.Expiry()
		model.StartTime = &start
		model.Expiry = &expiry
	}

	return model
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
