package member

import (
	"errors"
	"strings"
	"time"

	"github.com/jackyeh168/gym_crm/src/internal/domain/member"
	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
	"github.com/jackyeh168/gym_crm/src/internal/infrastructure/persistence"
	"gorm.io/gorm"
)

// ===========================
// MemberRepositoryImpl
// ===========================

// MemberRepositoryImpl 帳號倉儲實現（GORM）
//
// 設計原則：
// - 實作 member.MemberRepository 接口
// - 處理 Domain 與 GORM 模型轉換
// - 將 GORM 錯誤轉換為 Domain 錯誤
type MemberRepositoryImpl struct {
	db *gorm.DB
}

// NewMemberRepository 創建新的帳號倉儲實例
func NewMemberRepository(db *gorm.DB) member.MemberRepository {
	return &MemberRepositoryImpl{db: db}
}

// Save 保存帳號（Upsert 模式）
//
// 錯誤處理：
// - username 唯一約束 → ErrUsernameTaken
// - email 唯一約束 → ErrEmailTaken
func (r *MemberRepositoryImpl) Save(tx shared.TransactionContext, m *member.Member) error {
	db := r.getDB(tx)

	if err := db.Save(toGORM(m)).Error; err != nil {
		switch {
		case persistence.IsUniqueViolationOn(err, "username"):
			return member.ErrUsernameTaken.WithContext("username", m.Username().String())
		case persistence.IsUniqueViolationOn(err, "email"):
			return member.ErrEmailTaken.WithContext("email", m.Email().String())
		}
		return repositoryError("save", err)
	}

	return nil
}

// FindByMemberID 根據 ID 查找帳號
func (r *MemberRepositoryImpl) FindByMemberID(tx shared.TransactionContext, id member.MemberID) (*member.Member, error) {
	var model MemberGORM

	if err := r.getDB(tx).Where("member_id = ?", id.String()).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, member.ErrMemberNotFound.WithContext("member_id", id.String())
		}
		return nil, repositoryError("find_by_member_id", err)
	}

	return model.toDomain()
}

// FindByUsername 根據使用者名稱查找帳號
func (r *MemberRepositoryImpl) FindByUsername(tx shared.TransactionContext, username member.Username) (*member.Member, error) {
	var model MemberGORM

	if err := r.getDB(tx).Where("username = ?", username.String()).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, member.ErrMemberNotFound.WithContext("username", username.String())
		}
		return nil, repositoryError("find_by_username", err)
	}

	return model.toDomain()
}

// ExistsByUsername 使用 COUNT 查詢，不載入完整資料
func (r *MemberRepositoryImpl) ExistsByUsername(tx shared.TransactionContext, username member.Username, exclude member.MemberID) (bool, error) {
	return r.exists(tx, "username = ?", username.String(), exclude)
}

// ExistsByEmail Email 為零值時視為不存在
func (r *MemberRepositoryImpl) ExistsByEmail(tx shared.TransactionContext, email member.Email, exclude member.MemberID) (bool, error) {
	if email.IsZero() {
		return false, nil
	}
	return r.exists(tx, "email = ?", email.String(), exclude)
}

func (r *MemberRepositoryImpl) exists(tx shared.TransactionContext, cond string, value string, exclude member.MemberID) (bool, error) {
	query := r.getDB(tx).Model(&MemberGORM{}).Where(cond, value)
	if !exclude.IsEmpty() {
		query = query.Where("member_id <> ?", exclude.String())
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, repositoryError("exists", err)
	}
	return count > 0, nil
}

// ===========================
// 條件更新
// ===========================

// DeactivateIfActive 單條 UPDATE 完成「判斷 + 停用」
//
//	UPDATE members SET activated=false, start_time=NULL, expiry=NULL, ...
//	WHERE member_id=? AND (activated=true OR start_time IS NOT NULL OR expiry IS NOT NULL)
func (r *MemberRepositoryImpl) DeactivateIfActive(tx shared.TransactionContext, id member.MemberID, now time.Time) (bool, error) {
	result := r.getDB(tx).Model(&MemberGORM{}).
		Where("member_id = ?", id.String()).
		Where("activated = ? OR start_time IS NOT NULL OR expiry IS NOT NULL", true).
		Updates(map[string]interface{}{
			"activated":  false,
			"start_time": nil,
			"expiry":     nil,
			"updated_at": now.UTC(),
			"version":    gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return false, repositoryError("deactivate_if_active", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// AdmitIfValid 單條 UPDATE 完成「有效性判斷 + 記錄入場」
//
//	UPDATE members SET last_check_in_at=?
//	WHERE member_id=? AND activated=true AND expiry IS NOT NULL AND expiry >= ?
//	  AND (last_check_in_at IS NULL OR last_check_in_at < ?)
//
// 最後一個條件讓同一會員的入場時間在儲存層嚴格遞增，多個程序同時掃碼也不會重複放行。
func (r *MemberRepositoryImpl) AdmitIfValid(tx shared.TransactionContext, id member.MemberID, now time.Time) (bool, error) {
	now = now.UTC()

	result := r.getDB(tx).Model(&MemberGORM{}).
		Where("member_id = ? AND activated = ?", id.String(), true).
		Where("expiry IS NOT NULL AND expiry >= ?", now).
		Where("last_check_in_at IS NULL OR last_check_in_at < ?", now).
		Update("last_check_in_at", now)
	if result.Error != nil {
		return false, repositoryError("admit_if_valid", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// IncrementScanCount staff 掃碼次數 +1
func (r *MemberRepositoryImpl) IncrementScanCount(tx shared.TransactionContext, staffID member.MemberID, now time.Time) error {
	result := r.getDB(tx).Model(&MemberGORM{}).
		Where("member_id = ? AND role = ?", staffID.String(), member.RoleStaff.String()).
		Updates(map[string]interface{}{
			"scan_count": gorm.Expr("scan_count + 1"),
			"updated_at": now.UTC(),
		})
	if result.Error != nil {
		return repositoryError("increment_scan_count", result.Error)
	}
	if result.RowsAffected == 0 {
		return member.ErrMemberNotFound.WithContext("member_id", staffID.String(), "role", member.RoleStaff.String())
	}

	return nil
}

// Delete 刪除帳號（實體刪除）
func (r *MemberRepositoryImpl) Delete(tx shared.TransactionContext, id member.MemberID) error {
	result := r.getDB(tx).Where("member_id = ?", id.String()).Delete(&MemberGORM{})
	if result.Error != nil {
		return repositoryError("delete", result.Error)
	}
	if result.RowsAffected == 0 {
		return member.ErrMemberNotFound.WithContext("member_id", id.String())
	}

	return nil
}

// ===========================
// 查詢
// ===========================

// List 分頁列表（建立時間新到舊）
func (r *MemberRepositoryImpl) List(tx shared.TransactionContext, filter member.ListFilter) ([]*member.Member, int64, error) {
	query := r.getDB(tx).Model(&MemberGORM{})

	if len(filter.Roles) > 0 {
		roles := make([]string, 0, len(filter.Roles))
		for _, role := range filter.Roles {
			roles = append(roles, role.String())
		}
		query = query.Where("role IN ?", roles)
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		like := likePattern(term)
		query = query.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, repositoryError("list_count", err)
	}

	page := filter.Page
	if page.Size == 0 {
		page = shared.NewPage(1, 0)
	}

	var models []MemberGORM
	err := query.Order("created_at DESC").Order("member_id").
		Offset(page.Offset()).Limit(page.Size).
		Find(&models).Error
	if err != nil {
		return nil, 0, repositoryError("list", err)
	}

	members, err := toDomainList(models)
	if err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

// FindIDsByUsernameLike 使用者名稱模糊搜尋（不分大小寫）
func (r *MemberRepositoryImpl) FindIDsByUsernameLike(tx shared.TransactionContext, term string) ([]member.MemberID, error) {
	var raw []string
	err := r.getDB(tx).Model(&MemberGORM{}).
		Where("LOWER(username) LIKE ?", likePattern(term)).
		Pluck("member_id", &raw).Error
	if err != nil {
		return nil, repositoryError("find_ids_by_username_like", err)
	}

	ids := make([]member.MemberID, 0, len(raw))
	for _, value := range raw {
		id, err := member.MemberIDFromString(value)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// FindNeedingDeactivation 已開通但 expiry 缺少或早於 now 的會員
func (r *MemberRepositoryImpl) FindNeedingDeactivation(tx shared.TransactionContext, now time.Time, limit int) ([]*member.Member, error) {
	query := r.getDB(tx).
		Where("activated = ?", true).
		Where("expiry IS NULL OR expiry < ?", now.UTC()).
		Order("expiry")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []MemberGORM
	if err := query.Find(&models).Error; err != nil {
		return nil, repositoryError("find_needing_deactivation", err)
	}
	return toDomainList(models)
}

// CountByRole 角色人數
func (r *MemberRepositoryImpl) CountByRole(tx shared.TransactionContext, role member.Role) (int64, error) {
	var count int64
	err := r.getDB(tx).Model(&MemberGORM{}).Where("role = ?", role.String()).Count(&count).Error
	if err != nil {
		return 0, repositoryError("count_by_role", err)
	}
	return count, nil
}

// CountActive 目前有效的會員數
func (r *MemberRepositoryImpl) CountActive(tx shared.TransactionContext, now time.Time) (int64, error) {
	var count int64
	err := r.getDB(tx).Model(&MemberGORM{}).
		Where("role = ? AND activated = ?", member.RoleMember.String(), true).
		Where("expiry IS NOT NULL AND expiry >= ?", now.UTC()).
		Count(&count).Error
	if err != nil {
		return 0, repositoryError("count_active", err)
	}
	return count, nil
}

// CountCreatedSince since 之後（含）建立的帳號數
func (r *MemberRepositoryImpl) CountCreatedSince(tx shared.TransactionContext, role member.Role, since time.Time) (int64, error) {
	var count int64
	err := r.getDB(tx).Model(&MemberGORM{}).
		Where("role = ? AND created_at >= ?", role.String(), since.UTC()).
		Count(&count).Error
	if err != nil {
		return 0, repositoryError("count_created_since", err)
	}
	return count, nil
}

// getDB 有事務時使用事務中的 DB，否則使用預設 DB（auto-commit 模式）
func (r *MemberRepositoryImpl) getDB(tx shared.TransactionContext) *gorm.DB {
	return persistence.DBFrom(tx, r.db)
}

// ===========================
// Helper Functions
// ===========================

func toDomainList(models []MemberGORM) ([]*member.Member, error) {
	members := make([]*member.Member, 0, len(models))
	for i := range models {
		m, err := models[i].toDomain()
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, nil
}

func likePattern(term string) string {
	return "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
}

func repositoryError(op string, err error) error {
	return member.ErrRepositoryError.WithContext("op", op).Wrap(err)
}
