// Package checkin 入場掃碼流程
package checkin

// Outcome 入場掃碼的終止狀態
//
// 拒絕入場是預期中的結果而非錯誤：只有儲存失敗才以 error 返回。
type Outcome string

const (
	OutcomeValidAdmit         Outcome = "VALID_ADMIT"
	OutcomeNoMember           Outcome = "INVALID_NO_MEMBER"
	OutcomeInactive           Outcome = "INVALID_INACTIVE"
	OutcomeExpiredAutocorrect Outcome = "INVALID_EXPIRED_AUTOCORRECT"
	OutcomeMalformedToken     Outcome = "INVALID_MALFORMED_TOKEN"
)

// 回傳給櫃檯的訊息
const (
	MessageAdmitted        = "Check-in successful"
	MessageNoMember        = "No such member"
	MessageInactive        = "Membership is inactive"
	MessageMissingDuration = "No membership duration, member is now inactive"
	MessageExpired         = "Membership expired, member is now inactive"
	MessageMalformed       = "Scan malformed, no member id found"
)

// Admitted 是否放行
func (o Outcome) Admitted() bool {
	return o == OutcomeValidAdmit
}

// String 返回狀態字串
func (o Outcome) String() string {
	return string(o)
}
