package shared

// Locker 以 key 為單位的互斥鎖
//
// 會員是互斥單位：同一會員的狀態變更（掃碼、開通、停用）依序執行，
// 不同會員之間互不阻塞。
type Locker interface {
	// Lock 阻塞直到取得 key 的鎖，返回釋放函數
	Lock(key string) (unlock func())
}
