// Package lock 提供行程內以 key 區分的互斥鎖。
package lock

import (
	"sync"

	"github.com/jackyeh168/gym_crm/src/internal/domain/shared"
)

// KeyedMutex 每個 key 一把鎖；沒有持有者時釋放該 key 的紀錄
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// NewKeyedMutex 建構函數
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*entry)}
}

// NewLocker 以 shared.Locker 介面提供（fx 注入）
func NewLocker() shared.Locker {
	return NewKeyedMutex()
}

// Lock 取得 key 的鎖，返回解鎖函數（只能呼叫一次）
func (k *KeyedMutex) Lock(key string) func() {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &entry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Unlock()

			k.mu.Lock()
			e.refs--
			if e.refs == 0 {
				delete(k.locks, key)
			}
			k.mu.Unlock()
		})
	}
}

// Len 目前有人持有或等待的 key 數量
func (k *KeyedMutex) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
