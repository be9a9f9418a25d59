// Package delivery 定義對外介面（HTTP、排程）的共同生命週期。
package delivery

import "context"

// Delivery 由 cmd 啟動的對外服務
type Delivery interface {
	Serve(ctx context.Context) error
}
