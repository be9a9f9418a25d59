package shared

// DefaultPageSize 列表查詢預設每頁筆數
const DefaultPageSize = 10

// MaxPageSize 每頁上限
const MaxPageSize = 100

// Page 分頁參數（Number 從 1 開始）
type Page struct {
	Number int
	Size   int
}

// NewPage 正規化分頁參數
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

// Offset 資料庫 OFFSET
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// TotalPages 依總筆數計算總頁數
func (p Page) TotalPages(total int64) int {
	if p.Size <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(p.Size) - 1) / int64(p.Size))
}
