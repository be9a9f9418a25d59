package billing

import "github.com/shopspring/decimal"

// Summary 會員付款統計（作廢交易不計入）
type Summary struct {
	TotalSpent    decimal.Decimal
	TotalPayments int
}

// Summarize 計算交易列表的付款統計
func Summarize(transactions []*Transaction) Summary {
	summary := Summary{TotalSpent: decimal.Zero}
	for _, t := range transactions {
		if t.Status() == StatusVoid {
			continue
		}
		summary.TotalSpent = summary.TotalSpent.Add(t.Amount().Decimal())
		summary.TotalPayments++
	}
	return summary
}
