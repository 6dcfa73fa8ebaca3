// Package debit keeps the expense log: a plain text file of
// "date | amount | purpose" lines, independent of the credit side.
package debit

// Entry is one recorded expense.
type Entry struct {
	Date    string `json:"date"`
	Amount  int64  `json:"amount"`
	Purpose string `json:"purpose"`
}
