package amqp

import (
	"encoding/json"
	"time"

	"tracker/internal/core"
)

// RoutingKey is used for every transaction event.
const RoutingKey = "transaction.recorded"

// Transaction kinds carried in TransactionMessage.Kind.
const (
	KindExpense = "expense"
	KindIncome  = "income"
)

// TransactionMessage announces a row that has been persisted. Label holds the
// category for expenses and the source for income.
type TransactionMessage struct {
	Kind      string    `json:"kind"`
	ID        int64     `json:"id"`
	Date      string    `json:"date"`
	Label     string    `json:"label"`
	Amount    string    `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExpenseMessage(e core.Expense) *TransactionMessage {
	return &TransactionMessage{
		Kind:      KindExpense,
		ID:        e.ID,
		Date:      e.Date.String(),
		Label:     string(e.Category),
		Amount:    e.Amount.StringFixed(2),
		Timestamp: time.Now(),
	}
}

func NewIncomeMessage(i core.Income) *TransactionMessage {
	return &TransactionMessage{
		Kind:      KindIncome,
		ID:        i.ID,
		Date:      i.Date.String(),
		Label:     string(i.Source),
		Amount:    i.Amount.StringFixed(2),
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
