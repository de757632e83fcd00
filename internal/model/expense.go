package model

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"
)

// Expense is a single recorded spending event.
type Expense struct {
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Date        Date      `json:"date"`
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Amount      int64     `json:"amount"`
	CategoryID  int       `json:"categoryId"`
}

// ExpenseInput is the user-supplied part of an expense.
type ExpenseInput struct {
	Date        Date
	Description string
	Amount      int64
	CategoryID  int
}

// Input strips the store-assigned fields from an expense.
func (e Expense) Input() ExpenseInput {
	return ExpenseInput{
		Date:        e.Date,
		Description: e.Description,
		Amount:      e.Amount,
		CategoryID:  e.CategoryID,
	}
}

// Fingerprint identifies an expense by its content, for duplicate detection on import.
func (in ExpenseInput) Fingerprint() string {
	data := fmt.Sprintf("%s:%d:%s:%d",
		in.Date.String(),
		in.Amount,
		strings.ToLower(strings.TrimSpace(in.Description)),
		in.CategoryID)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
