package model

import "time"

type Book struct {
	ID     int64  `json:"id" db:"id"`
	Title  string `json:"title" db:"title"`
	Author string `json:"author" db:"author"`
	ISBN   string `json:"isbn" db:"isbn"`
}

// Loan references its Book by id; the Book field is filled on read
// for presentation and is never written back through a loan.
type Loan struct {
	ID            int64     `json:"id" db:"id"`
	BookID        int64     `json:"bookId" db:"book_id"`
	Customer      string    `json:"customer" db:"customer"`
	CustomerEmail string    `json:"customerEmail,omitempty" db:"customer_email"`
	LoanDate      time.Time `json:"loanDate" db:"loan_date"`
	Returned      bool      `json:"returned" db:"returned"`
	Book          *Book     `json:"book,omitempty" db:"-"`
}

// BookFilter is a filter-by-example: empty fields are ignored, populated
// fields match by case-insensitive substring and combine with AND.
type BookFilter struct {
	Title  string
	Author string
	ISBN   string
}

// LoanFilter matches loans whose book isbn equals ISBN OR whose customer
// equals Customer. The OR is deliberate and mirrors the ledger query.
type LoanFilter struct {
	ISBN     string
	Customer string
}

type Pageable struct {
	PageNumber int `json:"pageNumber"`
	PageSize   int `json:"pageSize"`
}

type BookPage struct {
	Content       []Book   `json:"content"`
	TotalElements int      `json:"totalElements"`
	Pageable      Pageable `json:"pageable"`
}

type LoanPage struct {
	Content       []Loan   `json:"content"`
	TotalElements int      `json:"totalElements"`
	Pageable      Pageable `json:"pageable"`
}

type CreateBookRequest struct {
	Title  string `json:"title" validate:"required"`
	Author string `json:"author" validate:"required"`
	ISBN   string `json:"isbn" validate:"required"`
}

type UpdateBookRequest struct {
	Title  string `json:"title" validate:"required"`
	Author string `json:"author" validate:"required"`
}

type CreateLoanRequest struct {
	ISBN          string `json:"isbn" validate:"required"`
	Customer      string `json:"customer" validate:"required"`
	CustomerEmail string `json:"customerEmail" validate:"omitempty,email"`
}

type ReturnLoanRequest struct {
	Returned bool `json:"returned"`
}

const (
	LoanCreated  = "loan.created"
	LoanReturned = "loan.returned"
)

type LoanEvent struct {
	EventID  string    `json:"eventId"`
	Type     string    `json:"type"`
	LoanID   int64     `json:"loanId"`
	BookID   int64     `json:"bookId"`
	ISBN     string    `json:"isbn"`
	Customer string    `json:"customer"`
	At       time.Time `json:"at"`
}
