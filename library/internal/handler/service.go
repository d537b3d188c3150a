package handler

import (
	"context"

	"github.com/libhub/library-api/library/internal/model"
	"github.com/libhub/library-api/library/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type BookService interface {
	Save(ctx context.Context, book model.Book) (model.Book, error)
	GetByID(ctx context.Context, id int64) (model.Book, error)
	Update(ctx context.Context, book model.Book) (model.Book, error)
	Delete(ctx context.Context, book model.Book) error
	Find(ctx context.Context, filter model.BookFilter, page, size int) (model.BookPage, error)
}

type LoanService interface {
	CreateLoan(ctx context.Context, req model.CreateLoanRequest) (model.Loan, error)
	ReturnLoan(ctx context.Context, id int64, returned bool) (model.Loan, error)
	FindLoans(ctx context.Context, filter model.LoanFilter, page, size int) (model.LoanPage, error)
	GetLoansByBook(ctx context.Context, bookID int64, page, size int) (model.LoanPage, error)
}

var _ BookService = (*service.Book)(nil)
var _ LoanService = (*service.Loan)(nil)
