package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"

	"github.com/libhub/library-api/library/internal/model"
)

//go:generate go run github.com/golang/mock/mockgen -source=repository.go -destination=mocks/mock.go

type BookRepository interface {
	Create(ctx context.Context, book model.Book) (model.Book, error)
	GetByID(ctx context.Context, id int64) (model.Book, error)
	GetByISBN(ctx context.Context, isbn string) (model.Book, error)
	Update(ctx context.Context, book model.Book) error
	Delete(ctx context.Context, book model.Book) error
	Find(ctx context.Context, filter model.BookFilter, page, size int) (model.BookPage, error)
}

type LoanRepository interface {
	Create(ctx context.Context, loan model.Loan) (model.Loan, error)
	GetByID(ctx context.Context, id int64) (model.Loan, error)
	Update(ctx context.Context, loan model.Loan) error
	Find(ctx context.Context, filter model.LoanFilter, page, size int) (model.LoanPage, error)
	ExistsActiveLoan(ctx context.Context, bookID int64) (bool, error)
	FindOverdue(ctx context.Context, olderThan time.Time) ([]model.Loan, error)
	GetByBook(ctx context.Context, bookID int64, page, size int) (model.LoanPage, error)
}

const (
	booksTableName = `books`
	loansTableName = `loans`

	defaultPageSize = 20
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func pageOffset(page, size int) (int, uint64) {
	if size <= 0 {
		size = defaultPageSize
	}
	if page < 0 {
		page = 0
	}
	return size, uint64(page * size)
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation && pgErr.ConstraintName == constraint
	}
	return false
}
