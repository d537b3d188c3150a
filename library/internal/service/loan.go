package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/libhub/library-api/library/internal/errs"
	"github.com/libhub/library-api/library/internal/model"
	"github.com/libhub/library-api/library/internal/repository"
)

type Loan struct {
	books repository.BookRepository
	loans repository.LoanRepository
	pub   EventPublisher
	clock Clock
	log   *zap.Logger
}

func NewLoan(books repository.BookRepository, loans repository.LoanRepository, pub EventPublisher, clock Clock, log *zap.Logger) *Loan {
	return &Loan{
		books: books,
		loans: loans,
		pub:   pub,
		clock: clock,
		log:   log.Named("loan-svc"),
	}
}

// CreateLoan opens a loan for the book with the given isbn. The pre-check on
// an open loan gives a clean error; the partial unique index remains the
// authority under concurrent creates.
func (s *Loan) CreateLoan(ctx context.Context, req model.CreateLoanRequest) (model.Loan, error) {
	book, err := s.books.GetByISBN(ctx, req.ISBN)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.Loan{}, errs.ErrBookNotFound
		}
		return model.Loan{}, err
	}

	exists, err := s.loans.ExistsActiveLoan(ctx, book.ID)
	if err != nil {
		return model.Loan{}, err
	}
	if exists {
		return model.Loan{}, errs.ErrBookAlreadyLoaned
	}

	loan := model.Loan{
		BookID:        book.ID,
		Customer:      req.Customer,
		CustomerEmail: req.CustomerEmail,
		LoanDate:      s.clock.Today(),
		Returned:      false,
	}
	loan, err = s.loans.Create(ctx, loan)
	if err != nil {
		return model.Loan{}, err
	}
	loan.Book = &book

	s.publish(model.LoanCreated, loan, book)

	return loan, nil
}

// ReturnLoan flips the returned flag. A loan already in the requested state
// is left untouched; the call still succeeds.
func (s *Loan) ReturnLoan(ctx context.Context, id int64, returned bool) (model.Loan, error) {
	if id == 0 {
		s.log.Warn("return without id")
		return model.Loan{}, errs.ErrInvalidArgument
	}
	loan, err := s.loans.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.Loan{}, errs.ErrLoanNotFound
		}
		return model.Loan{}, err
	}
	if loan.Returned == returned {
		return loan, nil
	}

	loan.Returned = returned
	if err := s.loans.Update(ctx, loan); err != nil {
		return model.Loan{}, err
	}

	if returned {
		var book model.Book
		if loan.Book != nil {
			book = *loan.Book
		}
		s.publish(model.LoanReturned, loan, book)
	}

	return loan, nil
}

func (s *Loan) FindLoans(ctx context.Context, filter model.LoanFilter, page, size int) (model.LoanPage, error) {
	return s.loans.Find(ctx, filter, page, size)
}

// GetLoansByBook resolves the book by id, so storage absence is surfaced
// as is rather than with the isbn-flavored message.
func (s *Loan) GetLoansByBook(ctx context.Context, bookID int64, page, size int) (model.LoanPage, error) {
	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		return model.LoanPage{}, err
	}
	return s.loans.GetByBook(ctx, bookID, page, size)
}

func (s *Loan) publish(eventType string, loan model.Loan, book model.Book) {
	err := s.pub.Publish(model.LoanEvent{
		EventID:  uuid.NewString(),
		Type:     eventType,
		LoanID:   loan.ID,
		BookID:   loan.BookID,
		ISBN:     book.ISBN,
		Customer: loan.Customer,
		At:       time.Now().UTC(),
	})
	if err != nil {
		s.log.Warn("publish loan event", zap.String("type", eventType), zap.Error(err))
	}
}
