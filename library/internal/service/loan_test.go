package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/libhub/library-api/library/internal/errs"
	"github.com/libhub/library-api/library/internal/model"
	repo_mocks "github.com/libhub/library-api/library/internal/repository/mocks"
	"github.com/libhub/library-api/library/internal/service"
	service_mocks "github.com/libhub/library-api/library/internal/service/mocks"
)

type loanSvcMocks struct {
	books *repo_mocks.MockBookRepository
	loans *repo_mocks.MockLoanRepository
	pub   *service_mocks.MockEventPublisher
	clock *service_mocks.MockClock
}

func newLoanSvc(t *testing.T) (*service.Loan, loanSvcMocks) {
	t.Helper()
	c := gomock.NewController(t)
	t.Cleanup(c.Finish)
	m := loanSvcMocks{
		books: repo_mocks.NewMockBookRepository(c),
		loans: repo_mocks.NewMockLoanRepository(c),
		pub:   service_mocks.NewMockEventPublisher(c),
		clock: service_mocks.NewMockClock(c),
	}
	return service.NewLoan(m.books, m.loans, m.pub, m.clock, zap.NewNop()), m
}

func TestLoan_CreateLoan(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	today := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	book := model.Book{ID: 1, Title: "As aventuras", Author: "Artur", ISBN: "001"}
	req := model.CreateLoanRequest{ISBN: "001", Customer: "Fulano", CustomerEmail: "fulano@mail.com"}

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		svc, m := newLoanSvc(t)
		m.books.EXPECT().GetByISBN(ctx, "001").Return(book, nil)
		m.loans.EXPECT().ExistsActiveLoan(ctx, int64(1)).Return(false, nil)
		m.clock.EXPECT().Today().Return(today)
		m.loans.EXPECT().
			Create(ctx, model.Loan{BookID: 1, Customer: "Fulano", CustomerEmail: "fulano@mail.com", LoanDate: today}).
			Return(model.Loan{ID: 1, BookID: 1, Customer: "Fulano", CustomerEmail: "fulano@mail.com", LoanDate: today}, nil)
		m.pub.EXPECT().Publish(gomock.Any()).Return(nil)

		loan, err := svc.CreateLoan(ctx, req)
		require.NoError(t, err)
		require.EqualValues(t, 1, loan.ID)
		require.Equal(t, today, loan.LoanDate)
		require.False(t, loan.Returned)
		require.NotNil(t, loan.Book)
		require.Equal(t, "001", loan.Book.ISBN)
	})

	t.Run("unknown isbn", func(t *testing.T) {
		t.Parallel()
		svc, m := newLoanSvc(t)
		m.books.EXPECT().GetByISBN(ctx, "001").Return(model.Book{}, errs.ErrNotFound)

		_, err := svc.CreateLoan(ctx, req)
		require.ErrorIs(t, err, errs.ErrBookNotFound)
	})

	t.Run("book already loaned", func(t *testing.T) {
		t.Parallel()
		svc, m := newLoanSvc(t)
		m.books.EXPECT().GetByISBN(ctx, "001").Return(book, nil)
		m.loans.EXPECT().ExistsActiveLoan(ctx, int64(1)).Return(true, nil)

		_, err := svc.CreateLoan(ctx, req)
		require.ErrorIs(t, err, errs.ErrBookAlreadyLoaned)
	})

	// The pre-check can race with another create; the partial unique index
	// settles it and the insert surfaces the same error.
	t.Run("book loaned concurrently", func(t *testing.T) {
		t.Parallel()
		svc, m := newLoanSvc(t)
		m.books.EXPECT().GetByISBN(ctx, "001").Return(book, nil)
		m.loans.EXPECT().ExistsActiveLoan(ctx, int64(1)).Return(false, nil)
		m.clock.EXPECT().Today().Return(today)
		m.loans.EXPECT().Create(ctx, gomock.Any()).Return(model.Loan{}, errs.ErrBookAlreadyLoaned)

		_, err := svc.CreateLoan(ctx, req)
		require.ErrorIs(t, err, errs.ErrBookAlreadyLoaned)
	})
}

func TestLoan_ReturnLoan(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	today := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	book := model.Book{ID: 1, Title: "As aventuras", Author: "Artur", ISBN: "001"}
	open := model.Loan{ID: 1, BookID: 1, Customer: "Fulano", LoanDate: today, Returned: false, Book: &book}

	t.Run("open to returned", func(t *testing.T) {
		t.Parallel()
		svc, m := newLoanSvc(t)
		returned := open
		returned.Returned = true
		m.loans.EXPECT().GetByID(ctx, int64(1)).Return(open, nil)
		m.loans.EXPECT().Update(ctx, returned).Return(nil)
		m.pub.EXPECT().Publish(gomock.Any()).Return(nil)

		loan, err := svc.ReturnLoan(ctx, 1, true)
		require.NoError(t, err)
		require.True(t, loan.Returned)
	})

	t.Run("idempotent when already returned", func(t *testing.T) {
		t.Parallel()
		svc, m := newLoanSvc(t)
		returned := open
		returned.Returned = true
		m.loans.EXPECT().GetByID(ctx, int64(1)).Return(returned, nil).Times(2)

		for i := 0; i < 2; i++ {
			loan, err := svc.ReturnLoan(ctx, 1, true)
			require.NoError(t, err)
			require.True(t, loan.Returned)
		}
	})

	t.Run("unknown loan", func(t *testing.T) {
		t.Parallel()
		svc, m := newLoanSvc(t)
		m.loans.EXPECT().GetByID(ctx, int64(7)).Return(model.Loan{}, errs.ErrNotFound)

		_, err := svc.ReturnLoan(ctx, 7, true)
		require.ErrorIs(t, err, errs.ErrLoanNotFound)
	})

	// No expectations on the mocks: the ledger must stay untouched.
	t.Run("without id", func(t *testing.T) {
		t.Parallel()
		svc, _ := newLoanSvc(t)

		_, err := svc.ReturnLoan(ctx, 0, true)
		require.ErrorIs(t, err, errs.ErrInvalidArgument)
	})
}

func TestLoan_GetLoansByBook(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		svc, m := newLoanSvc(t)
		m.books.EXPECT().GetByID(ctx, int64(1)).Return(model.Book{ID: 1}, nil)
		m.loans.EXPECT().GetByBook(ctx, int64(1), 0, 0).
			Return(model.LoanPage{TotalElements: 1}, nil)

		page, err := svc.GetLoansByBook(ctx, 1, 0, 0)
		require.NoError(t, err)
		require.Equal(t, 1, page.TotalElements)
	})

	t.Run("unknown book", func(t *testing.T) {
		t.Parallel()
		svc, m := newLoanSvc(t)
		m.books.EXPECT().GetByID(ctx, int64(9)).Return(model.Book{}, errs.ErrNotFound)

		_, err := svc.GetLoansByBook(ctx, 9, 0, 0)
		require.ErrorIs(t, err, errs.ErrNotFound)
	})
}
