package repository

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/libhub/library-api/library/internal/errs"
	"github.com/libhub/library-api/library/internal/model"
)

type loanRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewLoanRepository(db *sqlx.DB, log *zap.Logger) *loanRepository {
	return &loanRepository{
		db:  db,
		log: log.Named("loan-repo"),
	}
}

const loansActiveBookConstraint = "loans_active_book_uq"

// loanRow carries the joined book columns next to the loan itself.
type loanRow struct {
	model.Loan
	BookTitle  string `db:"book_title"`
	BookAuthor string `db:"book_author"`
	BookISBN   string `db:"book_isbn"`
}

func (r loanRow) toLoan() model.Loan {
	loan := r.Loan
	loan.Book = &model.Book{
		ID:     loan.BookID,
		Title:  r.BookTitle,
		Author: r.BookAuthor,
		ISBN:   r.BookISBN,
	}
	return loan
}

var loanJoinColumns = []string{
	"l.id", "l.book_id", "l.customer", "l.customer_email", "l.loan_date", "l.returned",
	"b.title as book_title", "b.author as book_author", "b.isbn as book_isbn",
}

func loanJoinSelect() sq.SelectBuilder {
	return qb.Select(loanJoinColumns...).
		From(loansTableName + " l").
		Join(booksTableName + " b on b.id = l.book_id")
}

// Create inserts the loan. The partial unique index on (book_id) where not
// returned rejects a second open loan for the same book atomically.
func (r *loanRepository) Create(ctx context.Context, loan model.Loan) (model.Loan, error) {
	query, args, err := qb.Insert(loansTableName).
		Columns("book_id", "customer", "customer_email", "loan_date", "returned").
		Values(loan.BookID, loan.Customer, loan.CustomerEmail, loan.LoanDate.Format(time.DateOnly), loan.Returned).
		Suffix("returning id").
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}
	if err := r.db.GetContext(ctx, &loan.ID, query, args...); err != nil {
		if isUniqueViolation(err, loansActiveBookConstraint) {
			return model.Loan{}, errs.ErrBookAlreadyLoaned
		}
		r.log.Error("Create", zap.String("q", query), zap.Any("args", args))
		return model.Loan{}, err
	}
	return loan, nil
}

func (r *loanRepository) GetByID(ctx context.Context, id int64) (model.Loan, error) {
	query, args, err := loanJoinSelect().
		Where(sq.Eq{"l.id": id}).
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}
	var row loanRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Loan{}, errs.ErrNotFound
		}
		return model.Loan{}, err
	}
	return row.toLoan(), nil
}

// Update persists the full loan state. A loan without a persisted id never
// reaches the store.
func (r *loanRepository) Update(ctx context.Context, loan model.Loan) error {
	if loan.ID == 0 {
		return errs.ErrInvalidArgument
	}
	query, args, err := qb.Update(loansTableName).
		Set("customer", loan.Customer).
		Set("customer_email", loan.CustomerEmail).
		Set("returned", loan.Returned).
		Where(sq.Eq{"id": loan.ID}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// loanFilterPredicate joins the populated filter fields with OR, matching
// the ledger's historical query semantics. Not a typo: isbn OR customer.
func loanFilterPredicate(filter model.LoanFilter) sq.Or {
	pred := sq.Or{}
	if filter.ISBN != "" {
		pred = append(pred, sq.Eq{"b.isbn": filter.ISBN})
	}
	if filter.Customer != "" {
		pred = append(pred, sq.Eq{"l.customer": filter.Customer})
	}
	return pred
}

// Find matches loans whose book isbn equals filter.ISBN OR whose customer
// equals filter.Customer. An empty filter matches everything.
func (r *loanRepository) Find(ctx context.Context, filter model.LoanFilter, page, size int) (model.LoanPage, error) {
	pred := loanFilterPredicate(filter)

	q := loanJoinSelect()
	cq := qb.Select("count(*)").
		From(loansTableName + " l").
		Join(booksTableName + " b on b.id = l.book_id")
	if len(pred) > 0 {
		q = q.Where(pred)
		cq = cq.Where(pred)
	}

	size, offset := pageOffset(page, size)
	q = q.OrderBy("l.id").Limit(uint64(size)).Offset(offset)

	return r.selectPage(ctx, q, cq, page, size)
}

func (r *loanRepository) GetByBook(ctx context.Context, bookID int64, page, size int) (model.LoanPage, error) {
	q := loanJoinSelect().Where(sq.Eq{"l.book_id": bookID})
	cq := qb.Select("count(*)").
		From(loansTableName + " l").
		Join(booksTableName + " b on b.id = l.book_id").
		Where(sq.Eq{"l.book_id": bookID})

	size, offset := pageOffset(page, size)
	q = q.OrderBy("l.id").Limit(uint64(size)).Offset(offset)

	return r.selectPage(ctx, q, cq, page, size)
}

func (r *loanRepository) selectPage(ctx context.Context, q, cq sq.SelectBuilder, page, size int) (model.LoanPage, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return model.LoanPage{}, err
	}
	rows := make([]loanRow, 0)
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return model.LoanPage{}, err
	}
	loans := make([]model.Loan, 0, len(rows))
	for _, row := range rows {
		loans = append(loans, row.toLoan())
	}

	countQuery, countArgs, err := cq.ToSql()
	if err != nil {
		return model.LoanPage{}, err
	}
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return model.LoanPage{}, err
	}

	return model.LoanPage{
		Content:       loans,
		TotalElements: total,
		Pageable: model.Pageable{
			PageNumber: page,
			PageSize:   size,
		},
	}, nil
}

func (r *loanRepository) ExistsActiveLoan(ctx context.Context, bookID int64) (bool, error) {
	q := `
	select exists(select 1 from loans where book_id = $1 and not returned)
`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, bookID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// FindOverdue returns every open loan whose loan date is on or before
// olderThan. Flat list: this feeds the notification batch, not a view.
func (r *loanRepository) FindOverdue(ctx context.Context, olderThan time.Time) ([]model.Loan, error) {
	query, args, err := qb.Select("id", "book_id", "customer", "customer_email", "loan_date", "returned").
		From(loansTableName).
		Where(sq.Eq{"returned": false}).
		Where(sq.LtOrEq{"loan_date": olderThan.Format(time.DateOnly)}).
		OrderBy("loan_date").
		ToSql()
	if err != nil {
		return nil, err
	}
	var loans []model.Loan
	if err := r.db.SelectContext(ctx, &loans, query, args...); err != nil {
		return nil, err
	}
	return loans, nil
}
