package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/libhub/library-api/library/internal/model"
	repo_mocks "github.com/libhub/library-api/library/internal/repository/mocks"
	"github.com/libhub/library-api/library/internal/service"
	service_mocks "github.com/libhub/library-api/library/internal/service/mocks"
)

const (
	lateLoanSubject = "Livro com empréstimo atrasado"
	lateLoanMessage = "Atenção! Você tem um empréstimo atrasado. Favor devolver o livro mais rápido possível."
)

func newNotifier(t *testing.T) (*service.Notifier, *repo_mocks.MockLoanRepository, *service_mocks.MockMailSender, *service_mocks.MockClock) {
	t.Helper()
	c := gomock.NewController(t)
	t.Cleanup(c.Finish)
	loans := repo_mocks.NewMockLoanRepository(c)
	mail := service_mocks.NewMockMailSender(c)
	clock := service_mocks.NewMockClock(c)
	return service.NewNotifier(loans, mail, clock, zap.NewNop()), loans, mail, clock
}

func TestNotifier_NotifyLateLoans(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	today := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	cutoff := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)

	// One consolidated mail; a loan without a contact still takes a slot.
	t.Run("one batch mail for all overdue loans", func(t *testing.T) {
		t.Parallel()
		notifier, loans, mail, clock := newNotifier(t)
		clock.EXPECT().Today().Return(today)
		loans.EXPECT().FindOverdue(ctx, cutoff).Return([]model.Loan{
			{ID: 1, BookID: 1, Customer: "Fulano", CustomerEmail: "fulano@mail.com"},
			{ID: 2, BookID: 2, Customer: "Ciclano", CustomerEmail: ""},
		}, nil)
		mail.EXPECT().
			Send(lateLoanSubject, lateLoanMessage, []string{"fulano@mail.com", ""}).
			Return(nil)

		require.NoError(t, notifier.NotifyLateLoans(ctx))
	})

	t.Run("nothing overdue, nothing sent", func(t *testing.T) {
		t.Parallel()
		notifier, loans, _, clock := newNotifier(t)
		clock.EXPECT().Today().Return(today)
		loans.EXPECT().FindOverdue(ctx, cutoff).Return(nil, nil)

		require.NoError(t, notifier.NotifyLateLoans(ctx))
	})

	t.Run("send failure propagates", func(t *testing.T) {
		t.Parallel()
		notifier, loans, mail, clock := newNotifier(t)
		clock.EXPECT().Today().Return(today)
		loans.EXPECT().FindOverdue(ctx, cutoff).Return([]model.Loan{
			{ID: 1, CustomerEmail: "fulano@mail.com"},
		}, nil)
		sendErr := errors.New("smtp down")
		mail.EXPECT().Send(lateLoanSubject, lateLoanMessage, []string{"fulano@mail.com"}).Return(sendErr)

		require.ErrorIs(t, notifier.NotifyLateLoans(ctx), sendErr)
	})
}
