package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/libhub/library-api/library/internal/repository"
)

const (
	// A loan is overdue once it has been open for more than overdueAfterDays.
	overdueAfterDays = 4

	lateLoanSubject = "Livro com empréstimo atrasado"
	lateLoanMessage = "Atenção! Você tem um empréstimo atrasado. Favor devolver o livro mais rápido possível."
)

// Notifier batches overdue-loan notifications into a single mail.
// It owns no schedule: the caller decides when a run happens.
type Notifier struct {
	loans repository.LoanRepository
	mail  MailSender
	clock Clock
	log   *zap.Logger
}

func NewNotifier(loans repository.LoanRepository, mail MailSender, clock Clock, log *zap.Logger) *Notifier {
	return &Notifier{
		loans: loans,
		mail:  mail,
		clock: clock,
		log:   log.Named("notifier"),
	}
}

// NotifyLateLoans sends one consolidated mail to the customers of every
// overdue loan. A loan without a contact still occupies a recipient slot;
// that preserves long-standing behavior, questionable as it is.
func (n *Notifier) NotifyLateLoans(ctx context.Context) error {
	cutoff := n.clock.Today().AddDate(0, 0, -overdueAfterDays)

	loans, err := n.loans.FindOverdue(ctx, cutoff)
	if err != nil {
		return errors.Wrap(err, "find overdue loans")
	}
	if len(loans) == 0 {
		n.log.Debug("no overdue loans")
		return nil
	}

	recipients := make([]string, 0, len(loans))
	for _, loan := range loans {
		recipients = append(recipients, loan.CustomerEmail)
	}

	n.log.Info("notifying late loans", zap.Int("loans", len(loans)))
	if err := n.mail.Send(lateLoanSubject, lateLoanMessage, recipients); err != nil {
		return errors.Wrap(err, "send late loan mail")
	}
	return nil
}
