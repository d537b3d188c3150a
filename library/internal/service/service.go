package service

import (
	"time"

	"github.com/libhub/library-api/library/internal/model"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

// Clock supplies "today" so date rules stay testable. No global timer state.
type Clock interface {
	Today() time.Time
}

type SystemClock struct{}

func (SystemClock) Today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// MailSender is the outbound mail collaborator. One call, one message,
// all recipients at once.
type MailSender interface {
	Send(subject, body string, to []string) error
}

// EventPublisher emits loan lifecycle events. Publishing is best-effort:
// callers log failures and never fail the request over them.
type EventPublisher interface {
	Publish(event model.LoanEvent) error
}
