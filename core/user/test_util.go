package user

import (
	"context"
	"time"

	"github.com/lutechstack-bit/theforgeapp-sub003/core"
)

type serviceMock struct {
	service
}

// NewServiceMock returns a Service whose mails run synchronously.
func NewServiceMock(conf *core.Config, repo Repository, mailSvc core.EmailService) Service {
	initTokenGenerator(conf)
	return &serviceMock{
		service: service{
			conf:    conf,
			repo:    repo,
			mailSvc: mailSvc,
		},
	}
}

func (svc *serviceMock) RequestPasswordReset(ctx context.Context, email string) error {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	// run synchronously
	svc.sendPasswordResetMail(usr)
	return nil
}

// MakePasswordResetToken exposes token generation to API tests.
func MakePasswordResetToken(usr User) string {
	return makeToken(usr)
}

// ExpirePasswordResetTokens shifts the token clock back past the timeout so
// previously generated tokens read as expired. The returned func restores it.
func ExpirePasswordResetTokens() (restore func()) {
	dayLate := passwordResetTimeoutDelta + (24 * time.Hour)
	nowFunc = func() time.Time { return time.Now().Add(-dayLate) }
	return func() { nowFunc = time.Now }
}
