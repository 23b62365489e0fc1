package main

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/lutechstack-bit/theforgeapp-sub003/core"
	"github.com/lutechstack-bit/theforgeapp-sub003/core/user"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	ctx := context.Background()

	usr, err := cli.usrRepo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return err
	}

	upd := user.User{ID: usr.ID, UpdatedAt: time.Now().UTC()}
	if err := upd.SetPassword(pwd); err != nil {
		return errors.Wrap(err, "setting password")
	}
	if _, err := cli.usrRepo.UpdateUser(ctx, upd, nil); err != nil {
		return errors.Wrap(err, "updating user")
	}
	return nil
}
