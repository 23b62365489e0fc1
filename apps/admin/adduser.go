package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/lutechstack-bit/theforgeapp-sub003/core"
	"github.com/lutechstack-bit/theforgeapp-sub003/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(email, name, pwd string, isAdmin bool) error {
	ctx := context.Background()
	now := time.Now().UTC()

	usr := user.User{
		ID:              uuid.New().String(),
		FullName:        core.CleanString(name),
		Email:           core.CleanString(email, true /* lower */),
		Roles:           []string{user.RoleMember},
		SectionProgress: make(map[string]bool),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if isAdmin {
		usr.Roles = user.AllRoles
	}
	usr.SetActive(true)
	if err := usr.SetPassword(pwd); err != nil {
		return errors.Wrap(err, "setting password")
	}
	if _, err := cli.usrRepo.UpdateOrCreateUser(ctx, usr); err != nil {
		return errors.Wrap(err, "upserting user")
	}
	return nil
}
