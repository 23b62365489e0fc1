package user

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/lutechstack-bit/theforgeapp-sub003/core"
)

var (
	// errors
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("a user with this email already exists")
	ErrTaskLocked  = errors.New("onboarding task is locked")
	ErrUnknownTask = errors.New("unknown onboarding task")
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string, excludedUsers ...User) error
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		// FilterUsers applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on User.FullName or User.Email.
		FilterUsers(ctx context.Context, filter QueryFilter, orderings ...core.DBOrdering) ([]User, error)
		// UpdateUser persists non-zero fields of usr; Roles, EditionID,
		// SectionProgress and PasswordHash when non-nil; onboarding flags
		// when true (they never flip back).
		UpdateUser(ctx context.Context, usr User, isActive *bool) (User, error)
		UpdateOrCreateUser(ctx context.Context, usr User) (User, error)
		SetLastLogin(ctx context.Context, usr User) (User, error)
		DeleteUsersByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		CheckUniqueness(ctx context.Context, email string, exclUsers ...User) error
		Create(ctx context.Context, nu NewUser) (User, error)
		Query(ctx context.Context, filter *QueryFilter, orderings []core.DBOrdering) ([]User, error)
		GetByID(ctx context.Context, id string) (User, error)
		GetByEmail(ctx context.Context, email string) (User, error)
		Update(ctx context.Context, id string, uu UpdateUser) (User, error)
		UpdateProfile(ctx context.Context, id string, up UpdateProfile) (User, error)
		CompleteOnboardingTask(ctx context.Context, id, task string) (User, error)
		SetSectionProgress(ctx context.Context, id, section string, done bool) (User, error)
		SetLastLogin(ctx context.Context, usr User) (User, error)
		RequestPasswordReset(ctx context.Context, email string) error
		ResetPassword(ctx context.Context, rp ResetUserPassword) error
		Delete(ctx context.Context, ids ...string) error
	}

	service struct {
		conf    *core.Config
		repo    Repository
		mailSvc core.EmailService
	}
)

var _ Service = (*service)(nil)

func NewService(conf *core.Config, repo Repository, mailSvc core.EmailService) Service {
	initTokenGenerator(conf)
	return &service{conf: conf, repo: repo, mailSvc: mailSvc}
}

func (svc *service) CheckUniqueness(ctx context.Context, email string, exclUsers ...User) error {
	if err := svc.repo.CheckEmailUniqueness(ctx, email, exclUsers...); err != nil {
		if errors.Cause(err) != ErrEmailExists {
			return err
		}
		return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
	}
	return nil
}

func (svc *service) Create(ctx context.Context, nu NewUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		ID:              uuid.New().String(),
		FullName:        nu.FullName,
		Email:           nu.Email,
		Roles:           nu.Roles,
		EditionID:       nu.EditionID,
		SectionProgress: make(map[string]bool),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	usr.SetActive(true)
	if usr.Roles == nil {
		usr.Roles = []string{RoleMember}
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "setting password")
	}

	usr, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		return User{}, err
	}
	svc.sendWelcomeMail(usr)
	return usr, nil
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter, orderings []core.DBOrdering) ([]User, error) {
	return svc.repo.FilterUsers(ctx, *filter, orderings...)
}

func (svc *service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *service) Update(ctx context.Context, id string, uu UpdateUser) (User, error) {
	usr := User{
		ID:        id,
		FullName:  uu.FullName,
		Email:     uu.Email,
		Roles:     uu.Roles,
		EditionID: uu.EditionID,
		UpdatedAt: time.Now().UTC(),
	}
	if uu.Password != "" {
		if err := usr.SetPassword(uu.Password); err != nil {
			return User{}, errors.Wrap(err, "setting password")
		}
	}
	return svc.repo.UpdateUser(ctx, usr, uu.IsActive)
}

func (svc *service) UpdateProfile(ctx context.Context, id string, up UpdateProfile) (User, error) {
	usr := User{
		ID:        id,
		FullName:  up.FullName,
		Bio:       up.Bio,
		AvatarURL: up.AvatarURL,
		UpdatedAt: time.Now().UTC(),
	}
	// uploading an avatar completes the photo onboarding task
	if up.AvatarURL != "" {
		usr.PhotoUploaded = true
	}
	return svc.repo.UpdateUser(ctx, usr, nil)
}

// CompleteOnboardingTask flips one gating task to done, enforcing the
// strict linear ordering: a locked task cannot be completed.
func (svc *service) CompleteOnboardingTask(ctx context.Context, id, task string) (User, error) {
	usr, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	idx := -1
	for i, key := range OnboardingTasks {
		if key == task {
			idx = i
			break
		}
	}
	if idx < 0 {
		return User{}, ErrUnknownTask
	}
	if TaskLocked(usr.onboardingFlags(), idx) {
		return User{}, ErrTaskLocked
	}

	upd := User{ID: id, UpdatedAt: time.Now().UTC()}
	switch task {
	case TaskProfileSetup:
		upd.ProfileSetupDone = true
	case TaskPhotoUpload:
		upd.PhotoUploaded = true
	case TaskKYForm:
		upd.KYFormDone = true
	}
	return svc.repo.UpdateUser(ctx, upd, nil)
}

func (svc *service) SetSectionProgress(ctx context.Context, id, section string, done bool) (User, error) {
	usr, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	progress := make(map[string]bool, len(usr.SectionProgress)+1)
	for k, v := range usr.SectionProgress {
		progress[k] = v
	}
	progress[section] = done

	upd := User{ID: id, SectionProgress: progress, UpdatedAt: time.Now().UTC()}
	return svc.repo.UpdateUser(ctx, upd, nil)
}

func (svc *service) SetLastLogin(ctx context.Context, usr User) (User, error) {
	return svc.repo.SetLastLogin(ctx, usr)
}

func (svc *service) RequestPasswordReset(ctx context.Context, email string) error {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	go svc.sendPasswordResetMail(usr)
	return nil
}

func (svc *service) ResetPassword(ctx context.Context, rp ResetUserPassword) error {
	uid, err := decodeUID(rp.UID)
	if err != nil {
		return core.NewValidationError(errors.New("invalid password reset link"))
	}
	usr, err := svc.repo.GetUserByID(ctx, uid)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return core.NewValidationError(errors.New("invalid password reset link"))
		}
		return err
	}
	if err := verifyToken(usr, rp.Token); err != nil {
		return core.NewValidationError(err)
	}

	upd := User{ID: usr.ID, UpdatedAt: time.Now().UTC()}
	if err := upd.SetPassword(rp.Password); err != nil {
		return errors.Wrap(err, "setting password")
	}
	_, err = svc.repo.UpdateUser(ctx, upd, nil)
	return err
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteUsersByID(ctx, ids...)
}

func (svc *service) sendWelcomeMail(usr User) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.FullName, Address: usr.Email}},
		Subject:      "Welcome to the Forge",
		TemplateName: "welcome",
		TemplateData: struct {
			FullName string
		}{usr.FullName},
	})
}

func (svc *service) sendPasswordResetMail(usr User) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.FullName, Address: usr.Email}},
		Subject:      "Password reset",
		TemplateName: "password-reset",
		TemplateData: struct {
			FullName string
			Path     string
		}{
			usr.FullName,
			fmt.Sprintf("/password-reset/%s/%s", EncodeUID(usr), makeToken(usr)),
		},
	})
}
