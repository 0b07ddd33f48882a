package user

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/brightacademy/core"
)

type ResetUserPassword struct {
	Token           string `json:"token" validate:"required"`
	UID             string `json:"uid" validate:"required"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"eqfield=Password"`
}

func (rp *ResetUserPassword) Validate(validate *validator.Validate) error {
	return validate.Struct(rp)
}

// ResetService handles forgotten passwords: it mails a reset link and later sets the new password.
type ResetService struct {
	svc     ServiceInterface
	mailer  core.EmailService
	tokens  *TokenGenerator
	baseURL string
	appName string
}

func NewResetService(svc ServiceInterface, mailer core.EmailService, conf *core.Config) *ResetService {
	return &ResetService{
		svc:     svc,
		mailer:  mailer,
		tokens:  NewTokenGenerator(conf),
		baseURL: conf.FrontendBaseURL,
		appName: conf.AppName,
	}
}

// RequestPasswordReset mails a reset link to the active user owning email.
// ErrNotFound is returned for unknown or inactive accounts.
func (rs *ResetService) RequestPasswordReset(ctx context.Context, email string) error {
	usr, err := rs.svc.GetByUsernameOrEmail(ctx, email)
	if err != nil {
		return err
	}
	if !usr.IsActive || usr.Email == "" {
		return ErrNotFound
	}

	link := fmt.Sprintf("%s/password-reset/%s/%s", rs.baseURL, EncodeUID(usr), rs.tokens.MakeToken(usr))
	msg := &core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject: "Password reset on " + rs.appName,
		TextContent: fmt.Sprintf("Hello %s,\n\nA password reset was requested for your %s account (%s).\n"+
			"Follow this link to choose a new password:\n\n%s\n\nIf you did not ask for it, you can ignore this email.\n",
			usr.Name, rs.appName, usr.Username, link),
	}
	if err = rs.mailer.Send(ctx, msg); err != nil {
		return errors.Wrap(err, "sending password reset email")
	}
	return nil
}

// ResetPassword sets a new password after checking the reset token. rp must have been validated.
func (rs *ResetService) ResetPassword(ctx context.Context, rp ResetUserPassword) error {
	invalid := core.NewValidationError(errors.New("invalid or expired password reset link"))

	id, err := DecodeUID(rp.UID)
	if err != nil {
		return invalid
	}
	usr, err := rs.svc.GetByID(ctx, id)
	if err != nil {
		if err == ErrNotFound {
			return invalid
		}
		return errors.Wrap(err, "getting user")
	}
	if !usr.IsActive || rs.tokens.Verify(usr, rp.Token) != nil {
		return invalid
	}

	if tag := CheckPasswordPolicy(rp.Password, usr.Name, usr.Username, usr.Email); tag != "" {
		return core.NewValidationError(nil, core.FieldError{Field: "password", Error: PasswordPolicyText(tag)})
	}

	if _, err = rs.svc.SetPassword(ctx, usr, rp.Password); err != nil {
		return errors.Wrap(err, "setting password")
	}
	return nil
}
