// Package registration handles enrollment enquiries sent from the public landing page.
package registration

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/brightacademy/core"
)

// Enquiry is a prospective parent's request to enroll a child.
type Enquiry struct {
	StudentName string `json:"studentName" validate:"required"`
	Class       string `json:"grade" validate:"required,schoolclass"`
	ParentName  string `json:"parentName" validate:"required"`
	ParentEmail string `json:"parentEmail" validate:"required,email"`
	ParentPhone string `json:"parentPhone" validate:"required"`
	Message     string `json:"message"`
}

func (e *Enquiry) Validate(validate *validator.Validate) error {
	e.StudentName = core.CleanString(e.StudentName)
	e.Class = core.CleanString(e.Class)
	e.ParentName = core.CleanString(e.ParentName)
	e.ParentEmail = core.CleanString(e.ParentEmail, true /* lower */)
	e.ParentPhone = core.CleanString(e.ParentPhone)
	e.Message = strings.TrimSpace(e.Message)
	return validate.Struct(e)
}

type Service struct {
	mailer core.EmailService
	to     mail.Address
}

func NewService(mailer core.EmailService, conf *core.Config) *Service {
	return &Service{
		mailer: mailer,
		to:     mail.Address{Name: conf.AppName + " Admissions", Address: conf.SchoolEmail},
	}
}

// Submit notifies the school of a new enquiry. The enquiry must have been validated.
func (svc *Service) Submit(ctx context.Context, e Enquiry) error {
	parent := mail.Address{Name: e.ParentName, Address: e.ParentEmail}
	msg := &core.EmailMessage{
		To:          []mail.Address{svc.to},
		ReplyTo:     &parent,
		Subject:     fmt.Sprintf("Enrollment enquiry: %s (%s)", e.StudentName, e.Class),
		TextContent: enquiryText(e),
	}
	if err := svc.mailer.Send(ctx, msg); err != nil {
		return errors.Wrap(err, "sending enquiry")
	}
	return nil
}

func enquiryText(e Enquiry) string {
	b := new(strings.Builder)
	_, _ = fmt.Fprintf(b, "Student: %s\n", e.StudentName)
	_, _ = fmt.Fprintf(b, "Class: %s\n", e.Class)
	_, _ = fmt.Fprintf(b, "Parent/Guardian: %s\n", e.ParentName)
	_, _ = fmt.Fprintf(b, "Email: %s\n", e.ParentEmail)
	_, _ = fmt.Fprintf(b, "Phone: %s\n", e.ParentPhone)
	if e.Message != "" {
		_, _ = fmt.Fprintf(b, "\n%s\n", e.Message)
	}
	return b.String()
}
