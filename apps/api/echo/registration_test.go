package echoapi

import (
	"net/http"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/brightacademy/core/registration"
)

func Test_registrationApi_submit(t *testing.T) {
	app := setup(t)

	enquiry := registration.Enquiry{
		StudentName: "Thoko Banda", Class: "Standard 1", ParentName: "Peter Banda",
		ParentEmail: "Peter@Example.com", ParentPhone: "+265 999 000 000", Message: "Is there space in January?",
	}

	t.Run("invalid", func(t *testing.T) {
		bad := enquiry
		bad.Class = "Form 9"
		bad.ParentEmail = ""
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"grade": "invalid class", "parentEmail": "this field is required"}`),
		}, app.do(http.MethodPost, "/v1/registrations", "", marshallObj(t, bad)))
		assert.Empty(t, app.mailer.sent)
	})

	t.Run("sent", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/v1/registrations", "", marshallObj(t, enquiry))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		require.Len(t, app.mailer.sent, 1)
		msg := app.mailer.sent[0]
		assert.Equal(t, "peter@example.com", msg.ReplyTo.Address)
		assert.True(t, strings.Contains(msg.Subject, "Thoko Banda"))
	})

	t.Run("delivery failure is reported", func(t *testing.T) {
		app.mailer.err = errors.New("sendgrid status: 500")
		rec := app.do(http.MethodPost, "/v1/registrations", "", marshallObj(t, enquiry))
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusInternalServerError,
			wantData: marshallObj(t, httpErr{Error: http.StatusText(http.StatusInternalServerError)}),
		}, rec)
	})
}
