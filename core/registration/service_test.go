package registration

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/brightacademy/core"
)

type mailerMock struct {
	sent []*core.EmailMessage
	err  error
}

func (m *mailerMock) SendMessages(messages ...*core.EmailMessage) {
	m.sent = append(m.sent, messages...)
}

func (m *mailerMock) Send(_ context.Context, msg *core.EmailMessage) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func testConf() *core.Config {
	return &core.Config{AppName: "Bright Academy", SchoolEmail: "admissions@brightacademy.mw"}
}

func TestEnquiry_Validate(t *testing.T) {
	validate := validator.New()
	core.InitValidators(validate, core.NewTranslator())

	tests := []struct {
		name    string
		enq     Enquiry
		wantErr bool
	}{
		{
			name: "valid",
			enq: Enquiry{StudentName: " Chikondi Banda ", Class: "Standard 1", ParentName: "Grace Banda",
				ParentEmail: "Grace@Example.com", ParentPhone: "+265 999 123 456"},
		},
		{
			name:    "missing fields",
			enq:     Enquiry{StudentName: "Chikondi Banda"},
			wantErr: true,
		},
		{
			name: "unknown class",
			enq: Enquiry{StudentName: "Chikondi Banda", Class: "Form 9", ParentName: "Grace Banda",
				ParentEmail: "grace@example.com", ParentPhone: "0999"},
			wantErr: true,
		},
		{
			name: "bad email",
			enq: Enquiry{StudentName: "Chikondi Banda", Class: "PP1", ParentName: "Grace Banda",
				ParentEmail: "grace", ParentPhone: "0999"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.enq.Validate(validate)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestService_Submit(t *testing.T) {
	enq := Enquiry{StudentName: "Chikondi Banda", Class: "Standard 1", ParentName: "Grace Banda",
		ParentEmail: "grace@example.com", ParentPhone: "0999"}

	t.Run("sends notice to the school", func(t *testing.T) {
		mailer := new(mailerMock)
		svc := NewService(mailer, testConf())

		require.NoError(t, svc.Submit(context.Background(), enq))
		require.Len(t, mailer.sent, 1)
		msg := mailer.sent[0]
		assert.Equal(t, "admissions@brightacademy.mw", msg.To[0].Address)
		assert.Equal(t, "grace@example.com", msg.ReplyTo.Address)
		assert.Contains(t, msg.Subject, "Chikondi Banda")
		assert.Contains(t, msg.TextContent, "Phone: 0999")
	})

	t.Run("surfaces delivery failures", func(t *testing.T) {
		mailer := &mailerMock{err: errors.New("boom")}
		svc := NewService(mailer, testConf())

		err := svc.Submit(context.Background(), enq)
		assert.Error(t, err)
		assert.Empty(t, mailer.sent)
	})
}
