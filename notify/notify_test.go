package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/lexmatch-api/config"
	"github.com/linesmerrill/lexmatch-api/models"
)

type fakeSender struct {
	sent     []*mail.SGMailV3
	response *rest.Response
	err      error
}

func (f *fakeSender) SendWithContext(_ context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	f.sent = append(f.sent, email)
	return f.response, f.err
}

func TestNew(t *testing.T) {
	assert.IsType(t, LogNotifier{}, New(&config.Config{}))
	assert.IsType(t, &SendgridNotifier{}, New(&config.Config{SendgridAPIKey: "SG.key", NotifyFromEmail: "no-reply@lexmatch.app"}))
}

func TestSendgridNotifier_Notify(t *testing.T) {
	fake := &fakeSender{response: &rest.Response{StatusCode: 202}}
	n := &SendgridNotifier{client: fake, from: mail.NewEmail(senderName, "no-reply@lexmatch.app")}

	err := n.Notify(context.Background(), Message{ToName: "Sarah Jenkins", ToEmail: "sarah@example.com", Subject: "Hello", Body: "Body"})
	require.NoError(t, err)
	require.Len(t, fake.sent, 1)
	assert.Equal(t, "Hello", fake.sent[0].Subject)
	assert.Equal(t, "no-reply@lexmatch.app", fake.sent[0].From.Address)
	require.Len(t, fake.sent[0].Content, 2)
	assert.Equal(t, "Body", fake.sent[0].Content[0].Value)
	assert.Contains(t, fake.sent[0].Content[1].Value, "<h1>Hello</h1>")
}

func TestSendgridNotifier_Errors(t *testing.T) {
	n := &SendgridNotifier{client: &fakeSender{response: &rest.Response{StatusCode: 401}}, from: mail.NewEmail(senderName, "a@b.c")}
	assert.EqualError(t, n.Notify(context.Background(), Message{ToEmail: "x@y.z"}), "sendgrid error: status 401")

	n.client = &fakeSender{err: errors.New("dial tcp: timeout")}
	assert.ErrorContains(t, n.Notify(context.Background(), Message{ToEmail: "x@y.z"}), "dial tcp")

	assert.ErrorIs(t, n.Notify(context.Background(), Message{}), ErrNoRecipient)
}

func TestLogNotifier(t *testing.T) {
	assert.NoError(t, LogNotifier{}.Notify(context.Background(), Message{Subject: "s"}))
}

func TestMessages(t *testing.T) {
	lawyer := models.Lawyer{ID: "l1", Name: "Sarah Jenkins", Email: "sarah@example.com"}
	client := models.User{ID: "client-1", Name: "Alex Founder", Company: "TechStartup Inc.", Email: "alex@example.com"}
	c := models.Case{ID: "case-002", Title: "Series A Term Sheet Review", ClientName: "Stealth Mode Startup",
		Escrow: &models.EscrowReceipt{Reference: "esc_123"}}
	bid := models.Bid{LawyerName: "Sarah Jenkins", Amount: 2000, Message: "Happy to help."}

	enquiry := Enquiry("https://lexmatch.app/", lawyer, client)
	assert.Equal(t, "sarah@example.com", enquiry.ToEmail)
	assert.Contains(t, enquiry.Body, "Alex Founder (TechStartup Inc.)")
	assert.Equal(t, "https://lexmatch.app/lawyers/l1", enquiry.Link)

	newBid := NewBid("", c, bid, client)
	assert.Equal(t, "alex@example.com", newBid.ToEmail)
	assert.Contains(t, newBid.Body, "$2000")
	assert.Empty(t, newBid.Link)

	accepted := BidAccepted("https://lexmatch.app", c, bid, lawyer)
	assert.Contains(t, accepted.Body, "esc_123")
	assert.Contains(t, accepted.Body, "Stealth Mode Startup")

	assert.Equal(t,
		"Enquiry sent to Sarah Jenkins.\n\nThey will receive your profile and contact you shortly regarding a consultation.",
		EnquiryConfirmation(lawyer))
}
