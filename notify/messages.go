package notify

import (
	"fmt"
	"strings"

	"github.com/linesmerrill/lexmatch-api/escrow"
	"github.com/linesmerrill/lexmatch-api/models"
)

// EnquiryConfirmation is shown to the founder after an enquiry is sent
func EnquiryConfirmation(lawyer models.Lawyer) string {
	return fmt.Sprintf("Enquiry sent to %s.\n\nThey will receive your profile and contact you shortly regarding a consultation.", lawyer.Name)
}

// Enquiry asks a lawyer to reach out to a founder
func Enquiry(baseURL string, lawyer models.Lawyer, client models.User) Message {
	from := client.Name
	if client.Company != "" {
		from = fmt.Sprintf("%s (%s)", client.Name, client.Company)
	}
	return Message{
		ToName:  lawyer.Name,
		ToEmail: lawyer.Email,
		Subject: "New consultation enquiry",
		Body: fmt.Sprintf("Hi %s,\n\n%s would like to talk to you about a consultation.\nReply to %s to get in touch.",
			lawyer.Name, from, client.Email),
		Link:     link(baseURL, "lawyers", lawyer.ID),
		LinkText: "View your profile",
	}
}

// NewBid tells a founder a lawyer bid on their case
func NewBid(baseURL string, c models.Case, bid models.Bid, client models.User) Message {
	return Message{
		ToName:  client.Name,
		ToEmail: client.Email,
		Subject: fmt.Sprintf("New bid on %q", c.Title),
		Body: fmt.Sprintf("%s bid $%s on your case %q.\n\n%s",
			bid.LawyerName, escrow.FormatAmount(bid.Amount), c.Title, bid.Message),
		Link:     link(baseURL, "cases", c.ID),
		LinkText: "Review bids",
	}
}

// BidAccepted tells a lawyer their bid won and escrow is funded
func BidAccepted(baseURL string, c models.Case, bid models.Bid, lawyer models.Lawyer) Message {
	reference := ""
	if c.Escrow != nil {
		reference = fmt.Sprintf("\nEscrow reference: %s", c.Escrow.Reference)
	}
	return Message{
		ToName:  lawyer.Name,
		ToEmail: lawyer.Email,
		Subject: fmt.Sprintf("Your bid on %q was accepted", c.Title),
		Body: fmt.Sprintf("%s accepted your bid of $%s.\nThe funds are held in escrow.%s",
			c.ClientName, escrow.FormatAmount(bid.Amount), reference),
		Link:     link(baseURL, "cases", c.ID),
		LinkText: "Open case",
	}
}

func link(baseURL string, parts ...string) string {
	if baseURL == "" {
		return ""
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.Join(parts, "/")
}

