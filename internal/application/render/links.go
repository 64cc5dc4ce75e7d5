package render

import (
	"fmt"
	"net/url"
	"strings"
)

// Links builds the self-addressed command links embedded in replies.
// Clicking one opens a pre-filled message to the bot's own account.
type Links struct {
	AccountName string
	WebURL      string // e.g. https://www.reddit.com
	InfoURL     string
	OwnerName   string
}

// Compose returns a link that opens a new message to the bot with the
// given subject and body.
func (l Links) Compose(subject, body string) string {
	return l.composeTo(l.AccountName, subject, body)
}

func (l Links) composeTo(recipient, subject, body string) string {
	q := url.Values{}
	q.Set("to", recipient)
	q.Set("subject", subject)
	q.Set("message", body)
	return fmt.Sprintf("%s/message/compose/?%s", strings.TrimRight(l.WebURL, "/"), q.Encode())
}

// MessageLink is the permalink of a private message.
func (l Links) MessageLink(id string) string {
	return fmt.Sprintf("%s/message/messages/%s", strings.TrimRight(l.WebURL, "/"), id)
}

// Footer is appended to every reply.
func (l Links) Footer() string {
	var b strings.Builder
	b.WriteString("\n\n*****\n\n")
	b.WriteString("|[^(Info)](")
	b.WriteString(l.InfoURL)
	b.WriteString(")|[^(Custom)](")
	b.WriteString(l.Compose("Reminder", "[LINK INSIDE SQUARE BRACKETS else default to FAQs]\n\nRemindMe! "))
	b.WriteString(")|[^(Your Reminders)](")
	b.WriteString(l.Compose("List Of Reminders", "MyReminders!"))
	b.WriteString(")|[^(Feedback)](")
	b.WriteString(l.composeTo(l.OwnerName, "RemindMeBot Feedback", ""))
	b.WriteString(")|\n|-|-|-|-|")
	return b.String()
}
