// Package render turns reminders into the markdown sent back to users.
package render

import (
	"strconv"

	"remindme/internal/domain/entity"
	"remindme/internal/pkg/textbuilder"
)

// DefaultMaxListLength keeps a listing comfortably under the 10000
// character private message limit once the footer is added.
const DefaultMaxListLength = 9000

const (
	NoRemindersText = "You don't have any reminders."
	TooManyText     = "\nToo many reminders to display."
)

// ListFormatter renders a user's reminders as a table with remove links.
type ListFormatter struct {
	links     Links
	maxLength int
}

// NewListFormatter creates a formatter. maxLength <= 0 selects DefaultMaxListLength.
func NewListFormatter(links Links, maxLength int) *ListFormatter {
	if maxLength <= 0 {
		maxLength = DefaultMaxListLength
	}
	return &ListFormatter{links: links, maxLength: maxLength}
}

// Format renders reminders in the order given. previous switches the header
// to past tense, used when showing what was just deleted.
func (f *ListFormatter) Format(reminders []*entity.Reminder, previous bool) string {
	if len(reminders) == 0 {
		return NoRemindersText
	}

	b := textbuilder.New(f.maxLength)
	if previous {
		b.WriteString("Your previous reminders:")
	} else {
		b.WriteString("Your current reminders:")
	}
	b.WriteString("\n\n")

	if len(reminders) > 1 {
		b.WriteString("[Click here to delete all your reminders](", f.links.Compose("Remove All", "RemoveAll!"), ")\n\n")
	}

	b.WriteString("|Source|Message|Date|Remove|\n")
	b.WriteString("|-|-|-|:-:|\n")
	for _, r := range reminders {
		row := "|" + r.Source +
			"|" + r.Message +
			"|" + entity.RenderTime(r.TargetDate) +
			"|[Remove](" + f.links.Compose("Remove", "Remove! "+strconv.FormatUint(uint64(r.ID), 10)) + ")" +
			"|\n"
		// The row that crosses the cap is still shown; nothing after it is.
		over := b.WouldExceed(row)
		b.WriteString(row)
		if over {
			b.WriteString(TooManyText)
			break
		}
	}
	return b.String()
}
