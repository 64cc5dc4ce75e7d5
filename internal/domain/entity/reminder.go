package entity

import (
	"errors"
	"fmt"
	"time"

	"remindme/internal/domain/timeparse"

	"gorm.io/gorm"
)

// TimeLayout is how reminder instants are shown to users.
const TimeLayout = "2006-01-02 15:04:05 MST"

// Reminder is one scheduled reminder owned by a user.
type Reminder struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"`
	Source        string    `gorm:"column:source;type:text"`
	Message       string    `gorm:"column:message;type:text"`
	UserID        string    `gorm:"column:user_id;index"`
	RequestedDate time.Time `gorm:"column:requested_date"`
	TargetDate    time.Time `gorm:"column:target_date;index"`

	// Populated by NewReminder, never stored.
	Valid         bool   `gorm:"-"`
	ResultMessage string `gorm:"-"`
	Err           error  `gorm:"-"`
}

// TableName specifies the table name for the Reminder entity.
func (Reminder) TableName() string {
	return "reminders"
}

// AfterFind normalises loaded instants to UTC.
func (r *Reminder) AfterFind(tx *gorm.DB) error {
	r.RequestedDate = r.RequestedDate.UTC()
	r.TargetDate = r.TargetDate.UTC()
	return nil
}

// NewReminder builds a reminder from a parsed command. message may be empty,
// in which case the source link is used as the label. timeString is resolved
// relative to requestedDate; failures leave Valid false with ResultMessage
// holding the text to send back.
func NewReminder(source, message, userID string, requestedDate time.Time, timeString string) *Reminder {
	r := &Reminder{
		Source:        source,
		Message:       message,
		UserID:        userID,
		RequestedDate: requestedDate.UTC(),
	}
	if r.Message == "" {
		r.Message = source
	}

	res, err := timeparse.Parse(timeString, r.RequestedDate)
	if err != nil {
		r.Err = err
		r.ResultMessage = resultMessage(err)
		return r
	}

	r.TargetDate = res.Target.UTC()
	r.Valid = true
	return r
}

// ValidateAt re-checks a parsed reminder against the current time, which
// can be later than RequestedDate when a message sat in the inbox.
func (r *Reminder) ValidateAt(now time.Time) bool {
	if r.Valid && !r.TargetDate.After(now) {
		r.Valid = false
		r.Err = &timeparse.Error{Kind: timeparse.PastDate, Target: r.TargetDate}
		r.ResultMessage = resultMessage(r.Err)
	}
	return r.Valid
}

func resultMessage(err error) string {
	var perr *timeparse.Error
	if !errors.As(err, &perr) {
		return "Something went wrong reading the time in your message"
	}
	switch perr.Kind {
	case timeparse.UnparseableDate:
		return fmt.Sprintf("Could not parse date: %s", perr.Input)
	case timeparse.PastDate:
		return fmt.Sprintf("This time, %s, has already passed", RenderTime(perr.Target))
	default:
		return "Could not find a time in message"
	}
}

// RenderConfirmation is the acknowledgement sent after a successful save.
// The message is echoed verbatim.
func (r *Reminder) RenderConfirmation() string {
	return fmt.Sprintf("I will be messaging you on %s to remind you of **%s**", RenderTime(r.TargetDate), r.Message)
}

// RenderTime formats t in UTC for display.
func RenderTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}
