package dto

import "time"

// Message is one inbound private message, normalised across platforms.
type Message struct {
	ID        string    // platform message id
	Body      string    // raw text as typed by the user
	Author    string    // requesting user's identity, compared case-sensitively
	CreatedAt time.Time // when the platform received the message
	Permalink string    // link back to the message, used as a reminder's source
	ReplyTo   string    // platform handle needed to answer (fullname, reply token, chat:message)
}
