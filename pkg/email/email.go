package email

import "context"

// Message is a fully composed outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers a composed message. Implementations report delivery failure
// through the returned error; callers on the webhook path log and swallow it.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
