package mails

// Payload is what the mail adapter needs to send one message. Rendering
// happens upstream so the adapter stays template-agnostic.
type Payload struct {
	To      string
	Subject string
	Body    string
}
