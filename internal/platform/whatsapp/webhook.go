package whatsapp

// Inbound webhook payload, trimmed to the fields this service reads.
// The Cloud API nests the message under entry[0].changes[0].value.messages[0].

type WebhookPayload struct {
	Entry []Entry `json:"entry"`
}

type Entry struct {
	Changes []Change `json:"changes"`
}

type Change struct {
	Value Value `json:"value"`
}

type Value struct {
	Messages []Message `json:"messages"`
}

type Message struct {
	From string       `json:"from"`
	Text *MessageText `json:"text"`
}

type MessageText struct {
	Body string `json:"body"`
}

// FirstMessage returns the first inbound message in the payload, or nil when
// the notification carries none (status updates and the like).
func (p *WebhookPayload) FirstMessage() *Message {
	if len(p.Entry) == 0 || len(p.Entry[0].Changes) == 0 {
		return nil
	}
	msgs := p.Entry[0].Changes[0].Value.Messages
	if len(msgs) == 0 {
		return nil
	}
	return &msgs[0]
}

// Body returns the text body of the message, or "" when there is none.
func (m *Message) Body() string {
	if m.Text == nil {
		return ""
	}
	return m.Text.Body
}
