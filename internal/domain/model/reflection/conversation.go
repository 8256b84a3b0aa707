package reflection

import (
	"time"
)

// Speaker identifies who wrote a message
type Speaker string

const (
	SpeakerCoach Speaker = "coach"
	SpeakerUser  Speaker = "user"
)

// Message is one turn of the reflection conversation
type Message struct {
	Speaker Speaker
	Text    string
	At      time.Time
}

// Conversation is the chronological (oldest first) reflection history
type Conversation struct {
	messages []Message
}

// NewConversation starts a conversation with the coach's greeting
func NewConversation(greeting string, at time.Time) *Conversation {
	c := &Conversation{}
	if greeting != "" {
		c.messages = append(c.messages, Message{Speaker: SpeakerCoach, Text: greeting, At: at})
	}
	return c
}

// Append adds a message at the end
func (c *Conversation) Append(m Message) {
	c.messages = append(c.messages, m)
}

// Messages returns a copy of the history
func (c *Conversation) Messages() []Message {
	return append([]Message(nil), c.messages...)
}

// SharedCount returns how many reflections the user has shared
func (c *Conversation) SharedCount() int {
	n := 0
	for _, m := range c.messages {
		if m.Speaker == SpeakerUser {
			n++
		}
	}
	return n
}

// LastShared returns the user's most recent reflection
func (c *Conversation) LastShared() (Message, bool) {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Speaker == SpeakerUser {
			return c.messages[i], true
		}
	}
	return Message{}, false
}
