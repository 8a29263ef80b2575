package chat

import (
	"fmt"
	"strings"
)

// Role identifies the author of a chat message
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a conversation
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Validate rejects roles outside the fixed set
func (m Message) Validate() error {
	switch m.Role {
	case RoleSystem, RoleUser, RoleAssistant:
		return nil
	default:
		return fmt.Errorf("invalid message role %q", m.Role)
	}
}

// NormalizeHistory lower-cases roles, defaults empty roles to user and
// validates every entry.
func NormalizeHistory(history []Message) ([]Message, error) {
	out := make([]Message, 0, len(history))
	for i, m := range history {
		m.Role = Role(strings.ToLower(strings.TrimSpace(string(m.Role))))
		if m.Role == "" {
			m.Role = RoleUser
		}
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("chat history entry %d: %w", i, err)
		}
		out = append(out, m)
	}
	return out, nil
}

func system(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

func user(content string) Message {
	return Message{Role: RoleUser, Content: content}
}
