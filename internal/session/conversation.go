package session

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// GeneralTopic keys the conversation that is not tied to any section.
const GeneralTopic = "general"

// Turn is one exchange in a conversation transcript.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AddTurn appends a turn to the transcript for a topic. Topics are section
// titles or GeneralTopic; two sections sharing a title collapse into one
// transcript, a documented limitation of keying by title.
func (s *Session) AddTurn(topic, role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if topic == "" {
		topic = GeneralTopic
	}
	s.conversations[topic] = append(s.conversations[topic], Turn{Role: role, Content: content})
}

// Conversation returns a copy of the transcript for a topic.
func (s *Session) Conversation(topic string) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	if topic == "" {
		topic = GeneralTopic
	}
	turns := s.conversations[topic]
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}

// Topics lists every topic that has at least one turn.
func (s *Session) Topics() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.conversations))
	for topic := range s.conversations {
		out = append(out, topic)
	}
	return out
}
