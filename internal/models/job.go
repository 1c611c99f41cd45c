package models

import "time"

// Job is a display view over a job-listing record
type Job struct {
	ID        string   `json:"id,omitempty"`
	Title     string   `json:"title"`
	Company   string   `json:"company,omitempty"`
	Location  string   `json:"location,omitempty"`
	URL       string   `json:"url"`
	Platform  string   `json:"platform,omitempty"`
	Score     *float64 `json:"score,omitempty"`
	Reasoning string   `json:"reasoning,omitempty"`
}

// Well-known record fields
const (
	FieldID        = "id"
	FieldTitle     = "title"
	FieldCompany   = "company"
	FieldLocation  = "location"
	FieldURL       = "url"
	FieldPlatform  = "platform"
	FieldScore     = "score"
	FieldReasoning = "reasoning"

	FieldAgent     = "agent"
	FieldMessage   = "message"
	FieldTimestamp = "timestamp"
)

// JobFromRecord builds a Job view. Fields of unexpected type are rendered as text.
func JobFromRecord(r Record) Job {
	job := Job{
		ID:        r.String(FieldID),
		Title:     r.String(FieldTitle),
		Company:   r.String(FieldCompany),
		Location:  r.String(FieldLocation),
		URL:       r.String(FieldURL),
		Platform:  r.String(FieldPlatform),
		Reasoning: r.String(FieldReasoning),
	}
	if score, ok := r.Float(FieldScore); ok {
		job.Score = &score
	}
	return job
}

// ChatTimeFormat is the wall-clock stamp used on hive chat messages (HH:MM:SS)
const ChatTimeFormat = time.TimeOnly

// ChatMessage is one hive chat entry
type ChatMessage struct {
	Agent     string `json:"agent"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// NewChatMessage stamps a message with the local time of now
func NewChatMessage(agent, message string, now time.Time) ChatMessage {
	return ChatMessage{
		Agent:     agent,
		Message:   message,
		Timestamp: now.Local().Format(ChatTimeFormat),
	}
}

// ToRecord converts the message into a storable record
func (m ChatMessage) ToRecord() Record {
	return Record{
		FieldAgent:     m.Agent,
		FieldMessage:   m.Message,
		FieldTimestamp: m.Timestamp,
	}
}
