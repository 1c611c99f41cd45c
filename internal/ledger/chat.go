package ledger

import (
	"job-ledger-go/internal/models"
	"job-ledger-go/internal/storage"
)

// PostMessage appends msg to the chat store. With maxHistory > 0 only the
// newest maxHistory messages are kept.
func PostMessage(chat storage.Store, msg models.ChatMessage, maxHistory int) error {
	if maxHistory <= 0 {
		return chat.Append(msg.ToRecord())
	}

	history, _, err := chat.Load()
	if err != nil {
		return err
	}

	history = append(history, msg.ToRecord())
	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}

	return chat.Save(history)
}
