package chat

import (
	"context"
	"database/sql"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// SaveMessage inserts the row and reads back the storage-assigned id and
// timestamp, which are what the broadcast carries.
func (r *Repository) SaveMessage(ctx context.Context, senderID, receiverID int, content string) (*Message, error) {
	msg := &Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}

	query := `INSERT INTO messages (sender_id, receiver_id, content)
	          VALUES ($1, $2, $3) RETURNING id, timestamp`
	err := r.db.QueryRowContext(ctx, query, senderID, receiverID, content).Scan(&msg.ID, &msg.Timestamp)
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// History returns both directions of the pair's conversation, ascending by
// id. Id order is commit order; timestamps are not trusted for ordering.
func (r *Repository) History(ctx context.Context, userA, userB int) ([]*Message, error) {
	query := `
		SELECT id, sender_id, receiver_id, content, timestamp FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, userA, userB)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []*Message{}
	for rows.Next() {
		msg := &Message{}
		if err := rows.Scan(&msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.Content, &msg.Timestamp); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
