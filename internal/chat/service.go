package chat

import (
	"context"
	"encoding/json"
	"fmt"

	"go-matchchat/internal/apperr"
)

// MessageStore is implemented by Repository; tests swap in fakes.
type MessageStore interface {
	SaveMessage(ctx context.Context, senderID, receiverID int, content string) (*Message, error)
	History(ctx context.Context, userA, userB int) ([]*Message, error)
}

// MatchChecker answers "do these two users share a match". Implemented by
// the match service.
type MatchChecker interface {
	Matched(ctx context.Context, a, b int) (bool, error)
}

// Broadcaster fans a payload out to a channel's live members. Implemented
// by Hub.
type Broadcaster interface {
	Publish(channel Channel, payload []byte)
}

type Service struct {
	repo        MessageStore
	matches     MatchChecker
	broadcaster Broadcaster
}

func NewService(repo MessageStore, matches MatchChecker, broadcaster Broadcaster) *Service {
	return &Service{
		repo:        repo,
		matches:     matches,
		broadcaster: broadcaster,
	}
}

// AuthorizeJoin validates a join request and resolves its channel: the peer
// must be a real, distinct user matched with userID.
func (s *Service) AuthorizeJoin(ctx context.Context, userID, peerID int) (Channel, error) {
	if peerID <= 0 || peerID == userID {
		return Channel{}, fmt.Errorf("invalid peer id %d: %w", peerID, apperr.ErrValidation)
	}
	matched, err := s.matches.Matched(ctx, userID, peerID)
	if err != nil {
		return Channel{}, err
	}
	if !matched {
		return Channel{}, fmt.Errorf("users %d and %d are not matched: %w", userID, peerID, apperr.ErrUnauthorized)
	}
	return ChannelFor(userID, peerID), nil
}

// Send persists the message and then broadcasts the persisted row to the
// pair's channel. Order matters: the broadcast carries the storage-assigned
// id and timestamp, so a client replaying history and a client watching
// live events see the same total order. A failed insert aborts the send and
// nothing reaches the wire.
func (s *Service) Send(ctx context.Context, senderID, receiverID int, content string) (*Message, error) {
	if content == "" {
		return nil, fmt.Errorf("content is required: %w", apperr.ErrValidation)
	}
	if receiverID <= 0 || receiverID == senderID {
		return nil, fmt.Errorf("invalid receiver id %d: %w", receiverID, apperr.ErrValidation)
	}

	matched, err := s.matches.Matched(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, fmt.Errorf("users %d and %d are not matched: %w", senderID, receiverID, apperr.ErrUnauthorized)
	}

	msg, err := s.repo.SaveMessage(ctx, senderID, receiverID, content)
	if err != nil {
		return nil, fmt.Errorf("save message: %w", err)
	}

	payload, err := json.Marshal(Envelope{Type: FrameReceive, Message: msg})
	if err != nil {
		return nil, err
	}
	s.broadcaster.Publish(ChannelFor(senderID, receiverID), payload)

	return msg, nil
}

// History returns the pair's conversation ascending by id. Symmetric in its
// arguments.
func (s *Service) History(ctx context.Context, userA, userB int) ([]*Message, error) {
	if userB <= 0 {
		return nil, fmt.Errorf("invalid peer id %d: %w", userB, apperr.ErrValidation)
	}
	return s.repo.History(ctx, userA, userB)
}
