package chat

import (
	"fmt"
	"strconv"
	"strings"
)

// Channel is the routing key for one pair's live traffic: an opaque ordered
// pair, not a concatenated string, so ids can never collide through a
// separator. The zero value means "not joined".
type Channel struct {
	low  int
	high int
}

// ChannelFor computes the canonical channel for an unordered pair.
// ChannelFor(x, y) == ChannelFor(y, x) for all x, y.
func ChannelFor(x, y int) Channel {
	if x > y {
		x, y = y, x
	}
	return Channel{low: x, high: y}
}

// Key renders the channel as the pub/sub subject ("chat.<low>.<high>").
func (c Channel) Key() string {
	return fmt.Sprintf("chat.%d.%d", c.low, c.high)
}

// ParseChannelKey inverts Key for subjects received off the bus.
func ParseChannelKey(key string) (Channel, error) {
	parts := strings.Split(key, ".")
	if len(parts) != 3 || parts[0] != "chat" {
		return Channel{}, fmt.Errorf("malformed channel key %q", key)
	}
	low, err := strconv.Atoi(parts[1])
	if err != nil {
		return Channel{}, fmt.Errorf("malformed channel key %q", key)
	}
	high, err := strconv.Atoi(parts[2])
	if err != nil {
		return Channel{}, fmt.Errorf("malformed channel key %q", key)
	}
	return Channel{low: low, high: high}, nil
}
