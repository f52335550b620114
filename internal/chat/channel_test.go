package chat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChannelFor_Commutative(t *testing.T) {
	req := require.New(t)

	pairs := [][2]int{{1, 2}, {2, 1}, {7, 1000}, {999999, 3}, {1, 21}}
	for _, p := range pairs {
		req.Equal(ChannelFor(p[0], p[1]), ChannelFor(p[1], p[0]))
	}
}

func TestChannelFor_DistinctPairsDistinctChannels(t *testing.T) {
	req := require.New(t)

	// (1,21) and (12,1) would collide under naive string concatenation.
	req.NotEqual(ChannelFor(1, 21), ChannelFor(12, 1))
	req.NotEqual(ChannelFor(1, 2), ChannelFor(1, 3))
	req.NotEqual(ChannelFor(1, 2), ChannelFor(2, 3))
}

func TestChannelKey_RoundTrip(t *testing.T) {
	req := require.New(t)

	ch := ChannelFor(42, 7)
	req.Equal("chat.7.42", ch.Key())

	parsed, err := ParseChannelKey(ch.Key())
	req.NoError(err)
	req.Equal(ch, parsed)
}

func TestParseChannelKey_Malformed(t *testing.T) {
	req := require.New(t)

	for _, key := range []string{"", "chat", "chat.1", "chat.1.2.3", "other.1.2", "chat.x.2", "chat.1.y"} {
		_, err := ParseChannelKey(key)
		req.Error(err, "key %q", key)
	}
}
