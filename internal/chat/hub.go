package chat

import (
	"context"
	"log"
)

type joinRequest struct {
	client  *Client
	channel Channel
}

type channelMessage struct {
	channel Channel
	payload []byte
}

// Hub tracks live connections and their channel membership. The Run loop is
// the only goroutine that touches the maps and the clients' channel fields,
// so no locks are needed.
type Hub struct {
	clients map[*Client]bool
	members map[Channel]map[*Client]bool

	Register   chan *Client
	Unregister chan *Client
	joins      chan joinRequest
	publish    chan channelMessage
	deliver    chan channelMessage

	bus MessageBus
}

func NewHub(bus MessageBus) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		members:    make(map[Channel]map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		joins:      make(chan joinRequest),
		publish:    make(chan channelMessage),
		deliver:    make(chan channelMessage),
		bus:        bus,
	}
}

// Join replaces the client's current membership with channel. Callers must
// have authorized the join already.
func (h *Hub) Join(c *Client, channel Channel) {
	h.joins <- joinRequest{client: c, channel: channel}
}

// Publish pushes an already-persisted message onto the bus for the given
// channel. Delivery to local members happens when the event comes back off
// the bus, same as on every other instance.
func (h *Hub) Publish(channel Channel, payload []byte) {
	h.publish <- channelMessage{channel: channel, payload: payload}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true

		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				h.leave(client)
				delete(h.clients, client)
				close(client.Send)
			}

		case req := <-h.joins:
			if _, ok := h.clients[req.client]; !ok {
				continue
			}
			h.leave(req.client)
			if h.members[req.channel] == nil {
				h.members[req.channel] = make(map[*Client]bool)
			}
			h.members[req.channel][req.client] = true
			req.client.channel = req.channel
			req.client.joined = true

		case msg := <-h.publish:
			if err := h.bus.Publish(context.Background(), msg.channel.Key(), msg.payload); err != nil {
				log.Printf("bus publish error: %v", err)
			}

		case msg := <-h.deliver:
			for client := range h.members[msg.channel] {
				select {
				case client.Send <- msg.payload:
				default:
					h.leave(client)
					delete(h.clients, client)
					close(client.Send)
				}
			}
		}
	}
}

// SubscribeToBus pipes channel events from the bus into the deliver path.
// Run alongside Run.
func (h *Hub) SubscribeToBus(ctx context.Context) {
	for ev := range h.bus.Subscribe(ctx, "chat.*") {
		channel, err := ParseChannelKey(ev.Key)
		if err != nil {
			log.Printf("bus: %v", err)
			continue
		}
		h.deliver <- channelMessage{channel: channel, payload: ev.Payload}
	}
}

// leave drops the client from its current broadcast group. Run-loop only.
func (h *Hub) leave(c *Client) {
	if !c.joined {
		return
	}
	if group, ok := h.members[c.channel]; ok {
		delete(group, c)
		if len(group) == 0 {
			delete(h.members, c.channel)
		}
	}
	c.joined = false
	c.channel = Channel{}
}
