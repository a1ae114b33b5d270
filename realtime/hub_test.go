package realtime

import (
	"testing"

	"kree/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(id string, role models.Role) *Client {
	return NewClient(&models.User{ID: id, Role: role, FirstName: id}, nil, nil, nil, zap.NewNop())
}

// drain pops every queued event off the client's send channel.
func drain(c *Client) []ServerEvent {
	var events []ServerEvent
	for {
		select {
		case ev := <-c.send:
			events = append(events, ev)
		default:
			return events
		}
	}
}

func TestHubJoinIsIdempotent(t *testing.T) {
	hub := NewHub(zap.NewNop())
	c := newTestClient("u1", models.RoleCustomer)
	hub.Register(c)

	hub.Join(c, "chat_1")
	hub.Join(c, "chat_1")

	assert.Equal(t, 1, hub.RoomSize("chat_1"))

	hub.Broadcast("chat_1", EventUserTyping, TypingPayload{UserID: "u2", IsTyping: true})
	assert.Len(t, drain(c), 1)
}

func TestHubBroadcastExcludesSender(t *testing.T) {
	hub := NewHub(zap.NewNop())
	sender := newTestClient("sender", models.RoleCustomer)
	other := newTestClient("other", models.RoleAgency)
	hub.Register(sender)
	hub.Register(other)
	hub.Join(sender, "chat_9")
	hub.Join(other, "chat_9")

	hub.Broadcast("chat_9", EventNewMessage, MessagePayload{ChatID: "9"}, sender)

	assert.Empty(t, drain(sender))
	events := drain(other)
	require.Len(t, events, 1)
	assert.Equal(t, EventNewMessage, events[0].Event)
}

func TestHubEmitReachesWholeRoom(t *testing.T) {
	hub := NewHub(zap.NewNop())
	a := newTestClient("a", models.RoleCustomer)
	b := newTestClient("b", models.RoleCustomer)
	hub.Register(a)
	hub.Register(b)
	hub.Join(a, "request_7")
	hub.Join(b, "request_7")

	hub.Emit("request_7", EventNewProposal, ProposalPayload{RequestID: "7"})

	assert.Len(t, drain(a), 1)
	assert.Len(t, drain(b), 1)
}

func TestHubUnregisterLeavesAllRooms(t *testing.T) {
	hub := NewHub(zap.NewNop())
	c := newTestClient("u1", models.RoleAgency)
	hub.Register(c)
	hub.Join(c, "agency_u1")
	hub.Join(c, "request_1")
	hub.Join(c, "chat_1")

	hub.Unregister(c)

	assert.Equal(t, 0, hub.RoomSize("agency_u1"))
	assert.Equal(t, 0, hub.RoomSize("request_1"))
	assert.Equal(t, 0, hub.RoomSize("chat_1"))

	// A broadcast into the emptied room delivers nothing.
	hub.Broadcast("request_1", EventNewProposal, ProposalPayload{RequestID: "1"})
	assert.Empty(t, drain(c))
}

func TestHubLeaveSingleRoom(t *testing.T) {
	hub := NewHub(zap.NewNop())
	c := newTestClient("u1", models.RoleCustomer)
	hub.Register(c)
	hub.Join(c, "chat_1")
	hub.Join(c, "chat_2")

	hub.Leave(c, "chat_1")

	assert.Equal(t, 0, hub.RoomSize("chat_1"))
	assert.Equal(t, 1, hub.RoomSize("chat_2"))
}

func TestRoomNames(t *testing.T) {
	assert.Equal(t, "customer_42", PersonalRoom(models.RoleCustomer, "42"))
	assert.Equal(t, "agency_7", PersonalRoom(models.RoleAgency, "7"))
	assert.Equal(t, "chat_abc", ChatRoom("abc"))
	assert.Equal(t, "request_xyz", RequestRoom("xyz"))
}
