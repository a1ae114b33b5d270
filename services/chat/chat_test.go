package chat

import (
	"sort"
	"testing"

	"kree/models"
	"kree/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type memChatRepo struct {
	chats map[string]*models.Chat
}

func (r *memChatRepo) Create(chat *models.Chat) error {
	clone := *chat
	r.chats[chat.ID] = &clone
	return nil
}

func (r *memChatRepo) GetByID(id string) (*models.Chat, error) {
	c, ok := r.chats[id]
	if !ok {
		return nil, nil
	}
	clone := *c
	clone.Messages = append([]models.Message(nil), c.Messages...)
	return &clone, nil
}

func (r *memChatRepo) FindActiveByPair(customerID, agencyID string) (*models.Chat, error) {
	for _, c := range r.chats {
		if c.Customer == customerID && c.Agency == agencyID && c.IsActive {
			return r.GetByID(c.ID)
		}
	}
	return nil, nil
}

func (r *memChatRepo) ListForUser(userID string, role models.Role) ([]models.Chat, error) {
	var out []models.Chat
	for _, c := range r.chats {
		if (role == models.RoleCustomer && c.Customer == userID) ||
			(role == models.RoleAgency && c.Agency == userID) {
			clone, _ := r.GetByID(c.ID)
			out = append(out, *clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memChatRepo) AppendMessage(chatID string, msg models.Message) error {
	c := r.chats[chatID]
	c.Messages = append(c.Messages, msg)
	c.LastMessage = &models.LastMessage{Content: msg.Content, Timestamp: msg.Timestamp, Sender: msg.Sender}
	return nil
}

func (r *memChatRepo) MarkRead(chatID, readerID string) error {
	c, ok := r.chats[chatID]
	if !ok {
		return nil
	}
	for i := range c.Messages {
		if c.Messages[i].Sender != readerID {
			c.Messages[i].IsRead = true
		}
	}
	return nil
}

type pairUserRepo struct {
	users map[string]*models.User
}

func (r *pairUserRepo) Create(u *models.User) error { return nil }
func (r *pairUserRepo) Update(u *models.User) error { return nil }
func (r *pairUserRepo) Delete(id string) error      { return nil }

func (r *pairUserRepo) GetByID(id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (r *pairUserRepo) GetByEmail(email string) (*models.User, error) { return nil, nil }

func (r *pairUserRepo) GetByIDWithProjection(id string, projection bson.M) (*models.User, error) {
	return r.GetByID(id)
}

func (r *pairUserRepo) GetByEmailWithProjection(email string, projection bson.M) (*models.User, error) {
	return nil, nil
}

func (r *pairUserRepo) FindVerifiedAgenciesByCity(city string) ([]models.User, error) {
	return nil, nil
}

func (r *pairUserRepo) UpdateTokenHash(id, tokenHash string) error { return nil }

func (r *pairUserRepo) GetAll(role models.Role, page, limit int) ([]models.User, int64, error) {
	return nil, 0, nil
}

func (r *pairUserRepo) CountByRole(role models.Role) (int64, error) { return 0, nil }

type chatNotifier struct {
	messages       []models.Message
	legacyMessages []models.Message
	reads          []string
}

func (n *chatNotifier) NotifyNewRequest(*models.Request, *models.User, []models.User) {}
func (n *chatNotifier) NotifyNewProposal(*models.Proposal, string)                    {}

func (n *chatNotifier) NotifyNewMessage(chat *models.Chat, msg models.Message) {
	n.messages = append(n.messages, msg)
}

func (n *chatNotifier) NotifyNewMessageLegacy(chat *models.Chat, msg models.Message) {
	n.legacyMessages = append(n.legacyMessages, msg)
}

func (n *chatNotifier) NotifyMessagesRead(chat *models.Chat, readerID string) {
	n.reads = append(n.reads, readerID)
}

func (n *chatNotifier) NotifyBookingCreated(*models.Booking, string) {}
func (n *chatNotifier) NotifyBookingStatus(*models.Booking, string)  {}

var (
	customer = &models.User{ID: "cust-1", Role: models.RoleCustomer, FirstName: "Yasmine"}
	agency   = &models.User{ID: "ag-1", Role: models.RoleAgency, AgencyName: "Atlas Cars"}
	stranger = &models.User{ID: "cust-9", Role: models.RoleCustomer, FirstName: "Driss"}
)

func newChatFixture() (*DefaultChatService, *memChatRepo, *chatNotifier) {
	repo := &memChatRepo{chats: make(map[string]*models.Chat)}
	users := &pairUserRepo{users: map[string]*models.User{
		customer.ID: customer,
		agency.ID:   agency,
		stranger.ID: stranger,
	}}
	notifier := &chatNotifier{}
	return NewDefaultChatService(repo, users, notifier), repo, notifier
}

func TestOpenThreadIsIdempotent(t *testing.T) {
	svc, _, _ := newChatFixture()

	first, err := svc.OpenThread(customer, agency.ID)
	require.NoError(t, err)
	assert.True(t, first.IsActive)
	assert.Equal(t, customer.ID, first.Customer)
	assert.Equal(t, agency.ID, first.Agency)

	// Opening from the other side returns the same thread.
	second, err := svc.OpenThread(agency, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestOpenThreadRejectsSameRolePair(t *testing.T) {
	svc, _, _ := newChatFixture()

	_, err := svc.OpenThread(customer, stranger.ID)
	assert.True(t, utils.IsValidation(err))
}

func TestPostMessage(t *testing.T) {
	svc, repo, notifier := newChatFixture()
	thread, err := svc.OpenThread(customer, agency.ID)
	require.NoError(t, err)

	msg, err := svc.PostMessage(customer, thread.ID, "  Bonjour, is the Duster available?  ")
	require.NoError(t, err)

	assert.Equal(t, "Bonjour, is the Duster available?", msg.Content)
	assert.Equal(t, customer.ID, msg.Sender)
	assert.Equal(t, "Yasmine", msg.SenderName)
	assert.False(t, msg.IsRead)

	stored, _ := repo.GetByID(thread.ID)
	require.Len(t, stored.Messages, 1)
	require.NotNil(t, stored.LastMessage)
	assert.Equal(t, msg.Content, stored.LastMessage.Content)

	// Realtime sends go out once, never under the legacy name as well.
	require.Len(t, notifier.messages, 1)
	assert.Empty(t, notifier.legacyMessages)

	t.Run("empty content is refused", func(t *testing.T) {
		_, err := svc.PostMessage(customer, thread.ID, "   ")
		assert.True(t, utils.IsValidation(err))
	})

	t.Run("outsider cannot post", func(t *testing.T) {
		_, err := svc.PostMessage(stranger, thread.ID, "hello")
		assert.True(t, utils.IsNotAuthorized(err))
	})
}

func TestPostMessageWebUsesLegacyEvent(t *testing.T) {
	svc, repo, notifier := newChatFixture()
	thread, err := svc.OpenThread(customer, agency.ID)
	require.NoError(t, err)

	msg, err := svc.PostMessageWeb(agency, thread.ID, "We have one available Friday")
	require.NoError(t, err)
	assert.Equal(t, agency.ID, msg.Sender)

	stored, _ := repo.GetByID(thread.ID)
	require.Len(t, stored.Messages, 1)

	// REST sends go out once, under new_message only.
	require.Len(t, notifier.legacyMessages, 1)
	assert.Empty(t, notifier.messages)
	assert.Equal(t, msg.ID, notifier.legacyMessages[0].ID)
}

func TestMarkReadFlipsOnlyOtherPartysMessages(t *testing.T) {
	svc, repo, notifier := newChatFixture()
	thread, err := svc.OpenThread(customer, agency.ID)
	require.NoError(t, err)

	_, err = svc.PostMessage(customer, thread.ID, "first")
	require.NoError(t, err)
	_, err = svc.PostMessage(agency, thread.ID, "second")
	require.NoError(t, err)

	require.NoError(t, svc.MarkRead(agency, thread.ID))

	stored, _ := repo.GetByID(thread.ID)
	require.Len(t, stored.Messages, 2)
	assert.True(t, stored.Messages[0].IsRead, "customer's message read by agency")
	assert.False(t, stored.Messages[1].IsRead, "agency's own message untouched")

	assert.Equal(t, []string{agency.ID}, notifier.reads)

	t.Run("outsider cannot mark read", func(t *testing.T) {
		err := svc.MarkRead(stranger, thread.ID)
		assert.True(t, utils.IsNotAuthorized(err))
	})
}

func TestListThreadsComputesUnreadCount(t *testing.T) {
	svc, _, _ := newChatFixture()
	thread, err := svc.OpenThread(customer, agency.ID)
	require.NoError(t, err)

	_, err = svc.PostMessage(customer, thread.ID, "one")
	require.NoError(t, err)
	_, err = svc.PostMessage(customer, thread.ID, "two")
	require.NoError(t, err)
	_, err = svc.PostMessage(agency, thread.ID, "reply")
	require.NoError(t, err)

	agencyThreads, err := svc.ListThreads(agency)
	require.NoError(t, err)
	require.Len(t, agencyThreads, 1)
	assert.Equal(t, 2, agencyThreads[0].UnreadCount)

	customerThreads, err := svc.ListThreads(customer)
	require.NoError(t, err)
	require.Len(t, customerThreads, 1)
	assert.Equal(t, 1, customerThreads[0].UnreadCount)
}

func TestGetThreadMarksReadForViewer(t *testing.T) {
	svc, _, _ := newChatFixture()
	thread, err := svc.OpenThread(customer, agency.ID)
	require.NoError(t, err)

	_, err = svc.PostMessage(customer, thread.ID, "ping")
	require.NoError(t, err)

	viewed, err := svc.GetThread(agency, thread.ID)
	require.NoError(t, err)
	require.Len(t, viewed.Messages, 1)
	assert.True(t, viewed.Messages[0].IsRead)
	assert.Equal(t, "Yasmine", viewed.Messages[0].SenderName)

	t.Run("outsider cannot view", func(t *testing.T) {
		_, err := svc.GetThread(stranger, thread.ID)
		assert.True(t, utils.IsNotAuthorized(err))
	})
}
