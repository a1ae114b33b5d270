package booking

import (
	"context"
	"testing"
	"time"

	"kree/config"
	bookingRepo "kree/database/repository/booking"
	proposalRepo "kree/database/repository/proposal"
	requestRepo "kree/database/repository/request"
	"kree/models"
	"kree/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type fakeBookingRepo struct {
	bookings   map[string]*models.Booking
	requestNot bool // simulate losing the creation race
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (r *fakeBookingRepo) GetByID(id string) (*models.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	clone := *b
	return &clone, nil
}

func (r *fakeBookingRepo) Update(b *models.Booking) error {
	clone := *b
	r.bookings[b.ID] = &clone
	return nil
}

func (r *fakeBookingRepo) List(filter bookingRepo.BookingFilter) ([]models.Booking, int64, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		if filter.Customer != "" && b.Customer != filter.Customer {
			continue
		}
		if filter.Agency != "" && b.Agency != filter.Agency {
			continue
		}
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) FindActiveByCustomer(customerID string) (*models.Booking, error) {
	var latest *models.Booking
	for _, b := range r.bookings {
		if b.Customer != customerID || b.Status == models.BookingStatusDelivered {
			continue
		}
		if latest == nil || b.CreatedAt.After(latest.CreatedAt) {
			latest = b
		}
	}
	if latest == nil {
		return nil, nil
	}
	clone := *latest
	return &clone, nil
}

func (r *fakeBookingRepo) CreateFromProposal(ctx context.Context, b *models.Booking) error {
	if r.requestNot {
		return bookingRepo.ErrRequestNotOpen
	}
	clone := *b
	r.bookings[b.ID] = &clone
	return nil
}

func (r *fakeBookingRepo) CountByStatus(status string) (int64, error) {
	return int64(len(r.bookings)), nil
}

type fakeProposalRepo struct {
	proposals map[string]*models.Proposal
}

func (r *fakeProposalRepo) Create(p *models.Proposal) error { r.proposals[p.ID] = p; return nil }

func (r *fakeProposalRepo) GetByID(id string) (*models.Proposal, error) {
	p, ok := r.proposals[id]
	if !ok {
		return nil, nil
	}
	clone := *p
	clone.Status = models.EffectiveProposalStatus(clone.Status, clone.ExpiresAt, time.Now())
	return &clone, nil
}

func (r *fakeProposalRepo) Save(p *models.Proposal) error { r.proposals[p.ID] = p; return nil }

func (r *fakeProposalRepo) List(filter proposalRepo.ProposalFilter) ([]models.Proposal, int64, error) {
	return nil, 0, nil
}

func (r *fakeProposalRepo) ExpirePending(now time.Time) (int64, error) { return 0, nil }

type fakeRequestRepo struct {
	statuses map[string]string
}

func (r *fakeRequestRepo) Create(req *models.Request) error             { return nil }
func (r *fakeRequestRepo) GetByID(id string) (*models.Request, error)   { return nil, nil }
func (r *fakeRequestRepo) Update(req *models.Request) error             { return nil }
func (r *fakeRequestRepo) SetNotifiedAgencies(string, []string) error   { return nil }
func (r *fakeRequestRepo) RegisterProposal(id string) error             { return nil }
func (r *fakeRequestRepo) UnregisterProposal(id string) error           { return nil }
func (r *fakeRequestRepo) CountByStatus(status string) (int64, error)   { return 0, nil }
func (r *fakeRequestRepo) List(requestRepo.RequestFilter) ([]models.Request, int64, error) {
	return nil, 0, nil
}

func (r *fakeRequestRepo) UpdateStatus(id, status string) error {
	r.statuses[id] = status
	return nil
}

type fakeScoreRepo struct {
	awards map[string][]models.ScoreEntry
}

func (r *fakeScoreRepo) GetByCustomer(customerID string) (*models.Score, error) {
	return &models.Score{Customer: customerID}, nil
}

func (r *fakeScoreRepo) AddPoints(customerID string, entry models.ScoreEntry) error {
	r.awards[customerID] = append(r.awards[customerID], entry)
	return nil
}

type fakeUserRepo struct{}

func (r *fakeUserRepo) Create(u *models.User) error { return nil }
func (r *fakeUserRepo) Update(u *models.User) error { return nil }
func (r *fakeUserRepo) Delete(id string) error      { return nil }

func (r *fakeUserRepo) GetByID(id string) (*models.User, error) {
	return &models.User{ID: id, Role: models.RoleAgency, AgencyName: "Atlas Cars",
		Address: models.Address{City: "Casablanca"}}, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) { return nil, nil }

func (r *fakeUserRepo) GetByIDWithProjection(id string, projection bson.M) (*models.User, error) {
	return r.GetByID(id)
}

func (r *fakeUserRepo) GetByEmailWithProjection(email string, projection bson.M) (*models.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) FindVerifiedAgenciesByCity(city string) ([]models.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) UpdateTokenHash(id, tokenHash string) error { return nil }

func (r *fakeUserRepo) GetAll(role models.Role, page, limit int) ([]models.User, int64, error) {
	return nil, 0, nil
}

func (r *fakeUserRepo) CountByRole(role models.Role) (int64, error) { return 0, nil }

type fakeNotifier struct {
	created  []string
	statuses []string
}

func (n *fakeNotifier) NotifyNewRequest(*models.Request, *models.User, []models.User) {}
func (n *fakeNotifier) NotifyNewProposal(*models.Proposal, string)                    {}
func (n *fakeNotifier) NotifyNewMessage(*models.Chat, models.Message)                 {}
func (n *fakeNotifier) NotifyNewMessageLegacy(*models.Chat, models.Message)           {}
func (n *fakeNotifier) NotifyMessagesRead(*models.Chat, string)                       {}

func (n *fakeNotifier) NotifyBookingCreated(b *models.Booking, agencyName string) {
	n.created = append(n.created, b.ID)
}

func (n *fakeNotifier) NotifyBookingStatus(b *models.Booking, status string) {
	n.statuses = append(n.statuses, status)
}

type fixture struct {
	svc       *DefaultBookingService
	bookings  *fakeBookingRepo
	proposals *fakeProposalRepo
	requests  *fakeRequestRepo
	scores    *fakeScoreRepo
	notifier  *fakeNotifier
}

func newFixture() *fixture {
	f := &fixture{
		bookings:  newFakeBookingRepo(),
		proposals: &fakeProposalRepo{proposals: make(map[string]*models.Proposal)},
		requests:  &fakeRequestRepo{statuses: make(map[string]string)},
		scores:    &fakeScoreRepo{awards: make(map[string][]models.ScoreEntry)},
		notifier:  &fakeNotifier{},
	}
	f.svc = NewDefaultBookingService(
		f.bookings, f.proposals, f.requests, &fakeUserRepo{}, f.scores, f.notifier,
	)
	return f
}

func pendingProposal() *models.Proposal {
	start := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	return &models.Proposal{
		ID:       "prop-1",
		Request:  "req-1",
		Agency:   "ag-1",
		Customer: "cust-1",
		Car:      models.CarSnapshot{Make: "Dacia", Model: "Duster", Year: 2023},
		Pricing:  models.Pricing{PricePerDay: 200, TotalPrice: 600},
		Availability: models.DatePeriod{
			StartDate: start,
			EndDate:   start.AddDate(0, 0, 3),
		},
		PickupLocation: models.PickupLocation{Address: "12 Bd Zerktouni", City: "Casablanca"},
		Status:         models.ProposalStatusPending,
		ExpiresAt:      time.Now().Add(24 * time.Hour),
	}
}

func TestCreateFromProposal(t *testing.T) {
	f := newFixture()
	f.proposals.proposals["prop-1"] = pendingProposal()

	b, err := f.svc.CreateFromProposal(context.Background(), "cust-1", CreateInput{ProposalID: "prop-1"})
	require.NoError(t, err)

	assert.Equal(t, models.BookingStatusBooked, b.Status)
	assert.Equal(t, "cust-1", b.Customer)
	assert.Equal(t, "ag-1", b.Agency)
	assert.Equal(t, "req-1", b.Request)
	assert.Equal(t, 3, b.NumberOfDays)
	assert.Regexp(t, `^KB-`, b.BookingNumber)

	assert.Equal(t, int64(60000), b.Pricing.TotalPriceCents)
	assert.Equal(t, int64(6000), b.Pricing.PlatformFeeCents)
	assert.Equal(t, int64(54000), b.Pricing.AgencyEarningsCents)

	assert.Equal(t, models.PaymentMethodCashOnPickup, b.Payment.Method)
	assert.Equal(t, models.PaymentStatusPending, b.Payment.Status)
	assert.Equal(t, "Casablanca", b.PickupDetails.City)

	assert.Equal(t, []string{b.ID}, f.notifier.created)
}

func TestCreateFromProposalRaceLoserGetsConflict(t *testing.T) {
	f := newFixture()
	f.proposals.proposals["prop-1"] = pendingProposal()
	f.bookings.requestNot = true

	_, err := f.svc.CreateFromProposal(context.Background(), "cust-1", CreateInput{ProposalID: "prop-1"})
	require.Error(t, err)
	assert.True(t, utils.IsConflict(err))
	assert.Empty(t, f.notifier.created)
}

func TestCreateFromProposalGuards(t *testing.T) {
	t.Run("expired proposal", func(t *testing.T) {
		f := newFixture()
		p := pendingProposal()
		p.ExpiresAt = time.Now().Add(-time.Hour)
		f.proposals.proposals["prop-1"] = p

		_, err := f.svc.CreateFromProposal(context.Background(), "cust-1", CreateInput{ProposalID: "prop-1"})
		assert.True(t, utils.IsConflict(err))
	})

	t.Run("someone else's proposal", func(t *testing.T) {
		f := newFixture()
		f.proposals.proposals["prop-1"] = pendingProposal()

		_, err := f.svc.CreateFromProposal(context.Background(), "cust-2", CreateInput{ProposalID: "prop-1"})
		assert.True(t, utils.IsNotAuthorized(err))
	})

	t.Run("unknown proposal", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.CreateFromProposal(context.Background(), "cust-1", CreateInput{ProposalID: "nope"})
		assert.True(t, utils.IsNotFound(err))
	})
}

func TestBookingLifecycle(t *testing.T) {
	f := newFixture()
	f.proposals.proposals["prop-1"] = pendingProposal()
	b, err := f.svc.CreateFromProposal(context.Background(), "cust-1", CreateInput{ProposalID: "prop-1"})
	require.NoError(t, err)

	b, err = f.svc.Confirm("ag-1", b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, b.Status)

	b, err = f.svc.MarkPickedUp("ag-1", b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPickedUp, b.Status)
	assert.NotNil(t, b.PickupDetails.ActualTime)
	assert.Equal(t, models.PaymentStatusPaid, b.Payment.Status)
	assert.NotNil(t, b.Payment.PaidAt)

	b, err = f.svc.MarkReturned("ag-1", b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusReturned, b.Status)
	assert.NotNil(t, b.ReturnDetails.ActualTime)

	b, err = f.svc.Complete(&models.User{ID: "ag-1", Role: models.RoleAgency}, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusDelivered, b.Status)
	assert.Equal(t, models.PaymentStatusDelivered, b.Payment.Status)
	assert.NotNil(t, b.Payment.DeliveredAt)

	// Delivery cascades to the request and awards loyalty points.
	assert.Equal(t, models.RequestStatusDelivered, f.requests.statuses["req-1"])
	require.Len(t, f.scores.awards["cust-1"], 1)
	assert.Equal(t, models.DeliveryPoints, f.scores.awards["cust-1"][0].Points)

	assert.Equal(t, []string{
		models.BookingStatusConfirmed,
		models.BookingStatusPickedUp,
		models.BookingStatusReturned,
		models.BookingStatusDelivered,
	}, f.notifier.statuses)
}

func TestBookingTransitionGuards(t *testing.T) {
	f := newFixture()
	f.proposals.proposals["prop-1"] = pendingProposal()
	b, err := f.svc.CreateFromProposal(context.Background(), "cust-1", CreateInput{ProposalID: "prop-1"})
	require.NoError(t, err)

	t.Run("return before pickup", func(t *testing.T) {
		_, err := f.svc.MarkReturned("ag-1", b.ID)
		assert.True(t, utils.IsConflict(err))
	})

	t.Run("complete before return", func(t *testing.T) {
		_, err := f.svc.Complete(&models.User{ID: "ag-1", Role: models.RoleAgency}, b.ID)
		assert.True(t, utils.IsConflict(err))
	})

	t.Run("another agency cannot transition", func(t *testing.T) {
		_, err := f.svc.Confirm("ag-2", b.ID)
		assert.True(t, utils.IsNotAuthorized(err))
	})

	t.Run("another agency cannot complete", func(t *testing.T) {
		_, err := f.svc.Complete(&models.User{ID: "ag-2", Role: models.RoleAgency}, b.ID)
		assert.True(t, utils.IsNotAuthorized(err))
	})
}

func TestAdminCompletesBooking(t *testing.T) {
	f := newFixture()
	f.proposals.proposals["prop-1"] = pendingProposal()
	b, err := f.svc.CreateFromProposal(context.Background(), "cust-1", CreateInput{ProposalID: "prop-1"})
	require.NoError(t, err)
	_, err = f.svc.MarkPickedUp("ag-1", b.ID)
	require.NoError(t, err)
	_, err = f.svc.MarkReturned("ag-1", b.ID)
	require.NoError(t, err)

	admin := &models.User{ID: "adm-1", Role: models.RoleAdmin}
	b, err = f.svc.Complete(admin, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusDelivered, b.Status)
	assert.Equal(t, models.RequestStatusDelivered, f.requests.statuses["req-1"])

	require.Len(t, f.scores.awards["cust-1"], 1)
	assert.Equal(t, "adm-1", f.scores.awards["cust-1"][0].AwardedBy)
}

func TestConfiguredPlatformFeeRate(t *testing.T) {
	prev := config.AppConfig.PlatformFeeRate
	config.AppConfig.PlatformFeeRate = 0.2
	defer func() { config.AppConfig.PlatformFeeRate = prev }()

	f := newFixture()
	f.proposals.proposals["prop-1"] = pendingProposal()
	b, err := f.svc.CreateFromProposal(context.Background(), "cust-1", CreateInput{ProposalID: "prop-1"})
	require.NoError(t, err)

	assert.Equal(t, int64(12000), b.Pricing.PlatformFeeCents)
	assert.Equal(t, int64(48000), b.Pricing.AgencyEarningsCents)
	assert.Equal(t, b.Pricing.TotalPriceCents, b.Pricing.PlatformFeeCents+b.Pricing.AgencyEarningsCents)
}

func TestActiveForCustomer(t *testing.T) {
	f := newFixture()
	f.proposals.proposals["prop-1"] = pendingProposal()
	b, err := f.svc.CreateFromProposal(context.Background(), "cust-1", CreateInput{ProposalID: "prop-1"})
	require.NoError(t, err)

	active, err := f.svc.ActiveForCustomer("cust-1")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, b.ID, active.ID)

	none, err := f.svc.ActiveForCustomer("cust-9")
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = f.svc.MarkPickedUp("ag-1", b.ID)
	require.NoError(t, err)
	_, err = f.svc.MarkReturned("ag-1", b.ID)
	require.NoError(t, err)
	_, err = f.svc.Complete(&models.User{ID: "ag-1", Role: models.RoleAgency}, b.ID)
	require.NoError(t, err)

	delivered, err := f.svc.ActiveForCustomer("cust-1")
	require.NoError(t, err)
	assert.Nil(t, delivered)
}

func TestCancelBooking(t *testing.T) {
	customer := &models.User{ID: "cust-1", Role: models.RoleCustomer}

	t.Run("customer cancels before pickup", func(t *testing.T) {
		f := newFixture()
		f.proposals.proposals["prop-1"] = pendingProposal()
		b, err := f.svc.CreateFromProposal(context.Background(), "cust-1", CreateInput{ProposalID: "prop-1"})
		require.NoError(t, err)

		b, err = f.svc.Cancel(customer, b.ID, "change of plans")
		require.NoError(t, err)
		assert.Equal(t, models.BookingStatusCancelled, b.Status)
		require.NotNil(t, b.Cancellation)
		assert.Equal(t, "cust-1", b.Cancellation.CancelledBy)
		assert.Equal(t, "change of plans", b.Cancellation.Reason)
	})

	t.Run("cancel after pickup is refused", func(t *testing.T) {
		f := newFixture()
		f.proposals.proposals["prop-1"] = pendingProposal()
		b, err := f.svc.CreateFromProposal(context.Background(), "cust-1", CreateInput{ProposalID: "prop-1"})
		require.NoError(t, err)
		_, err = f.svc.MarkPickedUp("ag-1", b.ID)
		require.NoError(t, err)

		_, err = f.svc.Cancel(customer, b.ID, "too late")
		assert.True(t, utils.IsConflict(err))
	})

	t.Run("outsider cannot cancel", func(t *testing.T) {
		f := newFixture()
		f.proposals.proposals["prop-1"] = pendingProposal()
		b, err := f.svc.CreateFromProposal(context.Background(), "cust-1", CreateInput{ProposalID: "prop-1"})
		require.NoError(t, err)

		outsider := &models.User{ID: "cust-9", Role: models.RoleCustomer}
		_, err = f.svc.Cancel(outsider, b.ID, "")
		assert.True(t, utils.IsNotAuthorized(err))
	})
}
