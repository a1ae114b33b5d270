package request

import (
	"strings"
	"testing"
	"time"

	requestRepo "kree/database/repository/request"
	"kree/models"
	"kree/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type memRequestRepo struct {
	requests map[string]*models.Request
	notified map[string][]string
}

func newMemRequestRepo() *memRequestRepo {
	return &memRequestRepo{
		requests: make(map[string]*models.Request),
		notified: make(map[string][]string),
	}
}

func (r *memRequestRepo) Create(req *models.Request) error {
	req.Normalize()
	clone := *req
	r.requests[req.ID] = &clone
	return nil
}

func (r *memRequestRepo) GetByID(id string) (*models.Request, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, nil
	}
	clone := *req
	return &clone, nil
}

func (r *memRequestRepo) Update(req *models.Request) error {
	clone := *req
	r.requests[req.ID] = &clone
	return nil
}

func (r *memRequestRepo) List(filter requestRepo.RequestFilter) ([]models.Request, int64, error) {
	var out []models.Request
	for _, req := range r.requests {
		if filter.Customer != "" && req.Customer != filter.Customer {
			continue
		}
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		if filter.Status == "" && len(filter.Statuses) > 0 {
			match := false
			for _, s := range filter.Statuses {
				if req.Status == s {
					match = true
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, *req)
	}
	return out, int64(len(out)), nil
}

func (r *memRequestRepo) SetNotifiedAgencies(id string, agencyIDs []string) error {
	r.notified[id] = agencyIDs
	return nil
}

func (r *memRequestRepo) RegisterProposal(id string) error   { return nil }
func (r *memRequestRepo) UnregisterProposal(id string) error { return nil }

func (r *memRequestRepo) UpdateStatus(id, status string) error {
	if req, ok := r.requests[id]; ok {
		req.Status = status
	}
	return nil
}

func (r *memRequestRepo) CountByStatus(status string) (int64, error) { return 0, nil }

type cityUserRepo struct {
	users map[string]*models.User
}

func (r *cityUserRepo) Create(u *models.User) error { r.users[u.ID] = u; return nil }
func (r *cityUserRepo) Update(u *models.User) error { return nil }
func (r *cityUserRepo) Delete(id string) error      { return nil }

func (r *cityUserRepo) GetByID(id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (r *cityUserRepo) GetByEmail(email string) (*models.User, error) { return nil, nil }

func (r *cityUserRepo) GetByIDWithProjection(id string, projection bson.M) (*models.User, error) {
	return r.GetByID(id)
}

func (r *cityUserRepo) GetByEmailWithProjection(email string, projection bson.M) (*models.User, error) {
	return nil, nil
}

func (r *cityUserRepo) FindVerifiedAgenciesByCity(city string) ([]models.User, error) {
	var out []models.User
	for _, u := range r.users {
		if u.Role == models.RoleAgency && u.Verified && strings.EqualFold(u.Address.City, city) {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *cityUserRepo) UpdateTokenHash(id, tokenHash string) error { return nil }

func (r *cityUserRepo) GetAll(role models.Role, page, limit int) ([]models.User, int64, error) {
	return nil, 0, nil
}

func (r *cityUserRepo) CountByRole(role models.Role) (int64, error) { return 0, nil }

type fanoutNotifier struct {
	requests []string
	agencies [][]models.User
}

func (n *fanoutNotifier) NotifyNewRequest(req *models.Request, customer *models.User, agencies []models.User) {
	n.requests = append(n.requests, req.ID)
	n.agencies = append(n.agencies, agencies)
}

func (n *fanoutNotifier) NotifyNewProposal(*models.Proposal, string)    {}
func (n *fanoutNotifier) NotifyNewMessage(*models.Chat, models.Message)       {}
func (n *fanoutNotifier) NotifyNewMessageLegacy(*models.Chat, models.Message) {}
func (n *fanoutNotifier) NotifyMessagesRead(*models.Chat, string)       {}
func (n *fanoutNotifier) NotifyBookingCreated(*models.Booking, string)  {}
func (n *fanoutNotifier) NotifyBookingStatus(*models.Booking, string)   {}

func newRequestFixture() (*DefaultRequestService, *memRequestRepo, *cityUserRepo, *fanoutNotifier) {
	repo := newMemRequestRepo()
	users := &cityUserRepo{users: map[string]*models.User{
		"cust-1": {ID: "cust-1", Role: models.RoleCustomer, FirstName: "Yasmine"},
		"ag-casa-1": {ID: "ag-casa-1", Role: models.RoleAgency, Verified: true,
			Address: models.Address{City: "Casablanca"}},
		"ag-casa-2": {ID: "ag-casa-2", Role: models.RoleAgency, Verified: true,
			Address: models.Address{City: "Casablanca"}},
		"ag-rabat": {ID: "ag-rabat", Role: models.RoleAgency, Verified: true,
			Address: models.Address{City: "Rabat"}},
		"ag-unverified": {ID: "ag-unverified", Role: models.RoleAgency, Verified: false,
			Address: models.Address{City: "Casablanca"}},
	}}
	notifier := &fanoutNotifier{}
	return NewDefaultRequestService(repo, users, notifier), repo, users, notifier
}

func TestCreateRequestFansOutToCityAgencies(t *testing.T) {
	svc, repo, _, notifier := newRequestFixture()

	start := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	req, err := svc.Create("cust-1", &models.Request{
		RentalPeriod: &models.DatePeriod{StartDate: start, EndDate: start.AddDate(0, 0, 5)},
		Location:     models.Location{City: "Casablanca"},
		Budget:       models.Budget{Min: 100, Max: 300},
	})
	require.NoError(t, err)

	assert.Equal(t, models.RequestStatusPending, req.Status)
	assert.Equal(t, 5, req.NumberOfDays)
	assert.Equal(t, "Morocco", req.Location.Country)

	// Only the two verified Casablanca agencies were matched.
	require.Len(t, notifier.agencies, 1)
	ids := make([]string, 0, 2)
	for _, a := range notifier.agencies[0] {
		ids = append(ids, a.ID)
	}
	assert.ElementsMatch(t, []string{"ag-casa-1", "ag-casa-2"}, ids)
	assert.ElementsMatch(t, []string{"ag-casa-1", "ag-casa-2"}, repo.notified[req.ID])
}

func TestCreateRequestGuards(t *testing.T) {
	svc, _, _, _ := newRequestFixture()

	t.Run("agency cannot post a request", func(t *testing.T) {
		_, err := svc.Create("ag-casa-1", &models.Request{Location: models.Location{City: "Casablanca"}})
		assert.True(t, utils.IsNotAuthorized(err))
	})

	t.Run("city is required", func(t *testing.T) {
		_, err := svc.Create("cust-1", &models.Request{})
		assert.True(t, utils.IsValidation(err))
	})

	t.Run("inverted rental period", func(t *testing.T) {
		start := time.Now()
		_, err := svc.Create("cust-1", &models.Request{
			Location:     models.Location{City: "Casablanca"},
			RentalPeriod: &models.DatePeriod{StartDate: start, EndDate: start.Add(-time.Hour)},
		})
		assert.True(t, utils.IsValidation(err))
	})
}

func TestCancelRequest(t *testing.T) {
	svc, repo, _, _ := newRequestFixture()
	customer := &models.User{ID: "cust-1", Role: models.RoleCustomer}

	req, err := svc.Create("cust-1", &models.Request{Location: models.Location{City: "Casablanca"}})
	require.NoError(t, err)

	t.Run("stranger cannot cancel", func(t *testing.T) {
		stranger := &models.User{ID: "cust-2", Role: models.RoleCustomer}
		_, err := svc.Cancel(stranger, req.ID)
		assert.True(t, utils.IsNotAuthorized(err))
	})

	t.Run("owner cancels", func(t *testing.T) {
		cancelled, err := svc.Cancel(customer, req.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RequestStatusCancelled, cancelled.Status)
	})

	t.Run("terminal request stays cancelled", func(t *testing.T) {
		_, err := svc.Cancel(customer, req.ID)
		assert.True(t, utils.IsConflict(err))
	})

	t.Run("booked request cannot be cancelled", func(t *testing.T) {
		other, err := svc.Create("cust-1", &models.Request{Location: models.Location{City: "Casablanca"}})
		require.NoError(t, err)
		require.NoError(t, repo.UpdateStatus(other.ID, models.RequestStatusOncoming))

		_, err = svc.Cancel(customer, other.ID)
		assert.True(t, utils.IsConflict(err))
	})
}

func TestCompleteRequest(t *testing.T) {
	svc, repo, _, _ := newRequestFixture()
	customer := &models.User{ID: "cust-1", Role: models.RoleCustomer}

	req, err := svc.Create("cust-1", &models.Request{Location: models.Location{City: "Casablanca"}})
	require.NoError(t, err)

	t.Run("unbooked request cannot complete", func(t *testing.T) {
		_, err := svc.Complete(customer, req.ID)
		assert.True(t, utils.IsConflict(err))
	})

	t.Run("owner completes a booked request", func(t *testing.T) {
		require.NoError(t, repo.UpdateStatus(req.ID, models.RequestStatusOncoming))
		done, err := svc.Complete(customer, req.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RequestStatusDelivered, done.Status)
	})

	t.Run("completing again is a no-op", func(t *testing.T) {
		done, err := svc.Complete(customer, req.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RequestStatusDelivered, done.Status)
	})

	t.Run("stranger cannot complete", func(t *testing.T) {
		stranger := &models.User{ID: "cust-2", Role: models.RoleCustomer}
		_, err := svc.Complete(stranger, req.ID)
		assert.True(t, utils.IsNotAuthorized(err))
	})
}

func TestListOpenFiltersByOpenStatuses(t *testing.T) {
	svc, repo, _, _ := newRequestFixture()

	a, _ := svc.Create("cust-1", &models.Request{Location: models.Location{City: "Casablanca"}})
	b, _ := svc.Create("cust-1", &models.Request{Location: models.Location{City: "Casablanca"}})
	require.NoError(t, repo.UpdateStatus(b.ID, models.RequestStatusOncoming))

	open, total, err := svc.ListOpen(requestRepo.RequestFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, open, 1)
	assert.Equal(t, a.ID, open[0].ID)
}
