package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/casekit/lexbill/internal/clock"
	ledesdomain "github.com/casekit/lexbill/internal/ledesconfig/domain"
	ledesservice "github.com/casekit/lexbill/internal/ledesconfig/service"
	"github.com/glebarez/sqlite"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&ledesdomain.Configuration{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newService(t *testing.T) ledesdomain.Service {
	t.Helper()

	return ledesservice.New(ledesservice.Params{
		DB:    setupTestDB(t),
		Log:   zap.NewNop(),
		Clock: clock.NewFakeClock(time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)),
	})
}

func TestCreate_PersistsAndRoundTrips(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	created, err := svc.Create(ctx, ledesdomain.CreateRequest{
		ClientID:   "ACME-001",
		ClientName: "  Acme Corporation  ",
		Format:     string(ledesdomain.FormatLEDES1998B),
		UTBMSMapping: &ledesdomain.UTBMSMapping{
			ActivityCodes:       map[string]string{"research": "L110"},
			DefaultActivityCode: "L100",
			DefaultExpenseCode:  "E101",
		},
	})
	assert.NoError(t, err)
	assert.Equal(t, "Acme Corporation", created.ClientName)
	assert.True(t, created.IsActive)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	_, err = ulid.Parse(created.ID)
	assert.NoError(t, err)

	fetched, err := svc.Get(ctx, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, "L110", fetched.UTBMSMapping.ActivityCodes["research"])
	assert.Equal(t, "L100", fetched.UTBMSMapping.DefaultActivityCode)
}

func TestCreate_DuplicateClientIsRejected(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	req := ledesdomain.CreateRequest{
		ClientID:   "ACME-001",
		ClientName: "Acme Corporation",
		Format:     string(ledesdomain.FormatLEDES1998B),
		UTBMSMapping: &ledesdomain.UTBMSMapping{
			DefaultActivityCode: "L100",
			DefaultExpenseCode:  "E101",
		},
	}

	_, err := svc.Create(ctx, req)
	assert.NoError(t, err)

	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, ledesdomain.ErrClientConfigExists)

	list, err := svc.List(ctx, ledesdomain.ListRequest{})
	assert.NoError(t, err)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, int64(1), list.Total)
}

func TestCreate_RejectedRequestIsNotPersisted(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.Create(ctx, ledesdomain.CreateRequest{Format: "LEDES9000"})

	var violations ledesdomain.ValidationErrors
	assert.ErrorAs(t, err, &violations)
	assert.NotEmpty(t, violations)

	list, err := svc.List(ctx, ledesdomain.ListRequest{})
	assert.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestList_PaginatesNewestFirst(t *testing.T) {
	ctx := context.Background()
	fake := clock.NewFakeClock(time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC))
	svc := ledesservice.New(ledesservice.Params{
		DB:    setupTestDB(t),
		Log:   zap.NewNop(),
		Clock: fake,
	})

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, ledesdomain.CreateRequest{
			ClientID:   fmt.Sprintf("CLIENT-%d", i),
			ClientName: fmt.Sprintf("Client %d", i),
			Format:     string(ledesdomain.FormatLEDES1998B),
			UTBMSMapping: &ledesdomain.UTBMSMapping{
				DefaultActivityCode: "L100",
				DefaultExpenseCode:  "E101",
			},
		})
		assert.NoError(t, err)
		fake.Advance(time.Minute)
	}

	page, err := svc.List(ctx, ledesdomain.ListRequest{Limit: 2})
	assert.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, "CLIENT-2", page.Items[0].ClientID)
	assert.Equal(t, "CLIENT-1", page.Items[1].ClientID)

	rest, err := svc.List(ctx, ledesdomain.ListRequest{Limit: 2, Offset: 2})
	assert.NoError(t, err)
	assert.Len(t, rest.Items, 1)
	assert.Equal(t, "CLIENT-0", rest.Items[0].ClientID)
}

func TestDeactivate(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	created, err := svc.Create(ctx, ledesdomain.CreateRequest{
		ClientID:   "ACME-001",
		ClientName: "Acme Corporation",
		Format:     string(ledesdomain.FormatLEDES1998B),
		UTBMSMapping: &ledesdomain.UTBMSMapping{
			DefaultActivityCode: "L100",
			DefaultExpenseCode:  "E101",
		},
	})
	assert.NoError(t, err)
	assert.True(t, created.IsActive)

	assert.NoError(t, svc.Deactivate(ctx, created.ID))

	fetched, err := svc.Get(ctx, created.ID)
	assert.NoError(t, err)
	assert.False(t, fetched.IsActive)

	assert.ErrorIs(t, svc.Deactivate(ctx, "not-a-ulid"), ledesdomain.ErrInvalidID)
	assert.ErrorIs(t, svc.Deactivate(ctx, ulid.Make().String()), ledesdomain.ErrNotFound)
}

func TestGet_InvalidAndMissingIDs(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.Get(ctx, "not-a-ulid")
	assert.ErrorIs(t, err, ledesdomain.ErrInvalidID)

	_, err = svc.Get(ctx, ulid.Make().String())
	assert.ErrorIs(t, err, ledesdomain.ErrNotFound)
}
