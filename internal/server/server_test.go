package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	accountdomain "github.com/casekit/lexbill/internal/account/domain"
	accountrepo "github.com/casekit/lexbill/internal/account/repository"
	accountservice "github.com/casekit/lexbill/internal/account/service"
	"github.com/casekit/lexbill/internal/clock"
	"github.com/casekit/lexbill/internal/config"
	leaddomain "github.com/casekit/lexbill/internal/leadscore/domain"
	leadservice "github.com/casekit/lexbill/internal/leadscore/service"
	ledesdomain "github.com/casekit/lexbill/internal/ledesconfig/domain"
	ledesservice "github.com/casekit/lexbill/internal/ledesconfig/service"
	"github.com/casekit/lexbill/internal/providers/pdf"
	renewaldomain "github.com/casekit/lexbill/internal/renewal/domain"
	renewalservice "github.com/casekit/lexbill/internal/renewal/service"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_srv_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&accountdomain.BillingAccount{},
		&renewaldomain.RenewalQuote{},
		&ledesdomain.Configuration{},
		&leaddomain.Lead{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestServer(t *testing.T) (*Server, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := setupTestDB(t)
	log := zap.NewNop()
	fakeClock := clock.NewFakeClock(time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC))

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}

	renewalSvc := renewalservice.New(renewalservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Clock: fakeClock,
		Fees:  config.NewStaticFeeScheduleHolder(config.DefaultFeeSchedule()),
	})
	leadSvc := leadservice.New(leadservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Clock: fakeClock,
	})
	ledesSvc := ledesservice.New(ledesservice.Params{
		DB:    db,
		Log:   log,
		Clock: fakeClock,
	})
	accountSvc := accountservice.New(accountservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Clock: fakeClock,
		Repo:  accountrepo.Provide(),
	})

	router := gin.New()
	router.Use(ErrorHandlingMiddleware())

	srv := NewServer(ServerParams{
		Gin:            router,
		Cfg:            config.Config{AppName: "lexbill"},
		DB:             db,
		RenewalSvc:     renewalSvc,
		LeadScoreSvc:   leadSvc,
		LedesConfigSvc: ledesSvc,
		AccountSvc:     accountSvc,
		PDFProvider:    pdf.New(),
	})
	return srv, router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestCreateRenewalQuoteEndpoint(t *testing.T) {
	_, router := newTestServer(t)

	resp := doJSON(t, router, http.MethodPost, "/api/v1/renewals/quote", `{
		"processing_speed": "rush",
		"section15": true,
		"section15_continuous": "yes",
		"section15_challenged": "no",
		"section9": true,
		"registration_date": "2020-06-01T00:00:00Z"
	}`)
	assert.Equal(t, http.StatusOK, resp.Code)

	var payload struct {
		Data renewaldomain.QuoteResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
	assert.Equal(t, int64(145000), payload.Data.TotalCents)
	assert.Equal(t, "$1,450.00", payload.Data.TotalDisplay)
	assert.Len(t, payload.Data.LineItems, 6)

	fetched := doJSON(t, router, http.MethodGet, "/api/v1/renewals/quotes/"+payload.Data.ID, "")
	assert.Equal(t, http.StatusOK, fetched.Code)
}

func TestCreateRenewalQuoteEndpoint_InvalidSpeed(t *testing.T) {
	_, router := newTestServer(t)

	resp := doJSON(t, router, http.MethodPost, "/api/v1/renewals/quote", `{"processing_speed":"same-day"}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "validation_error")
}

func TestGetRenewalQuoteEndpoint_NotFound(t *testing.T) {
	_, router := newTestServer(t)

	resp := doJSON(t, router, http.MethodGet, "/api/v1/renewals/quotes/999999999999999999", "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestScoreLeadEndpoint(t *testing.T) {
	_, router := newTestServer(t)

	resp := doJSON(t, router, http.MethodPost, "/api/v1/leads/score", `{
		"name": "Pat Doe",
		"email": "pat@example.com",
		"factors": {"matterUrgency": 100, "budgetRange": 100}
	}`)
	assert.Equal(t, http.StatusOK, resp.Code)

	var payload struct {
		Data leaddomain.ScoreResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
	assert.Equal(t, 45, payload.Data.Score)
}

func TestCreateLedesConfigurationEndpoint_AggregatesViolations(t *testing.T) {
	_, router := newTestServer(t)

	resp := doJSON(t, router, http.MethodPost, "/api/v1/ledes/configurations", `{
		"client_id": "ACME-001",
		"format": "LEDES9000"
	}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var payload struct {
		Error struct {
			Type   string                        `json:"type"`
			Errors []ledesdomain.ValidationError `json:"errors"`
		} `json:"error"`
	}
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
	assert.Equal(t, "validation_error", payload.Error.Type)
	assert.Len(t, payload.Error.Errors, 3)
}

func TestLedesConfigurationLifecycle(t *testing.T) {
	_, router := newTestServer(t)

	created := doJSON(t, router, http.MethodPost, "/api/v1/ledes/configurations", `{
		"client_id": "ACME-001",
		"client_name": "Acme Corporation",
		"format": "LEDES1998B",
		"utbms_mapping": {
			"activity_codes": {"research": "L110"},
			"default_activity_code": "L100",
			"default_expense_code": "E101"
		}
	}`)
	assert.Equal(t, http.StatusOK, created.Code)

	var payload struct {
		Data ledesdomain.Response `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(created.Body.Bytes(), &payload))

	list := doJSON(t, router, http.MethodGet, "/api/v1/ledes/configurations", "")
	assert.Equal(t, http.StatusOK, list.Code)
	assert.Contains(t, list.Body.String(), payload.Data.ID)

	duplicate := doJSON(t, router, http.MethodPost, "/api/v1/ledes/configurations", `{
		"client_id": "ACME-001",
		"client_name": "Acme Corporation",
		"format": "LEDES1998B",
		"utbms_mapping": {
			"default_activity_code": "L100",
			"default_expense_code": "E101"
		}
	}`)
	assert.Equal(t, http.StatusConflict, duplicate.Code)
	assert.Contains(t, duplicate.Body.String(), "conflict")

	export := doJSON(t, router, http.MethodPost, "/api/v1/ledes/configurations/"+payload.Data.ID+"/export", `{
		"invoice_number": "INV-1",
		"invoice_date": "2026-03-31T00:00:00Z",
		"billing_start": "2026-03-01T00:00:00Z",
		"billing_end": "2026-03-31T00:00:00Z",
		"entries": [
			{"date": "2026-03-10T00:00:00Z", "type": "F", "firm_code": "research", "units": 1, "unit_cost_cents": 20000, "amount_cents": 20000, "description": "Declaration drafting"}
		]
	}`)
	assert.Equal(t, http.StatusOK, export.Code)
	assert.Contains(t, export.Body.String(), "LEDES1998B[]")
	assert.Contains(t, export.Body.String(), "L110")
	assert.Contains(t, export.Header().Get("Content-Disposition"), "acme-corporation-ledes1998b-20260331.txt")

	deactivated := doJSON(t, router, http.MethodDelete, "/api/v1/ledes/configurations/"+payload.Data.ID, "")
	assert.Equal(t, http.StatusOK, deactivated.Code)

	fetched := doJSON(t, router, http.MethodGet, "/api/v1/ledes/configurations/"+payload.Data.ID, "")
	assert.Equal(t, http.StatusOK, fetched.Code)
	assert.Contains(t, fetched.Body.String(), `"is_active":false`)
}

func TestAccountBalanceEndpoints(t *testing.T) {
	_, router := newTestServer(t)

	created := doJSON(t, router, http.MethodPost, "/api/v1/accounts", `{"name": "Trust", "initial_balance": 100.00}`)
	assert.Equal(t, http.StatusOK, created.Code)

	var payload struct {
		Data accountdomain.Response `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(created.Body.Bytes(), &payload))

	updated := doJSON(t, router, http.MethodPost, "/api/v1/accounts/"+payload.Data.ID+"/balance", `{"amount": 49.50, "operation": "subtract"}`)
	assert.Equal(t, http.StatusOK, updated.Code)
	assert.NoError(t, json.Unmarshal(updated.Body.Bytes(), &payload))
	assert.Equal(t, int64(5050), payload.Data.BalanceCents)

	overdraw := doJSON(t, router, http.MethodPost, "/api/v1/accounts/"+payload.Data.ID+"/balance", `{"amount": 51.00, "operation": "subtract"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, overdraw.Code)
	assert.Contains(t, overdraw.Body.String(), "insufficient_funds")

	// Balance unchanged after the rejected subtraction.
	fetched := doJSON(t, router, http.MethodGet, "/api/v1/accounts/"+payload.Data.ID, "")
	assert.Equal(t, http.StatusOK, fetched.Code)
	assert.NoError(t, json.Unmarshal(fetched.Body.Bytes(), &payload))
	assert.Equal(t, int64(5050), payload.Data.BalanceCents)
}
