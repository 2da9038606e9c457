package routers

import (
	"cuentas_claras/internal/api/middlewares"
	"cuentas_claras/internal/cache"
	"cuentas_claras/internal/events"
	"cuentas_claras/internal/models"
	"cuentas_claras/internal/repositories/store/storetest"
	"cuentas_claras/internal/services"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type apiClient struct {
	t       *testing.T
	handler http.Handler
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	st := storetest.New(t)
	reports := services.NewReportService(st, cache.NewMemoryCache(64, time.Minute))
	ledger := services.NewLedger(st, reports, &events.MemoryPublisher{})

	mux := MainRouter(Deps{Ledger: ledger, Reports: reports, DB: st, Timeout: 5 * time.Second})
	handler := middlewares.ApplyMiddlewares(mux, middlewares.RequestLogger, middlewares.SecurityHeaders, middlewares.Cors("*"))
	return &apiClient{t: t, handler: handler}
}

func (c *apiClient) do(method, path, body string) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	return rec
}

// must performs a request, checks its status and decodes the body into out.
func (c *apiClient) must(method, path, body string, wantStatus int, out any) {
	c.t.Helper()
	rec := c.do(method, path, body)
	if rec.Code != wantStatus {
		c.t.Fatalf("%s %s: status %d, want %d; body %s", method, path, rec.Code, wantStatus, rec.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			c.t.Fatalf("%s %s: decoding %q: %v", method, path, rec.Body.String(), err)
		}
	}
}

type errorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func TestExpenseLifecycle(t *testing.T) {
	api := newAPI(t)

	var event models.Event
	api.must(http.MethodPost, "/events", `{"name":"Asado","description":"domingo"}`, http.StatusCreated, &event)

	var people []models.Participant
	for _, name := range []string{"Ana", "Beto", "Carla"} {
		var p models.Participant
		api.must(http.MethodPost, "/participants", fmt.Sprintf(`{"eventId":%d,"name":%q}`, event.ID, name), http.StatusCreated, &p)
		people = append(people, p)
	}

	var food models.Category
	api.must(http.MethodPost, "/categories", `{"name":"Comida"}`, http.StatusCreated, &food)

	var exp models.Expense
	api.must(http.MethodPost, "/expenses",
		fmt.Sprintf(`{"description":"carne","amount":10.00,"eventId":%d,"participantId":%d,"categoryId":%d}`, event.ID, people[0].ID, food.ID),
		http.StatusCreated, &exp)
	if len(exp.Debts) != 2 || !exp.Debts[0].Amount.Equal(decimal.RequireFromString("3.33")) {
		t.Fatalf("debts = %+v", exp.Debts)
	}

	var summary map[string]any
	api.must(http.MethodGet, fmt.Sprintf("/reports/event/%d", event.ID), "", http.StatusOK, &summary)
	if summary["total_gastado"] != 10.0 || summary["promedio_por_persona"] != 3.33 || summary["total_deudas_pendientes"] != 6.66 {
		t.Errorf("summary = %v", summary)
	}

	var total struct {
		Total decimal.Decimal `json:"total"`
	}
	api.must(http.MethodGet, fmt.Sprintf("/debts/event/%d/total-pending", event.ID), "", http.StatusOK, &total)
	if !total.Total.Equal(decimal.RequireFromString("6.66")) {
		t.Errorf("total pending = %s", total.Total)
	}

	var paid models.Debt
	api.must(http.MethodPatch, fmt.Sprintf("/debts/%d/pay", exp.Debts[0].ID), "", http.StatusOK, &paid)
	if paid.Status != models.DebtStatusPaid {
		t.Errorf("paid debt = %+v", paid)
	}

	var conflict errorBody
	api.must(http.MethodPatch, fmt.Sprintf("/debts/%d/pay", exp.Debts[0].ID), "", http.StatusConflict, &conflict)
	if conflict.Status != "error" || conflict.Message == "" {
		t.Errorf("conflict body = %+v", conflict)
	}
	api.must(http.MethodDelete, fmt.Sprintf("/expenses/%d", exp.ID), "", http.StatusConflict, nil)

	var balances []models.ParticipantBalance
	api.must(http.MethodGet, fmt.Sprintf("/reports/event/%d/balance", event.ID), "", http.StatusOK, &balances)
	if len(balances) != 3 || balances[0].State != models.BalanceCreditor {
		t.Errorf("balances = %+v", balances)
	}

	var groups []models.CategoryTotal
	api.must(http.MethodGet, fmt.Sprintf("/reports/event/%d/categories", event.ID), "", http.StatusOK, &groups)
	if len(groups) != 1 || groups[0].CategoryName != "Comida" {
		t.Errorf("categories = %+v", groups)
	}

	var pending []models.Debt
	api.must(http.MethodGet, "/debts?status=pending", "", http.StatusOK, &pending)
	if len(pending) != 1 {
		t.Errorf("pending debts = %+v", pending)
	}
	var mine []models.Debt
	api.must(http.MethodGet, fmt.Sprintf("/debts/participant/%d", people[2].ID), "", http.StatusOK, &mine)
	if len(mine) != 1 || mine[0].OwedToDescription != "Ana" {
		t.Errorf("participant debts = %+v", mine)
	}

	var stats models.GeneralStats
	api.must(http.MethodGet, "/reports/general-stats", "", http.StatusOK, &stats)
	if stats.TotalEvents != 1 || stats.UniqueParticipants != 3 || !stats.PaidDebtTotal.Equal(decimal.RequireFromString("3.33")) {
		t.Errorf("stats = %+v", stats)
	}

	var periods []models.PeriodTotal
	api.must(http.MethodGet, "/reports/events-period?tipo=anio", "", http.StatusOK, &periods)
	if len(periods) != 1 || periods[0].EventCount != 1 {
		t.Errorf("periods = %+v", periods)
	}

	var list []models.EventListItem
	api.must(http.MethodGet, "/reports/events-list", "", http.StatusOK, &list)
	if len(list) != 1 || list[0].Name != "Asado" {
		t.Errorf("events list = %+v", list)
	}

	api.must(http.MethodDelete, fmt.Sprintf("/events/%d", event.ID), "", http.StatusOK, nil)
	api.must(http.MethodGet, fmt.Sprintf("/reports/event/%d", event.ID), "", http.StatusNotFound, nil)
}

func TestErrorResponses(t *testing.T) {
	api := newAPI(t)

	var event models.Event
	api.must(http.MethodPost, "/events", `{"name":"Viaje"}`, http.StatusCreated, &event)
	var ana models.Participant
	api.must(http.MethodPost, "/participants", fmt.Sprintf(`{"eventId":%d,"name":"Ana"}`, event.ID), http.StatusCreated, &ana)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"zero amount", http.MethodPost, "/expenses", fmt.Sprintf(`{"description":"x","amount":0,"eventId":%d,"participantId":%d}`, event.ID, ana.ID), http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/expenses", `{"description":"x","amount":5,"payer":1}`, http.StatusBadRequest},
		{"malformed body", http.MethodPost, "/expenses", `{"description":`, http.StatusBadRequest},
		{"empty body", http.MethodPost, "/events", "", http.StatusBadRequest},
		{"unknown event", http.MethodPost, "/expenses", fmt.Sprintf(`{"description":"x","amount":5,"eventId":999,"participantId":%d}`, ana.ID), http.StatusBadRequest},
		{"bad id", http.MethodGet, "/events/abc", "", http.StatusBadRequest},
		{"missing event", http.MethodGet, "/events/999", "", http.StatusNotFound},
		{"missing debt", http.MethodPatch, "/debts/999/pay", "", http.StatusNotFound},
		{"missing report", http.MethodGet, "/reports/event/999/balance", "", http.StatusNotFound},
		{"bad period", http.MethodGet, "/reports/events-period?tipo=semana", "", http.StatusBadRequest},
		{"inverted range", http.MethodGet, "/reports/events-period?desde=2024-05-01&hasta=2024-01-01", "", http.StatusBadRequest},
		{"bad status filter", http.MethodGet, "/debts?status=late", "", http.StatusBadRequest},
		{"duplicate participant", http.MethodPost, "/participants", fmt.Sprintf(`{"eventId":%d,"name":"ana"}`, event.ID), http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(tt.method, tt.path, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d; body %s", rec.Code, tt.status, rec.Body.String())
			}
			var body errorBody
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.Status != "error" {
				t.Errorf("error body = %q (%v)", rec.Body.String(), err)
			}
		})
	}
}

func TestOperationalEndpoints(t *testing.T) {
	api := newAPI(t)

	rec := api.do(http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d", rec.Code)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" || rec.Header().Get("X-Request-ID") == "" {
		t.Errorf("missing headers: %v", rec.Header())
	}

	api.do(http.MethodGet, "/reports/general-stats", "")
	rec = api.do(http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "cuentas_http_requests_total") {
		t.Errorf("metrics status %d, body missing request counter", rec.Code)
	}
}
