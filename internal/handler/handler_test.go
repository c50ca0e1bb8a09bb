package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theater-statement/internal/currency"
	"github.com/iliyamo/theater-statement/internal/middleware"
	"github.com/iliyamo/theater-statement/internal/pricing"
	"github.com/iliyamo/theater-statement/internal/queue"
	"github.com/iliyamo/theater-statement/internal/repository"
	"github.com/iliyamo/theater-statement/internal/statement"
)

const bigCoText = "Statement for BigCo\n" +
	"  Hamlet: $650.00 (55 seats)\n" +
	"  As You Like It: $580.00 (35 seats)\n" +
	"  Othello: $500.00 (40 seats)\n" +
	"Amount owed is $1,730.00\n" +
	"You earned 47 credits\n"

const bigCoBody = `{
  "invoice": {"customer": "BigCo", "performances": [
    {"playID": "hamlet", "audience": 55},
    {"playID": "as-like", "audience": 35},
    {"playID": "othello", "audience": 40}
  ]},
  "plays": {
    "hamlet":  {"name": "Hamlet", "type": "tragedy"},
    "as-like": {"name": "As You Like It", "type": "comedy"},
    "othello": {"name": "Othello", "type": "tragedy"}
  }
}`

type fakePublisher struct {
	events chan queue.StatementIssuedEvent
}

func (f *fakePublisher) PublishStatementIssued(_ context.Context, ev queue.StatementIssuedEvent) error {
	f.events <- ev
	return nil
}

type testEnv struct {
	e     *echo.Echo
	mock  sqlmock.Sqlmock
	pub   *fakePublisher
	plays *PlayHandler
}

// newTestEnv registers the handlers without auth; a fixed user id is put
// in the context the way JWTAuth would.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	plays := repository.NewPlayRepo(db)
	invoices := repository.NewInvoiceRepo(db)
	pub := &fakePublisher{events: make(chan queue.StatementIssuedEvent, 4)}
	sh := NewStatementHandler(statement.NewBuilder(pricing.Default(), currency.USD), plays, invoices, pub)
	sh.now = func() time.Time { return time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC) }

	e := echo.New()
	asClerk := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.ContextUserID, "clerk-7")
			return next(c)
		}
	}
	e.POST("/v1/statements", sh.Compute, asClerk)
	e.GET("/v1/invoices/:id/statement", sh.ForInvoice, asClerk)
	ph := NewPlayHandler(plays)
	e.GET("/v1/plays", ph.List)
	e.PUT("/v1/plays/:id", ph.Put)
	e.POST("/v1/invoices", NewInvoiceHandler(invoices).Create)
	return &testEnv{e: e, mock: mock, pub: pub, plays: ph}
}

func (env *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) nextEvent(t *testing.T) queue.StatementIssuedEvent {
	t.Helper()
	select {
	case ev := <-env.pub.events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("no statement.issued event published")
		return queue.StatementIssuedEvent{}
	}
}

func TestComputeText(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodPost, "/v1/statements", bigCoBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	if got := rec.Body.String(); got != bigCoText {
		t.Errorf("got:\n%s\nwant:\n%s", got, bigCoText)
	}

	ev := env.nextEvent(t)
	want := queue.StatementIssuedEvent{
		Customer:     "BigCo",
		Performances: 3,
		TotalAmount:  173000,
		TotalCredits: 47,
		Currency:     "USD",
		IssuedBy:     "clerk-7",
		IssuedAt:     "2026-10-19T09:30:00Z",
	}
	if ev != want {
		t.Errorf("event = %+v, want %+v", ev, want)
	}
}

func TestComputeJSON(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodPost, "/v1/statements?format=json", bigCoBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	var got statementResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Customer != "BigCo" || got.Currency != "USD" {
		t.Errorf("header fields = %q/%q", got.Customer, got.Currency)
	}
	if got.TotalAmount != 173000 || got.TotalAmountDisplay != "$1,730.00" || got.TotalCredits != 47 {
		t.Errorf("totals = %d %q %d", got.TotalAmount, got.TotalAmountDisplay, got.TotalCredits)
	}
	if len(got.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(got.Lines))
	}
	l := got.Lines[1]
	if l.PlayID != "as-like" || l.Amount != 58000 || l.AmountDisplay != "$580.00" || l.Credits != 12 {
		t.Errorf("line 1 = %+v", l)
	}
	env.nextEvent(t)
}

func TestComputeErrors(t *testing.T) {
	cases := []struct {
		name   string
		path   string
		body   string
		status int
		msg    string
	}{
		{
			name:   "unknown play id",
			path:   "/v1/statements",
			body:   `{"invoice":{"customer":"X","performances":[{"playID":"macbeth","audience":10}]},"plays":{}}`,
			status: http.StatusUnprocessableEntity,
			msg:    "unknown playID: macbeth",
		},
		{
			name:   "unknown play type",
			path:   "/v1/statements",
			body:   `{"invoice":{"customer":"X","performances":[{"playID":"p","audience":10}]},"plays":{"p":{"name":"P","type":"farce"}}}`,
			status: http.StatusUnprocessableEntity,
			msg:    "unknown type: farce",
		},
		{
			name:   "negative audience",
			path:   "/v1/statements",
			body:   `{"invoice":{"customer":"X","performances":[{"playID":"p","audience":-1}]},"plays":{"p":{"name":"P","type":"comedy"}}}`,
			status: http.StatusUnprocessableEntity,
			msg:    "invalid audience: -1",
		},
		{
			name:   "amount overflow",
			path:   "/v1/statements",
			body:   `{"invoice":{"customer":"X","performances":[{"playID":"p","audience":9223372036854775}]},"plays":{"p":{"name":"P","type":"pastoral"}}}`,
			status: http.StatusUnprocessableEntity,
			msg:    "amount exceeds int64 cents",
		},
		{
			name:   "malformed body",
			path:   "/v1/statements",
			body:   `{"invoice":`,
			status: http.StatusBadRequest,
			msg:    "invalid request body",
		},
		{
			name:   "bad format",
			path:   "/v1/statements?format=xml",
			body:   bigCoBody,
			status: http.StatusBadRequest,
			msg:    "format must be text or json",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			rec := env.do(http.MethodPost, tc.path, tc.body)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tc.status, rec.Body)
			}
			if !strings.Contains(rec.Body.String(), tc.msg) {
				t.Errorf("body %q does not mention %q", rec.Body, tc.msg)
			}
			select {
			case ev := <-env.pub.events:
				t.Errorf("unexpected event %+v", ev)
			default:
			}
		})
	}
}

func TestComputeEmptyInvoice(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodPost, "/v1/statements", `{"invoice":{"customer":"Nobody","performances":[]}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	want := "Statement for Nobody\nAmount owed is $0.00\nYou earned 0 credits\n"
	if rec.Body.String() != want {
		t.Errorf("got %q, want %q", rec.Body, want)
	}
	env.nextEvent(t)
}

func TestForInvoice(t *testing.T) {
	env := newTestEnv(t)
	env.mock.ExpectQuery(`SELECT id, customer FROM invoices`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer"}).AddRow(3, "BigCo"))
	env.mock.ExpectQuery(`SELECT play_id, audience FROM invoice_performances`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"play_id", "audience"}).
			AddRow("hamlet", 55).
			AddRow("as-like", 35).
			AddRow("othello", 40))
	env.mock.ExpectQuery(`SELECT id, name, type FROM plays WHERE id IN`).
		WithArgs("hamlet", "as-like", "othello").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "type"}).
			AddRow("as-like", "As You Like It", "comedy").
			AddRow("hamlet", "Hamlet", "tragedy").
			AddRow("othello", "Othello", "tragedy"))

	rec := env.do(http.MethodGet, "/v1/invoices/3/statement", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	if rec.Body.String() != bigCoText {
		t.Errorf("got:\n%s", rec.Body)
	}
	if ev := env.nextEvent(t); ev.InvoiceID != 3 {
		t.Errorf("event invoice id = %d, want 3", ev.InvoiceID)
	}
	if err := env.mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestForInvoiceErrors(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		env := newTestEnv(t)
		if rec := env.do(http.MethodGet, "/v1/invoices/abc/statement", ""); rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d", rec.Code)
		}
	})
	t.Run("not found", func(t *testing.T) {
		env := newTestEnv(t)
		env.mock.ExpectQuery(`SELECT id, customer FROM invoices`).
			WithArgs(9).
			WillReturnRows(sqlmock.NewRows([]string{"id", "customer"}))
		if rec := env.do(http.MethodGet, "/v1/invoices/9/statement", ""); rec.Code != http.StatusNotFound {
			t.Errorf("status = %d", rec.Code)
		}
	})
	t.Run("store failure", func(t *testing.T) {
		env := newTestEnv(t)
		env.mock.ExpectQuery(`SELECT id, customer FROM invoices`).
			WithArgs(9).
			WillReturnError(sql.ErrConnDone)
		rec := env.do(http.MethodGet, "/v1/invoices/9/statement", "")
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d", rec.Code)
		}
		if strings.Contains(rec.Body.String(), sql.ErrConnDone.Error()) {
			t.Error("store error leaked to client")
		}
	})
	t.Run("play missing from catalogue", func(t *testing.T) {
		env := newTestEnv(t)
		env.mock.ExpectQuery(`SELECT id, customer FROM invoices`).
			WithArgs(4).
			WillReturnRows(sqlmock.NewRows([]string{"id", "customer"}).AddRow(4, "SmallCo"))
		env.mock.ExpectQuery(`SELECT play_id, audience FROM invoice_performances`).
			WithArgs(4).
			WillReturnRows(sqlmock.NewRows([]string{"play_id", "audience"}).AddRow("lear", 20))
		env.mock.ExpectQuery(`SELECT id, name, type FROM plays WHERE id IN`).
			WithArgs("lear").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "type"}))
		rec := env.do(http.MethodGet, "/v1/invoices/4/statement", "")
		if rec.Code != http.StatusUnprocessableEntity || !strings.Contains(rec.Body.String(), "lear") {
			t.Errorf("status = %d body = %s", rec.Code, rec.Body)
		}
	})
}

func TestPlayList(t *testing.T) {
	env := newTestEnv(t)
	env.mock.ExpectQuery(`SELECT id, name, type FROM plays ORDER BY id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "type"}).
			AddRow("hamlet", "Hamlet", "tragedy").
			AddRow("henry-v", "Henry V", "history"))
	rec := env.do(http.MethodGet, "/v1/plays", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	var got struct {
		Plays map[string]struct {
			Name string `json:"name"`
			Type string `json:"type"`
		} `json:"plays"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Plays) != 2 || got.Plays["henry-v"].Type != "history" {
		t.Errorf("plays = %+v", got.Plays)
	}
}

func TestPlayPut(t *testing.T) {
	env := newTestEnv(t)
	invalidations := 0
	env.plays.Invalidate = func(context.Context) error {
		invalidations++
		return nil
	}
	env.mock.ExpectExec(`INSERT INTO plays`).
		WithArgs("winter", "The Winter's Tale", "pastoral").
		WillReturnResult(sqlmock.NewResult(0, 1))
	rec := env.do(http.MethodPut, "/v1/plays/winter", `{"name":"The Winter's Tale","type":"pastoral"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}

	if invalidations != 1 {
		t.Errorf("cache invalidated %d times after a write, want 1", invalidations)
	}

	rec = env.do(http.MethodPut, "/v1/plays/winter", `{"name":"The Winter's Tale","type":"farce"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid type: status = %d", rec.Code)
	}
	if invalidations != 1 {
		t.Errorf("failed write must not invalidate, got %d", invalidations)
	}
	if err := env.mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestInvoiceCreate(t *testing.T) {
	env := newTestEnv(t)
	env.mock.ExpectBegin()
	env.mock.ExpectExec(`INSERT INTO invoices`).WithArgs("BigCo").WillReturnResult(sqlmock.NewResult(21, 1))
	env.mock.ExpectExec(`INSERT INTO invoice_performances`).WithArgs(21, 0, "hamlet", 55).WillReturnResult(sqlmock.NewResult(0, 1))
	env.mock.ExpectCommit()

	rec := env.do(http.MethodPost, "/v1/invoices", `{"customer":"BigCo","performances":[{"playID":"hamlet","audience":55}]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), `"id":21`) {
		t.Errorf("body = %s", rec.Body)
	}

	for _, body := range []string{
		`{"customer":"","performances":[]}`,
		`{"customer":"BigCo","performances":[{"playID":"hamlet","audience":-3}]}`,
		`{"customer":"BigCo","performances":[{"playID":"hamlet","audience":4294967296}]}`,
	} {
		if rec := env.do(http.MethodPost, "/v1/invoices", body); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d", body, rec.Code)
		}
	}
	if err := env.mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

type pingFunc func(context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealthAndReady(t *testing.T) {
	e := echo.New()
	e.GET("/healthz", Health)
	e.GET("/up", Ready(pingFunc(func(context.Context) error { return nil })))
	e.GET("/down", Ready(pingFunc(func(context.Context) error { return errors.New("refused") })))

	for path, want := range map[string]int{"/healthz": 200, "/up": 200, "/down": 503} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != want {
			t.Errorf("%s: status = %d, want %d", path, rec.Code, want)
		}
	}
}
