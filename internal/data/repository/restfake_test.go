package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pudey33/DreamRate/pkg/database"
	"github.com/pudey33/DreamRate/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var (
	alice = uuid.MustParse("11111111-1111-4111-8111-111111111111")
	bob   = uuid.MustParse("22222222-2222-4222-8222-222222222222")
	carol = uuid.MustParse("33333333-3333-4333-8333-333333333333")
)

// tokens the fake store accepts, by user
var fakeTokens = map[string]uuid.UUID{
	"alice-token": alice,
	"bob-token":   bob,
	"carol-token": carol,
}

func asUser(id uuid.UUID) context.Context {
	for token, user := range fakeTokens {
		if user == id {
			return utils.WithCaller(context.Background(), utils.Caller{UserID: id, Token: token})
		}
	}
	panic("no token for " + id.String())
}

type row = map[string]any

// fakeRest is an in-memory PostgREST with the row-level security rules of the
// migrations: everyone reads, only the creator writes.
type fakeRest struct {
	mu       sync.Mutex
	tables   map[string][]row
	nextID   int64
	requests int
	maxRows  int // server-side cap on rows per response, 0 for none
}

func newFakeRest(t *testing.T) (*fakeRest, *database.Gateway) {
	t.Helper()

	f := &fakeRest{tables: map[string][]row{"dreams": {}, "reviews": {}}}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	gw, err := database.NewGateway(utils.SupabaseConfig{URL: srv.URL, AnonKey: "anon-key"})
	require.NoError(t, err)
	return f, gw
}

func newRESTRepos(t *testing.T) (*fakeRest, DreamRepository, ReviewRepository) {
	f, gw := newFakeRest(t)
	log := zaptest.NewLogger(t)
	return f, NewRESTDreamRepository(gw, nil, log), NewRESTReviewRepository(gw, log)
}

func (f *fakeRest) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

func (f *fakeRest) stamp(r row) row {
	f.nextID++
	r["id"] = float64(f.nextID)
	r["created_at"] = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).
		Add(time.Duration(f.nextID) * time.Minute).Format(time.RFC3339)
	return r
}

func (f *fakeRest) seedDream(owner uuid.UUID, title string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	r := f.stamp(row{"created_by": owner.String(), "title": title, "content": title + " content", "tags": nil})
	f.tables["dreams"] = append(f.tables["dreams"], r)
	return f.nextID
}

func (f *fakeRest) seedReview(owner uuid.UUID, dreamID int64, overall int) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	r := f.stamp(row{
		"created_by": owner.String(), "dream_id": float64(dreamID), "review": "seeded",
		"overall_rating": float64(overall), "ethics_rating": nil,
		"creativity_rating": nil, "writing_rating": nil,
	})
	f.tables["reviews"] = append(f.tables["reviews"], r)
	return f.nextID
}

func (f *fakeRest) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests++

	table := strings.TrimPrefix(r.URL.Path, "/rest/v1/")
	if _, ok := f.tables[table]; !ok {
		writeFakeError(w, http.StatusNotFound, "42P01", "relation does not exist")
		return
	}

	caller, authenticated := fakeTokens[strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")]
	query := r.URL.Query()
	wantObject := strings.Contains(r.Header.Get("Accept"), "vnd.pgrst.object")

	switch r.Method {
	case http.MethodGet:
		rows := f.filter(table, query)
		sortRows(rows, query.Get("order"))
		rows = page(rows, query, f.maxRows)
		f.respond(w, http.StatusOK, f.project(table, rows, query), wantObject)

	case http.MethodPost:
		var body row
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeFakeError(w, http.StatusBadRequest, "PGRST102", err.Error())
			return
		}
		if !authenticated || body["created_by"] != caller.String() {
			writeFakeError(w, http.StatusForbidden, "42501", "new row violates row-level security policy")
			return
		}
		if code, msg := f.check(table, body); code != "" {
			writeFakeError(w, http.StatusConflict, code, msg)
			return
		}
		created := f.stamp(body)
		f.tables[table] = append(f.tables[table], created)
		f.respond(w, http.StatusCreated, []row{created}, wantObject)

	case http.MethodPatch:
		var patch row
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeFakeError(w, http.StatusBadRequest, "PGRST102", err.Error())
			return
		}
		if code, msg := f.check(table, patch); code != "" {
			writeFakeError(w, http.StatusConflict, code, msg)
			return
		}
		var updated []row
		for _, rw := range f.filter(table, query) {
			if !authenticated || rw["created_by"] != caller.String() {
				continue
			}
			for k, v := range patch {
				rw[k] = v
			}
			updated = append(updated, rw)
		}
		f.respond(w, http.StatusOK, updated, wantObject)

	case http.MethodDelete:
		doomed := map[any]bool{}
		for _, rw := range f.filter(table, query) {
			if authenticated && rw["created_by"] == caller.String() {
				doomed[rw["id"]] = true
			}
		}
		f.remove(table, func(rw row) bool { return doomed[rw["id"]] })
		if table == "dreams" {
			f.remove("reviews", func(rw row) bool { return doomed[rw["dream_id"]] })
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// check applies the table constraints of the migrations.
func (f *fakeRest) check(table string, body row) (string, string) {
	if table != "reviews" {
		return "", ""
	}
	for _, col := range []string{"overall_rating", "ethics_rating", "creativity_rating", "writing_rating"} {
		if v, ok := body[col].(float64); ok && (v < 1 || v > 5) {
			return "23514", fmt.Sprintf("new row violates check constraint %q", col)
		}
	}
	if id, ok := body["dream_id"]; ok {
		for _, d := range f.tables["dreams"] {
			if d["id"] == id {
				return "", ""
			}
		}
		return "23503", "insert or update on table \"reviews\" violates foreign key constraint"
	}
	return "", ""
}

func (f *fakeRest) filter(table string, query url.Values) []row {
	var out []row
	for _, rw := range f.tables[table] {
		if matches(rw, query) {
			out = append(out, rw)
		}
	}
	return out
}

func (f *fakeRest) remove(table string, drop func(row) bool) {
	kept := f.tables[table][:0]
	for _, rw := range f.tables[table] {
		if !drop(rw) {
			kept = append(kept, rw)
		}
	}
	f.tables[table] = kept
}

func matches(rw row, query url.Values) bool {
	for col, values := range query {
		switch {
		case col == "select", col == "order", col == "limit", col == "offset", strings.Contains(col, "."):
			continue
		}
		op, arg, _ := strings.Cut(values[0], ".")
		got := fmt.Sprint(rw[col])
		switch op {
		case "eq":
			if got != arg {
				return false
			}
		case "neq":
			if got == arg {
				return false
			}
		case "in":
			list := strings.Split(strings.Trim(arg, "()"), ",")
			found := false
			for _, v := range list {
				if strings.Trim(v, `"`) == got {
					found = true
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}

func sortRows(rows []row, order string) {
	if order == "" {
		return
	}
	parts := strings.Split(strings.Split(order, ",")[0], ".")
	col, desc := parts[0], len(parts) > 1 && parts[1] == "desc"
	sort.SliceStable(rows, func(i, j int) bool {
		c := compare(rows[i][col], rows[j][col])
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func compare(a, b any) int {
	if x, ok := a.(float64); ok {
		y, _ := b.(float64)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func page(rows []row, query url.Values, maxRows int) []row {
	offset, limit := 0, len(rows)
	if v := query["offset"]; len(v) > 0 {
		fmt.Sscan(v[0], &offset)
	}
	if v := query["limit"]; len(v) > 0 {
		fmt.Sscan(v[0], &limit)
	}
	if offset > len(rows) {
		return nil
	}
	rows = rows[offset:]
	if maxRows > 0 && maxRows < limit {
		limit = maxRows
	}
	if limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

func (f *fakeRest) project(table string, rows []row, query url.Values) []row {
	sel := strings.ReplaceAll(query["select"][0], " ", "")
	out := make([]row, 0, len(rows))
	for _, rw := range rows {
		p := row{}
		if sel == "id" {
			p["id"] = rw["id"]
			out = append(out, p)
			continue
		}
		for k, v := range rw {
			p[k] = v
		}
		if table == "dreams" && strings.Contains(sel, "reviews(*)") {
			nested := f.filter("reviews", url.Values{"dream_id": {fmt.Sprintf("eq.%v", rw["id"])}})
			sortRows(nested, query.Get("reviews.order"))
			if nested == nil {
				nested = []row{}
			}
			p["reviews"] = nested
		}
		if table == "reviews" && strings.Contains(sel, "dreams(*)") {
			p["dreams"] = nil
			for _, d := range f.tables["dreams"] {
				if d["id"] == rw["dream_id"] {
					p["dreams"] = d
				}
			}
		}
		out = append(out, p)
	}
	return out
}

func (f *fakeRest) respond(w http.ResponseWriter, status int, rows []row, wantObject bool) {
	w.Header().Set("Content-Type", "application/json")
	if wantObject {
		if len(rows) != 1 {
			writeFakeError(w, http.StatusNotAcceptable, "PGRST116", "JSON object requested, multiple (or no) rows returned")
			return
		}
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(rows[0])
		return
	}
	if rows == nil {
		rows = []row{}
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(rows)
}

func writeFakeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"code": code, "message": message})
}
