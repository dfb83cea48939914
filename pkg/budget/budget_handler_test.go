package budget

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(handler *BudgetHandler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/budget", handler.GetAll).Methods("GET")
	r.HandleFunc("/api/budget", handler.Register).Methods("POST")
	r.HandleFunc("/api/budget/{id}", handler.Delete).Methods("DELETE")
	r.HandleFunc("/api/budget/{id}/pacing", handler.GetPacing).Methods("GET")
	r.HandleFunc("/api/budget/{id}/history", handler.GetHistory).Methods("GET")
	return r
}

func serve(router *mux.Router, method, path, body string, requestCtx context.Context) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body)).WithContext(requestCtx)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestBudgetHandler_Lifecycle(t *testing.T) {
	f, teardown := setup(t)
	defer teardown()
	router := newTestRouter(NewBudgetHandler(f.service))

	// create
	w := serve(router, http.MethodPost, "/api/budget",
		`{"name":"Main","amount":"300","type":"month","startDate":"2024-01-01T00:00:00+01:00"}`, ctx)
	require.Equal(t, http.StatusCreated, w.Code)
	var created BudgetDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.True(t, created.Main)
	assert.Equal(t, "month", created.Type)

	// second main budget
	w = serve(router, http.MethodPost, "/api/budget",
		`{"name":"Other","amount":"100","type":"month","startDate":"2024-01-01T00:00:00+01:00"}`, ctx)
	assert.Equal(t, http.StatusConflict, w.Code)

	// pacing
	base := "/api/budget/" + strconv.Itoa(created.ID)
	w = serve(router, http.MethodGet, base+"/pacing", "", ctx)
	require.Equal(t, http.StatusOK, w.Code)
	var pacing PacingDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&pacing))
	assert.Equal(t, string(OnPace), pacing.PaceState)
	assert.Equal(t, "300", pacing.Amount.String())
	assert.Equal(t, 31, pacing.TotalUnits)
	assert.Equal(t, 10, pacing.ElapsedUnits)

	// history
	w = serve(router, http.MethodGet, base+"/history?periods=3", "", ctx)
	require.Equal(t, http.StatusOK, w.Code)
	var history []PeriodSpendDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&history))
	require.Len(t, history, 1)
	assert.True(t, history[0].Current)

	// list
	w = serve(router, http.MethodGet, "/api/budget", "", ctx)
	require.Equal(t, http.StatusOK, w.Code)
	var listed []BudgetDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&listed))
	assert.Len(t, listed, 1)

	// delete twice
	assert.Equal(t, http.StatusNoContent, serve(router, http.MethodDelete, base, "", ctx).Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodDelete, base, "", ctx).Code)
}

func TestBudgetHandler_InvalidRequests(t *testing.T) {
	f, teardown := setup(t)
	defer teardown()
	router := newTestRouter(NewBudgetHandler(f.service))

	testCases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"malformed body", http.MethodPost, "/api/budget", `{`, http.StatusBadRequest},
		{"unknown type", http.MethodPost, "/api/budget", `{"name":"x","amount":"1","type":"fortnight","startDate":"2024-01-01T00:00:00Z"}`, http.StatusBadRequest},
		{"zero amount", http.MethodPost, "/api/budget", `{"name":"x","amount":"0","type":"week","startDate":"2024-01-01T00:00:00Z"}`, http.StatusBadRequest},
		{"missing start date", http.MethodPost, "/api/budget", `{"name":"x","amount":"1","type":"week"}`, http.StatusBadRequest},
		{"non numeric id", http.MethodGet, "/api/budget/abc/pacing", "", http.StatusBadRequest},
		{"unknown budget", http.MethodGet, "/api/budget/42/pacing", "", http.StatusNotFound},
		{"invalid periods", http.MethodGet, "/api/budget/42/history?periods=-1", "", http.StatusBadRequest},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(router, tc.method, tc.path, tc.body, ctx)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestBudgetHandler_WithoutUser(t *testing.T) {
	f, teardown := setup(t)
	defer teardown()
	router := newTestRouter(NewBudgetHandler(f.service))

	w := serve(router, http.MethodGet, "/api/budget", "", context.Background())

	assert.Equal(t, http.StatusForbidden, w.Code)
}
