package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"flatpay-backend/internal/apperrors"
	"flatpay-backend/internal/tenant"
	"flatpay-backend/internal/timeutil"
	"flatpay-backend/pkg/utils"
)

// pathID extracts a numeric {id}-style path variable.
func pathID(r *http.Request, name string) (int, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, apperrors.Validation("invalid %s %q", name, raw)
	}
	return id, nil
}

// decodeBody parses the JSON request body into dst.
func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.Validation("invalid request body")
	}
	return nil
}

// requestScope pulls the tenant scope installed by the auth middleware.
func requestScope(w http.ResponseWriter, r *http.Request) (tenant.Scope, bool) {
	scope, err := tenant.Require(r.Context())
	if err != nil {
		utils.Error(w, err)
		return tenant.Scope{}, false
	}
	return scope, true
}

// queryDate parses a YYYY-MM-DD query parameter. Zero time when absent.
func queryDate(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(timeutil.DateLayout, raw)
	if err != nil {
		return time.Time{}, apperrors.Validation("invalid %s date %q, want YYYY-MM-DD", name, raw)
	}
	return t, nil
}

// dateRange parses from/to query params, defaulting to the last 30 days.
func dateRange(r *http.Request) (time.Time, time.Time, error) {
	from, err := queryDate(r, "from")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := queryDate(r, "to")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to.IsZero() {
		to = timeutil.StartOfDay(timeutil.Now(), timeutil.IST)
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}
	return from, to, nil
}
