package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Date  string  `json:"date" validate:"required,isodate"`
	Start string  `json:"startTime" validate:"required,hhmm"`
	IDs   []int64 `json:"serviceIds" validate:"required,min=1,unique"`
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(&sample{Date: "2026-10-19", Start: "09:30", IDs: []int64{1, 2}}))

	err := Validate(&sample{Date: "2026-02-30", Start: "24:00", IDs: []int64{1, 1}})
	require.Error(t, err)
	// имена полей берутся из json-тегов
	assert.Contains(t, err.Error(), "date: isodate")
	assert.Contains(t, err.Error(), "startTime: hhmm")
	assert.Contains(t, err.Error(), "serviceIds: unique")
}

func TestDecodeJSON(t *testing.T) {
	var v sample
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"date":"2026-10-19"}`))
	require.NoError(t, DecodeJSON(req, &v))
	assert.Equal(t, "2026-10-19", v.Date)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	assert.ErrorIs(t, DecodeJSON(req, &v), ErrEmptyBody)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"extra":true}`))
	assert.Error(t, DecodeJSON(req, &v))
}

func TestPathHelpers(t *testing.T) {
	var (
		id      int64
		weekday time.Weekday
		idErr   error
		dayErr  error
	)
	r := mux.NewRouter()
	r.HandleFunc("/x/{id}/{weekday}", func(w http.ResponseWriter, r *http.Request) {
		id, idErr = PathInt64(r, "id")
		weekday, dayErr = PathWeekday(r, "weekday")
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x/15/6", nil))
	require.NoError(t, idErr)
	require.NoError(t, dayErr)
	assert.Equal(t, int64(15), id)
	assert.Equal(t, time.Saturday, weekday)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x/0/7", nil))
	assert.Error(t, idErr)
	assert.Error(t, dayErr)
}

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondSlotUnavailable(rec, "занято")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"reason":"SlotUnavailable","message":"занято"}`, rec.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
}
