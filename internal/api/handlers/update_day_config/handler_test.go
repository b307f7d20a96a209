package update_day_config

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/service/calendar"
	"github.com/m04kA/SMC-SalonBooking/internal/service/calendar/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

type fakeService struct {
	got *models.UpsertDayRequest
	err error
}

func (f *fakeService) UpsertDay(_ context.Context, weekday time.Weekday, req *models.UpsertDayRequest) (*models.DayConfigResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	cfg := req.ToDomain(weekday)
	return models.FromDomainDayConfig(cfg), nil
}

func serve(svc *fakeService, path, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/calendar/days/{weekday}", NewHandler(svc, logger.NewNop()).Handle)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, path, strings.NewReader(body)))
	return rec
}

const saturday = `{"active":true,"openTime":"10:00","closeTime":"16:00","intervalMinutes":60,"capacityPerSlot":2}`

func TestHandle_OK(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, "/calendar/days/6", saturday)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.got)
	assert.Equal(t, "10:00", svc.got.OpenTime.String())
	assert.True(t, svc.got.LunchStart.IsZero())
	assert.Equal(t, 2, svc.got.CapacityPerSlot)
}

func TestHandle_BadRequest(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
	}{
		{name: "bad weekday", path: "/calendar/days/9", body: saturday},
		{name: "bad time", path: "/calendar/days/6", body: strings.Replace(saturday, `"10:00"`, `"10am"`, 1)},
		{name: "zero interval", path: "/calendar/days/6", body: strings.Replace(saturday, `"intervalMinutes":60`, `"intervalMinutes":0`, 1)},
		{name: "zero capacity", path: "/calendar/days/6", body: strings.Replace(saturday, `"capacityPerSlot":2`, `"capacityPerSlot":0`, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{}
			rec := serve(svc, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, svc.got)
		})
	}
}

func TestHandle_ServiceErrors(t *testing.T) {
	rec := serve(&fakeService{err: fmt.Errorf("%w: open after close", calendar.ErrInvalidInput)}, "/calendar/days/6", saturday)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(&fakeService{err: calendar.ErrInternal}, "/calendar/days/6", saturday)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
