package update_specialist_schedule

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/service/calendar"
	"github.com/m04kA/SMC-SalonBooking/internal/service/calendar/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

type fakeService struct {
	got *models.UpdateScheduleRequest
	err error
}

func (f *fakeService) UpdateSchedule(_ context.Context, specialistID int64, req *models.UpdateScheduleRequest) (*models.ScheduleResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return models.FromDomainSchedule(req.ToDomain(specialistID)), nil
}

func serve(svc *fakeService, path, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/specialists/{specialistId}/schedule", NewHandler(svc, logger.NewNop()).Handle)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, path, strings.NewReader(body)))
	return rec
}

func TestHandle_OK(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, "/specialists/2/schedule",
		`{"days":[{"weekday":1,"works":true,"start":"09:00","end":"17:00"},{"weekday":0,"works":false}]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.got.Days, 2)
	assert.Equal(t, "09:00", svc.got.Days[0].Start.String())
	assert.True(t, svc.got.Days[1].Start.IsZero())
}

func TestHandle_BadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "weekday out of range", body: `{"days":[{"weekday":7,"works":false}]}`},
		{name: "working day without hours", body: `{"days":[{"weekday":1,"works":true}]}`},
		{name: "bad time", body: `{"days":[{"weekday":1,"works":true,"start":"9","end":"17:00"}]}`},
		{name: "duplicate weekday", body: `{"days":[{"weekday":1,"works":false},{"weekday":1,"works":false}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{}
			rec := serve(svc, "/specialists/2/schedule", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, svc.got)
		})
	}
}

func TestHandle_ServiceErrors(t *testing.T) {
	body := `{"days":[{"weekday":1,"works":true,"start":"18:00","end":"09:00"}]}`

	assert.Equal(t, http.StatusNotFound, serve(&fakeService{err: calendar.ErrSpecialistNotFound}, "/specialists/2/schedule", body).Code)
	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{err: calendar.ErrInvalidInput}, "/specialists/2/schedule", body).Code)
	assert.Equal(t, http.StatusInternalServerError, serve(&fakeService{err: calendar.ErrInternal}, "/specialists/2/schedule", body).Code)
}
