package get_specialist_schedule

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/calendar"
	"github.com/m04kA/SMC-SalonBooking/internal/service/calendar/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

type fakeService struct {
	err error
}

func (f *fakeService) GetSchedule(_ context.Context, specialistID int64) (*models.ScheduleResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return models.FromDomainSchedule(&domain.SpecialistSchedule{SpecialistID: specialistID}), nil
}

func serve(svc *fakeService, path string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/specialists/{specialistId}/schedule", NewHandler(svc, logger.NewNop()).Handle)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHandle_OK(t *testing.T) {
	rec := serve(&fakeService{}, "/specialists/4/schedule")

	require.Equal(t, http.StatusOK, rec.Code)
	var body models.ScheduleResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, int64(4), body.SpecialistID)
	assert.Len(t, body.Days, 7)
}

func TestHandle_Errors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, serve(&fakeService{}, "/specialists/x/schedule").Code)
	assert.Equal(t, http.StatusNotFound, serve(&fakeService{err: calendar.ErrSpecialistNotFound}, "/specialists/4/schedule").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(&fakeService{err: calendar.ErrInternal}, "/specialists/4/schedule").Code)
}
