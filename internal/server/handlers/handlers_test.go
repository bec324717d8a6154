package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/laborbook/internal/domain/models"
	"github.com/mamadbah2/laborbook/internal/repository/memory"
	"github.com/mamadbah2/laborbook/internal/server/handlers"
	"github.com/mamadbah2/laborbook/internal/server/router"
	"github.com/mamadbah2/laborbook/internal/service/hours"
	"github.com/mamadbah2/laborbook/internal/service/reporting"
	"github.com/mamadbah2/laborbook/internal/service/roster"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	store := memory.New()

	rosterSvc := roster.NewService(store.Laborers(), store.Hours(), nil)
	hoursSvc := hours.NewService(store.Laborers(), store.Hours(), nil)
	reportingSvc := reporting.NewService(store.Laborers(), store.Hours(), nil, nil)

	laborerHandler := handlers.NewLaborerHandler(rosterSvc, hoursSvc, nil, nil)
	reportHandler := handlers.NewReportHandler(reportingSvc, nil)
	return router.New(laborerHandler, reportHandler, nil)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createLaborer(t *testing.T, r *gin.Engine, name, fatherName, cardNo string, category models.Category) models.Laborer {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"fatherName":%q,"cardNo":%q,"category":%q}`, name, fatherName, cardNo, category)
	w := doJSON(t, r, http.MethodPost, "/api/laborers", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var laborer models.Laborer
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &laborer))
	require.NotEmpty(t, laborer.ID)
	return laborer
}

func TestCreateLaborerRejectsDuplicatesAndBadInput(t *testing.T) {
	r := newTestRouter(t)

	createLaborer(t, r, "Ravi", "Shyam", "A1", models.CategoryMilk)

	w := doJSON(t, r, http.MethodPost, "/api/laborers",
		`{"name":"Mohan","fatherName":"Gopal","cardNo":"A1","category":"Milk"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/laborers",
		`{"name":"Mohan","fatherName":"Gopal","cardNo":"A2","category":"Butter"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/laborers", `{"name":"Mohan"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRosterListReconcilesHours(t *testing.T) {
	r := newTestRouter(t)

	ravi := createLaborer(t, r, "Ravi", "Shyam", "A1", models.CategoryMilk)
	createLaborer(t, r, "Mohan", "Gopal", "A2", models.CategoryMilk)

	w := doJSON(t, r, http.MethodPut, "/api/laborers/"+ravi.ID+"/hours",
		`{"date":"2024-03-01","hours":8}`)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/laborers?category=Milk&date=2024-03-01", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Laborers []models.LaborerWithHours `json:"laborers"`
		Date     string                    `json:"date"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Laborers, 2)
	assert.Equal(t, 8.0, resp.Laborers[0].Hours)
	assert.Equal(t, 0.0, resp.Laborers[1].Hours)

	// search narrows by any identifying field, case-insensitively
	w = doJSON(t, r, http.MethodGet, "/api/laborers?category=Milk&date=2024-03-01&q=gopal", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Laborers, 1)
	assert.Equal(t, "Mohan", resp.Laborers[0].Name)
}

func TestSetHoursValidation(t *testing.T) {
	r := newTestRouter(t)
	ravi := createLaborer(t, r, "Ravi", "Shyam", "A1", models.CategoryMilk)

	w := doJSON(t, r, http.MethodPut, "/api/laborers/"+ravi.ID+"/hours",
		`{"date":"2024-03-01","hours":-2}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPut, "/api/laborers/"+ravi.ID+"/hours",
		`{"date":"03-01-2024","hours":2}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// an explicit zero is a valid write, not a missing field
	w = doJSON(t, r, http.MethodPut, "/api/laborers/"+ravi.ID+"/hours",
		`{"date":"2024-03-01","hours":0}`)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestDeleteRemovesLaborerFromRoster(t *testing.T) {
	r := newTestRouter(t)
	ravi := createLaborer(t, r, "Ravi", "Shyam", "A1", models.CategoryMilk)

	w := doJSON(t, r, http.MethodPut, "/api/laborers/"+ravi.ID+"/hours",
		`{"date":"2024-03-01","hours":8}`)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/laborers/"+ravi.ID, "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/laborers?category=Milk&date=2024-03-01", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Laborers []models.LaborerWithHours `json:"laborers"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Laborers)
}

func TestMonthlyCSVDownload(t *testing.T) {
	r := newTestRouter(t)

	ravi := createLaborer(t, r, "Ravi", "Shyam", "A1", models.CategoryMilk)
	w := doJSON(t, r, http.MethodPut, "/api/laborers/"+ravi.ID+"/hours",
		`{"date":"2024-03-15","hours":4.5}`)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/reports/monthly.csv?category=Milk&year=2024&month=3", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="Milk-2024-03.csv"`)
	assert.Contains(t, w.Body.String(), "Ravi,Shyam,A1,2024-03-15,4.5")

	w = doJSON(t, r, http.MethodGet, "/api/reports/monthly.csv?category=Milk&year=2024&month=13", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMonthlyReportJSONIncludesQuietLaborers(t *testing.T) {
	r := newTestRouter(t)

	createLaborer(t, r, "Ravi", "Shyam", "A1", models.CategoryMilk)

	w := doJSON(t, r, http.MethodGet, "/api/reports/monthly?category=Milk&year=2024&month=3", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Rows []models.MonthlyReportRow `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Rows, 1)
	assert.Empty(t, resp.Rows[0].Hours)
}
