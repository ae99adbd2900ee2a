package experiences

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, pid := newTestService(t)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r, pid
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestExperienceRoutes(t *testing.T) {
	r, pid := newTestRouter(t)
	base := "/api/v1/profile/" + pid + "/experiences"

	resp := doJSON(r, http.MethodPost, base, `{"role":"Analyst","company":"Firm A","description":"...","area":"Math","startDate":"2020-02-01","endDate":"2021-03-04"}`)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var created ExperienceResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	assert.Equal(t, "2020-02-01", created.StartDate.Format(dateLayout))
	assert.NotNil(t, created.EndDate)
	assert.Contains(t, resp.Body.String(), `"startDate":"2020-02-01"`, "dates render as plain dates")

	resp = doJSON(r, http.MethodPut, base+"/"+created.ID, `{"endDate":null,"role":"Lead"}`)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"endDate":null`)
	assert.Contains(t, resp.Body.String(), `"role":"Lead"`)

	resp = doJSON(r, http.MethodPost, base, `{"role":"X","company":"Y","startDate":"2020-02-01","endDate":"2019-01-01"}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code, "end before start")

	resp = doJSON(r, http.MethodGet, base, "")
	var list []ExperienceResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	assert.Equal(t, http.StatusNoContent, doJSON(r, http.MethodDelete, base+"/"+created.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodGet, base+"/"+created.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodGet, "/api/v1/profile/nobody/experiences", "").Code, "unknown profile")
}
