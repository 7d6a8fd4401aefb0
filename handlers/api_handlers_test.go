package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"rollcall-roster/db"
	"rollcall-roster/models"
	"rollcall-roster/roster"
)

func newRouter(t *testing.T) (*gin.Engine, *APIHandler) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := db.NewFileStore(filepath.Join(t.TempDir(), "students.txt"))
	h := NewAPIHandler(roster.New(), store, "Students")
	router := gin.New()
	h.RegisterRoutes(router)
	return router, h
}

func do(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeStudents(t *testing.T, w *httptest.ResponseRecorder) []models.Student {
	t.Helper()
	var out []models.Student
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestAddAndList(t *testing.T) {
	router, _ := newRouter(t)

	w := do(router, http.MethodGet, "/api/students", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = do(router, http.MethodPost, "/api/students", `{"name":"Ann","average":7.5}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = do(router, http.MethodPost, "/api/students", `{"name":"Bad","average":11}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodPost, "/api/students", `{"name":"NoAvg"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodGet, "/api/students", "")
	assert.Equal(t, []models.Student{{Name: "Ann", Average: 7.5}}, decodeStudents(t, w))
}

func TestSortEditDelete(t *testing.T) {
	router, h := newRouter(t)
	require.NoError(t, h.Roster.Add("low", 2))
	require.NoError(t, h.Roster.Add("high", 9))

	w := do(router, http.MethodPost, "/api/students/sort", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "high", decodeStudents(t, w)[0].Name)

	w = do(router, http.MethodPut, "/api/students/1", `{"name":"mid","average":5}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name":"mid","average":5}`, w.Body.String())

	w = do(router, http.MethodPut, "/api/students/1", `{"name":"renamed","average":0.5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, models.Student{Name: "renamed", Average: 5}, h.Roster.List()[1])

	w = do(router, http.MethodPut, "/api/students/7", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodPut, "/api/students/x", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodDelete, "/api/students/0", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name":"high","average":9}`, w.Body.String())
	assert.Equal(t, 1, h.Roster.Len())

	w = do(router, http.MethodDelete, "/api/students/1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearch(t *testing.T) {
	router, h := newRouter(t)

	w := do(router, http.MethodGet, "/api/students/search?q=a", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	require.NoError(t, h.Roster.Add("Alice", 8))
	w = do(router, http.MethodGet, "/api/students/search?q=lic", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []models.Student{{Name: "Alice", Average: 8}}, decodeStudents(t, w))

	w = do(router, http.MethodGet, "/api/students/search?q=zed", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestSaveLoad(t *testing.T) {
	router, h := newRouter(t)
	require.NoError(t, h.Roster.Add("Ann", 6))

	w := do(router, http.MethodPost, "/api/save", "")
	assert.Equal(t, http.StatusOK, w.Code)

	_, err := h.Roster.RemoveAt(0)
	require.NoError(t, err)

	w = do(router, http.MethodPost, "/api/load", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"loadedCount":1`)
	assert.Equal(t, []models.Student{{Name: "Ann", Average: 6}}, h.Roster.List())
}

func TestImportStudents(t *testing.T) {
	router, h := newRouter(t)

	wb := excelize.NewFile()
	defer wb.Close()
	for i, row := range [][]interface{}{{"Name", "Average"}, {"Ann", 7}, {"Bad", 42}} {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, wb.SetSheetRow("Sheet1", cell, &row))
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "class.xlsx")
	require.NoError(t, err)
	require.NoError(t, wb.Write(part))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/import/students", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"importedCount":1`)
	assert.Equal(t, []models.Student{{Name: "Ann", Average: 7}}, h.Roster.List())

	w = do(router, http.MethodPost, "/api/import/students", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPing(t *testing.T) {
	router, _ := newRouter(t)
	w := do(router, http.MethodGet, "/api/ping", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Pong!"}`, w.Body.String())
}
