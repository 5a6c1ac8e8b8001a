package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sixdp/georound/internal/config"
	"github.com/sixdp/georound/internal/server"
	"github.com/sixdp/georound/internal/table"
)

func upload(t *testing.T, filename, content, format string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = io.WriteString(fw, content)
	require.NoError(t, err)

	if format != "" {
		require.NoError(t, mw.WriteField("format", format))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/process", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandleProcessCSV(t *testing.T) {
	ctx := server.NewServerContext(config.Default())

	req := upload(t, "plots.csv", "farmer,long,lat\nA,3,12.3\n", "csv")
	rec := httptest.NewRecorder()
	ctx.HandleProcess(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "processed_data.csv")

	out, err := table.ReadCSV(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, []string{"farmer", "long", "lat"}, out.Columns)
	require.Len(t, out.Rows, 1)
	assert.Equal(t, []string{"A", "3.000001", "12.300001"}, out.Rows[0])
}

func TestHandleProcessGeoJSONOutput(t *testing.T) {
	ctx := server.NewServerContext(config.Default())

	req := upload(t, "plots.csv", "name,gps_point\nA,POINT (1.5 2.5)\n", "geojson")
	rec := httptest.NewRecorder()
	ctx.HandleProcess(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/geo+json", rec.Header().Get("Content-Type"))

	var fc map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fc))
	assert.Equal(t, "FeatureCollection", fc["type"])
}

func TestHandleProcessKMLOutputWithoutGeometry(t *testing.T) {
	ctx := server.NewServerContext(config.Default())

	req := upload(t, "plots.csv", "farmer,village\nA,x\n", "kml")
	rec := httptest.NewRecorder()
	ctx.HandleProcess(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestHandleProcessBadRequests(t *testing.T) {
	ctx := server.NewServerContext(config.Default())

	// wrong method
	rec := httptest.NewRecorder()
	ctx.HandleProcess(rec, httptest.NewRequest(http.MethodGet, "/api/process", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	// not multipart
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/process", strings.NewReader("x"))
	ctx.HandleProcess(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// unsupported extension
	rec = httptest.NewRecorder()
	ctx.HandleProcess(rec, upload(t, "plots.shp", "binary", ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// unsupported output format
	rec = httptest.NewRecorder()
	ctx.HandleProcess(rec, upload(t, "plots.csv", "a\n1\n", "shp"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	ctx := server.NewServerContext(config.Default())

	rec := httptest.NewRecorder()
	ctx.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
