package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/disbudpar-sulsel/tourism-data-backend/internal/bulk"
	"github.com/disbudpar-sulsel/tourism-data-backend/internal/services"
	"github.com/disbudpar-sulsel/tourism-data-backend/internal/supabase"
)

const validDestinationCSV = "Nama,Kab_Kota,Kecamatan,Kelurahan_Desa,Deskripsi,Fasilitas_Umum,Jarak_Ibukota,Pengelola,Rating\n" +
	"Pantai Losari,Kota Makassar,Ujung Pandang,Losari,Pantai ikonik,Toilet,0 km,Pemerintah,9\n"

func newBulkRouter(serverURL string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	client := supabase.NewClient(supabase.Config{
		BaseURL:        serverURL,
		APIKey:         "anon-key",
		ServiceRoleKey: "service-key",
		StorageBucket:  "gambar.pariwisata",
	})
	handler := NewBulkHandler(bulk.NewRegistry(), services.NewSubmissionService(client, testLogger()), testLogger())

	router := gin.New()
	router.POST("/api/v1/bulk/validate", handler.Validate)
	router.POST("/api/v1/bulk/submit", handler.Submit)
	router.POST("/api/v1/bulk/export", handler.Export)
	router.GET("/api/v1/bulk/templates/:schema", handler.Template)
	return router
}

func uploadFile(router *gin.Engine, path, filename, content string) *httptest.ResponseRecorder {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, _ := writer.CreateFormFile("file", filename)
	part.Write([]byte(content))
	writer.Close()

	req := httptest.NewRequest("POST", path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestBulkValidate_ValidFile(t *testing.T) {
	router := newBulkRouter("http://unused.invalid")

	w := uploadFile(router, "/api/v1/bulk/validate", "destinasi.csv", validDestinationCSV)

	require.Equal(t, http.StatusOK, w.Code)
	var resp ValidateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Destinasi", resp.Schema)
	assert.Equal(t, 1, resp.RowCount)
	assert.True(t, resp.Valid)
	assert.Empty(t, resp.Errors)
}

func TestBulkValidate_ReportsRowErrors(t *testing.T) {
	router := newBulkRouter("http://unused.invalid")

	invalid := "Nama,Kab_Kota,Kecamatan,Kelurahan_Desa,Deskripsi,Fasilitas_Umum,Jarak_Ibukota,Pengelola,Rating\n" +
		"Pantai Losari,Kota Makassar,Ujung Pandang,Losari,Pantai ikonik,Toilet,0 km,Dinas,11\n"
	w := uploadFile(router, "/api/v1/bulk/validate", "destinasi.csv", invalid)

	require.Equal(t, http.StatusOK, w.Code)
	var resp ValidateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Valid)
	require.Len(t, resp.Errors, 2)
	assert.Equal(t, 2, resp.Errors[0].Row)
}

func TestBulkValidate_SchemaMismatch(t *testing.T) {
	router := newBulkRouter("http://unused.invalid")

	w := uploadFile(router, "/api/v1/bulk/validate", "data.csv", "Nama,Alamat\nToko,Jalan Mawar\n")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "SCHEMA_MISMATCH")
	assert.Contains(t, w.Body.String(), "Destinasi")
	assert.Contains(t, w.Body.String(), "Industri")
}

func TestBulkSubmit_InsertsBatch(t *testing.T) {
	var inserted []map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rest/v1/Destinasi Wisata", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&inserted))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(inserted)
	}))
	defer server.Close()
	router := newBulkRouter(server.URL)

	w := uploadFile(router, "/api/v1/bulk/submit", "destinasi.csv", validDestinationCSV)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"inserted":1`)
	require.Len(t, inserted, 1)
	assert.Equal(t, "Pantai Losari", inserted[0]["Nama"])
	assert.NotEmpty(t, inserted[0]["Tanggal_Input"])
}

func TestBulkSubmit_RejectsInvalidFile(t *testing.T) {
	router := newBulkRouter("http://unused.invalid")

	invalid := "Nama,Kab_Kota,Kecamatan,Kelurahan_Desa,Deskripsi,Fasilitas_Umum,Jarak_Ibukota,Pengelola,Rating\n" +
		",Kota Makassar,Ujung Pandang,Losari,Pantai ikonik,Toilet,0 km,Pemerintah,9\n"
	w := uploadFile(router, "/api/v1/bulk/submit", "destinasi.csv", invalid)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "validation_error")
}

func TestBulkExport_ReturnsSpreadsheet(t *testing.T) {
	router := newBulkRouter("http://unused.invalid")

	w := uploadFile(router, "/api/v1/bulk/export", "destinasi.csv", validDestinationCSV)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))

	table, err := bulk.ParseXLSX(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Pantai Losari", table.Rows[0][0])
}

func TestBulkTemplate(t *testing.T) {
	router := newBulkRouter("http://unused.invalid")

	req := httptest.NewRequest("GET", "/api/v1/bulk/templates/Industri", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	table, err := bulk.ParseXLSX(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Contains(t, table.Columns, "Nama_Usaha")
	assert.Empty(t, table.Rows)

	req = httptest.NewRequest("GET", "/api/v1/bulk/templates/unknown", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
