package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ginjaninja78/workbank-normalizer/internal/config"
	"github.com/ginjaninja78/workbank-normalizer/internal/converter"
	"github.com/ginjaninja78/workbank-normalizer/internal/rules"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const v8CSV = "NUM_PROPOSTA;VAL_BRUTO;DAT_EMPRESTIMO\n1001;5.000,00;01/06/2024\n"

func setupServer(t *testing.T, systems map[string]*config.SystemConfig) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger, _ := test.NewNullLogger()
	cfg := config.Default()
	s := New(cfg, converter.NewProcessor(converter.WithLogger(logger)), systems, logger)
	s.now = func() time.Time { return time.Date(2024, time.May, 15, 9, 0, 0, 0, time.UTC) }
	return s
}

func uploadRequest(t *testing.T, target string, fields map[string]string, fileName string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeFailure(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, false, got["success"])
	return got
}

func TestHealth(t *testing.T) {
	s := setupServer(t, nil)

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := setupServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestListSystems(t *testing.T) {
	s := setupServer(t, nil)

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/systems", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var got []systemInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, len(rules.Default().Systems()))

	var found bool
	for _, info := range got {
		if info.System == rules.V8Digital {
			found = true
			assert.Equal(t, "17", info.BankCode)
			assert.Contains(t, info.Columns, "NUM_PROPOSTA")
		}
	}
	assert.True(t, found)
}

func TestProcessReturnsAttachment(t *testing.T) {
	s := setupServer(t, nil)

	req := uploadRequest(t, "/process?format=json", map[string]string{"system": rules.V8Digital}, "v8.csv", []byte(v8CSV))
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, `attachment; filename="WORKBANKV8DIGITAL15052024.json"`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.Equal(t, "0", w.Header().Get(WarningCountHeader))

	var records []map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "1001", records[0]["NUM_PROPOSTA"])
	assert.Equal(t, "5.000,00", records[0]["VAL_BRUTO"])
}

func TestProcessUsesSystemCSVSettings(t *testing.T) {
	s := setupServer(t, map[string]*config.SystemConfig{
		rules.V8Digital: {System: rules.V8Digital, CSVSettings: config.CSVSettings{Delimiter: "|"}},
	})

	req := uploadRequest(t, "/process?format=csv", map[string]string{"system": rules.V8Digital}, "v8.txt", []byte("NUM_PROPOSTA|VAL_BRUTO\n55|1,00\n"))
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "55")
}

func TestProcessFailures(t *testing.T) {
	s := setupServer(t, nil)

	tests := []struct {
		name     string
		target   string
		fields   map[string]string
		fileName string
		content  []byte
		status   int
		message  string
	}{
		{
			name:     "missing system",
			target:   "/process",
			fileName: "v8.csv",
			content:  []byte(v8CSV),
			status:   http.StatusBadRequest,
			message:  "system is required",
		},
		{
			name:    "missing file",
			target:  "/process",
			fields:  map[string]string{"system": rules.V8Digital},
			status:  http.StatusBadRequest,
			message: "file is required",
		},
		{
			name:     "bad format",
			target:   "/process?format=xml",
			fields:   map[string]string{"system": rules.V8Digital},
			fileName: "v8.csv",
			content:  []byte(v8CSV),
			status:   http.StatusBadRequest,
			message:  `unsupported format "xml"`,
		},
		{
			name:     "unknown system",
			target:   "/process",
			fields:   map[string]string{"system": "FAKEBANK"},
			fileName: "v8.csv",
			content:  []byte(v8CSV),
			status:   http.StatusUnprocessableEntity,
			message:  "Unknown system: FAKEBANK",
		},
		{
			name:     "not a workbook",
			target:   "/process",
			fields:   map[string]string{"system": rules.V8Digital},
			fileName: "v8.xlsx",
			content:  []byte("not a zip"),
			status:   http.StatusUnprocessableEntity,
			message:  "Invalid Excel file data.",
		},
		{
			name:     "header only",
			target:   "/process",
			fields:   map[string]string{"system": rules.V8Digital},
			fileName: "v8.csv",
			content:  []byte("NUM_PROPOSTA;VAL_BRUTO\n"),
			status:   http.StatusUnprocessableEntity,
			message:  "No data found in the Excel sheet. Please ensure it is not empty.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			s.Router().ServeHTTP(w, uploadRequest(t, tt.target, tt.fields, tt.fileName, tt.content))

			assert.Equal(t, tt.status, w.Code)
			got := decodeFailure(t, w)
			assert.Equal(t, tt.message, got["error"])
		})
	}
}

func TestProcessRejectsLargeUpload(t *testing.T) {
	s := setupServer(t, nil)
	s.cfg.Server.MaxUploadMB = 1

	big := bytes.Repeat([]byte("a"), 2<<20)
	req := uploadRequest(t, "/process", map[string]string{"system": rules.V8Digital}, "v8.csv", big)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	decodeFailure(t, w)
}
