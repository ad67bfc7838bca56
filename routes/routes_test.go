package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"knowledge-base-api/internal/config"
	"knowledge-base-api/internal/vectorstore"
	"knowledge-base-api/services"

	"github.com/gin-gonic/gin"
)

type fakeStore struct {
	collections []string
	created     []string
	deleted     []string
	addedKB     string
	addedChunks []string
	queryText   string
	results     []vectorstore.SearchResult

	listErr   error
	createErr error
	deleteErr error
	addErr    error
	queryErr  error
}

func (s *fakeStore) Create(ctx context.Context, name string) error {
	s.created = append(s.created, name)
	return s.createErr
}

func (s *fakeStore) Delete(ctx context.Context, name string) error {
	s.deleted = append(s.deleted, name)
	return s.deleteErr
}

func (s *fakeStore) List(ctx context.Context) ([]string, error) {
	return s.collections, s.listErr
}

func (s *fakeStore) AddChunks(ctx context.Context, name string, chunks []string) error {
	s.addedKB = name
	s.addedChunks = append(s.addedChunks, chunks...)
	return s.addErr
}

func (s *fakeStore) Query(ctx context.Context, name, text string, topK int) ([]vectorstore.SearchResult, error) {
	s.queryText = text
	return s.results, s.queryErr
}

type fakeGenerator struct {
	answer string
	err    error
}

func (g *fakeGenerator) GenerateAnswer(ctx context.Context, query string, chunks []string) (string, error) {
	return g.answer, g.err
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response %q: %v", w.Body.String(), err)
	}
	return body
}

func TestStatusEndpoint(t *testing.T) {
	router := newTestRouter()
	SetupKnowledgeBaseRoutes(router, &fakeStore{}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body := decodeBody(t, w); body["status"] != "it works" {
		t.Fatalf("unexpected status body: %v", body)
	}
}

func TestListKnowledgeBases(t *testing.T) {
	router := newTestRouter()
	SetupKnowledgeBaseRoutes(router, &fakeStore{collections: []string{"geo", "history"}}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/knowledge_bases/", nil)
	router.ServeHTTP(w, req)

	body := decodeBody(t, w)
	names, ok := body["list of knowledge bases"].([]any)
	if !ok {
		t.Fatalf("missing knowledge base list in %v", body)
	}
	if len(names) != 2 || names[0] != "geo" || names[1] != "history" {
		t.Fatalf("unexpected names: %v", names)
	}
}

func TestCreateKnowledgeBase(t *testing.T) {
	store := &fakeStore{}
	router := newTestRouter()
	SetupKnowledgeBaseRoutes(router, store, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/create_knowledge_base/geo", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["message"] != "new knowledge base is successfully created" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
	if len(store.created) != 1 || store.created[0] != "geo" {
		t.Fatalf("store not asked to create geo: %v", store.created)
	}
}

func TestDeleteKnowledgeBase(t *testing.T) {
	store := &fakeStore{}
	router := newTestRouter()
	SetupKnowledgeBaseRoutes(router, store, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/knowledge_base/geo", nil)
	router.ServeHTTP(w, req)

	body := decodeBody(t, w)
	if body["message"] != "geo deleted successfully" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

func TestDeleteMissingKnowledgeBaseReportsInBody(t *testing.T) {
	store := &fakeStore{deleteErr: errors.New(`knowledge base "missing" does not exist`)}
	router := newTestRouter()
	SetupKnowledgeBaseRoutes(router, store, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/knowledge_base/missing", nil)
	router.ServeHTTP(w, req)

	// Errors are reported in the message body, not the HTTP status
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	msg, _ := body["message"].(string)
	if !strings.Contains(msg, "error occurred") {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestListDocumentsWithoutRegistry(t *testing.T) {
	router := newTestRouter()
	SetupKnowledgeBaseRoutes(router, &fakeStore{}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/knowledge_base/geo/documents", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body := decodeBody(t, w); body["documents"] == nil {
		t.Fatalf("expected documents list, got %v", body)
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		MaxFileSize:         10 << 20,
		AllowedTypes:        []string{"application/pdf"},
		MaxChunkSize:        1024,
		FileStorageDir:      t.TempDir(),
		SyncProcessingLimit: 20 << 20,
	}
}

func multipartUpload(t *testing.T, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("failed to build multipart body: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write multipart body: %v", err)
	}
	writer.Close()

	return buf, writer.FormDataContentType()
}

func TestUploadRejectsNonPDF(t *testing.T) {
	store := &fakeStore{}
	cfg := testConfig(t)
	router := newTestRouter()
	SetupIngestRoutes(router, cfg, services.NewIngestionService(store, cfg.MaxChunkSize), nil, nil)

	body, contentType := multipartUpload(t, "notes.txt", "text/plain", []byte("plain text"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/add_document_to_knowledge_base/geo", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := decodeBody(t, w)
	if resp["message"] != "we support only pdfs" {
		t.Fatalf("unexpected message: %v", resp["message"])
	}

	// Rejected uploads must leave no trace
	if store.addedKB != "" || len(store.addedChunks) != 0 {
		t.Fatal("rejected upload reached the vector store")
	}
	if entries, _ := os.ReadDir(filepath.Join(cfg.FileStorageDir, "pdfs")); len(entries) != 0 {
		t.Fatal("rejected upload was written to storage")
	}
}

func TestUploadContentTypeAllowlistIsExact(t *testing.T) {
	store := &fakeStore{}
	cfg := testConfig(t)
	router := newTestRouter()
	SetupIngestRoutes(router, cfg, services.NewIngestionService(store, cfg.MaxChunkSize), nil, nil)

	// A pdf-ish media type outside the allowlist must be rejected
	body, contentType := multipartUpload(t, "doc.pdf", "application/x-pdf", []byte("%PDF-1.4"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/add_document_to_knowledge_base/geo", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	resp := decodeBody(t, w)
	if resp["message"] != "we support only pdfs" {
		t.Fatalf("unexpected message: %v", resp["message"])
	}
	if len(store.addedChunks) != 0 {
		t.Fatal("disallowed upload reached the vector store")
	}
}

func TestIsAllowedContentType(t *testing.T) {
	allowed := []string{"application/pdf"}

	cases := []struct {
		ct   string
		want bool
	}{
		{"application/pdf", true},
		{"Application/PDF", true},
		{"application/pdf; charset=binary", true},
		{"application/x-pdf", false},
		{"text/plain", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := isAllowedContentType(tc.ct, allowed); got != tc.want {
			t.Errorf("isAllowedContentType(%q) = %v, want %v", tc.ct, got, tc.want)
		}
	}
}

func TestUploadCorruptPDFReportsInBody(t *testing.T) {
	store := &fakeStore{}
	cfg := testConfig(t)
	router := newTestRouter()
	SetupIngestRoutes(router, cfg, services.NewIngestionService(store, cfg.MaxChunkSize), nil, nil)

	body, contentType := multipartUpload(t, "broken.pdf", "application/pdf", []byte("not really a pdf"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/add_document_to_knowledge_base/geo", body)
	req.Header.Set("Content-Type", contentType)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	resp := decodeBody(t, w)
	msg, _ := resp["message"].(string)
	if !strings.Contains(msg, "something went wrong :") {
		t.Fatalf("unexpected message: %q", msg)
	}
	if len(store.addedChunks) != 0 {
		t.Fatal("corrupt upload reached the vector store")
	}
}

func TestUploadMissingFileField(t *testing.T) {
	cfg := testConfig(t)
	router := newTestRouter()
	SetupIngestRoutes(router, cfg, services.NewIngestionService(&fakeStore{}, cfg.MaxChunkSize), nil, nil)

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	writer.WriteField("other", "value")
	writer.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/add_document_to_knowledge_base/geo", buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	router.ServeHTTP(w, req)

	resp := decodeBody(t, w)
	msg, _ := resp["message"].(string)
	if !strings.Contains(msg, "something went wrong :") {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestQueryRequiresParameter(t *testing.T) {
	router := newTestRouter()
	SetupQueryRoutes(router, services.NewQueryService(&fakeStore{}, &fakeGenerator{}, 2))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/query/geo", nil)
	router.ServeHTTP(w, req)

	body := decodeBody(t, w)
	if body["message"] != "query parameter is required" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

func TestQueryMissingKnowledgeBaseReportsInBody(t *testing.T) {
	store := &fakeStore{queryErr: errors.New(`knowledge base "missing" does not exist`)}
	router := newTestRouter()
	SetupQueryRoutes(router, services.NewQueryService(store, &fakeGenerator{}, 2))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/query/missing?query=anything", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	msg, _ := body["message"].(string)
	if !strings.HasPrefix(msg, "I couldn't retrieve data") {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestQuerySuccessReturnsResult(t *testing.T) {
	store := &fakeStore{
		results: []vectorstore.SearchResult{
			{Text: "Paris is the capital of France.", Score: 0.97},
		},
	}
	router := newTestRouter()
	SetupQueryRoutes(router, services.NewQueryService(store, &fakeGenerator{answer: "Paris."}, 2))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/query/geo?query=What+is+the+capital+of+France%3F", nil)
	router.ServeHTTP(w, req)

	body := decodeBody(t, w)
	if body["result"] != "Paris." {
		t.Fatalf("unexpected result: %v", body)
	}
}
