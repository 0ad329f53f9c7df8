package api

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/philippweder/wine-shop/internal/llm"
	"github.com/philippweder/wine-shop/internal/sommelier/docbuilder"
	"github.com/philippweder/wine-shop/internal/sommelier/service"
	"github.com/philippweder/wine-shop/internal/sommelier/vectorindex"
	"github.com/philippweder/wine-shop/pkg/logger"
)

const testModel = "test-embedding-model"

type fakeEmbedder struct{}

func (fakeEmbedder) Model() string { return testModel }

func (fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return hashVector(text), nil
}

func (fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = hashVector(text)
	}
	return vectors, nil
}

func hashVector(text string) []float32 {
	const dim = 512
	vec := make([]float32, dim)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(token))
		vec[h.Sum32()%dim]++
	}
	return vec
}

type fakeLLM struct{}

func (fakeLLM) Generate(ctx context.Context, prompt string) (string, error) {
	for _, line := range strings.Split(prompt, "\n") {
		if name, ok := strings.CutPrefix(line, "Name: "); ok {
			return "I recommend the " + name + ".", nil
		}
	}
	return "I couldn't find a specific wine for that request.", nil
}

func newTestRouter(t *testing.T, indexPath string, newGenerator func() (llm.LLM, error)) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	svc := service.New(fakeEmbedder{}, newGenerator, indexPath, 1, logger.New("test"))
	router := gin.New()
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func buildIndexAt(t *testing.T, dir string) string {
	t.Helper()

	records := []map[string]interface{}{
		{"id": uint(1), "name": "Cloudy Bay Sauvignon Blanc", "type": "White", "food_pairing": "grilled fish"},
		{"id": uint(2), "name": "Masi Amarone", "type": "Red", "food_pairing": "braised beef"},
	}
	documents := docbuilder.Build(records)
	vectors := make([][]float32, len(documents))
	for i, doc := range documents {
		vectors[i] = hashVector(doc.Text)
	}

	index, err := vectorindex.Build(documents, vectors, testModel)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	path := filepath.Join(dir, "index")
	if err := index.Persist(path); err != nil {
		t.Fatalf("Persist() error = %v", err)
	}
	return path
}

func postQuery(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sommelier/query", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestQueryEndpoint_Success(t *testing.T) {
	path := buildIndexAt(t, t.TempDir())
	router := newTestRouter(t, path, func() (llm.LLM, error) { return fakeLLM{}, nil })

	rec := postQuery(t, router, `{"question": "wine for grilled fish"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d, body %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp QueryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal response: %v", err)
	}
	if !strings.Contains(resp.Answer, "Cloudy Bay Sauvignon Blanc") {
		t.Errorf("Answer should name the Sauvignon Blanc, got %q", resp.Answer)
	}
	if resp.Error != "" {
		t.Errorf("Expected no error in response, got %q", resp.Error)
	}
	if len(resp.SourceDocuments) != 1 {
		t.Fatalf("Expected 1 source document, got %d", len(resp.SourceDocuments))
	}
	doc := resp.SourceDocuments[0]
	if !strings.Contains(doc.PageContent, "Name: Cloudy Bay Sauvignon Blanc") {
		t.Errorf("page_content missing the document text, got %q", doc.PageContent)
	}
	if got := doc.Metadata["source_id"]; got != "1" {
		t.Errorf("Expected metadata source_id \"1\", got %v", got)
	}
}

func TestQueryEndpoint_EmptyQuestion(t *testing.T) {
	path := buildIndexAt(t, t.TempDir())
	router := newTestRouter(t, path, func() (llm.LLM, error) { return fakeLLM{}, nil })

	rec := postQuery(t, router, `{"question": "   "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	var resp QueryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal response: %v", err)
	}
	if resp.Error == "" {
		t.Error("Expected an error message in the response body")
	}
	if resp.Answer != "" || len(resp.SourceDocuments) != 0 {
		t.Error("Failure responses must not carry an answer or sources")
	}
}

func TestQueryEndpoint_MalformedBody(t *testing.T) {
	path := buildIndexAt(t, t.TempDir())
	router := newTestRouter(t, path, func() (llm.LLM, error) { return fakeLLM{}, nil })

	rec := postQuery(t, router, `{"question": `)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestQueryEndpoint_IndexMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index")
	router := newTestRouter(t, path, func() (llm.LLM, error) { return fakeLLM{}, nil })

	rec := postQuery(t, router, `{"question": "wine for grilled fish"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("Status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}

	var resp QueryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal response: %v", err)
	}
	if !strings.Contains(resp.Error, "index") {
		t.Errorf("Error should mention the missing index, got %q", resp.Error)
	}
}

func TestQueryEndpoint_NotConfigured(t *testing.T) {
	path := buildIndexAt(t, t.TempDir())
	router := newTestRouter(t, path, func() (llm.LLM, error) { return nil, llm.ErrMissingAPIKey })

	rec := postQuery(t, router, `{"question": "wine for grilled fish"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("Status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}
