package server

import (
	"context"
	"encoding/json"
	"image"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"docchat/internal/document"
	"docchat/internal/embeddings"
	"docchat/internal/engine"
	"docchat/internal/index"
	"docchat/internal/llm"
	"docchat/internal/reader"
)

type memSource struct {
	title string
	texts []string
}

func (s *memSource) Title() string  { return s.title }
func (s *memSource) PageCount() int { return len(s.texts) }

func (s *memSource) Page(_ context.Context, n int) (*reader.PageData, error) {
	return &reader.PageData{Text: s.texts[n-1]}, nil
}

func (s *memSource) Render(context.Context, int) (image.Image, error) {
	return nil, reader.ErrRenderUnavailable
}

func (s *memSource) Metadata() document.Metadata { return document.Metadata{} }
func (s *memSource) Close() error                { return nil }

type echoProvider struct{}

func (echoProvider) Complete(_ context.Context, req llm.Request) (*llm.Response, error) {
	return &llm.Response{Content: "grounded answer", Model: "echo"}, nil
}
func (echoProvider) Name() string { return "echo" }

func newTestServer(t *testing.T, provider llm.Provider) (*Server, *engine.Engine) {
	t.Helper()
	eng := engine.New(engine.Options{
		Embedder:     embeddings.NewHashEmbedder(32),
		Provider:     provider,
		Store:        index.New(),
		TopK:         3,
		HistoryTurns: 6,
	})
	return New(Config{Port: 0, AllowAll: true, HistoryTurns: 6}, eng, nil), eng
}

func ingestTestDoc(t *testing.T, eng *engine.Engine, id string, texts ...string) {
	t.Helper()
	src := &memSource{title: "Test Doc", texts: texts}
	if _, err := eng.IngestSource(context.Background(), src, id, "Test Doc", "test.pdf"); err != nil {
		t.Fatalf("ingest: %v", err)
	}
}

func TestHealthCheck(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestQueryEndpoint(t *testing.T) {
	srv, eng := newTestServer(t, nil)
	ingestTestDoc(t, eng, "doc1",
		"The warranty covers manufacturing defects for a period of two years.",
		"Shipping times vary by destination country.")

	body := `{"document_id":"doc1","question":"How long does the warranty last?"}`
	req := httptest.NewRequest("POST", "/api/query", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Grounding string `json:"grounding"`
		Excerpts  []struct {
			Page int `json:"page"`
		} `json:"excerpts"`
		Fallback bool `json:"fallback"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Excerpts) == 0 {
		t.Fatal("no excerpts")
	}
	if !strings.Contains(resp.Grounding, "[page ") {
		t.Errorf("grounding missing page labels:\n%s", resp.Grounding)
	}
}

func TestQueryEndpoint_SelectionFirst(t *testing.T) {
	srv, eng := newTestServer(t, nil)
	ingestTestDoc(t, eng, "doc1", "Some indexed body text about warranties and coverage.")

	body := `{"document_id":"doc1","question":"what is this?","selection":{"text":"limited to the original purchaser","page":2}}`
	req := httptest.NewRequest("POST", "/api/query", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Grounding string `json:"grounding"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(resp.Grounding, "limited to the original purchaser") {
		t.Errorf("grounding does not begin with selection:\n%s", resp.Grounding)
	}
}

func TestQueryEndpoint_BadRequest(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	for _, body := range []string{"not json", `{"document_id":"d"}`, `{"question":"q"}`} {
		req := httptest.NewRequest("POST", "/api/query", strings.NewReader(body))
		w := httptest.NewRecorder()
		srv.Router().ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, w.Code)
		}
	}
}

func TestIngestEndpoint_MissingPath(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	req := httptest.NewRequest("POST", "/api/ingest", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestAskEndpoint(t *testing.T) {
	srv, eng := newTestServer(t, echoProvider{})
	ingestTestDoc(t, eng, "doc1", "Refunds are processed within five business days.")

	body := `{"document_id":"doc1","question":"how fast are refunds?"}`
	req := httptest.NewRequest("POST", "/api/ask", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var rec struct {
		ID         string `json:"id"`
		Answer     string `json:"answer"`
		DocumentID string `json:"document_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &rec); err != nil {
		t.Fatal(err)
	}
	if rec.Answer != "grounded answer" || rec.ID == "" || rec.DocumentID != "doc1" {
		t.Errorf("record = %+v", rec)
	}
}

func TestAskEndpoint_NoProvider(t *testing.T) {
	srv, eng := newTestServer(t, nil)
	ingestTestDoc(t, eng, "doc1", "content")

	body := `{"document_id":"doc1","question":"q"}`
	req := httptest.NewRequest("POST", "/api/ask", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	srv, eng := newTestServer(t, nil)
	ingestTestDoc(t, eng, "doc1", "enough text to produce at least one indexed chunk")

	req := httptest.NewRequest("GET", "/api/stats", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	var stats struct {
		EntryCount  int      `json:"entry_count"`
		DocumentIDs []string `json:"document_ids"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.EntryCount == 0 || len(stats.DocumentIDs) != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestWebSocketChat(t *testing.T) {
	srv, eng := newTestServer(t, echoProvider{})
	ingestTestDoc(t, eng, "doc1", "The contract renews automatically each January.")

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(chatRequest{Type: "ask", DocumentID: "doc1", Content: "when does it renew?"}); err != nil {
		t.Fatal(err)
	}
	var resp chatResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Type != "response" || resp.Content != "grounded answer" || resp.AnswerID == "" {
		t.Errorf("response = %+v", resp)
	}

	// Missing content yields an error frame, not a closed connection.
	if err := conn.WriteJSON(chatRequest{Type: "ask", DocumentID: "doc1"}); err != nil {
		t.Fatal(err)
	}
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Type != "error" {
		t.Errorf("expected error frame, got %+v", resp)
	}
}
