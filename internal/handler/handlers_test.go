package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"atelier/internal/auth"
	"atelier/internal/models"
	"atelier/internal/service/image"
	"atelier/internal/service/llm"
	"atelier/internal/service/notepad"
	"atelier/internal/store"
)

type stubProvider struct {
	reply string
	err   error
	last  *llm.CompleteRequest
}

func (p *stubProvider) Name() string                    { return "stub" }
func (p *stubProvider) SupportsModel(model string) bool { return strings.HasPrefix(model, "stub-") }

func (p *stubProvider) Complete(ctx context.Context, req *llm.CompleteRequest) (*llm.CompleteResponse, error) {
	p.last = req
	if p.err != nil {
		return nil, p.err
	}
	return &llm.CompleteResponse{Text: p.reply, Model: req.Model}, nil
}

type testEnv struct {
	mux      *http.ServeMux
	notes    *notepad.Service
	provider *stubProvider
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	modes, err := notepad.NewModeRegistry()
	if err != nil {
		t.Fatal(err)
	}
	notes, err := notepad.NewService(context.Background(), store.NewFileStore(t.TempDir(), logger), modes, logger)
	if err != nil {
		t.Fatal(err)
	}

	provider := &stubProvider{reply: "pong"}
	registry := llm.NewRegistry(provider)

	noteHandler := NewNoteHandler(notes, logger)
	folderHandler := NewFolderHandler(notes, logger)
	assistHandler := NewAssistHandler(notes, registry, "stub-model", logger)
	chatHandler := NewChatHandler(registry, "stub-model", logger)
	// Collaborator clients with no upstream configured: anything that gets
	// past validation fails loudly, so a 400 proves the request was rejected
	// before any outbound call.
	imageHandler := NewImageHandler(image.NewClient("", ""), logger)
	authHandler := NewAuthHandler(auth.NewClient("", ""), logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/notes", noteHandler.ListNotes)
	mux.HandleFunc("POST /api/notes", noteHandler.CreateNote)
	mux.HandleFunc("GET /api/notes/{id}", noteHandler.GetNote)
	mux.HandleFunc("PATCH /api/notes/{id}", noteHandler.UpdateNote)
	mux.HandleFunc("DELETE /api/notes/{id}", noteHandler.DeleteNote)
	mux.HandleFunc("POST /api/notes/{id}/activate", noteHandler.ActivateNote)
	mux.HandleFunc("GET /api/folders", folderHandler.ListFolders)
	mux.HandleFunc("POST /api/folders", folderHandler.CreateFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", folderHandler.DeleteFolder)
	mux.HandleFunc("POST /api/assist", assistHandler.Assist)
	mux.HandleFunc("GET /api/assist/modes", assistHandler.Modes)
	mux.HandleFunc("POST /api/chat", chatHandler.Chat)
	mux.HandleFunc("POST /api/image", imageHandler.Generate)
	mux.HandleFunc("POST /api/auth/signin", authHandler.SignIn)
	mux.HandleFunc("POST /api/auth/signup", authHandler.SignUp)

	return &testEnv{mux: mux, notes: notes, provider: provider}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestNoteLifecycleOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "POST", "/api/notes", `{"title":"Plan","content":"step one","folder_id":"work"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	created := decode[models.Note](t, rec)
	if created.Title != "Plan" || created.FolderID != "work" {
		t.Errorf("created = %+v", created)
	}

	rec = env.do(t, "GET", "/api/notes/"+itoa(created.ID), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	rec = env.do(t, "PATCH", "/api/notes/"+itoa(created.ID), `{"pinned":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d, body %s", rec.Code, rec.Body.String())
	}
	if patched := decode[models.Note](t, rec); !patched.Pinned {
		t.Error("pinned flag not applied over HTTP")
	}

	rec = env.do(t, "GET", "/api/notes?folder=work", "")
	list := decode[models.NoteListResponse](t, rec)
	if list.Total != 1 || len(list.Notes) != 1 {
		t.Errorf("folder filter list = %+v", list)
	}

	rec = env.do(t, "DELETE", "/api/notes/"+itoa(created.ID), "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = env.do(t, "GET", "/api/notes/"+itoa(created.ID), "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("error Content-Type = %q, want problem+json", ct)
	}
}

func TestNoteIDValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/api/notes/not-a-number", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for non-integer id", rec.Code)
	}
}

func TestFolderLifecycleOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "POST", "/api/folders", `{"name":"📁 Lab"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	folder := decode[models.Folder](t, rec)
	if folder.Emoji != "📁" || folder.Name != "Lab" {
		t.Errorf("folder = %+v", folder)
	}

	rec = env.do(t, "GET", "/api/folders", "")
	folders := decode[[]models.Folder](t, rec)
	if len(folders) != 6 {
		t.Errorf("folders = %d, want 5 built-ins plus one", len(folders))
	}

	rec = env.do(t, "DELETE", "/api/folders/inbox", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("delete built-in status = %d, want 400", rec.Code)
	}

	rec = env.do(t, "DELETE", "/api/folders/"+folder.ID, "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rec.Code)
	}
}

func TestChatEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "POST", "/api/chat", `{"messages":[]}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty messages status = %d, want 400", rec.Code)
	}

	rec = env.do(t, "POST", "/api/chat", `{"messages":[{"role":"user","content":"hi"}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("chat status = %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decode[map[string]string](t, rec)
	if resp["reply"] != "pong" {
		t.Errorf("reply = %q, want %q", resp["reply"], "pong")
	}

	env.provider.err = errors.New("upstream down")
	rec = env.do(t, "POST", "/api/chat", `{"messages":[{"role":"user","content":"hi"}]}`)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("provider failure status = %d, want 502", rec.Code)
	}
}

func TestChatUnknownModel(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "POST", "/api/chat", `{"messages":[{"role":"user","content":"hi"}],"model":"gpt-x"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown model status = %d, want 400", rec.Code)
	}
}

func TestAssistEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.provider.reply = "tightened"

	rec := env.do(t, "POST", "/api/notes", `{"title":"Draft","content":"loose text"}`)
	created := decode[models.Note](t, rec)

	rec = env.do(t, "POST", "/api/assist", `{"mode":"improve"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("assist status = %d, body %s", rec.Code, rec.Body.String())
	}
	result := decode[notepad.AssistResult](t, rec)
	if !result.Applied || result.NoteID != created.ID {
		t.Errorf("result = %+v", result)
	}

	rec = env.do(t, "GET", "/api/notes/"+itoa(created.ID), "")
	if note := decode[models.Note](t, rec); note.Content != "tightened" {
		t.Errorf("Content = %q, want the merged reply", note.Content)
	}
}

func TestAssistUnknownModeOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, "POST", "/api/notes", `{"title":"n"}`)

	rec := env.do(t, "POST", "/api/assist", `{"mode":"haiku"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown mode status = %d, want 400", rec.Code)
	}
}

func TestAssistModesListing(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/api/assist/modes", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("modes status = %d", rec.Code)
	}
	modes := decode[[]map[string]string](t, rec)
	if len(modes) != 5 {
		t.Errorf("modes = %d, want 5", len(modes))
	}
	if modes[0]["name"] != "free" {
		t.Errorf("first mode = %q, want free", modes[0]["name"])
	}
}

func TestActivateNote(t *testing.T) {
	env := newTestEnv(t)

	first := decode[models.Note](t, env.do(t, "POST", "/api/notes", `{"title":"a"}`))
	decode[models.Note](t, env.do(t, "POST", "/api/notes", `{"title":"b"}`))

	rec := env.do(t, "POST", "/api/notes/"+itoa(first.ID)+"/activate", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("activate status = %d", rec.Code)
	}

	active, ok := env.notes.ActiveNote(context.Background())
	if !ok || active.ID != first.ID {
		t.Errorf("active = %+v, want note %d", active, first.ID)
	}

	rec = env.do(t, "POST", "/api/notes/999999/activate", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("activate missing note status = %d, want 404", rec.Code)
	}
}

func (e *testEnv) doMultipart(t *testing.T, path string, fields map[string]string, filename string, file []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write(file); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

// pngBytes is a minimal PNG header, enough for content-type sniffing.
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestImageValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "missing prompt", body: `{}`},
		{name: "prompt too short", body: `{"prompt":"hi"}`},
		{name: "not json", body: `prompt`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, "POST", "/api/image", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 before any upstream call", rec.Code)
			}
		})
	}
}

func TestAuthValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		path string
		body string
	}{
		{name: "signin missing email", path: "/api/auth/signin", body: `{"password":"secret123"}`},
		{name: "signin bad email", path: "/api/auth/signin", body: `{"email":"not-an-email","password":"secret123"}`},
		{name: "signin short password", path: "/api/auth/signin", body: `{"email":"a@b.co","password":"tiny"}`},
		{name: "signup missing password", path: "/api/auth/signup", body: `{"email":"a@b.co"}`},
		{name: "signup bad email", path: "/api/auth/signup", body: `{"email":"nope","password":"secret123"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, "POST", tt.path, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 before any upstream call", rec.Code)
			}
		})
	}
}

func TestChatMultipart(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doMultipart(t, "/api/chat", map[string]string{
		"messages": `[{"role":"user","content":"what is in this image?"}]`,
	}, "shot.png", pngBytes)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decode[map[string]string](t, rec)
	if resp["reply"] != "pong" {
		t.Errorf("reply = %q, want %q", resp["reply"], "pong")
	}

	att := env.provider.last.Attachment
	if att == nil {
		t.Fatal("file part not forwarded as an attachment")
	}
	if att.Filename != "shot.png" {
		t.Errorf("Filename = %q", att.Filename)
	}
	if att.MediaType != "image/png" {
		t.Errorf("MediaType = %q, want sniffed image/png", att.MediaType)
	}
}

func TestChatMultipartMissingMessages(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doMultipart(t, "/api/chat", map[string]string{}, "shot.png", pngBytes)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for a file with no messages field", rec.Code)
	}
	if env.provider.last != nil {
		t.Error("provider must not be called for a rejected form")
	}
}

func TestAssistMultipart(t *testing.T) {
	env := newTestEnv(t)
	env.provider.reply = "a description"

	rec := env.doMultipart(t, "/api/assist", map[string]string{
		"mode":        "free",
		"instruction": "describe the attachment",
	}, "shot.png", pngBytes)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	result := decode[notepad.AssistResult](t, rec)
	if !result.Created || !result.Applied {
		t.Errorf("result = %+v, want a created note from the reply", result)
	}
	if env.provider.last.Attachment == nil {
		t.Error("file part not forwarded as an attachment")
	}

	note := decode[models.Note](t, env.do(t, "GET", "/api/notes/"+itoa(result.NoteID), ""))
	if note.Content != "a description" {
		t.Errorf("Content = %q, want the reply", note.Content)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
