package generatescript

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/genai4usc-cloud/Backend-Genai-ed/modules/common/model"
)

type fakeScriptStore struct {
	lecture   *model.Lecture
	materials []model.LectureMaterial
	saved     string
}

func (f *fakeScriptStore) FetchLecture(ctx context.Context, lectureID string) (*model.Lecture, error) {
	return f.lecture, nil
}

func (f *fakeScriptStore) FetchMaterials(ctx context.Context, lectureID string) ([]model.LectureMaterial, error) {
	return f.materials, nil
}

func (f *fakeScriptStore) UpdateLectureScript(ctx context.Context, lectureID string, scriptText string) error {
	f.saved = scriptText
	return nil
}

type fakeCompleter struct {
	reply   string
	prompts []string
}

func (f *fakeCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	f.prompts = append(f.prompts, user)
	return f.reply, nil
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestCleanText(t *testing.T) {
	got := cleanText("  hello \n\t world  \n ")
	if got != "hello world" {
		t.Fatalf("cleanText = %q", got)
	}
}

func TestGuessExt(t *testing.T) {
	cases := []struct {
		url  string
		mime *string
		want string
	}{
		{"https://x/a.pdf", nil, "pdf"},
		{"https://x/a.PDF", nil, "pdf"},
		{"https://x/a.docx", nil, "docx"},
		{"https://x/a.txt", nil, "txt"},
		{"https://x/a.bin", nil, ""},
		{"https://x/a", strPtr("application/pdf"), "pdf"},
		{"https://x/a", strPtr("application/vnd.openxmlformats-officedocument.wordprocessingml.document"), "docx"},
		{"https://x/a", strPtr("text/plain"), "txt"},
	}
	for _, c := range cases {
		if got := guessExt(c.url, c.mime); got != c.want {
			t.Errorf("guessExt(%q) = %q, want %q", c.url, got, c.want)
		}
	}
}

func TestTruncateForPrompt(t *testing.T) {
	short := "abc"
	if got := truncateForPrompt(short, 10); got != short {
		t.Fatalf("short input modified: %q", got)
	}

	long := strings.Repeat("x", 100)
	got := truncateForPrompt(long, 50)
	if !strings.HasSuffix(got, "[TRUNCATED]") {
		t.Fatalf("missing truncation marker: %q", got)
	}
	if !strings.HasPrefix(got, strings.Repeat("x", 50)) {
		t.Fatalf("unexpected prefix: %q", got)
	}
}

func TestBuildScriptPromptFormat(t *testing.T) {
	prompt := buildScriptPrompt(promptInput{
		LectureTitle:      "Intro to Databases",
		InstructorPrompt:  "Focus on normalization",
		VideoLength:       10,
		SelectedModes:     []string{"audio", "powerpoint"},
		MainMaterialNames: []string{"HW1.pdf"},
		MainMaterialText:  "[main: HW1.pdf]\nsome text",
	})

	for _, marker := range []string{"TITLE:", "VIDEO SCRIPT:", "AUDIO SCRIPT:", "PPT SCRIPT:"} {
		if !strings.Contains(prompt, marker) {
			t.Errorf("prompt missing output marker %q", marker)
		}
	}
	if !strings.Contains(prompt, "Intro to Databases") {
		t.Error("prompt missing lecture title")
	}
	if !strings.Contains(prompt, "10 minutes") {
		t.Error("prompt missing duration")
	}
	if !strings.Contains(prompt, "audio, powerpoint") {
		t.Error("prompt missing selected modes")
	}
	if !strings.Contains(prompt, "Focus on normalization") {
		t.Error("prompt missing instructor instruction")
	}
	// Background가 비어있으면 None으로 표기
	if !strings.Contains(prompt, "Background Materials (context only, do not quote heavily):\nNone") {
		t.Error("empty background materials not rendered as None")
	}
}

func TestExtractDOCX(t *testing.T) {
	data := buildDocx(t, []string{"First paragraph.", "Second paragraph."})

	got, err := extractDOCX(data)
	if err != nil {
		t.Fatalf("extractDOCX: %v", err)
	}
	if !strings.Contains(got, "First paragraph.") || !strings.Contains(got, "Second paragraph.") {
		t.Fatalf("extracted = %q", got)
	}
}

// buildDocx - 최소 docx 컨테이너 생성 (문단당 <w:t> 하나)
func buildDocx(t *testing.T, paragraphs []string) []byte {
	t.Helper()

	var doc strings.Builder
	doc.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	doc.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		doc.WriteString(`<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`)
	}
	doc.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("zip create: %v", err)
	}
	if _, err := f.Write([]byte(doc.String())); err != nil {
		t.Fatalf("zip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func TestGenerateBuildsPromptFromMaterials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Plain text course notes about SQL joins."))
	}))
	defer srv.Close()

	store := &fakeScriptStore{
		lecture: &model.Lecture{
			ID:           "lec-1",
			Title:        strPtr("Databases"),
			ScriptPrompt: strPtr("Keep it simple"),
			VideoLength:  intPtr(7),
			ContentStyle: []string{"audio"},
		},
		materials: []model.LectureMaterial{
			{
				MaterialName: strPtr("notes.txt"),
				MaterialType: strPtr("main"),
				MaterialURL:  strPtr(srv.URL + "/notes.txt"),
			},
		},
	}
	completer := &fakeCompleter{reply: "TITLE:\nDatabases\n\nAUDIO SCRIPT:\nHello."}

	svc := NewService(store, completer)
	script, err := svc.Generate(context.Background(), "lec-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if script != completer.reply {
		t.Fatalf("script = %q", script)
	}
	if store.saved != completer.reply {
		t.Fatal("script not saved to ledger")
	}
	if len(completer.prompts) != 1 {
		t.Fatalf("completer calls = %d", len(completer.prompts))
	}
	prompt := completer.prompts[0]
	if !strings.Contains(prompt, "SQL joins") {
		t.Error("prompt missing extracted material text")
	}
	if !strings.Contains(prompt, "notes.txt") {
		t.Error("prompt missing material name")
	}
}

func TestGenerateSkipsUnreachableMaterial(t *testing.T) {
	store := &fakeScriptStore{
		lecture: &model.Lecture{ID: "lec-1", Title: strPtr("T")},
		materials: []model.LectureMaterial{
			{
				MaterialName: strPtr("gone.pdf"),
				MaterialType: strPtr("main"),
				MaterialURL:  strPtr("http://127.0.0.1:1/gone.pdf"),
			},
		},
	}
	completer := &fakeCompleter{reply: "TITLE:\nT"}

	if _, err := NewService(store, completer).Generate(context.Background(), "lec-1"); err != nil {
		t.Fatalf("generate must tolerate unreachable materials: %v", err)
	}
	// 자료 이름은 목록에 남는다 (본문만 빠짐)
	if !strings.Contains(completer.prompts[0], "gone.pdf") {
		t.Error("material name missing from prompt")
	}
}
