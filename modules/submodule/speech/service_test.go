package speech

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/genai4usc-cloud/Backend-Genai-ed/modules/common/model"
)

type fakeUploader struct {
	path        string
	contentType string
	data        []byte
	err         error
}

func (f *fakeUploader) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.path = path
	f.data = data
	f.contentType = contentType
	return "https://cdn.example.com/" + path, nil
}

func strPtr(s string) *string { return &s }

func TestBuildSSMLEscapesSpecialCharacters(t *testing.T) {
	ssml := buildSSML(`Tom & Jerry <live> "here"`, defaultVoice)

	for _, want := range []string{"&amp;", "&lt;live&gt;", "&quot;here&quot;"} {
		if !strings.Contains(ssml, want) {
			t.Fatalf("ssml missing %q: %s", want, ssml)
		}
	}
	if strings.Contains(ssml, "Tom & Jerry") {
		t.Fatal("raw ampersand leaked into ssml")
	}
}

func TestBuildSSMLCapsTextLength(t *testing.T) {
	long := strings.Repeat("a", maxTextLength+500)
	ssml := buildSSML(long, defaultVoice)

	if strings.Contains(ssml, strings.Repeat("a", maxTextLength+1)) {
		t.Fatal("text was not capped")
	}
	if !strings.Contains(ssml, strings.Repeat("a", maxTextLength)) {
		t.Fatal("capped text shorter than expected")
	}
}

func TestBuildSSMLCapDoesNotSplitRune(t *testing.T) {
	long := strings.Repeat("한", maxTextLength) // 3 bytes per rune
	ssml := buildSSML(long, defaultVoice)
	if !utf8.ValidString(ssml) {
		t.Fatal("cap produced an invalid rune boundary")
	}
}

func TestSynthesizeAndStoreEmptyScript(t *testing.T) {
	svc := &Service{uploader: &fakeUploader{}}
	lecture := &model.Lecture{ID: "lec-1", EducatorID: "edu-1", ScriptText: strPtr("   ")}

	_, err := svc.SynthesizeAndStore(context.Background(), lecture, nil)

	var emptyErr *model.EmptyInputError
	if !errors.As(err, &emptyErr) {
		t.Fatalf("err = %v, want EmptyInputError", err)
	}
}

func TestSynthesizeAndStoreUploadsMP3(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/ssml+xml" {
			t.Errorf("content type = %s", r.Header.Get("Content-Type"))
		}
		if r.Header.Get("Ocp-Apim-Subscription-Key") != "test-key" {
			t.Errorf("missing subscription key header")
		}
		w.Write([]byte("mp3-bytes"))
	}))
	defer server.Close()

	up := &fakeUploader{}
	svc := &Service{
		endpoint: server.URL,
		apiKey:   "test-key",
		uploader: up,
		client:   &http.Client{Timeout: 5 * time.Second},
	}

	lecture := &model.Lecture{
		ID:         "lec-1",
		EducatorID: "edu-1",
		ScriptText: strPtr("AUDIO SCRIPT:\nHello students."),
	}

	artifact, err := svc.SynthesizeAndStore(context.Background(), lecture, nil)
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}

	if up.path != "edu-1/lec-1/artifacts/audio.mp3" {
		t.Fatalf("storage path = %s", up.path)
	}
	if up.contentType != "audio/mpeg" {
		t.Fatalf("content type = %s", up.contentType)
	}
	if string(up.data) != "mp3-bytes" {
		t.Fatalf("uploaded data = %q", up.data)
	}
	if artifact.URL == "" || artifact.StoragePath != up.path {
		t.Fatalf("artifact = %+v", artifact)
	}
}
