package slides

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"
)

func readZip(t *testing.T, data []byte) map[string]string {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open pptx zip: %v", err)
	}

	parts := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		parts[f.Name] = string(content)
	}
	return parts
}

func TestEncodePptxPartStructure(t *testing.T) {
	outline := Outline{Slides: []Slide{
		{Title: "Intro", Bullets: []string{"point one", "point two"}},
		{Title: "Next", Bullets: []string{"point three"}},
	}}

	data, err := EncodePptx(outline)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	parts := readZip(t, data)

	for _, name := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"ppt/presentation.xml",
		"ppt/_rels/presentation.xml.rels",
		"ppt/slideMasters/slideMaster1.xml",
		"ppt/slideLayouts/slideLayout1.xml",
		"ppt/theme/theme1.xml",
		"ppt/slides/slide1.xml",
		"ppt/slides/slide2.xml",
	} {
		if _, ok := parts[name]; !ok {
			t.Errorf("missing part %s", name)
		}
	}

	if _, ok := parts["ppt/slides/slide3.xml"]; ok {
		t.Error("unexpected third slide part")
	}

	if !strings.Contains(parts["ppt/slides/slide1.xml"], ">Intro</a:t>") {
		t.Error("slide1 missing title text")
	}
	if !strings.Contains(parts["ppt/slides/slide1.xml"], ">point two</a:t>") {
		t.Error("slide1 missing bullet text")
	}
	if !strings.Contains(parts["[Content_Types].xml"], "/ppt/slides/slide2.xml") {
		t.Error("content types missing slide2 override")
	}
	if !strings.Contains(parts["ppt/presentation.xml"], `r:id="rId3"`) {
		t.Error("presentation missing second slide relationship")
	}
}

func TestEncodePptxEscapesText(t *testing.T) {
	outline := Outline{Slides: []Slide{
		{Title: `A & B <C>`, Bullets: []string{`"quotes" & more`}},
	}}

	data, err := EncodePptx(outline)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	slide := readZip(t, data)["ppt/slides/slide1.xml"]
	if strings.Contains(slide, "A & B <C>") {
		t.Fatal("title not escaped")
	}
	if !strings.Contains(slide, "A &amp; B &lt;C&gt;") {
		t.Fatalf("escaped title missing: %s", slide)
	}
}

func TestEncodePptxRejectsEmptyOutline(t *testing.T) {
	if _, err := EncodePptx(Outline{}); err == nil {
		t.Fatal("expected error for empty outline")
	}
}
