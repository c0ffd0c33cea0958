package generatescript

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// cleanText - 연속 공백을 하나로 접고 앞뒤 공백 제거
func cleanText(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// guessExt - MIME 우선, 없으면 URL 확장자로 판별. 지원하지 않는 타입은 ""
func guessExt(url string, mime *string) string {
	if mime != nil {
		m := strings.ToLower(*mime)
		if strings.Contains(m, "pdf") {
			return "pdf"
		}
		if strings.Contains(m, "word") || strings.Contains(m, "docx") {
			return "docx"
		}
		if strings.Contains(m, "text") {
			return "txt"
		}
	}

	lower := strings.ToLower(url)
	switch {
	case strings.HasSuffix(lower, ".pdf"):
		return "pdf"
	case strings.HasSuffix(lower, ".docx"):
		return "docx"
	case strings.HasSuffix(lower, ".txt"):
		return "txt"
	}
	return ""
}

// extractText - 다운로드한 자료 바이트에서 본문 텍스트 추출
func extractText(ext string, data []byte) (string, error) {
	switch ext {
	case "pdf":
		return extractPDF(data)
	case "docx":
		return extractDOCX(data)
	case "txt":
		return cleanText(string(data)), nil
	}
	return "", fmt.Errorf("unsupported material type: %s", ext)
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf reader: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf plaintext: %w", err)
	}

	text, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("pdf read: %w", err)
	}

	return cleanText(string(text)), nil
}

// extractDOCX - word/document.xml의 <w:t> 요소를 모은다
func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("docx zip: %w", err)
	}

	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", fmt.Errorf("docx missing word/document.xml")
	}

	rc, err := doc.Open()
	if err != nil {
		return "", fmt.Errorf("docx open: %w", err)
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var out strings.Builder

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "t" {
			continue
		}
		var v string
		if err := decoder.DecodeElement(&v, &se); err != nil {
			continue
		}
		if v != "" {
			out.WriteString(v)
			out.WriteString(" ")
		}
	}

	return cleanText(out.String()), nil
}

// truncateForPrompt - 프롬프트 크기 제한 (초과분은 잘라내고 표시)
func truncateForPrompt(text string, maxChars int) string {
	if len(text) <= maxChars {
		return text
	}
	cut := maxChars
	for cut > 0 && (text[cut]&0xC0) == 0x80 {
		cut--
	}
	return text[:cut] + "\n\n[TRUNCATED]"
}
