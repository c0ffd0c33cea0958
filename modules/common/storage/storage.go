package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"

	storage_go "github.com/supabase-community/storage-go"
	"github.com/supabase-community/supabase-go"

	"github.com/genai4usc-cloud/Backend-Genai-ed/modules/common/model"
)

// Uploader - Generator들이 사용하는 업로드 인터페이스
type Uploader interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
}

// Client - Supabase Storage 래퍼 (lecture-assets 버킷)
type Client struct {
	storage *storage_go.Client
	bucket  string
}

// NewClient - Storage 클라이언트 생성 (database와 같은 supabase 클라이언트 공유)
func NewClient(sb *supabase.Client, bucket string) *Client {
	return &Client{
		storage: sb.Storage,
		bucket:  bucket,
	}
}

// Upload - 바이트를 업로드하고 public URL 반환 (upsert, 재실행 시 덮어쓰기)
func (c *Client) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	log.Printf("📤 Uploading to storage: %s/%s (%d bytes, %s)", c.bucket, path, len(data), contentType)

	upsert := true
	_, err := c.storage.UploadFile(c.bucket, path, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", &model.StorageError{Op: "upload", Err: fmt.Errorf("%s: %w", path, err)}
	}

	publicURL := c.storage.GetPublicUrl(c.bucket, path).SignedURL
	if publicURL == "" {
		return "", &model.StorageError{Op: "get public url", Err: fmt.Errorf("empty url for %s", path)}
	}

	log.Printf("✅ Uploaded: %s", publicURL)
	return publicURL, nil
}

// ArtifactPath - {educator_id}/{lecture_id}/artifacts/{file} 경로 규약
func ArtifactPath(educatorID, lectureID, fileName string) string {
	return fmt.Sprintf("%s/%s/artifacts/%s", educatorID, lectureID, fileName)
}
