package s3

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// testClient creates a Client backed by a test HTTP server.
// The handler receives real S3 XML-protocol requests, path-style.
func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := s3.New(s3.Options{
		Region:       "us-east-1",
		BaseEndpoint: aws.String(server.URL),
		UsePathStyle: true,
		Credentials:  credentials.NewStaticCredentialsProvider("test-key", "test-secret", ""),
		HTTPClient: &http.Client{
			Transport: &http.Transport{},
		},
	})

	return &Client{s3: client, region: "us-east-1"}
}

// xmlResponse is a helper to write S3-style XML responses.
func xmlResponse(w http.ResponseWriter, statusCode int, body string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(body))
}

const notFoundBody = `<?xml version="1.0" encoding="UTF-8"?>
<Error>
  <Code>NoSuchBucket</Code>
  <Message>The specified bucket does not exist</Message>
</Error>`

// objectStore records uploads per key.
type objectStore struct {
	mu      sync.Mutex
	objects map[string]string
	created bool
}

func (s *objectStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/"), "/", 2)
	switch {
	case r.Method == http.MethodHead && len(parts) == 1:
		if s.created {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	case r.Method == http.MethodPut && len(parts) == 1:
		s.created = true
		xmlResponse(w, http.StatusOK, "")
	case r.Method == http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		s.objects[parts[1]] = string(body)
		w.WriteHeader(http.StatusOK)
	default:
		xmlResponse(w, http.StatusNotFound, notFoundBody)
	}
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts Options
	}{
		{
			name: "static credentials with endpoint",
			opts: Options{Endpoint: "http://minio.local:9000", Region: "us-east-1", AccessKey: "key", SecretKey: "secret"},
		},
		{
			name: "default credential chain",
			opts: Options{Region: "ap-northeast-2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client, err := NewClient(context.Background(), tt.opts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if client.region != tt.opts.Region {
				t.Errorf("expected region %s, got %s", tt.opts.Region, client.region)
			}
		})
	}
}

func TestEnsureBucket_Creates(t *testing.T) {
	t.Parallel()
	store := &objectStore{objects: map[string]string{}}
	client := testClient(t, store)

	if err := client.EnsureBucket(context.Background(), "artifacts"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !store.created {
		t.Fatal("expected bucket to be created")
	}

	// Second call finds the bucket.
	if err := client.EnsureBucket(context.Background(), "artifacts"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnsureBucket_AlreadyOwnedByYou(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		xmlResponse(w, http.StatusConflict, `<?xml version="1.0" encoding="UTF-8"?>
<Error>
  <Code>BucketAlreadyOwnedByYou</Code>
  <Message>Your previous request to create the named bucket succeeded and you already own it.</Message>
</Error>`)
	})

	if err := testClient(t, handler).EnsureBucket(context.Background(), "artifacts"); err != nil {
		t.Fatalf("expected nil error for already owned bucket, got: %v", err)
	}
}

func TestEnsureBucket_AccessDenied(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		xmlResponse(w, http.StatusForbidden, `<?xml version="1.0" encoding="UTF-8"?>
<Error>
  <Code>AccessDenied</Code>
  <Message>Access Denied</Message>
</Error>`)
	})

	err := testClient(t, handler).EnsureBucket(context.Background(), "artifacts")
	if err == nil {
		t.Fatal("expected error but got nil")
	}
	if !strings.Contains(err.Error(), "failed to create bucket artifacts") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestUploadDirectory(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	files := map[string]string{
		"artifact.json":          `{"name":"Llama-3.1-8B-Instruct-FuriosaAI"}`,
		"pipelines/prefill.bin":  "prefill",
		"pipelines/decode-0.bin": "decode",
	}
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	store := &objectStore{objects: map[string]string{}, created: true}
	client := testClient(t, store)

	result, err := client.UploadDirectory(context.Background(), "artifacts", "llama/2026-10-18", dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"llama/2026-10-18/artifact.json",
		"llama/2026-10-18/pipelines/decode-0.bin",
		"llama/2026-10-18/pipelines/prefill.bin",
	}
	if strings.Join(result.Keys, ",") != strings.Join(want, ",") {
		t.Errorf("keys = %v, want %v", result.Keys, want)
	}
	var total int64
	for name, content := range files {
		total += int64(len(content))
		if got := store.objects["llama/2026-10-18/"+name]; got != content {
			t.Errorf("object %s = %q, want %q", name, got, content)
		}
	}
	if result.Bytes != total {
		t.Errorf("bytes = %d, want %d", result.Bytes, total)
	}
}

func TestUploadDirectory_MissingDirectory(t *testing.T) {
	t.Parallel()
	client := testClient(t, &objectStore{objects: map[string]string{}})

	_, err := client.UploadDirectory(context.Background(), "artifacts", "", filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("expected error but got nil")
	}
}

func TestListObjects(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if got := r.URL.Query().Get("prefix"); got != "llama/" {
			t.Errorf("prefix = %q", got)
		}
		xmlResponse(w, http.StatusOK, `<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
  <Name>artifacts</Name>
  <Prefix>llama/</Prefix>
  <KeyCount>2</KeyCount>
  <MaxKeys>1000</MaxKeys>
  <IsTruncated>false</IsTruncated>
  <Contents>
    <Key>llama/artifact.json</Key>
    <Size>100</Size>
  </Contents>
  <Contents>
    <Key>llama/pipelines/prefill.bin</Key>
    <Size>200</Size>
  </Contents>
</ListBucketResult>`)
	})

	keys, err := testClient(t, handler).ListObjects(context.Background(), "artifacts", "llama/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(keys) != 2 || keys[0] != "llama/artifact.json" {
		t.Errorf("unexpected keys: %v", keys)
	}
}

func TestObjectKey(t *testing.T) {
	t.Parallel()
	tests := []struct {
		prefix, rel, want string
	}{
		{"", "artifact.json", "artifact.json"},
		{"backups", "artifact.json", "backups/artifact.json"},
		{"backups/", "a/b.bin", "backups/a/b.bin"},
	}
	for _, tt := range tests {
		if got := ObjectKey(tt.prefix, tt.rel); got != tt.want {
			t.Errorf("ObjectKey(%q, %q) = %q, want %q", tt.prefix, tt.rel, got, tt.want)
		}
	}
}

func TestErrorClassifiers(t *testing.T) {
	t.Parallel()
	if isBucketAlreadyOwnedByYou(nil) {
		t.Error("nil is not an already-owned error")
	}
	if isNotFoundError(nil) {
		t.Error("nil is not a not-found error")
	}
}
