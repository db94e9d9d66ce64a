package archive

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func TestKey(t *testing.T) {
	at := time.Date(2026, 3, 7, 23, 0, 0, 0, time.FixedZone("X", -2*3600))
	got := Key("get-started", "abc-123", "My Logo (final).png", at)
	want := "get-started/2026/03/08/abc-123/My_Logo_final.png"
	if got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}

	if got := Key("f", "id", "../../etc/passwd", at); got != "f/2026/03/08/id/etcpasswd" {
		t.Errorf("Key() with traversal = %q", got)
	}
	if got := Key("f", "id", "..", at); got != "f/2026/03/08/id/_" {
		t.Errorf("Key() with dots = %q", got)
	}
}

func TestValidKey(t *testing.T) {
	for _, k := range []string{"", "/abs", "a/../b", "a//b", "a\\b", "./a"} {
		if validKey(k) {
			t.Errorf("validKey(%q) = true", k)
		}
	}
	if !validKey("a/b/c.txt") {
		t.Error("validKey rejected a normal key")
	}
}

func TestDiskStore_Put(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(filepath.Join(dir, "archive"))
	if err != nil {
		t.Fatalf("NewDiskStore() error: %v", err)
	}

	if err := store.Put(context.Background(), "f/2026/01/02/id/a.txt", "text/plain", []byte("hello")); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	p := filepath.Join(store.Dir(), "f", "2026", "01", "02", "id", "a.txt")
	data, err := os.ReadFile(p)
	if err != nil || string(data) != "hello" {
		t.Fatalf("stored data = %q, %v", data, err)
	}

	raw, err := os.ReadFile(p + ".meta.json")
	if err != nil {
		t.Fatalf("read meta: %v", err)
	}
	var meta diskMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		t.Fatal(err)
	}
	if meta.ContentType != "text/plain" || meta.Size != 5 {
		t.Errorf("meta = %+v", meta)
	}
}

func TestDiskStore_RejectsTraversal(t *testing.T) {
	store, _ := NewDiskStore(t.TempDir())
	err := store.Put(context.Background(), "../escape.txt", "text/plain", nil)
	if !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Put() error = %v, want ErrInvalidKey", err)
	}
}

func TestDiskStore_CancelledContext(t *testing.T) {
	store, _ := NewDiskStore(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := store.Put(ctx, "a.txt", "", nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Put() error = %v, want context.Canceled", err)
	}
}

type fakeS3 struct {
	input *s3.PutObjectInput
	err   error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3Store_Put(t *testing.T) {
	fake := &fakeS3{}
	store := NewS3Store(fake, "leads", "submissions")

	if err := store.Put(context.Background(), "f/id/a.pdf", "", []byte("pdf")); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	in := fake.input
	if aws.ToString(in.Bucket) != "leads" || aws.ToString(in.Key) != "submissions/f/id/a.pdf" {
		t.Errorf("bucket/key = %s/%s", aws.ToString(in.Bucket), aws.ToString(in.Key))
	}
	if aws.ToString(in.ContentType) != "application/octet-stream" {
		t.Errorf("ContentType = %q", aws.ToString(in.ContentType))
	}
	if aws.ToInt64(in.ContentLength) != 3 {
		t.Errorf("ContentLength = %d", aws.ToInt64(in.ContentLength))
	}
	if in.Metadata["archived-at"] == "" {
		t.Error("missing archived-at metadata")
	}
}

func TestS3Store_PutError(t *testing.T) {
	boom := errors.New("access denied")
	store := NewS3Store(&fakeS3{err: boom}, "b", "")
	if err := store.Put(context.Background(), "k", "text/plain", nil); !errors.Is(err, boom) {
		t.Errorf("Put() error = %v, want wrapped %v", err, boom)
	}
	if err := store.Put(context.Background(), "/k", "text/plain", nil); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Put() error = %v, want ErrInvalidKey", err)
	}
}

func TestNewS3Client(t *testing.T) {
	c := NewS3Client(S3Options{
		Region:          "auto",
		Endpoint:        "http://127.0.0.1:9000",
		AccessKeyID:     "id",
		SecretAccessKey: "secret",
		PathStyle:       true,
	})
	opts := c.Options()
	if opts.Region != "auto" || !opts.UsePathStyle || aws.ToString(opts.BaseEndpoint) != "http://127.0.0.1:9000" {
		t.Errorf("unexpected options: region=%q pathStyle=%v endpoint=%q", opts.Region, opts.UsePathStyle, aws.ToString(opts.BaseEndpoint))
	}
	creds, err := opts.Credentials.Retrieve(context.Background())
	if err != nil || creds.AccessKeyID != "id" {
		t.Errorf("Retrieve() = %+v, %v", creds, err)
	}
}
