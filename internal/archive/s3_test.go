package archive

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/fortuna/quadra/internal/stats"
)

type fakePutter struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{ETag: aws.String(`"abc123"`)}, nil
}

func TestKey(t *testing.T) {
	rec := stats.MatchRecord{ID: "m1", Date: time.Date(2026, 3, 14, 23, 30, 0, 0, time.UTC)}
	if got, want := Key(rec), "matches/2026-03-14/m1.json"; got != want {
		t.Errorf("Key = %q, want %q", got, want)
	}

	rec = stats.MatchRecord{ID: "m2", FinishedAt: time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)}
	if got, want := Key(rec), "matches/2026-04-01/m2.json"; got != want {
		t.Errorf("Key without date = %q, want %q", got, want)
	}
}

func TestArchiveUploadsJSON(t *testing.T) {
	put := &fakePutter{}
	a := &S3Archive{client: put, bucket: "records"}
	rec := stats.MatchRecord{ID: "m1", Opponent: "Rival", Result: stats.ResultWin,
		Date: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)}

	key, err := a.Archive(context.Background(), rec)
	if err != nil {
		t.Fatal(err)
	}
	if key != "matches/2026-03-14/m1.json" {
		t.Errorf("key = %q", key)
	}
	if aws.ToString(put.in.Bucket) != "records" || aws.ToString(put.in.ContentType) != "application/json" {
		t.Errorf("input = %+v", put.in)
	}
	var got stats.MatchRecord
	if err := json.Unmarshal(put.body, &got); err != nil {
		t.Fatal(err)
	}
	if got.ID != "m1" || got.Result != stats.ResultWin {
		t.Errorf("uploaded = %+v", got)
	}
}

func TestArchiveWrapsUploadError(t *testing.T) {
	boom := errors.New("access denied")
	a := &S3Archive{client: &fakePutter{err: boom}, bucket: "records"}
	if _, err := a.Archive(context.Background(), stats.MatchRecord{ID: "m1"}); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped %v", err, boom)
	}
}

func TestNewS3ArchiveRequiresCredentials(t *testing.T) {
	if _, err := NewS3Archive(context.Background(), Config{Bucket: "records"}); err == nil {
		t.Error("expected configuration error")
	}
}
