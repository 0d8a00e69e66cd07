package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/safestorage/internal/common"
	"github.com/dmitrijs2005/safestorage/internal/logging"
)

// fakeClient records uploaded objects in memory.
type fakeClient struct {
	objects map[string][]byte
	putErr  error
	getErr  error
}

func newFakeClient() *fakeClient {
	return &fakeClient{objects: map[string][]byte{}}
}

func (f *fakeClient) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeClient) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func newTestStore(t *testing.T) (*Store, *fakeClient) {
	t.Helper()
	client := newFakeClient()
	return NewStoreWithClient(client, "vault", 0, 0, logging.NewTextLogger(io.Discard)), client
}

func TestPutStoresUnderUserPrefix(t *testing.T) {
	ctx := context.Background()
	store, client := newTestStore(t)

	src := filepath.Join(t.TempDir(), "src")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o660))

	require.NoError(t, store.Put(ctx, "UserA", "Homework", src))
	require.Equal(t, []byte("payload"), client.objects["users/UserA/Homework"])
}

func TestPutSourceNotFound(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	err := store.Put(ctx, "UserA", "Homework", filepath.Join(t.TempDir(), "missing"))
	require.ErrorIs(t, err, common.ErrSourceNotFound)
}

func TestPutRejectsTraversalName(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	src := filepath.Join(t.TempDir(), "src")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o660))

	err := store.Put(ctx, "UserA", "../other", src)
	require.ErrorIs(t, err, common.ErrInvalidSubmissionName)
}

func TestPutUploadFailure(t *testing.T) {
	ctx := context.Background()
	store, client := newTestStore(t)
	client.putErr = errors.New("connection reset")

	src := filepath.Join(t.TempDir(), "src")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o660))

	err := store.Put(ctx, "UserA", "Homework", src)
	require.ErrorIs(t, err, common.ErrTransferFailed)
}

func TestGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	scratch := t.TempDir()

	payload := bytes.Repeat([]byte("abc"), 50_000)
	src := filepath.Join(scratch, "src")
	require.NoError(t, os.WriteFile(src, payload, 0o660))
	require.NoError(t, store.Put(ctx, "UserA", "Homework", src))

	dst := filepath.Join(scratch, "dst")
	require.NoError(t, store.Get(ctx, "UserA", "Homework", dst))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestGetMissingObject(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	err := store.Get(ctx, "UserA", "Nothing", filepath.Join(t.TempDir(), "dst"))
	require.ErrorIs(t, err, common.ErrSubmissionNotFound)
}

func TestGetLeavesNoPartialFileOnFailure(t *testing.T) {
	ctx := context.Background()
	store, client := newTestStore(t)
	client.getErr = errors.New("timeout")

	dir := t.TempDir()
	err := store.Get(ctx, "UserA", "Homework", filepath.Join(dir, "dst"))
	require.ErrorIs(t, err, common.ErrTransferFailed)

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	require.Empty(t, entries)
}
