package prefs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDynamo keeps items in memory, keyed by the name and key attributes.
type fakeDynamo struct {
	dynamodbiface.DynamoDBAPI
	items map[string]map[string]*dynamodb.AttributeValue
	err   error
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: make(map[string]map[string]*dynamodb.AttributeValue)}
}

func fakeKey(table string, attrs map[string]*dynamodb.AttributeValue) string {
	return table + "/" + aws.StringValue(attrs["name"].S) + "/" + aws.StringValue(attrs["key"].S)
}

func (f *fakeDynamo) GetItemWithContext(_ aws.Context, in *dynamodb.GetItemInput, _ ...request.Option) (*dynamodb.GetItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.GetItemOutput{Item: f.items[fakeKey(aws.StringValue(in.TableName), in.Key)]}, nil
}

func (f *fakeDynamo) PutItemWithContext(_ aws.Context, in *dynamodb.PutItemInput, _ ...request.Option) (*dynamodb.PutItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.items[fakeKey(aws.StringValue(in.TableName), in.Item)] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory":   NewMemoryStore(),
		"file":     NewFileStore(filepath.Join(t.TempDir(), "nested"), ""),
		"dynamodb": NewDynamoStore(newFakeDynamo(), "prefs", ""),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := store.GetInt(ctx, DefaultKey)
			require.NoError(t, err)
			assert.False(t, ok, "empty store should not report a value")

			for _, v := range []int{0, 1, -9999, 9999, 1234} {
				require.NoError(t, store.PutInt(ctx, DefaultKey, v))
				got, ok, err := store.GetInt(ctx, DefaultKey)
				require.NoError(t, err)
				assert.True(t, ok)
				assert.Equal(t, v, got)
			}

			require.NoError(t, store.PutInt(ctx, "other", 5))
			got, _, err := store.GetInt(ctx, DefaultKey)
			require.NoError(t, err)
			assert.Equal(t, 1234, got, "entries must not overwrite each other")
		})
	}
}

func TestAdapter(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			a := NewAdapter(store, "", 0)
			assert.Equal(t, DefaultKey, a.Key())

			v, ok, err := a.Load(ctx)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Equal(t, 0, v, "missing value loads as the default")

			require.NoError(t, a.Save(ctx, -42))
			v, ok, err = a.Load(ctx)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, -42, v)
		})
	}
}

func TestAdapterLoadErrorReturnsDefault(t *testing.T) {
	db := newFakeDynamo()
	db.err = errors.New("throttled")
	a := NewAdapter(NewDynamoStore(db, "prefs", ""), DefaultKey, 3)

	v, ok, err := a.Load(context.Background())
	assert.ErrorIs(t, err, db.err)
	assert.Contains(t, err.Error(), "throttled")
	assert.False(t, ok)
	assert.Equal(t, 3, v)

	assert.Error(t, a.Save(context.Background(), 1))
}

func TestFileStoreLayout(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir, "counters")
	require.NoError(t, store.PutInt(context.Background(), "key", 17))

	assert.Equal(t, filepath.Join(dir, "counters.json"), store.Path())
	b, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.JSONEq(t, `{"key": 17}`, string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must be cleaned up")

	reopened := NewFileStore(dir, "counters")
	v, ok, err := reopened.GetInt(context.Background(), "key")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 17, v)
}

func TestFileStoreCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "counters.json"), []byte("Deaths: 12"), 0644))

	_, _, err := NewFileStore(dir, "counters").GetInt(context.Background(), "key")
	assert.Error(t, err)
}

func TestFileStoreEmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "counters.json"), nil, 0644))

	_, ok, err := NewFileStore(dir, "counters").GetInt(context.Background(), "key")
	require.NoError(t, err)
	assert.False(t, ok)
}
