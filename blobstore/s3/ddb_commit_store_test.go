package s3

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/featquant/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockDDBClient is an in-memory DynamoDB mock for testing.
type mockDDBClient struct {
	mu    sync.RWMutex
	items map[string]map[string]types.AttributeValue // key -> item
}

func newMockDDBClient() *mockDDBClient {
	return &mockDDBClient{
		items: make(map[string]map[string]types.AttributeValue),
	}
}

func itemKey(item map[string]types.AttributeValue) string {
	return item["base_uri"].(*types.AttributeValueMemberS).Value + ":" +
		item["version"].(*types.AttributeValueMemberN).Value
}

func itemVersion(item map[string]types.AttributeValue) uint64 {
	v, _ := strconv.ParseUint(item["version"].(*types.AttributeValueMemberN).Value, 10, 64)
	return v
}

func (m *mockDDBClient) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := itemKey(params.Item)
	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_not_exists(version)" {
		if _, exists := m.items[key]; exists {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("condition failed")}
		}
	}

	m.items[key] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockDDBClient) Query(_ context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	baseURI := params.ExpressionAttributeValues[":uri"].(*types.AttributeValueMemberS).Value

	var items []map[string]types.AttributeValue
	for _, item := range m.items {
		if item["base_uri"].(*types.AttributeValueMemberS).Value == baseURI {
			items = append(items, item)
		}
	}

	descending := params.ScanIndexForward != nil && !*params.ScanIndexForward
	sort.Slice(items, func(i, j int) bool {
		if descending {
			return itemVersion(items[i]) > itemVersion(items[j])
		}
		return itemVersion(items[i]) < itemVersion(items[j])
	})

	if params.Limit != nil && int(*params.Limit) < len(items) {
		items = items[:*params.Limit]
	}

	return &dynamodb.QueryOutput{Items: items}, nil
}

func (m *mockDDBClient) GetItem(_ context.Context, params *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if item, ok := m.items[itemKey(params.Key)]; ok {
		return &dynamodb.GetItemOutput{Item: item}, nil
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (m *mockDDBClient) DeleteItem(_ context.Context, params *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, itemKey(params.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func (m *mockDDBClient) len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

func newTestDDBCommitStore(ddb *mockDDBClient, baseURI string) (*DDBCommitStore, *blobstore.MemoryStore) {
	inner := blobstore.NewMemoryStore()
	return NewDDBCommitStore(inner, ddb, "featquant-commits", baseURI), inner
}

func TestDDBCommitStore_FirstCommit(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestDDBCommitStore(newMockDDBClient(), "s3://test-bucket/test/")

	require.NoError(t, store.Put(ctx, "run/metadata.json", []byte(`{"v":1}`)))

	got, err := store.Get(ctx, "run/metadata.json")
	require.NoError(t, err)
	assert.Equal(t, `{"v":1}`, string(got))
}

func TestDDBCommitStore_MultipleCommits(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestDDBCommitStore(newMockDDBClient(), "s3://test-bucket/test/")

	for i := 1; i <= 3; i++ {
		require.NoError(t, store.Put(ctx, "run/metadata.json", []byte(fmt.Sprintf("v%d", i))))
	}

	got, err := store.Get(ctx, "run/metadata.json")
	require.NoError(t, err)
	assert.Equal(t, "v3", string(got))

	versions, err := store.Versions(ctx, "run/metadata.json")
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 3}, versions)

	old, err := store.GetVersion(ctx, "run/metadata.json", 2)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(old))

	_, err = store.GetVersion(ctx, "run/metadata.json", 9)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestDDBCommitStore_ConcurrentCommits(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestDDBCommitStore(newMockDDBClient(), "s3://test-bucket/test/")

	require.NoError(t, store.Put(ctx, "metadata.json", []byte("v1")))

	var wg sync.WaitGroup
	var mu sync.Mutex
	successes, conflicts := 0, 0

	for i := range 5 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			err := store.Put(ctx, "metadata.json", []byte(fmt.Sprintf("writer-%d", id)))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, ErrConcurrentModification):
				conflicts++
			case err == nil:
				successes++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Greater(t, successes, 0, "at least one writer should succeed")
	assert.Equal(t, 5, successes+conflicts)

	// The latest version holds exactly one writer's data.
	got, err := store.Get(ctx, "metadata.json")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(got), "writer-"))
}

func TestDDBCommitStore_NotFoundBeforeCommit(t *testing.T) {
	store, _ := newTestDDBCommitStore(newMockDDBClient(), "s3://test-bucket/test/")

	_, err := store.Get(context.Background(), "metadata.json")
	require.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestDDBCommitStore_IsolatedNamespaces(t *testing.T) {
	ctx := context.Background()
	ddb := newMockDDBClient()

	store1, _ := newTestDDBCommitStore(ddb, "s3://bucket-a/path/")
	store2, _ := newTestDDBCommitStore(ddb, "s3://bucket-b/path/")

	require.NoError(t, store1.Put(ctx, "metadata.json", []byte("A")))
	require.NoError(t, store2.Put(ctx, "metadata.json", []byte("B")))

	got1, err := store1.Get(ctx, "metadata.json")
	require.NoError(t, err)
	assert.Equal(t, "A", string(got1))

	got2, err := store2.Get(ctx, "metadata.json")
	require.NoError(t, err)
	assert.Equal(t, "B", string(got2))
}

func TestDDBCommitStore_PassThroughAndList(t *testing.T) {
	ctx := context.Background()
	store, inner := newTestDDBCommitStore(newMockDDBClient(), "s3://b/p/")

	require.NoError(t, store.Put(ctx, "run/pipeline.bin", []byte("state")))
	require.NoError(t, store.Put(ctx, "run/metadata.json", []byte("m1")))
	require.NoError(t, store.Put(ctx, "run/metadata.json", []byte("m2")))

	// Non-commit blobs are stored under their own name.
	got, err := inner.Get(ctx, "run/pipeline.bin")
	require.NoError(t, err)
	assert.Equal(t, "state", string(got))
	assert.Equal(t, 3, inner.Len())

	names, err := store.List(ctx, "run/")
	require.NoError(t, err)
	assert.Equal(t, []string{"run/metadata.json", "run/pipeline.bin"}, names)
}

func TestDDBCommitStore_DeleteRemovesAllVersions(t *testing.T) {
	ctx := context.Background()
	ddb := newMockDDBClient()
	store, inner := newTestDDBCommitStore(ddb, "s3://b/p/")

	require.NoError(t, store.Put(ctx, "metadata.json", []byte("1")))
	require.NoError(t, store.Put(ctx, "metadata.json", []byte("2")))

	require.NoError(t, store.Delete(ctx, "metadata.json"))
	assert.Equal(t, 0, ddb.len())
	assert.Equal(t, 0, inner.Len())

	_, err := store.Get(ctx, "metadata.json")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestDDBCommitStore_CustomCommitName(t *testing.T) {
	ctx := context.Background()
	ddb := newMockDDBClient()
	base, inner := newTestDDBCommitStore(ddb, "s3://b/p/")
	store := base.WithCommitName("CURRENT")

	require.NoError(t, store.Put(ctx, "CURRENT", []byte("x")))
	require.NoError(t, store.Put(ctx, "metadata.json", []byte("plain")))

	assert.Equal(t, 1, ddb.len())
	got, err := inner.Get(ctx, "metadata.json")
	require.NoError(t, err)
	assert.Equal(t, "plain", string(got))
}
