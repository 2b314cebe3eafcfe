package s3

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/featquant/blobstore"
)

// DefaultCommitName is the base name of blobs versioned through DynamoDB.
// A pipeline's metadata.json is written last, so committing it publishes the save.
const DefaultCommitName = "metadata.json"

// versionSep separates a committed name from its version in object keys.
const versionSep = "@v"

// DDBCommitStore implements blobstore.BlobStore on top of an inner store,
// using DynamoDB conditional writes to version commit blobs. This gives
// concurrent writers compare-and-swap semantics that S3 lacks.
//
// A Put of a commit blob writes its data to "<name>@v<version>-<token>" in the inner
// store and then records the version in DynamoDB with a conditional put.
// Get of a commit blob resolves the latest recorded version. All other blobs
// pass straight through.
//
// Table schema:
//   - Partition key: base_uri (string) - the store URI plus blob name
//   - Sort key: version (number) - monotonically increasing version
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name featquant-commits \
//	  --attribute-definitions AttributeName=base_uri,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=base_uri,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type DDBCommitStore struct {
	inner      blobstore.BlobStore
	ddbClient  DDBClient
	tableName  string
	baseURI    string
	commitName string
}

var _ blobstore.BlobStore = (*DDBCommitStore)(nil)

// DDBClient is the interface for DynamoDB operations.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

var _ DDBClient = (*dynamodb.Client)(nil)

// ErrConcurrentModification is returned when a concurrent write is detected.
var ErrConcurrentModification = errors.New("concurrent modification detected")

// NewDDBCommitStore creates a new commit store.
// The baseURI (e.g. "s3://bucket/prefix") namespaces the partition keys.
func NewDDBCommitStore(inner blobstore.BlobStore, ddbClient DDBClient, tableName, baseURI string) *DDBCommitStore {
	return &DDBCommitStore{
		inner:      inner,
		ddbClient:  ddbClient,
		tableName:  tableName,
		baseURI:    baseURI,
		commitName: DefaultCommitName,
	}
}

// WithCommitName returns a copy of the store that versions blobs with the given base name.
func (s *DDBCommitStore) WithCommitName(name string) *DDBCommitStore {
	c := *s
	c.commitName = name
	return &c
}

func (s *DDBCommitStore) isCommit(name string) bool {
	return path.Base(name) == s.commitName
}

func (s *DDBCommitStore) partitionKey(name string) string {
	return s.baseURI + "#" + name
}

// versionedName includes a random token so racing writers of the same
// version never overwrite each other's object.
func versionedName(name string, version uint64) (string, error) {
	var token [8]byte
	if _, err := rand.Read(token[:]); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s%020d-%s", name, versionSep, version, hex.EncodeToString(token[:])), nil
}

// Put writes a blob. Commit blobs get a new version through a DynamoDB conditional write.
func (s *DDBCommitStore) Put(ctx context.Context, name string, data []byte) error {
	if !s.isCommit(name) {
		return s.inner.Put(ctx, name, data)
	}
	if err := blobstore.ValidateName(name); err != nil {
		return err
	}

	current, _, err := s.latestVersion(ctx, name)
	if err != nil {
		return err
	}
	version := current + 1
	objectName, err := versionedName(name, version)
	if err != nil {
		return err
	}

	if err := s.inner.Put(ctx, objectName, data); err != nil {
		return err
	}

	_, err = s.ddbClient.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item: map[string]types.AttributeValue{
			"base_uri":    &types.AttributeValueMemberS{Value: s.partitionKey(name)},
			"version":     &types.AttributeValueMemberN{Value: strconv.FormatUint(version, 10)},
			"object_name": &types.AttributeValueMemberS{Value: objectName},
		},
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			_ = s.inner.Delete(ctx, objectName)
			return ErrConcurrentModification
		}
		return fmt.Errorf("failed to commit version to DynamoDB: %w", err)
	}

	return nil
}

// Get returns a blob. Commit blobs resolve to their latest committed version.
func (s *DDBCommitStore) Get(ctx context.Context, name string) ([]byte, error) {
	if !s.isCommit(name) {
		return s.inner.Get(ctx, name)
	}
	version, objectName, err := s.latestVersion(ctx, name)
	if err != nil {
		return nil, err
	}
	if version == 0 {
		return nil, fmt.Errorf("%s: %w", name, blobstore.ErrNotFound)
	}
	return s.inner.Get(ctx, objectName)
}

// GetVersion returns a specific committed version of a commit blob.
func (s *DDBCommitStore) GetVersion(ctx context.Context, name string, version uint64) ([]byte, error) {
	resp, err := s.ddbClient.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"base_uri": &types.AttributeValueMemberS{Value: s.partitionKey(name)},
			"version":  &types.AttributeValueMemberN{Value: strconv.FormatUint(version, 10)},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item from DynamoDB: %w", err)
	}
	if len(resp.Item) == 0 {
		return nil, fmt.Errorf("%s version %d: %w", name, version, blobstore.ErrNotFound)
	}
	_, objectName, err := parseItem(resp.Item)
	if err != nil {
		return nil, err
	}
	return s.inner.Get(ctx, objectName)
}

// Versions returns all committed versions of name in ascending order.
func (s *DDBCommitStore) Versions(ctx context.Context, name string) ([]uint64, error) {
	items, err := s.queryAll(ctx, name)
	if err != nil {
		return nil, err
	}
	versions := make([]uint64, 0, len(items))
	for _, item := range items {
		v, _, err := parseItem(item)
		if err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, nil
}

// Delete removes a blob. Deleting a commit blob removes every version.
func (s *DDBCommitStore) Delete(ctx context.Context, name string) error {
	if !s.isCommit(name) {
		return s.inner.Delete(ctx, name)
	}
	items, err := s.queryAll(ctx, name)
	if err != nil {
		return err
	}
	for _, item := range items {
		version, objectName, err := parseItem(item)
		if err != nil {
			return err
		}
		if err := s.inner.Delete(ctx, objectName); err != nil {
			return err
		}
		_, err = s.ddbClient.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(s.tableName),
			Key: map[string]types.AttributeValue{
				"base_uri": &types.AttributeValueMemberS{Value: s.partitionKey(name)},
				"version":  &types.AttributeValueMemberN{Value: strconv.FormatUint(version, 10)},
			},
		})
		if err != nil {
			return fmt.Errorf("failed to delete item from DynamoDB: %w", err)
		}
	}
	return nil
}

// List lists blobs with prefix. Versioned objects are reported once under their commit name.
func (s *DDBCommitStore) List(ctx context.Context, prefix string) ([]string, error) {
	names, err := s.inner.List(ctx, prefix)
	if err != nil {
		return nil, err
	}
	out := names[:0]
	seen := make(map[string]struct{})
	for _, name := range names {
		if i := strings.LastIndex(name, versionSep); i >= 0 && s.isCommit(name[:i]) {
			name = name[:i]
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out, nil
}

// latestVersion queries DynamoDB for the latest committed version.
// It returns version 0 if nothing has been committed.
func (s *DDBCommitStore) latestVersion(ctx context.Context, name string) (uint64, string, error) {
	resp, err := s.ddbClient.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("base_uri = :uri"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uri": &types.AttributeValueMemberS{Value: s.partitionKey(name)},
		},
		ScanIndexForward: aws.Bool(false), // Descending order
		Limit:            aws.Int32(1),
		ConsistentRead:   aws.Bool(true),
	})
	if err != nil {
		return 0, "", fmt.Errorf("failed to query DynamoDB: %w", err)
	}
	if len(resp.Items) == 0 {
		return 0, "", nil
	}
	return parseItem(resp.Items[0])
}

func (s *DDBCommitStore) queryAll(ctx context.Context, name string) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	var startKey map[string]types.AttributeValue
	for {
		resp, err := s.ddbClient.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(s.tableName),
			KeyConditionExpression: aws.String("base_uri = :uri"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":uri": &types.AttributeValueMemberS{Value: s.partitionKey(name)},
			},
			ScanIndexForward:  aws.Bool(true),
			ConsistentRead:    aws.Bool(true),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to query DynamoDB: %w", err)
		}
		items = append(items, resp.Items...)
		if len(resp.LastEvaluatedKey) == 0 {
			return items, nil
		}
		startKey = resp.LastEvaluatedKey
	}
}

func parseItem(item map[string]types.AttributeValue) (uint64, string, error) {
	versionAttr, ok := item["version"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, "", errors.New("invalid version attribute in DynamoDB")
	}
	nameAttr, ok := item["object_name"].(*types.AttributeValueMemberS)
	if !ok {
		return 0, "", errors.New("invalid object_name attribute in DynamoDB")
	}
	version, err := strconv.ParseUint(versionAttr.Value, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("failed to parse version: %w", err)
	}
	return version, nameAttr.Value, nil
}
