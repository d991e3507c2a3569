package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/daniloc96/gitcode-team-roster/internal/config"
	"github.com/daniloc96/gitcode-team-roster/internal/interfaces"
	"github.com/daniloc96/gitcode-team-roster/internal/models"
)

// ErrSnapshotNotFound is returned when no document has been saved under the roster name.
var ErrSnapshotNotFound = fmt.Errorf("roster snapshot: %w", interfaces.ErrDocumentNotFound)

// ErrDocumentTooLarge is returned by Save when the document cannot fit in one item.
var ErrDocumentTooLarge = errors.New("roster document exceeds the DynamoDB item size limit")

// maxDocumentBytes keeps each item under the 400 KB DynamoDB limit, leaving room
// for the key and metadata attributes.
const maxDocumentBytes = 390 * 1024

// api is the subset of the DynamoDB client the store uses.
type api interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Store keeps the team document of one roster in DynamoDB: a LATEST item plus
// expiring history snapshots under the same partition.
type Store struct {
	client    api
	tableName string
	name      string
	ttlDays   int
	now       func() time.Time
}

// NewStore creates a new DynamoDB-backed document store for the named roster.
func NewStore(ctx context.Context, cfg config.DynamoDBConfig, name string) (*Store, error) {
	var opts []func(*awsconfig.LoadOptions) error
	opts = append(opts, awsconfig.WithRegion(cfg.Region))

	if cfg.Endpoint != "" {
		// Local development: use static credentials and custom endpoint.
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("local", "local", ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	var clientOpts []func(*dynamodb.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *dynamodb.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	return newStore(dynamodb.NewFromConfig(awsCfg, clientOpts...), cfg.TableName, name, cfg.TTLDays), nil
}

func newStore(client api, tableName, name string, ttlDays int) *Store {
	if ttlDays <= 0 {
		ttlDays = 90
	}
	return &Store{
		client:    client,
		tableName: tableName,
		name:      name,
		ttlDays:   ttlDays,
		now:       time.Now,
	}
}

// Load returns the current document.
func (s *Store) Load(ctx context.Context) ([]byte, error) {
	snap, err := s.get(ctx, models.SnapshotLatestSK)
	if err != nil {
		return nil, err
	}
	return []byte(snap.Document), nil
}

// LoadSnapshot returns the history snapshot with the given sort key.
func (s *Store) LoadSnapshot(ctx context.Context, sk string) (*models.RosterSnapshot, error) {
	return s.get(ctx, sk)
}

// Save writes data as the new LATEST item and appends a history snapshot, atomically.
func (s *Store) Save(ctx context.Context, data []byte) error {
	if len(data) > maxDocumentBytes {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrDocumentTooLarge, len(data), maxDocumentBytes)
	}
	now := s.now()
	latest, err := attributevalue.MarshalMap(models.NewLatestSnapshot(s.name, data, now))
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	history, err := attributevalue.MarshalMap(models.NewHistorySnapshot(s.name, data, now, s.ttlDays))
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	_, err = s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{TableName: aws.String(s.tableName), Item: latest}},
			{Put: &types.Put{TableName: aws.String(s.tableName), Item: history}},
		},
	})
	if err != nil {
		return fmt.Errorf("saving roster snapshot: %w", err)
	}
	return nil
}

// ListSnapshots returns up to limit history snapshots, newest first, without their documents.
func (s *Store) ListSnapshots(ctx context.Context, limit int32) ([]models.RosterSnapshot, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("pk = :pk AND begins_with(sk, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: models.SnapshotPK(s.name)},
			":prefix": &types.AttributeValueMemberS{Value: models.SnapshotPrefix},
		},
		ProjectionExpression:     aws.String("pk, sk, #n, size_bytes, saved_at, #ttl"),
		ExpressionAttributeNames: map[string]string{"#n": "name", "#ttl": "ttl"},
		ScanIndexForward:         aws.Bool(false),
	}
	if limit > 0 {
		input.Limit = aws.Int32(limit)
	}

	result, err := s.client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("querying roster snapshots: %w", err)
	}

	var snapshots []models.RosterSnapshot
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &snapshots); err != nil {
		return nil, fmt.Errorf("unmarshaling roster snapshots: %w", err)
	}
	return snapshots, nil
}

func (s *Store) get(ctx context.Context, sk string) (*models.RosterSnapshot, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"pk": &types.AttributeValueMemberS{Value: models.SnapshotPK(s.name)},
			"sk": &types.AttributeValueMemberS{Value: sk},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("getting roster snapshot: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("%w: %s %s", ErrSnapshotNotFound, s.name, sk)
	}

	var snap models.RosterSnapshot
	if err := attributevalue.UnmarshalMap(result.Item, &snap); err != nil {
		return nil, fmt.Errorf("unmarshaling roster snapshot: %w", err)
	}
	return &snap, nil
}
