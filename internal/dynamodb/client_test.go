package dynamodb

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/daniloc96/gitcode-team-roster/internal/models"
)

type mockAPI struct {
	GetItemFunc            func(ctx context.Context, params *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error)
	QueryFunc              func(ctx context.Context, params *dynamodb.QueryInput) (*dynamodb.QueryOutput, error)
	TransactWriteItemsFunc func(ctx context.Context, params *dynamodb.TransactWriteItemsInput) (*dynamodb.TransactWriteItemsOutput, error)
}

func (m *mockAPI) GetItem(ctx context.Context, params *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return m.GetItemFunc(ctx, params)
}

func (m *mockAPI) Query(ctx context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	return m.QueryFunc(ctx, params)
}

func (m *mockAPI) TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	return m.TransactWriteItemsFunc(ctx, params)
}

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestNewHistorySnapshot(t *testing.T) {
	snap := models.NewHistorySnapshot("cangjie", []byte(`{"people":[]}`), fixedNow, 90)

	if snap.PK != "ROSTER#cangjie" {
		t.Fatalf("expected PK ROSTER#cangjie, got %s", snap.PK)
	}
	if snap.SK != "SNAPSHOT#2024-03-01T12:00:00.000000Z" {
		t.Fatalf("expected time-ordered SK, got %s", snap.SK)
	}
	if snap.SizeBytes != 13 {
		t.Fatalf("expected size 13, got %d", snap.SizeBytes)
	}
	if want := fixedNow.AddDate(0, 0, 90).Unix(); snap.TTL != want {
		t.Fatalf("expected TTL %d, got %d", want, snap.TTL)
	}
}

func TestSaveWritesLatestAndHistory(t *testing.T) {
	var input *dynamodb.TransactWriteItemsInput
	client := &mockAPI{
		TransactWriteItemsFunc: func(ctx context.Context, params *dynamodb.TransactWriteItemsInput) (*dynamodb.TransactWriteItemsOutput, error) {
			input = params
			return &dynamodb.TransactWriteItemsOutput{}, nil
		},
	}
	store := newStore(client, "team-roster", "cangjie", 30)
	store.now = func() time.Time { return fixedNow }

	if err := store.Save(context.Background(), []byte(`{"groups":[]}`)); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if input == nil || len(input.TransactItems) != 2 {
		t.Fatalf("expected a transaction with 2 puts, got %+v", input)
	}

	var latest, history models.RosterSnapshot
	if err := attributevalue.UnmarshalMap(input.TransactItems[0].Put.Item, &latest); err != nil {
		t.Fatalf("unmarshal latest: %v", err)
	}
	if err := attributevalue.UnmarshalMap(input.TransactItems[1].Put.Item, &history); err != nil {
		t.Fatalf("unmarshal history: %v", err)
	}
	if latest.SK != models.SnapshotLatestSK || latest.TTL != 0 {
		t.Fatalf("expected non-expiring LATEST item, got %+v", latest)
	}
	if _, ok := input.TransactItems[0].Put.Item["ttl"]; ok {
		t.Fatalf("expected LATEST item to carry no ttl attribute")
	}
	if !strings.HasPrefix(history.SK, models.SnapshotPrefix) || history.TTL == 0 {
		t.Fatalf("expected expiring history item, got %+v", history)
	}
	if latest.Document != `{"groups":[]}` || history.Document != latest.Document {
		t.Fatalf("expected both items to hold the document")
	}
	if aws.ToString(input.TransactItems[1].Put.TableName) != "team-roster" {
		t.Fatalf("expected table name team-roster")
	}
}

func TestSaveRejectsOversizedDocument(t *testing.T) {
	called := false
	client := &mockAPI{
		TransactWriteItemsFunc: func(ctx context.Context, params *dynamodb.TransactWriteItemsInput) (*dynamodb.TransactWriteItemsOutput, error) {
			called = true
			return &dynamodb.TransactWriteItemsOutput{}, nil
		},
	}
	store := newStore(client, "team-roster", "cangjie", 30)

	err := store.Save(context.Background(), make([]byte, maxDocumentBytes+1))
	if !errors.Is(err, ErrDocumentTooLarge) {
		t.Fatalf("expected ErrDocumentTooLarge, got %v", err)
	}
	if called {
		t.Fatalf("expected no write for an oversized document")
	}

	if err := store.Save(context.Background(), make([]byte, maxDocumentBytes)); err != nil {
		t.Fatalf("expected document at the limit to be saved, got %v", err)
	}
	if !called {
		t.Fatalf("expected document at the limit to be written")
	}
}

func TestLoad(t *testing.T) {
	item, err := attributevalue.MarshalMap(models.NewLatestSnapshot("cangjie", []byte(`{"people":[]}`), fixedNow))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var gotKey map[string]types.AttributeValue
	client := &mockAPI{
		GetItemFunc: func(ctx context.Context, params *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
			gotKey = params.Key
			return &dynamodb.GetItemOutput{Item: item}, nil
		},
	}
	store := newStore(client, "team-roster", "cangjie", 0)

	data, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if string(data) != `{"people":[]}` {
		t.Fatalf("unexpected document %s", data)
	}
	if sk := gotKey["sk"].(*types.AttributeValueMemberS).Value; sk != models.SnapshotLatestSK {
		t.Fatalf("expected LATEST lookup, got %s", sk)
	}
	if store.ttlDays != 90 {
		t.Fatalf("expected default ttl of 90 days, got %d", store.ttlDays)
	}
}

func TestLoadMissing(t *testing.T) {
	client := &mockAPI{
		GetItemFunc: func(ctx context.Context, params *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
			return &dynamodb.GetItemOutput{}, nil
		},
	}
	store := newStore(client, "team-roster", "cangjie", 90)

	if _, err := store.Load(context.Background()); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("expected ErrSnapshotNotFound, got %v", err)
	}
}

func TestListSnapshots(t *testing.T) {
	first, _ := attributevalue.MarshalMap(models.NewHistorySnapshot("cangjie", []byte("{}"), fixedNow.Add(time.Hour), 90))
	second, _ := attributevalue.MarshalMap(models.NewHistorySnapshot("cangjie", []byte("{}"), fixedNow, 90))

	var query *dynamodb.QueryInput
	client := &mockAPI{
		QueryFunc: func(ctx context.Context, params *dynamodb.QueryInput) (*dynamodb.QueryOutput, error) {
			query = params
			return &dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{first, second}}, nil
		},
	}
	store := newStore(client, "team-roster", "cangjie", 90)

	snaps, err := store.ListSnapshots(context.Background(), 5)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(snaps) != 2 || !snaps[0].SavedAt.After(snaps[1].SavedAt) {
		t.Fatalf("expected 2 snapshots newest first, got %+v", snaps)
	}
	if aws.ToBool(query.ScanIndexForward) {
		t.Fatalf("expected descending query")
	}
	if aws.ToInt32(query.Limit) != 5 {
		t.Fatalf("expected limit 5, got %d", aws.ToInt32(query.Limit))
	}
}

func TestMockStoreTracking(t *testing.T) {
	store := &MockStore{}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	if _, err := store.Load(ctx); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("expected empty mock to report not found, got %v", err)
	}
	if err := store.Save(ctx, []byte(`{}`)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, err := store.Load(ctx)
	if err != nil || string(data) != `{}` {
		t.Fatalf("expected saved document back, got %s (%v)", data, err)
	}
	if len(store.Saved) != 1 || store.LoadCalls != 2 {
		t.Fatalf("expected 1 save and 2 loads, got %d and %d", len(store.Saved), store.LoadCalls)
	}
}
