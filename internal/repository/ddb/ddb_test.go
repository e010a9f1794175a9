package ddb

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"inventory-api/internal/domain"
	"inventory-api/internal/repository"
	appErrors "inventory-api/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient records requests and replays canned responses.
type fakeClient struct {
	getOut    *dynamodb.GetItemOutput
	queryOuts []*dynamodb.QueryOutput
	scanOut   *dynamodb.ScanOutput
	err       error

	puts    []*dynamodb.PutItemInput
	updates []*dynamodb.UpdateItemInput
	deletes []*dynamodb.DeleteItemInput
	queries []*dynamodb.QueryInput
	scans   []*dynamodb.ScanInput
}

func (f *fakeClient) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.getOut == nil {
		return &dynamodb.GetItemOutput{}, nil
	}
	return f.getOut, nil
}

func (f *fakeClient) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.puts = append(f.puts, in)
	return &dynamodb.PutItemOutput{}, f.err
}

func (f *fakeClient) UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.updates = append(f.updates, in)
	return &dynamodb.UpdateItemOutput{}, f.err
}

func (f *fakeClient) DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.deletes = append(f.deletes, in)
	return &dynamodb.DeleteItemOutput{}, f.err
}

func (f *fakeClient) Query(ctx context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.queries = append(f.queries, in)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.queryOuts) == 0 {
		return &dynamodb.QueryOutput{}, nil
	}
	out := f.queryOuts[0]
	f.queryOuts = f.queryOuts[1:]
	return out, nil
}

func (f *fakeClient) Scan(ctx context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.scans = append(f.scans, in)
	if f.err != nil {
		return nil, f.err
	}
	if f.scanOut == nil {
		return &dynamodb.ScanOutput{}, nil
	}
	return f.scanOut, nil
}

func item(id, name, category, price, dt string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id":              &types.AttributeValueMemberS{Value: id},
		"item_name":       &types.AttributeValueMemberS{Value: name},
		"category":        &types.AttributeValueMemberS{Value: category},
		"price":           &types.AttributeValueMemberS{Value: price},
		"last_updated_dt": &types.AttributeValueMemberS{Value: dt},
	}
}

func newTestStore(client *fakeClient) repository.ItemStore {
	return NewStore(client, repository.NewConfig("Inventory", "NameIndex"), nil)
}

func stringValue(t *testing.T, v types.AttributeValue) string {
	t.Helper()
	s, ok := v.(*types.AttributeValueMemberS)
	require.True(t, ok, "expected string attribute, got %T", v)
	return s.Value
}

func TestGetByID(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		client := &fakeClient{getOut: &dynamodb.GetItemOutput{
			Item: item("x", "widget", "tools", "9.99", "2025-01-01T00:00:00+08:00"),
		}}
		rec, err := newTestStore(client).GetByID(context.Background(), "x")
		require.NoError(t, err)
		assert.Equal(t, "widget", rec.ItemName)
		assert.Equal(t, "9.99", rec.Price)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := newTestStore(&fakeClient{}).GetByID(context.Background(), "missing")
		assert.True(t, repository.IsNotFound(err))
	})

	t.Run("ServiceErrorIsStorageFailure", func(t *testing.T) {
		client := &fakeClient{err: &smithy.GenericAPIError{Code: "ProvisionedThroughputExceededException", Message: "slow down"}}
		_, err := newTestStore(client).GetByID(context.Background(), "x")
		require.Error(t, err)
		assert.True(t, appErrors.IsStorage(err))
		assert.Contains(t, err.Error(), "dynamodb GetItem: ProvisionedThroughputExceededException")
	})
}

func TestPut(t *testing.T) {
	client := &fakeClient{}
	rec := domain.Record{ID: "x", ItemName: "widget", Category: "tools", Price: "9.99", LastUpdated: "2025-01-01T00:00:00+08:00"}

	require.NoError(t, newTestStore(client).Put(context.Background(), rec))
	require.Len(t, client.puts, 1)

	in := client.puts[0]
	assert.Equal(t, "Inventory", aws.ToString(in.TableName))
	assert.Equal(t, "widget", stringValue(t, in.Item["item_name"]))
	assert.Equal(t, "9.99", stringValue(t, in.Item["price"]))
	assert.Equal(t, "2025-01-01T00:00:00+08:00", stringValue(t, in.Item["last_updated_dt"]))
}

func TestUpdateFields(t *testing.T) {
	t.Run("BuildsConditionalSet", func(t *testing.T) {
		client := &fakeClient{}
		err := newTestStore(client).UpdateFields(context.Background(), "x", repository.Fields{
			"price":           "14.50",
			"last_updated_dt": "2025-01-02T00:00:00+08:00",
		})
		require.NoError(t, err)
		require.Len(t, client.updates, 1)

		in := client.updates[0]
		assert.Equal(t, "x", stringValue(t, in.Key["id"]))
		assert.True(t, strings.HasPrefix(aws.ToString(in.UpdateExpression), "SET "))
		assert.Contains(t, aws.ToString(in.ConditionExpression), "attribute_exists")

		var values []string
		for _, v := range in.ExpressionAttributeValues {
			values = append(values, stringValue(t, v))
		}
		assert.ElementsMatch(t, []string{"14.50", "2025-01-02T00:00:00+08:00"}, values)

		var names []string
		for _, n := range in.ExpressionAttributeNames {
			names = append(names, n)
		}
		assert.ElementsMatch(t, []string{"id", "price", "last_updated_dt"}, names)
	})

	t.Run("ConditionFailureIsNotFound", func(t *testing.T) {
		client := &fakeClient{err: &types.ConditionalCheckFailedException{Message: aws.String("gone")}}
		err := newTestStore(client).UpdateFields(context.Background(), "x", repository.Fields{"price": "1.00"})
		assert.True(t, repository.IsNotFound(err))
	})

	t.Run("NoFieldsIsNoop", func(t *testing.T) {
		client := &fakeClient{}
		require.NoError(t, newTestStore(client).UpdateFields(context.Background(), "x", nil))
		assert.Empty(t, client.updates)
	})
}

func TestDeleteByID(t *testing.T) {
	client := &fakeClient{}
	require.NoError(t, newTestStore(client).DeleteByID(context.Background(), "x"))
	require.Len(t, client.deletes, 1)
	assert.Equal(t, "x", stringValue(t, client.deletes[0].Key["id"]))
}

func TestQueryByIndex(t *testing.T) {
	client := &fakeClient{queryOuts: []*dynamodb.QueryOutput{
		{
			Items:            []map[string]types.AttributeValue{item("a", "widget", "tools", "1.00", "2025-01-01")},
			LastEvaluatedKey: map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: "a"}},
		},
		{
			Items: []map[string]types.AttributeValue{item("b", "widget", "tools", "2.00", "2025-01-02")},
		},
	}}

	records, err := newTestStore(client).QueryByIndex(context.Background(), "NameIndex", "item_name", "widget")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0].ID)
	assert.Equal(t, "b", records[1].ID)

	require.Len(t, client.queries, 2)
	first := client.queries[0]
	assert.Equal(t, "NameIndex", aws.ToString(first.IndexName))
	assert.Contains(t, first.ExpressionAttributeNames, "#0")
	assert.Equal(t, "item_name", first.ExpressionAttributeNames["#0"])
	assert.Equal(t, "widget", stringValue(t, first.ExpressionAttributeValues[":0"]))
	assert.NotNil(t, client.queries[1].ExclusiveStartKey)
}

func TestScanPage(t *testing.T) {
	t.Run("NoFilter", func(t *testing.T) {
		client := &fakeClient{scanOut: &dynamodb.ScanOutput{
			Items: []map[string]types.AttributeValue{item("a", "widget", "tools", "1.00", "2025-01-01")},
		}}
		page, err := newTestStore(client).ScanPage(context.Background(), repository.ScanFilter{}, "")
		require.NoError(t, err)
		assert.Len(t, page.Records, 1)
		assert.Empty(t, page.NextToken)

		in := client.scans[0]
		assert.Nil(t, in.FilterExpression)
		assert.Nil(t, in.ExclusiveStartKey)
	})

	t.Run("CombinedFilterAndToken", func(t *testing.T) {
		client := &fakeClient{scanOut: &dynamodb.ScanOutput{
			LastEvaluatedKey: map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: "z"}},
		}}
		token := repository.EncodeNextToken(repository.LastEvaluatedKey{ID: "m"})

		page, err := newTestStore(client).ScanPage(context.Background(),
			repository.ScanFilter{Category: "tools", NameContains: "wid"}, token)
		require.NoError(t, err)

		next, err := repository.DecodeNextToken(page.NextToken)
		require.NoError(t, err)
		assert.Equal(t, "z", next.ID)

		in := client.scans[0]
		filter := aws.ToString(in.FilterExpression)
		assert.Contains(t, filter, "contains")
		assert.Contains(t, filter, "AND")
		assert.Equal(t, "m", stringValue(t, in.ExclusiveStartKey["id"]))

		var values []string
		for _, v := range in.ExpressionAttributeValues {
			values = append(values, stringValue(t, v))
		}
		assert.ElementsMatch(t, []string{"tools", "wid"}, values)
	})

	t.Run("CategoryOnly", func(t *testing.T) {
		client := &fakeClient{}
		_, err := newTestStore(client).ScanPage(context.Background(), repository.ScanFilter{Category: "tools"}, "")
		require.NoError(t, err)

		filter := aws.ToString(client.scans[0].FilterExpression)
		assert.Equal(t, "#0 = :0", filter)
		assert.Equal(t, "category", client.scans[0].ExpressionAttributeNames["#0"])
	})

	t.Run("OddlyTypedItemStillDecodes", func(t *testing.T) {
		odd := item("a", "widget", "tools", "", "2025-01-01")
		odd["price"] = &types.AttributeValueMemberN{Value: "3.5"}
		odd["tags"] = &types.AttributeValueMemberL{}
		delete(odd, "category")

		client := &fakeClient{scanOut: &dynamodb.ScanOutput{Items: []map[string]types.AttributeValue{odd}}}
		page, err := newTestStore(client).ScanPage(context.Background(), repository.ScanFilter{}, "")
		require.NoError(t, err)
		require.Len(t, page.Records, 1)
		assert.Equal(t, "3.5", page.Records[0].Price)
		assert.Equal(t, []string{"category"}, page.Records[0].Missing())
	})

	t.Run("BadTokenIsStorageFailure", func(t *testing.T) {
		_, err := newTestStore(&fakeClient{}).ScanPage(context.Background(), repository.ScanFilter{}, "%%%")
		assert.True(t, appErrors.IsStorage(err))
	})

	t.Run("TransportErrorIsStorageFailure", func(t *testing.T) {
		client := &fakeClient{err: fmt.Errorf("dial tcp: connection refused")}
		_, err := newTestStore(client).ScanPage(context.Background(), repository.ScanFilter{}, "")
		assert.True(t, appErrors.IsStorage(err))
	})
}
