// Package ddb implements the repository interface using AWS DynamoDB.
// This is the only layer that should have knowledge of DynamoDB specifics.
package ddb

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"inventory-api/internal/domain"
	"inventory-api/internal/repository"
	appErrors "inventory-api/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

// Client is the subset of the DynamoDB API the store uses.
type Client interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// ddbStore is the concrete implementation for DynamoDB.
type ddbStore struct {
	dbClient Client
	config   repository.Config
	logger   *zap.Logger
}

// NewStore creates a new instance of the DynamoDB item store.
func NewStore(dbClient Client, config repository.Config, logger *zap.Logger) repository.ItemStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ddbStore{
		dbClient: dbClient,
		config:   config.WithDefaults(),
		logger:   logger,
	}
}

func (s *ddbStore) key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		domain.AttrID: &types.AttributeValueMemberS{Value: id},
	}
}

// GetByID fetches a single item by primary key.
func (s *ddbStore) GetByID(ctx context.Context, id string) (*domain.Record, error) {
	result, err := s.dbClient.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.config.TableName),
		Key:       s.key(id),
	})
	if err != nil {
		return nil, storageError("GetItem", err)
	}
	if result.Item == nil {
		return nil, repository.NewNotFound("item", id)
	}

	record := decodeRecord(result.Item)
	return &record, nil
}

// Put writes a full record, replacing any item with the same id.
func (s *ddbStore) Put(ctx context.Context, record domain.Record) error {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return appErrors.Wrap(err, "failed to marshal item")
	}

	_, err = s.dbClient.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.config.TableName),
		Item:      item,
	})
	if err != nil {
		return storageError("PutItem", err)
	}
	return nil
}

// UpdateFields sets the given attributes on an existing item. The update is
// conditional on the item existing so it never creates a partial record.
func (s *ddbStore) UpdateFields(ctx context.Context, id string, fields repository.Fields) error {
	if len(fields) == 0 {
		return nil
	}

	expr, err := updateExpression(fields)
	if err != nil {
		return appErrors.Wrap(err, "failed to build update expression")
	}

	_, err = s.dbClient.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.config.TableName),
		Key:                       s.key(id),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return repository.NewNotFound("item", id)
		}
		return storageError("UpdateItem", err)
	}
	return nil
}

// DeleteByID removes an item. Deleting an absent id is not an error here.
func (s *ddbStore) DeleteByID(ctx context.Context, id string) error {
	_, err := s.dbClient.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.config.TableName),
		Key:       s.key(id),
	})
	if err != nil {
		return storageError("DeleteItem", err)
	}
	return nil
}

// QueryByIndex returns every item whose key attribute equals value in the
// given secondary index, following query pages to the end.
func (s *ddbStore) QueryByIndex(ctx context.Context, indexName, key, value string) ([]domain.Record, error) {
	keyCond := expression.Key(key).Equal(expression.Value(value))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, appErrors.Wrap(err, "failed to build key condition")
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.config.TableName),
		IndexName:                 aws.String(indexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	var records []domain.Record
	paginator := dynamodb.NewQueryPaginator(s.dbClient, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, storageError("Query", err)
		}
		for _, item := range page.Items {
			records = append(records, decodeRecord(item))
		}
	}

	return records, nil
}

// ScanPage reads one page of the table, applying the filter server side.
func (s *ddbStore) ScanPage(ctx context.Context, filter repository.ScanFilter, token string) (*repository.ScanPage, error) {
	startKey, err := repository.AttributesFromToken(token)
	if err != nil {
		return nil, appErrors.NewStorage("dynamodb Scan: bad continuation token", err)
	}

	input := &dynamodb.ScanInput{
		TableName:         aws.String(s.config.TableName),
		ExclusiveStartKey: startKey,
	}
	if s.config.ScanLimit > 0 {
		input.Limit = aws.Int32(int32(s.config.ScanLimit))
	}

	if !filter.IsZero() {
		expr, err := filterExpression(filter)
		if err != nil {
			return nil, appErrors.Wrap(err, "failed to build scan filter")
		}
		input.FilterExpression = expr.Filter()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}

	result, err := s.dbClient.Scan(ctx, input)
	if err != nil {
		return nil, storageError("Scan", err)
	}

	page := &repository.ScanPage{Records: make([]domain.Record, 0, len(result.Items))}
	for _, item := range result.Items {
		page.Records = append(page.Records, decodeRecord(item))
	}

	page.NextToken, err = repository.TokenFromAttributes(result.LastEvaluatedKey)
	if err != nil {
		return nil, appErrors.NewStorage("dynamodb Scan: unreadable last evaluated key", err)
	}

	s.logger.Debug("scan page read",
		zap.Int("items", len(page.Records)),
		zap.Int32("scanned", result.ScannedCount),
		zap.Bool("more", page.NextToken != ""),
	)
	return page, nil
}

// filterExpression turns a ScanFilter into a DynamoDB filter expression.
func filterExpression(filter repository.ScanFilter) (expression.Expression, error) {
	var conds []expression.ConditionBuilder
	if filter.NameContains != "" {
		conds = append(conds, expression.Name(domain.AttrItemName).Contains(filter.NameContains))
	}
	if filter.Category != "" {
		conds = append(conds, expression.Name(domain.AttrCategory).Equal(expression.Value(filter.Category)))
	}

	cond := conds[0]
	if len(conds) > 1 {
		cond = expression.And(conds[0], conds[1], conds[2:]...)
	}

	return expression.NewBuilder().WithFilter(cond).Build()
}

// updateExpression builds "SET a = :a, b = :b" guarded by attribute_exists(id).
// Field order is sorted so the expression is deterministic.
func updateExpression(fields repository.Fields) (expression.Expression, error) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	update := expression.Set(expression.Name(names[0]), expression.Value(fields[names[0]]))
	for _, name := range names[1:] {
		update = update.Set(expression.Name(name), expression.Value(fields[name]))
	}

	return expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.AttributeExists(expression.Name(domain.AttrID))).
		Build()
}

// decodeRecord reads the known attributes off a raw item. Items that do not
// fit the Record shape (for example a price stored as a number) are read
// attribute by attribute so one odd item cannot fail a whole page.
func decodeRecord(item map[string]types.AttributeValue) domain.Record {
	var record domain.Record
	if err := attributevalue.UnmarshalMap(item, &record); err == nil {
		return record
	}

	return domain.Record{
		ID:          stringAttr(item, domain.AttrID),
		ItemName:    stringAttr(item, domain.AttrItemName),
		Category:    stringAttr(item, domain.AttrCategory),
		Price:       stringAttr(item, domain.AttrPrice),
		LastUpdated: stringAttr(item, domain.AttrLastUpdated),
	}
}

func stringAttr(item map[string]types.AttributeValue, name string) string {
	switch v := item[name].(type) {
	case *types.AttributeValueMemberS:
		return v.Value
	case *types.AttributeValueMemberN:
		return v.Value
	default:
		return ""
	}
}

// storageError classifies an SDK error as a storage failure, keeping the
// service error code when there is one.
func storageError(op string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return appErrors.NewStorage(fmt.Sprintf("dynamodb %s: %s", op, apiErr.ErrorCode()), err)
	}
	return appErrors.NewStorage(fmt.Sprintf("dynamodb %s", op), err)
}
