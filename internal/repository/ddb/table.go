package ddb

import (
	"context"
	"errors"
	"time"

	"inventory-api/internal/domain"
	appErrors "inventory-api/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// TableClient is the subset of the DynamoDB API used to bootstrap the table.
type TableClient interface {
	dynamodb.DescribeTableAPIClient
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// TableSpec describes the inventory table.
type TableSpec struct {
	TableName   string
	IndexName   string
	Environment string
	// WaitTimeout bounds how long to wait for a new table to become active.
	WaitTimeout time.Duration
}

// EnsureTable creates the inventory table and its name index when the table
// does not exist yet. An existing table is left untouched.
func EnsureTable(ctx context.Context, client TableClient, spec TableSpec, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	_, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(spec.TableName)})
	if err == nil {
		logger.Info("Using existing table", zap.String("table", spec.TableName))
		return nil
	}

	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return storageError("DescribeTable", err)
	}

	logger.Info("Creating table",
		zap.String("table", spec.TableName),
		zap.String("index", spec.IndexName),
	)

	if _, err := client.CreateTable(ctx, createTableInput(spec)); err != nil {
		var inUse *types.ResourceInUseException
		if !errors.As(err, &inUse) {
			return storageError("CreateTable", err)
		}
		// Another instance won the race; wait for its table below.
	}

	wait := spec.WaitTimeout
	if wait <= 0 {
		wait = 2 * time.Minute
	}

	waiter := dynamodb.NewTableExistsWaiter(client)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(spec.TableName)}, wait); err != nil {
		return appErrors.NewStorage("table did not become active", err)
	}

	logger.Info("Table ready", zap.String("table", spec.TableName))
	return nil
}

func createTableInput(spec TableSpec) *dynamodb.CreateTableInput {
	return &dynamodb.CreateTableInput{
		TableName: aws.String(spec.TableName),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(domain.AttrID), KeyType: types.KeyTypeHash},
		},
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(domain.AttrID), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String(domain.AttrItemName), AttributeType: types.ScalarAttributeTypeS},
		},
		BillingMode: types.BillingModePayPerRequest,
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			{
				IndexName: aws.String(spec.IndexName),
				KeySchema: []types.KeySchemaElement{
					{AttributeName: aws.String(domain.AttrItemName), KeyType: types.KeyTypeHash},
				},
				Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
			},
		},
		Tags: []types.Tag{
			{Key: aws.String("Environment"), Value: aws.String(spec.Environment)},
		},
	}
}
