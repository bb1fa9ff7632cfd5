package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// API is the subset of the DynamoDB client used by KeyValueStore
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// KeyValueStore keeps durable storage in a DynamoDB table, one item per key
// under a per-namespace partition.
type KeyValueStore struct {
	client    API
	tableName string
	namespace string
	logger    *zap.Logger
}

// kvItem represents the DynamoDB item structure for a stored key
type kvItem struct {
	PK        string `dynamodbav:"PK"`
	SK        string `dynamodbav:"SK"`
	Value     string `dynamodbav:"Value"`
	UpdatedAt string `dynamodbav:"UpdatedAt"`
}

// NewKeyValueStore creates a store over tableName. namespace scopes keys,
// typically to one user or deployment.
func NewKeyValueStore(client API, tableName, namespace string, logger *zap.Logger) *KeyValueStore {
	if namespace == "" {
		namespace = "default"
	}
	return &KeyValueStore{
		client:    client,
		tableName: tableName,
		namespace: namespace,
		logger:    logger,
	}
}

func (s *KeyValueStore) itemKey(key string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("STORE#%s", s.namespace)},
		"SK": &types.AttributeValueMemberS{Value: fmt.Sprintf("KEY#%s", key)},
	}
}

// GetItem retrieves a value
func (s *KeyValueStore) GetItem(ctx context.Context, key string) (string, bool, error) {
	expr, err := expression.NewBuilder().
		WithProjection(expression.NamesList(expression.Name("Value"))).
		Build()
	if err != nil {
		return "", false, fmt.Errorf("failed to build projection: %w", err)
	}

	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:                aws.String(s.tableName),
		Key:                      s.itemKey(key),
		ConsistentRead:           aws.Bool(true),
		ProjectionExpression:     expr.Projection(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		s.logger.Error("Failed to get item from DynamoDB",
			zap.String("key", key),
			zap.Error(err),
		)
		return "", false, fmt.Errorf("failed to get item: %w", err)
	}
	if out == nil || len(out.Item) == 0 {
		return "", false, nil
	}

	var item kvItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return "", false, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return item.Value, true, nil
}

// SetItem stores a value
func (s *KeyValueStore) SetItem(ctx context.Context, key, value string) error {
	item := kvItem{
		PK:        fmt.Sprintf("STORE#%s", s.namespace),
		SK:        fmt.Sprintf("KEY#%s", key),
		Value:     value,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	}); err != nil {
		s.logger.Error("Failed to put item to DynamoDB",
			zap.String("key", key),
			zap.Error(err),
		)
		return fmt.Errorf("failed to put item: %w", err)
	}
	return nil
}

// RemoveItem deletes a value
func (s *KeyValueStore) RemoveItem(ctx context.Context, key string) error {
	if _, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key:       s.itemKey(key),
	}); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}
