package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/example/inventory-api/internal/domain/inventory"
)

// DynamoAPI is the part of the DynamoDB client the inventory store uses.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoInventoryStore keeps one DynamoDB item per user, keyed by user_id.
// Writes are conditional on the version read, so a concurrent writer makes
// the loser retry instead of overwriting.
type DynamoInventoryStore struct {
	client    DynamoAPI
	tableName string
}

// dynamoInventory represents the DynamoDB item structure
type dynamoInventory struct {
	UserID  int64  `dynamodbav:"user_id"`
	Items   string `dynamodbav:"items"`
	Version int64  `dynamodbav:"version"`
}

func NewDynamoInventoryStore(client DynamoAPI, tableName string) *DynamoInventoryStore {
	return &DynamoInventoryStore{client: client, tableName: tableName}
}

// ConnectDynamo builds a client from the default AWS credential chain. A
// non-empty endpoint overrides the service URL, e.g. for DynamoDB Local.
func ConnectDynamo(ctx context.Context, region, endpoint string) (*dynamodb.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}

func userKey(userID int64) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"user_id": &types.AttributeValueMemberN{Value: strconv.FormatInt(userID, 10)},
	}
}

// load returns the user's items and the stored version. A missing inventory
// yields ErrInventoryNotFound.
func (s *DynamoInventoryStore) load(ctx context.Context, userID int64) ([]inventory.Item, int64, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            userKey(userID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get inventory: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, 0, inventory.ErrInventoryNotFound
	}

	var record dynamoInventory
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		return nil, 0, fmt.Errorf("failed to unmarshal inventory: %w", err)
	}

	items := []inventory.Item{}
	if err := json.Unmarshal([]byte(record.Items), &items); err != nil {
		return nil, 0, fmt.Errorf("failed to decode items: %w", err)
	}
	return items, record.Version, nil
}

// save writes items as version+1, provided the stored version is still
// version (zero meaning the item must not exist yet).
func (s *DynamoInventoryStore) save(ctx context.Context, userID int64, items []inventory.Item, version int64) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode items: %w", err)
	}

	av, err := attributevalue.MarshalMap(dynamoInventory{
		UserID:  userID,
		Items:   string(data),
		Version: version + 1,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal inventory: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	}
	if version == 0 {
		input.ConditionExpression = aws.String("attribute_not_exists(user_id)")
	} else {
		input.ConditionExpression = aws.String("version = :v")
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberN{Value: strconv.FormatInt(version, 10)},
		}
	}

	_, err = s.client.PutItem(ctx, input)
	return err
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

func (s *DynamoInventoryStore) mutate(ctx context.Context, userID int64, create bool, fn func([]inventory.Item) ([]inventory.Item, error)) error {
	for i := 0; i < maxTxRetries; i++ {
		items, version, err := s.load(ctx, userID)
		if errors.Is(err, inventory.ErrInventoryNotFound) && create {
			items, version, err = []inventory.Item{}, 0, nil
		}
		if err != nil {
			return err
		}

		items, err = fn(items)
		if err != nil {
			return err
		}

		err = s.save(ctx, userID, items, version)
		if isConditionFailed(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to put inventory: %w", err)
		}
		return nil
	}
	return ErrTxConflict
}

func (s *DynamoInventoryStore) Get(ctx context.Context, userID int64) ([]inventory.Item, error) {
	items, _, err := s.load(ctx, userID)
	return items, err
}

func (s *DynamoInventoryStore) Add(ctx context.Context, userID int64, item inventory.Item) (inventory.Item, error) {
	err := s.mutate(ctx, userID, true, func(items []inventory.Item) ([]inventory.Item, error) {
		return inventory.AppendItem(items, item)
	})
	if err != nil {
		return inventory.Item{}, err
	}
	return item, nil
}

func (s *DynamoInventoryStore) UpdateQuantity(ctx context.Context, userID, itemID int64, quantity int) (inventory.Item, error) {
	var updated inventory.Item
	err := s.mutate(ctx, userID, false, func(items []inventory.Item) ([]inventory.Item, error) {
		var err error
		updated, err = inventory.SetQuantity(items, itemID, quantity)
		return items, err
	})
	if err != nil {
		return inventory.Item{}, err
	}
	return updated, nil
}

func (s *DynamoInventoryStore) Delete(ctx context.Context, userID, itemID int64) error {
	return s.mutate(ctx, userID, false, func(items []inventory.Item) ([]inventory.Item, error) {
		return inventory.RemoveItem(items, itemID)
	})
}
