package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/memberhub/memberhub/internal/models"
	"github.com/sirupsen/logrus"
)

// DynamoDBAPI is the subset of the DynamoDB client the session store uses.
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

type DynamoDBSessionRepository struct {
	client    DynamoDBAPI
	tableName string
	logger    *logrus.Logger
}

func NewDynamoDBSessionRepository(client DynamoDBAPI, tableName string, logger *logrus.Logger) *DynamoDBSessionRepository {
	return &DynamoDBSessionRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

func sessionItemKey(id string) map[string]types.AttributeValue {
	s := models.SignupSession{ID: id}
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: s.GetPK()},
		"SK": &types.AttributeValueMemberS{Value: s.GetSK()},
	}
}

// Save stores the session with a TTL attribute so DynamoDB expires it. Form
// secrets are never written.
func (r *DynamoDBSessionRepository) Save(ctx context.Context, session *models.SignupSession) error {
	item, err := attributevalue.MarshalMap(session.Redacted())
	if err != nil {
		return fmt.Errorf("failed to marshal signup session: %w", err)
	}

	item["PK"] = &types.AttributeValueMemberS{Value: session.GetPK()}
	item["SK"] = &types.AttributeValueMemberS{Value: session.GetSK()}
	item["TTL"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", session.ExpiresAt.Unix())}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		r.logger.WithError(err).Error("Failed to store signup session in DynamoDB")
		return fmt.Errorf("failed to store signup session: %w", err)
	}

	return nil
}

// Get treats an item past its expiry as missing; TTL deletion runs lazily.
func (r *DynamoDBSessionRepository) Get(ctx context.Context, id string) (*models.SignupSession, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            sessionItemKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get signup session: %w", err)
	}

	if result.Item == nil {
		return nil, models.ErrSessionNotFound
	}

	var session models.SignupSession
	if err := attributevalue.UnmarshalMap(result.Item, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal signup session: %w", err)
	}

	if session.Expired(time.Now()) {
		return nil, models.ErrSessionNotFound
	}

	return &session, nil
}

func (r *DynamoDBSessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       sessionItemKey(id),
	})
	if err != nil {
		return fmt.Errorf("failed to delete signup session: %w", err)
	}

	return nil
}
