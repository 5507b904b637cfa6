package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/funfans/funfans-api/internal/domain"
)

// SupportMessageRepo provides insert and read access to the support messages
// table. Messages are never updated or deleted here.
type SupportMessageRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewSupportMessageRepo(client *dynamodb.Client, tableName string) *SupportMessageRepo {
	return &SupportMessageRepo{client: client, tableName: tableName}
}

func (r *SupportMessageRepo) Put(ctx context.Context, m *domain.SupportMessage) error {
	item, err := attributevalue.MarshalMap(m)
	if err != nil {
		return fmt.Errorf("marshal support message: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// ListByUser returns a user's messages in creation order via the
// user_id-created_at-index GSI.
func (r *SupportMessageRepo) ListByUser(ctx context.Context, userID string) ([]domain.SupportMessage, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("user_id-created_at-index"),
		KeyConditionExpression: aws.String("user_id = :v"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, err
	}
	var msgs []domain.SupportMessage
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// Scan returns all messages. Staff-only listing; volume is low enough that a
// table scan is acceptable.
func (r *SupportMessageRepo) Scan(ctx context.Context) ([]domain.SupportMessage, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, err
	}
	var msgs []domain.SupportMessage
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}
