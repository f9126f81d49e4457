package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/playroom-api/internal/domain"
)

// FollowRepo provides typed DynamoDB operations for the follows table.
// The follow_id partition key is the deterministic pair followerID_followeeID,
// so a duplicate follow overwrites itself and unfollow needs no query.
type FollowRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewFollowRepo(client *dynamodb.Client, tableName string) *FollowRepo {
	return &FollowRepo{client: client, tableName: tableName}
}

// FollowID derives the deterministic partition key for a follow edge.
func FollowID(followerID, followeeID string) string {
	return followerID + "_" + followeeID
}

func (r *FollowRepo) Put(ctx context.Context, f *domain.Follow) error {
	item, err := attributevalue.MarshalMap(f)
	if err != nil {
		return fmt.Errorf("marshal follow: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *FollowRepo) Get(ctx context.Context, followID string) (*domain.Follow, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("follow_id", followID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("follow %s: %w", followID, domain.ErrNotFound)
	}
	var f domain.Follow
	if err := attributevalue.UnmarshalMap(out.Item, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FollowRepo) Delete(ctx context.Context, followID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("follow_id", followID),
	})
	return err
}

// ListFollowers queries the followee_id GSI: everyone following the given user.
func (r *FollowRepo) ListFollowers(ctx context.Context, followeeID string) ([]domain.Follow, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("followee_id-index"),
		KeyConditionExpression: aws.String("followee_id = :fid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":fid": &types.AttributeValueMemberS{Value: followeeID},
		},
	})
	if err != nil {
		return nil, err
	}
	var follows []domain.Follow
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &follows); err != nil {
		return nil, err
	}
	return follows, nil
}
