package prefs

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/pkg/errors"
)

// NewDynamoStore returns a Store keeping entries in table, which must have the
// string hash key "name" and the string range key "key".
func NewDynamoStore(db dynamodbiface.DynamoDBAPI, table string, name string) *DynamoStore {
	if name == "" {
		name = DefaultName
	}
	return &DynamoStore{db: db, table: table, name: name}
}

// DynamoStore keeps one item per entry so several machines can share a counter.
type DynamoStore struct {
	db    dynamodbiface.DynamoDBAPI
	table string
	name  string
}

type dynamoItem struct {
	Name  string `dynamodbav:"name"`
	Key   string `dynamodbav:"key"`
	Value int    `dynamodbav:"value"`
}

func (d *DynamoStore) itemKey(key string) (map[string]*dynamodb.AttributeValue, error) {
	return dynamodbattribute.MarshalMap(struct {
		Name string `dynamodbav:"name"`
		Key  string `dynamodbav:"key"`
	}{Name: d.name, Key: key})
}

func (d *DynamoStore) GetInt(ctx context.Context, key string) (int, bool, error) {
	k, err := d.itemKey(key)
	if err != nil {
		return 0, false, errors.Wrap(err, "marshal dynamodb key")
	}

	out, err := d.db.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(d.table),
		Key:            k,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return 0, false, errors.Wrapf(err, "get item from %s", d.table)
	}
	if len(out.Item) == 0 {
		return 0, false, nil
	}

	var item dynamoItem
	if err = dynamodbattribute.UnmarshalMap(out.Item, &item); err != nil {
		return 0, false, errors.Wrap(err, "unmarshal dynamodb item")
	}
	return item.Value, true, nil
}

func (d *DynamoStore) PutInt(ctx context.Context, key string, v int) error {
	item, err := dynamodbattribute.MarshalMap(dynamoItem{Name: d.name, Key: key, Value: v})
	if err != nil {
		return errors.Wrap(err, "marshal dynamodb item")
	}

	_, err = d.db.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item:      item,
	})
	return errors.Wrapf(err, "put item into %s", d.table)
}
