// Package dynamo implements the document store on DynamoDB, one table per
// collection keyed by "id".
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/newrelic/go-agent/v3/newrelic"

	"livestock/internal/docstore"
)

const keyAttribute = "id"

// DefaultIndexes lists the global secondary indexes ("<field>-index") the
// application queries through. Fields without an index fall back to a
// filtered scan.
var DefaultIndexes = map[string][]string{
	docstore.CollectionJobs:          {"status", "transporter_id"},
	docstore.CollectionNotifications: {"user_id"},
	docstore.CollectionEarnings:      {"transporter_id"},
	docstore.CollectionUsers:         {"phone"},
}

// API is the subset of the DynamoDB client the store needs.
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

var _ API = (*dynamodb.Client)(nil)

// Store is a DynamoDB implementation of docstore.Store.
type Store struct {
	ddb         API
	tablePrefix string
	indexes     map[string][]string
}

// NewStore creates a DynamoDB document store. Table names are
// tablePrefix + collection.
func NewStore(ddb API, tablePrefix string, indexes map[string][]string) *Store {
	if indexes == nil {
		indexes = DefaultIndexes
	}
	return &Store{ddb: ddb, tablePrefix: tablePrefix, indexes: indexes}
}

// TableName returns the table backing a collection.
func (s *Store) TableName(collection string) string {
	return s.tablePrefix + collection
}

// Get decodes the document into out.
func (s *Store) Get(ctx context.Context, collection, id string, out any) error {
	defer s.segment(ctx, collection, "GetItem").End()

	res, err := s.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.TableName(collection)),
		Key:            itemKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return err
	}
	if len(res.Item) == 0 {
		return docstore.ErrNotFound
	}

	return attributevalue.UnmarshalMap(res.Item, out)
}

// Create stores doc under id.
func (s *Store) Create(ctx context.Context, collection, id string, doc any) error {
	defer s.segment(ctx, collection, "PutItem").End()

	av, err := attributevalue.MarshalMap(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	av[keyAttribute] = &types.AttributeValueMemberS{Value: id}

	_, err = s.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.TableName(collection)),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": keyAttribute,
		},
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return docstore.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update merges fields into the top level of the document.
func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]any, conds ...docstore.Condition) error {
	if len(fields) == 0 {
		return nil
	}

	seg := s.segment(ctx, collection, "UpdateItem")
	input, err := buildUpdate(s.TableName(collection), id, fields, conds)
	if err != nil {
		seg.End()
		return err
	}

	_, err = s.ddb.UpdateItem(ctx, input)
	seg.End()
	if err == nil {
		return nil
	}

	var cfe *types.ConditionalCheckFailedException
	if !errors.As(err, &cfe) {
		return err
	}
	if len(conds) == 0 {
		return docstore.ErrNotFound
	}

	// Tell a missing document apart from a failed condition.
	var probe map[string]any
	if err := s.Get(ctx, collection, id, &probe); err != nil {
		return err
	}
	return docstore.ErrConflict
}

// Query decodes every document whose field equals value into out.
func (s *Store) Query(ctx context.Context, collection, field string, value any, out any) error {
	table := s.TableName(collection)

	if s.hasIndex(collection, field) {
		defer s.segment(ctx, collection, "Query").End()
		items, err := s.queryIndex(ctx, table, field, value)
		if err != nil {
			return err
		}
		return attributevalue.UnmarshalListOfMaps(items, out)
	}

	defer s.segment(ctx, collection, "Scan").End()
	items, err := s.scan(ctx, table, field, value)
	if err != nil {
		return err
	}
	return attributevalue.UnmarshalListOfMaps(items, out)
}

func (s *Store) queryIndex(ctx context.Context, table, field string, value any) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	var startKey map[string]types.AttributeValue

	for {
		res, err := s.ddb.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(table),
			IndexName:              aws.String(IndexName(field)),
			KeyConditionExpression: aws.String("#k = :v"),
			ExpressionAttributeNames: map[string]string{
				"#k": field,
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":v": &types.AttributeValueMemberS{Value: docstore.ValueString(value)},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, err
		}
		items = append(items, res.Items...)
		if len(res.LastEvaluatedKey) == 0 {
			return items, nil
		}
		startKey = res.LastEvaluatedKey
	}
}

func (s *Store) scan(ctx context.Context, table, field string, value any) ([]map[string]types.AttributeValue, error) {
	av, err := attributevalue.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode query value: %w", err)
	}

	var items []map[string]types.AttributeValue
	var startKey map[string]types.AttributeValue

	for {
		res, err := s.ddb.Scan(ctx, &dynamodb.ScanInput{
			TableName:        aws.String(table),
			FilterExpression: aws.String("#k = :v"),
			ExpressionAttributeNames: map[string]string{
				"#k": field,
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":v": av,
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, err
		}
		items = append(items, res.Items...)
		if len(res.LastEvaluatedKey) == 0 {
			return items, nil
		}
		startKey = res.LastEvaluatedKey
	}
}

func (s *Store) hasIndex(collection, field string) bool {
	for _, f := range s.indexes[collection] {
		if f == field {
			return true
		}
	}
	return false
}

// segment records a datastore segment when the context carries a New Relic
// transaction. The returned segment is always safe to End.
func (s *Store) segment(ctx context.Context, collection, operation string) *newrelic.DatastoreSegment {
	txn := newrelic.FromContext(ctx)
	return &newrelic.DatastoreSegment{
		StartTime:  txn.StartSegmentNow(),
		Product:    newrelic.DatastoreDynamoDB,
		Collection: s.TableName(collection),
		Operation:  operation,
	}
}

// buildUpdate renders the UpdateItem request for a field merge.
func buildUpdate(table, id string, fields map[string]any, conds []docstore.Condition) (*dynamodb.UpdateItemInput, error) {
	names := map[string]string{"#id": keyAttribute}
	values := make(map[string]types.AttributeValue, len(fields)+len(conds))

	sets := make([]string, 0, len(fields))
	i := 0
	for field, value := range fields {
		av, err := attributevalue.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode field %s: %w", field, err)
		}
		name, placeholder := fmt.Sprintf("#f%d", i), fmt.Sprintf(":f%d", i)
		names[name] = field
		values[placeholder] = av
		sets = append(sets, name+" = "+placeholder)
		i++
	}

	condition := "attribute_exists(#id)"
	for j, cond := range conds {
		name, placeholder := fmt.Sprintf("#c%d", j), fmt.Sprintf(":c%d", j)
		names[name] = cond.Field
		values[placeholder] = &types.AttributeValueMemberS{Value: cond.Equals}
		condition += " AND " + name + " = " + placeholder
	}

	return &dynamodb.UpdateItemInput{
		TableName:                 aws.String(table),
		Key:                       itemKey(id),
		UpdateExpression:          aws.String("SET " + strings.Join(sets, ", ")),
		ConditionExpression:       aws.String(condition),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	}, nil
}

// IndexName returns the GSI name for a queried field.
func IndexName(field string) string {
	return field + "-index"
}

func itemKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		keyAttribute: &types.AttributeValueMemberS{Value: id},
	}
}

// Ensure Store implements docstore.Store.
var _ docstore.Store = (*Store)(nil)
