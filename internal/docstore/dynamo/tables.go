package dynamo

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// TableCreator is the subset of the DynamoDB client used to provision tables.
type TableCreator interface {
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// CreateTables provisions one on-demand table per collection with the
// configured secondary indexes. Existing tables are left untouched.
func CreateTables(ctx context.Context, ddb TableCreator, tablePrefix string, collections []string, indexes map[string][]string) error {
	for _, collection := range collections {
		input := tableInput(tablePrefix+collection, indexes[collection])

		_, err := ddb.CreateTable(ctx, input)
		if err != nil {
			var inUse *types.ResourceInUseException
			if errors.As(err, &inUse) {
				log.Printf("[DYNAMODB] table %s already exists", *input.TableName)
				continue
			}
			return fmt.Errorf("failed to create table %s: %w", *input.TableName, err)
		}
		log.Printf("[DYNAMODB] created table %s", *input.TableName)
	}
	return nil
}

func tableInput(table string, indexFields []string) *dynamodb.CreateTableInput {
	attrs := []types.AttributeDefinition{
		{AttributeName: aws.String(keyAttribute), AttributeType: types.ScalarAttributeTypeS},
	}

	var gsis []types.GlobalSecondaryIndex
	for _, field := range indexFields {
		attrs = append(attrs, types.AttributeDefinition{
			AttributeName: aws.String(field),
			AttributeType: types.ScalarAttributeTypeS,
		})
		gsis = append(gsis, types.GlobalSecondaryIndex{
			IndexName: aws.String(IndexName(field)),
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String(field), KeyType: types.KeyTypeHash},
			},
			Projection: &types.Projection{ProjectionType: types.ProjectionTypeAll},
		})
	}

	input := &dynamodb.CreateTableInput{
		TableName:            aws.String(table),
		AttributeDefinitions: attrs,
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(keyAttribute), KeyType: types.KeyTypeHash},
		},
		BillingMode: types.BillingModePayPerRequest,
	}
	if len(gsis) > 0 {
		input.GlobalSecondaryIndexes = gsis
	}
	return input
}
