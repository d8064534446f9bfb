// Package dynamodb stores datasets and fits in a single DynamoDB table.
//
// Items:
//
//	PK=DATA#<dataID>  SK=METADATA                                 dataset
//	PK=FIT#<fitID>    SK=METADATA  GSI1PK=DATAFITS#<dataID>        fit
//	                               GSI1SK=<createdAt>#<fitID>
package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// API is the subset of the DynamoDB client the repositories use
type API interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

const (
	metadataSK     = "METADATA"
	entityDataset  = "DATA"
	entityFit      = "FIT"
	timeLayout     = "2006-01-02T15:04:05.000000000Z"
	dataPrefix     = "DATA#"
	fitPrefix      = "FIT#"
	dataFitsPrefix = "DATAFITS#"
)

// Config holds the table settings
type Config struct {
	TableName      string
	GSI1IndexName  string
	RequestTimeout time.Duration
}

func dataPK(id string) string     { return dataPrefix + id }
func fitPK(id string) string      { return fitPrefix + id }
func dataFitsPK(id string) string { return dataFitsPrefix + id }

func keyOf(pk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: pk},
		"SK": &types.AttributeValueMemberS{Value: metadataSK},
	}
}

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

// Ping checks the table is reachable
func ping(ctx context.Context, client API, table string) error {
	out, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(table)})
	if err != nil {
		return fmt.Errorf("failed to describe table %s: %w", table, err)
	}
	if out.Table != nil && out.Table.TableStatus != types.TableStatusActive && out.Table.TableStatus != types.TableStatusUpdating {
		return fmt.Errorf("table %s is %s", table, out.Table.TableStatus)
	}
	return nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
