package dynamodb

import (
	"context"
	"fmt"
	"time"

	"supramolecular/domain/core/entities"
	"supramolecular/domain/core/valueobjects"
	pkgerrors "supramolecular/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"
)

// DataRepository implements ports.DataRepository using DynamoDB
type DataRepository struct {
	client API
	config Config
	logger *zap.Logger
}

// NewDataRepository creates a new DataRepository
func NewDataRepository(client API, cfg Config, logger *zap.Logger) *DataRepository {
	return &DataRepository{
		client: client,
		config: cfg,
		logger: logger,
	}
}

// dataItem represents the DynamoDB item structure for a dataset
type dataItem struct {
	PK         string      `dynamodbav:"PK"`
	SK         string      `dynamodbav:"SK"`
	EntityType string      `dynamodbav:"EntityType"`
	DataID     string      `dynamodbav:"DataID"`
	H0         []float64   `dynamodbav:"H0"`
	G0         []float64   `dynamodbav:"G0"`
	Y          [][]float64 `dynamodbav:"Y"`
	Points     int         `dynamodbav:"Points"`
	Columns    int         `dynamodbav:"Columns"`
	CreatedAt  string      `dynamodbav:"CreatedAt"`
}

// Save stores a dataset. A dataset that already exists is left untouched.
func (r *DataRepository) Save(ctx context.Context, data *entities.Dataset) error {
	ctx, cancel := withTimeout(ctx, r.config.RequestTimeout)
	defer cancel()

	item := dataItem{
		PK:         dataPK(data.ID().String()),
		SK:         metadataSK,
		EntityType: entityDataset,
		DataID:     data.ID().String(),
		H0:         data.H0(),
		G0:         data.G0(),
		Y:          data.Y(),
		Points:     data.Points(),
		Columns:    data.Columns(),
		CreatedAt:  data.CreatedAt().UTC().Format(timeLayout),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal dataset: %w", err)
	}

	cond, err := expression.NewBuilder().
		WithCondition(expression.AttributeNotExists(expression.Name("PK"))).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build condition: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.config.TableName),
		Item:                     av,
		ConditionExpression:      cond.Condition(),
		ExpressionAttributeNames: cond.Names(),
	})
	if err != nil {
		if isConditionFailed(err) {
			r.logger.Debug("Dataset already stored", zap.String("dataID", item.DataID))
			return nil
		}
		return pkgerrors.NewDatabaseError("save dataset", err)
	}
	return nil
}

// GetByID retrieves a dataset
func (r *DataRepository) GetByID(ctx context.Context, id valueobjects.DataID) (*entities.Dataset, error) {
	ctx, cancel := withTimeout(ctx, r.config.RequestTimeout)
	defer cancel()

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.config.TableName),
		Key:            keyOf(dataPK(id.String())),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get dataset", err)
	}
	if len(out.Item) == 0 {
		return nil, pkgerrors.NewNotFoundError("dataset")
	}

	var item dataItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dataset: %w", err)
	}
	createdAt, err := time.Parse(timeLayout, item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dataset timestamp: %w", err)
	}

	return entities.ReconstructDataset(id, item.H0, item.G0, item.Y, createdAt)
}

// Exists reports whether a dataset is stored
func (r *DataRepository) Exists(ctx context.Context, id valueobjects.DataID) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.config.RequestTimeout)
	defer cancel()

	proj, err := expression.NewBuilder().
		WithProjection(expression.NamesList(expression.Name("PK"))).
		Build()
	if err != nil {
		return false, fmt.Errorf("failed to build projection: %w", err)
	}

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:                aws.String(r.config.TableName),
		Key:                      keyOf(dataPK(id.String())),
		ProjectionExpression:     proj.Projection(),
		ExpressionAttributeNames: proj.Names(),
	})
	if err != nil {
		return false, pkgerrors.NewDatabaseError("check dataset", err)
	}
	return len(out.Item) > 0, nil
}

// Ping checks the table is reachable
func (r *DataRepository) Ping(ctx context.Context) error {
	return ping(ctx, r.client, r.config.TableName)
}
