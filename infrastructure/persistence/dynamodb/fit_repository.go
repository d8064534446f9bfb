package dynamodb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"supramolecular/application/ports"
	"supramolecular/domain/core/entities"
	"supramolecular/domain/core/valueobjects"
	pkgerrors "supramolecular/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// FitRepository implements ports.FitRepository using DynamoDB
type FitRepository struct {
	client API
	config Config
	logger *zap.Logger
}

// NewFitRepository creates a new FitRepository
func NewFitRepository(client API, cfg Config, logger *zap.Logger) *FitRepository {
	return &FitRepository{
		client: client,
		config: cfg,
		logger: logger,
	}
}

// fitItem represents the DynamoDB item structure for a fit
type fitItem struct {
	PK          string      `dynamodbav:"PK"`
	SK          string      `dynamodbav:"SK"`
	GSI1PK      string      `dynamodbav:"GSI1PK"`
	GSI1SK      string      `dynamodbav:"GSI1SK"`
	EntityType  string      `dynamodbav:"EntityType"`
	FitID       string      `dynamodbav:"FitID"`
	DataID      string      `dynamodbav:"DataID"`
	Name        string      `dynamodbav:"Name"`
	Notes       string      `dynamodbav:"Notes"`
	Fitter      string      `dynamodbav:"Fitter"`
	ParamsGuess []float64   `dynamodbav:"ParamsGuess"`
	Params      []float64   `dynamodbav:"Params"`
	Y           [][]float64 `dynamodbav:"Y"`
	Coeffs      [][]float64 `dynamodbav:"Coeffs"`
	RSS         float64     `dynamodbav:"RSS"`
	CreatedAt   string      `dynamodbav:"CreatedAt"`
}

// Save persists a new fit
func (r *FitRepository) Save(ctx context.Context, fit *entities.Fit) error {
	ctx, cancel := withTimeout(ctx, r.config.RequestTimeout)
	defer cancel()

	created := fit.CreatedAt().UTC().Format(timeLayout)
	item := fitItem{
		PK:          fitPK(fit.ID().String()),
		SK:          metadataSK,
		GSI1PK:      dataFitsPK(fit.DataID().String()),
		GSI1SK:      created + "#" + fit.ID().String(),
		EntityType:  entityFit,
		FitID:       fit.ID().String(),
		DataID:      fit.DataID().String(),
		Name:        fit.Name(),
		Notes:       fit.Notes(),
		Fitter:      fit.Fitter().String(),
		ParamsGuess: fit.ParamsGuess(),
		Params:      fit.Params(),
		Y:           fit.Y(),
		Coeffs:      fit.Coeffs(),
		RSS:         fit.RSS(),
		CreatedAt:   created,
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal fit: %w", err)
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
			return pkgerrors.NewConflictError("fit already exists")
		}
		return pkgerrors.NewDatabaseError("save fit", err)
	}
	return nil
}

// GetByID retrieves a fit
func (r *FitRepository) GetByID(ctx context.Context, id valueobjects.FitID) (*entities.Fit, error) {
	ctx, cancel := withTimeout(ctx, r.config.RequestTimeout)
	defer cancel()

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.config.TableName),
		Key:       keyOf(fitPK(id.String())),
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get fit", err)
	}
	if len(out.Item) == 0 {
		return nil, pkgerrors.NewNotFoundError("fit")
	}
	return r.unmarshalFit(out.Item)
}

// List returns fits newest first. A DataID filter queries GSI1; an
// unfiltered listing scans the fit items.
func (r *FitRepository) List(ctx context.Context, filter ports.FitFilter) ([]*entities.Fit, error) {
	ctx, cancel := withTimeout(ctx, r.config.RequestTimeout)
	defer cancel()

	var items []map[string]types.AttributeValue
	var err error
	if !filter.DataID.IsZero() {
		items, err = r.queryByData(ctx, filter)
	} else {
		items, err = r.scanAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	fits := make([]*entities.Fit, 0, len(items))
	for _, av := range items {
		fit, err := r.unmarshalFit(av)
		if err != nil {
			r.logger.Warn("Skipping unreadable fit item", zap.Error(err))
			continue
		}
		fits = append(fits, fit)
	}

	sort.SliceStable(fits, func(i, j int) bool {
		return fits[i].CreatedAt().After(fits[j].CreatedAt())
	})
	if filter.Limit > 0 && len(fits) > filter.Limit {
		fits = fits[:filter.Limit]
	}
	return fits, nil
}

func (r *FitRepository) queryByData(ctx context.Context, filter ports.FitFilter) ([]map[string]types.AttributeValue, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(dataFitsPK(filter.DataID.String())))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build key condition: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.config.TableName),
		IndexName:                 aws.String(r.config.GSI1IndexName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(false),
	}
	if filter.Limit > 0 {
		input.Limit = aws.Int32(int32(filter.Limit))
	}

	out, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("query fits", err)
	}
	return out.Items, nil
}

func (r *FitRepository) scanAll(ctx context.Context) ([]map[string]types.AttributeValue, error) {
	expr, err := expression.NewBuilder().
		WithFilter(expression.Name("EntityType").Equal(expression.Value(entityFit))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build filter: %w", err)
	}

	var items []map[string]types.AttributeValue
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:                 aws.String(r.config.TableName),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, pkgerrors.NewDatabaseError("scan fits", err)
		}
		items = append(items, out.Items...)
		if len(out.LastEvaluatedKey) == 0 {
			return items, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// Delete removes a fit
func (r *FitRepository) Delete(ctx context.Context, id valueobjects.FitID) error {
	ctx, cancel := withTimeout(ctx, r.config.RequestTimeout)
	defer cancel()

	cond, err := expression.NewBuilder().
		WithCondition(expression.AttributeExists(expression.Name("PK"))).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build condition: %w", err)
	}

	_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(r.config.TableName),
		Key:                      keyOf(fitPK(id.String())),
		ConditionExpression:      cond.Condition(),
		ExpressionAttributeNames: cond.Names(),
	})
	if err != nil {
		if isConditionFailed(err) {
			return pkgerrors.NewNotFoundError("fit")
		}
		return pkgerrors.NewDatabaseError("delete fit", err)
	}
	return nil
}

func (r *FitRepository) unmarshalFit(av map[string]types.AttributeValue) (*entities.Fit, error) {
	var item fitItem
	if err := attributevalue.UnmarshalMap(av, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal fit: %w", err)
	}

	id, err := valueobjects.NewFitIDFromString(item.FitID)
	if err != nil {
		return nil, fmt.Errorf("stored fit ID: %w", err)
	}
	dataID, err := valueobjects.NewDataIDFromString(item.DataID)
	if err != nil {
		return nil, fmt.Errorf("stored data ID: %w", err)
	}
	createdAt, err := time.Parse(timeLayout, item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fit timestamp: %w", err)
	}

	return entities.ReconstructFit(
		id,
		entities.FitMetadata{Name: item.Name, Notes: item.Notes},
		dataID,
		valueobjects.FitterName(item.Fitter),
		item.ParamsGuess,
		entities.FitOutcome{Params: item.Params, Y: item.Y, Coeffs: item.Coeffs, RSS: item.RSS},
		createdAt,
	)
}
