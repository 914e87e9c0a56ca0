package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/cloud-wave-best-zizon/catalog-service/internal/domain"
	pkgconfig "github.com/cloud-wave-best-zizon/catalog-service/pkg/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DynamoAPI is the subset of the DynamoDB client used by DynamoStore.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

type Tables struct {
	Products   string
	Categories string
	Inventory  string
}

// DynamoStore keeps one table per entity, each keyed by "id".
type DynamoStore struct {
	client DynamoAPI
	tables Tables
	now    func() time.Time
}

func NewDynamoDBClient(ctx context.Context, cfg *pkgconfig.Config) (*dynamodb.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.AWSRegion)}
	if cfg.DynamoDBEndpoint != "" {
		// DynamoDB Local accepts any static credentials.
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("local", "local", ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	}), nil
}

func NewDynamoStore(client DynamoAPI, tables Tables) *DynamoStore {
	return &DynamoStore{
		client: client,
		tables: tables,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

type productRecord struct {
	ID          string                `dynamodbav:"id"`
	Name        string                `dynamodbav:"name"`
	NameLower   string                `dynamodbav:"name_lower"`
	Description string                `dynamodbav:"description,omitempty"`
	Price       attributevalue.Number `dynamodbav:"price"`
	CategoryID  string                `dynamodbav:"category_id"`
	CreatedAt   time.Time             `dynamodbav:"created_at"`
	UpdatedAt   time.Time             `dynamodbav:"updated_at"`
}

func newProductRecord(p domain.Product) productRecord {
	return productRecord{
		ID:          p.ID,
		Name:        p.Name,
		NameLower:   strings.ToLower(p.Name),
		Description: p.Description,
		Price:       attributevalue.Number(p.Price.String()),
		CategoryID:  p.CategoryID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (r productRecord) toDomain() domain.Product {
	price, err := decimal.NewFromString(string(r.Price))
	if err != nil {
		price = decimal.Zero
	}
	return domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       price,
		CategoryID:  r.CategoryID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type categoryRecord struct {
	ID          string    `dynamodbav:"id"`
	Name        string    `dynamodbav:"name"`
	Description string    `dynamodbav:"description,omitempty"`
	CreatedAt   time.Time `dynamodbav:"created_at"`
	UpdatedAt   time.Time `dynamodbav:"updated_at"`
}

func (r categoryRecord) toDomain() domain.Category {
	return domain.Category{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type inventoryRecord struct {
	ID              string    `dynamodbav:"id"`
	ProductID       string    `dynamodbav:"product_id"`
	Quantity        int       `dynamodbav:"quantity"`
	MinimumQuantity int       `dynamodbav:"minimum_quantity"`
	UpdatedAt       time.Time `dynamodbav:"updated_at"`
}

func (r inventoryRecord) toDomain() domain.Inventory {
	return domain.Inventory{
		ID:              r.ID,
		ProductID:       r.ProductID,
		Quantity:        r.Quantity,
		MinimumQuantity: r.MinimumQuantity,
		UpdatedAt:       r.UpdatedAt,
	}
}

// Products

func (s *DynamoStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.scanProducts(ctx, nil)
}

func (s *DynamoStore) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return getItem(ctx, s, s.tables.Products, id, productRecord.toDomain)
}

func (s *DynamoStore) CreateProduct(ctx context.Context, p domain.Product) (*domain.Product, error) {
	p.ID = uuid.NewString()
	p.CreatedAt = s.now()
	p.UpdatedAt = p.CreatedAt
	if err := s.putNew(ctx, s.tables.Products, newProductRecord(p)); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *DynamoStore) UpdateProduct(ctx context.Context, id string, p domain.Product) (*domain.Product, error) {
	update := expression.Set(expression.Name("name"), expression.Value(p.Name)).
		Set(expression.Name("name_lower"), expression.Value(strings.ToLower(p.Name))).
		Set(expression.Name("description"), expression.Value(p.Description)).
		Set(expression.Name("price"), expression.Value(attributevalue.Number(p.Price.String()))).
		Set(expression.Name("category_id"), expression.Value(p.CategoryID)).
		Set(expression.Name("updated_at"), expression.Value(s.now()))
	return updateItem(ctx, s, s.tables.Products, id, update, productRecord.toDomain)
}

func (s *DynamoStore) DeleteProduct(ctx context.Context, id string) error {
	return s.deleteItem(ctx, s.tables.Products, id)
}

func (s *DynamoStore) ProductsByCategoryID(ctx context.Context, categoryID string) ([]domain.Product, error) {
	filter := expression.Name("category_id").Equal(expression.Value(categoryID))
	return s.scanProducts(ctx, &filter)
}

func (s *DynamoStore) ProductsByName(ctx context.Context, fragment string) ([]domain.Product, error) {
	if fragment == "" {
		return s.scanProducts(ctx, nil)
	}
	filter := expression.Name("name_lower").Contains(strings.ToLower(fragment))
	return s.scanProducts(ctx, &filter)
}

func (s *DynamoStore) ProductsByPriceRange(ctx context.Context, min, max decimal.Decimal) ([]domain.Product, error) {
	filter := expression.Name("price").Between(
		expression.Value(attributevalue.Number(min.String())),
		expression.Value(attributevalue.Number(max.String())),
	)
	return s.scanProducts(ctx, &filter)
}

func (s *DynamoStore) scanProducts(ctx context.Context, filter *expression.ConditionBuilder) ([]domain.Product, error) {
	products, err := scan(ctx, s, s.tables.Products, filter, productRecord.toDomain)
	if err != nil {
		return nil, err
	}
	sort.Slice(products, func(i, j int) bool {
		return byNameThenID(products[i].Name, products[i].ID, products[j].Name, products[j].ID)
	})
	return products, nil
}

// Categories

func (s *DynamoStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := scan(ctx, s, s.tables.Categories, nil, categoryRecord.toDomain)
	if err != nil {
		return nil, err
	}
	sort.Slice(categories, func(i, j int) bool {
		return byNameThenID(categories[i].Name, categories[i].ID, categories[j].Name, categories[j].ID)
	})
	return categories, nil
}

func (s *DynamoStore) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	return getItem(ctx, s, s.tables.Categories, id, categoryRecord.toDomain)
}

func (s *DynamoStore) GetCategoryByName(ctx context.Context, name string) (*domain.Category, error) {
	filter := expression.Name("name").Equal(expression.Value(name))
	matches, err := scan(ctx, s, s.tables.Categories, &filter, categoryRecord.toDomain)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ErrNotFound
	}
	return &matches[0], nil
}

func (s *DynamoStore) CreateCategory(ctx context.Context, c domain.Category) (*domain.Category, error) {
	c.ID = uuid.NewString()
	c.ProductIDs = nil
	c.CreatedAt = s.now()
	c.UpdatedAt = c.CreatedAt
	record := categoryRecord{ID: c.ID, Name: c.Name, Description: c.Description, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
	if err := s.putNew(ctx, s.tables.Categories, record); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *DynamoStore) UpdateCategory(ctx context.Context, id string, c domain.Category) (*domain.Category, error) {
	update := expression.Set(expression.Name("name"), expression.Value(c.Name)).
		Set(expression.Name("description"), expression.Value(c.Description)).
		Set(expression.Name("updated_at"), expression.Value(s.now()))
	return updateItem(ctx, s, s.tables.Categories, id, update, categoryRecord.toDomain)
}

func (s *DynamoStore) DeleteCategory(ctx context.Context, id string) error {
	return s.deleteItem(ctx, s.tables.Categories, id)
}

// Inventory

func (s *DynamoStore) ListInventory(ctx context.Context) ([]domain.Inventory, error) {
	return s.scanInventory(ctx, nil)
}

func (s *DynamoStore) GetInventory(ctx context.Context, id string) (*domain.Inventory, error) {
	return getItem(ctx, s, s.tables.Inventory, id, inventoryRecord.toDomain)
}

func (s *DynamoStore) GetInventoryByProduct(ctx context.Context, productID string) (*domain.Inventory, error) {
	filter := expression.Name("product_id").Equal(expression.Value(productID))
	matches, err := s.scanInventory(ctx, &filter)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ErrNotFound
	}
	return &matches[0], nil
}

func (s *DynamoStore) LowStockInventory(ctx context.Context) ([]domain.Inventory, error) {
	filter := expression.Name("quantity").LessThanEqual(expression.Name("minimum_quantity"))
	return s.scanInventory(ctx, &filter)
}

func (s *DynamoStore) OutOfStockInventory(ctx context.Context) ([]domain.Inventory, error) {
	filter := expression.Name("quantity").Equal(expression.Value(0))
	return s.scanInventory(ctx, &filter)
}

func (s *DynamoStore) CreateInventory(ctx context.Context, inv domain.Inventory) (*domain.Inventory, error) {
	inv.ID = uuid.NewString()
	inv.Product = nil
	inv.UpdatedAt = s.now()
	record := inventoryRecord{
		ID:              inv.ID,
		ProductID:       inv.ProductID,
		Quantity:        inv.Quantity,
		MinimumQuantity: inv.MinimumQuantity,
		UpdatedAt:       inv.UpdatedAt,
	}
	if err := s.putNew(ctx, s.tables.Inventory, record); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *DynamoStore) UpdateInventory(ctx context.Context, id string, inv domain.Inventory) (*domain.Inventory, error) {
	update := expression.Set(expression.Name("product_id"), expression.Value(inv.ProductID)).
		Set(expression.Name("quantity"), expression.Value(inv.Quantity)).
		Set(expression.Name("minimum_quantity"), expression.Value(inv.MinimumQuantity)).
		Set(expression.Name("updated_at"), expression.Value(s.now()))
	return updateItem(ctx, s, s.tables.Inventory, id, update, inventoryRecord.toDomain)
}

func (s *DynamoStore) UpdateInventoryQuantity(ctx context.Context, id string, quantity int) (*domain.Inventory, error) {
	update := expression.Set(expression.Name("quantity"), expression.Value(quantity)).
		Set(expression.Name("updated_at"), expression.Value(s.now()))
	return updateItem(ctx, s, s.tables.Inventory, id, update, inventoryRecord.toDomain)
}

func (s *DynamoStore) DeleteInventory(ctx context.Context, id string) error {
	return s.deleteItem(ctx, s.tables.Inventory, id)
}

func (s *DynamoStore) scanInventory(ctx context.Context, filter *expression.ConditionBuilder) ([]domain.Inventory, error) {
	records, err := scan(ctx, s, s.tables.Inventory, filter, inventoryRecord.toDomain)
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ProductID < records[j].ProductID })
	return records, nil
}

// Table helpers

func itemKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

func getItem[R, T any](ctx context.Context, s *DynamoStore, table, id string, convert func(R) T) (*T, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key:       itemKey(id),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item from %s: %w", table, err)
	}
	if result.Item == nil {
		return nil, ErrNotFound
	}

	var record R
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s item: %w", table, err)
	}
	v := convert(record)
	return &v, nil
}

func (s *DynamoStore) putNew(ctx context.Context, table string, record any) error {
	av, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("failed to marshal %s item: %w", table, err)
	}
	expr, err := expression.NewBuilder().
		WithCondition(expression.AttributeNotExists(expression.Name("id"))).
		Build()
	if err != nil {
		return err
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(table),
		Item:                     av,
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		return fmt.Errorf("failed to put item into %s: %w", table, err)
	}
	return nil
}

// updateItem applies update only when the item exists and returns the
// item as stored afterwards.
func updateItem[R, T any](ctx context.Context, s *DynamoStore, table, id string, update expression.UpdateBuilder, convert func(R) T) (*T, error) {
	expr, err := expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.AttributeExists(expression.Name("id"))).
		Build()
	if err != nil {
		return nil, err
	}

	result, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(table),
		Key:                       itemKey(id),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update item in %s: %w", table, err)
	}

	var record R
	if err := attributevalue.UnmarshalMap(result.Attributes, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s item: %w", table, err)
	}
	v := convert(record)
	return &v, nil
}

func (s *DynamoStore) deleteItem(ctx context.Context, table, id string) error {
	expr, err := expression.NewBuilder().
		WithCondition(expression.AttributeExists(expression.Name("id"))).
		Build()
	if err != nil {
		return err
	}

	_, err = s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(table),
		Key:                      itemKey(id),
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete item from %s: %w", table, err)
	}
	return nil
}

func scan[R, T any](ctx context.Context, s *DynamoStore, table string, filter *expression.ConditionBuilder, convert func(R) T) ([]T, error) {
	input := &dynamodb.ScanInput{TableName: aws.String(table)}
	if filter != nil {
		expr, err := expression.NewBuilder().WithFilter(*filter).Build()
		if err != nil {
			return nil, err
		}
		input.FilterExpression = expr.Filter()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}

	out := make([]T, 0)
	paginator := dynamodb.NewScanPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		var records []R
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &records); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s items: %w", table, err)
		}
		for _, r := range records {
			out = append(out, convert(r))
		}
	}
	return out, nil
}
