package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/premOFbounteous/backFinal/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrProductNotFound = errors.New("product not found")

// ProductQuery drives the paged catalog listing. SortOrder is 1 or -1,
// mirroring Mongo sort directions.
type ProductQuery struct {
	Category  string
	SortField string
	SortOrder int
	Skip      int64
	Limit     int64
}

type ProductRepository interface {
	FindByProductID(ctx context.Context, productID int64) (*domain.Product, error)
	FindByProductIDs(ctx context.Context, productIDs []int64) ([]domain.Product, error)
	FindByTitles(ctx context.Context, titles []string) ([]domain.Product, error)
	FindByVendor(ctx context.Context, vendorID string) ([]domain.Product, error)
	List(ctx context.Context, q ProductQuery) ([]domain.Product, int64, error)
	SearchText(ctx context.Context, searchStr string, skip, limit int64) ([]domain.Product, int64, error)
	Categories(ctx context.Context) ([]string, error)
	CatalogSummaries(ctx context.Context) ([]domain.ProductSummary, error)
	Insert(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, vendorID string, productID int64, fields map[string]interface{}) error
	Delete(ctx context.Context, vendorID string, productID int64) error
	NextProductID(ctx context.Context) (int64, error)
	DecrementStock(ctx context.Context, productID int64, quantity int) error
}

type productRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) ProductRepository {
	return &productRepository{collection: db.Collection("ecommerce")}
}

func (r *productRepository) FindByProductID(ctx context.Context, productID int64) (*domain.Product, error) {
	var product domain.Product

	err := r.collection.FindOne(ctx, bson.M{"id": productID}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product %d: %w", productID, err)
	}

	return &product, nil
}

func (r *productRepository) FindByProductIDs(ctx context.Context, productIDs []int64) ([]domain.Product, error) {
	return r.findAll(ctx, bson.M{"id": bson.M{"$in": productIDs}}, nil)
}

func (r *productRepository) FindByTitles(ctx context.Context, titles []string) ([]domain.Product, error) {
	return r.findAll(ctx, bson.M{"title": bson.M{"$in": titles}}, nil)
}

func (r *productRepository) FindByVendor(ctx context.Context, vendorID string) ([]domain.Product, error) {
	return r.findAll(ctx, bson.M{"vendorId": vendorID}, nil)
}

func (r *productRepository) List(ctx context.Context, q ProductQuery) ([]domain.Product, int64, error) {
	filter := bson.M{}
	if q.Category != "" {
		filter["category"] = q.Category
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: q.SortField, Value: q.SortOrder}}).
		SetSkip(q.Skip).
		SetLimit(q.Limit)

	products, err := r.findAll(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *productRepository) SearchText(ctx context.Context, searchStr string, skip, limit int64) ([]domain.Product, int64, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"title": bson.M{"$regex": searchStr, "$options": "i"}},
		bson.M{"description": bson.M{"$regex": searchStr, "$options": "i"}},
	}}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count search results: %w", err)
	}

	opts := options.Find().SetSkip(skip).SetLimit(limit)
	products, err := r.findAll(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *productRepository) Categories(ctx context.Context) ([]string, error) {
	values, err := r.collection.Distinct(ctx, "category", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	categories := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			categories = append(categories, s)
		}
	}
	return categories, nil
}

func (r *productRepository) CatalogSummaries(ctx context.Context) ([]domain.ProductSummary, error) {
	opts := options.Find().SetProjection(bson.M{"id": 1, "title": 1, "brand": 1, "category": 1})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog summaries: %w", err)
	}

	var summaries []domain.ProductSummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("failed to decode catalog summaries: %w", err)
	}
	return summaries, nil
}

func (r *productRepository) Insert(ctx context.Context, product *domain.Product) error {
	if _, err := r.collection.InsertOne(ctx, product); err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

// Update applies the given fields to a product, scoped to the owning vendor so
// one vendor can never edit another's listing.
func (r *productRepository) Update(ctx context.Context, vendorID string, productID int64, fields map[string]interface{}) error {
	filter := bson.M{"id": productID, "vendorId": vendorID}

	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update product %d: %w", productID, err)
	}
	if result.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, vendorID string, productID int64) error {
	filter := bson.M{"id": productID, "vendorId": vendorID}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete product %d: %w", productID, err)
	}
	if result.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

// NextProductID allocates the next catalog id by looking at the current
// maximum. Vendor product creation is rare enough that the race window is
// acceptable.
func (r *productRepository) NextProductID(ctx context.Context) (int64, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "id", Value: -1}}).SetProjection(bson.M{"id": 1})

	var top struct {
		ProductID int64 `bson:"id"`
	}
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&top)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 1, nil
		}
		return 0, fmt.Errorf("failed to find max product id: %w", err)
	}
	return top.ProductID + 1, nil
}

// DecrementStock debits stock unconditionally. Quantities were validated at
// checkout time; stock may go negative if it changed between checkout and
// payment, which is the documented trade-off of the finalization policy.
func (r *productRepository) DecrementStock(ctx context.Context, productID int64, quantity int) error {
	filter := bson.M{"id": productID}
	update := bson.M{"$inc": bson.M{"stock": -quantity}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to decrement stock for product %d: %w", productID, err)
	}
	if result.MatchedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *productRepository) findAll(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Product, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = r.collection.Find(ctx, filter, opts)
	} else {
		cursor, err = r.collection.Find(ctx, filter)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	var products []domain.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}
