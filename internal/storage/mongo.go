package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hookahlab/gearscout/internal/config"
	"github.com/hookahlab/gearscout/internal/types"
)

// MongoStore is the MongoDB catalog store backend. Merge batches run inside
// a session transaction so a failed commit leaves the catalog untouched;
// the mergeMu serializes batch commits so overlapping (name, brand) keys
// never interleave partial writes.
type MongoStore struct {
	client   *mongo.Client
	products *mongo.Collection
	gear     *mongo.Collection
	mergeMu  sync.Mutex
	logger   *slog.Logger
}

// mongoProduct mirrors types.Product with an ObjectID primary key.
type mongoProduct struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Name              string             `bson:"name"`
	Brand             string             `bson:"brand"`
	Category          types.Category     `bson:"category"`
	Price             float64            `bson:"price"`
	ImageURL          string             `bson:"image_url,omitempty"`
	ProductURL        string             `bson:"product_url,omitempty"`
	Rating            float64            `bson:"rating"`
	ReviewCount       int                `bson:"review_count"`
	CompatibilityTags []string           `bson:"compatibility_tags"`
	SourceSite        string             `bson:"source_site"`
	CreatedAt         time.Time          `bson:"created_at,omitempty"`
	UpdatedAt         time.Time          `bson:"updated_at,omitempty"`
}

func (m *mongoProduct) toProduct() types.Product {
	return types.Product{
		ID:                m.ID.Hex(),
		Name:              m.Name,
		Brand:             m.Brand,
		Category:          m.Category,
		Price:             m.Price,
		ImageURL:          m.ImageURL,
		ProductURL:        m.ProductURL,
		Rating:            m.Rating,
		ReviewCount:       m.ReviewCount,
		CompatibilityTags: m.CompatibilityTags,
		SourceSite:        m.SourceSite,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// NewMongoStore connects to MongoDB and prepares the product collection,
// including the unique (name, brand) index backing the merge key.
func NewMongoStore(cfg *config.StorageConfig, logger *slog.Logger) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}

	products := client.Database(cfg.Database).Collection(cfg.Collection)

	_, err = products.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}, {Key: "brand", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("mongodb create index: %w", err)
	}

	return &MongoStore{
		client:   client,
		products: products,
		gear:     client.Database(cfg.Database).Collection(cfg.GearCollection),
		logger:   logger.With("component", "mongo_store"),
	}, nil
}

// Merge implements CatalogStore.
func (s *MongoStore) Merge(ctx context.Context, products []types.Product) (types.MergeReport, error) {
	s.mergeMu.Lock()
	defer s.mergeMu.Unlock()

	session, err := s.client.StartSession()
	if err != nil {
		return types.MergeReport{}, &types.MergeError{Backend: "mongodb", Err: err}
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		var report types.MergeReport
		now := time.Now()

		for i := range products {
			incoming := products[i]
			filter := bson.M{"name": incoming.Name, "brand": incoming.Brand}

			var existing mongoProduct
			err := s.products.FindOne(sc, filter).Decode(&existing)
			switch {
			case err == mongo.ErrNoDocuments:
				doc := mongoProduct{
					Name:              incoming.Name,
					Brand:             incoming.Brand,
					Category:          incoming.Category,
					Price:             incoming.Price,
					ImageURL:          incoming.ImageURL,
					ProductURL:        incoming.ProductURL,
					Rating:            incoming.Rating,
					ReviewCount:       incoming.ReviewCount,
					CompatibilityTags: incoming.CompatibilityTags,
					SourceSite:        incoming.SourceSite,
					CreatedAt:         now,
					UpdatedAt:         now,
				}
				if _, err := s.products.InsertOne(sc, doc); err != nil {
					return nil, err
				}
				report.Inserted++

			case err != nil:
				return nil, err

			default:
				updated := existing.toProduct()
				applyMutable(&updated, &incoming)
				set := bson.M{
					"price":        updated.Price,
					"image_url":    updated.ImageURL,
					"product_url":  updated.ProductURL,
					"rating":       updated.Rating,
					"review_count": updated.ReviewCount,
					"updated_at":   now,
				}
				if _, err := s.products.UpdateOne(sc, bson.M{"_id": existing.ID}, bson.M{"$set": set}); err != nil {
					return nil, err
				}
				report.Updated++
			}
		}

		return report, nil
	})
	if err != nil {
		return types.MergeReport{}, &types.MergeError{Backend: "mongodb", Err: err}
	}

	report := result.(types.MergeReport)
	s.logger.Debug("merge committed", "inserted", report.Inserted, "updated", report.Updated)
	return report, nil
}

// Products implements CatalogStore.
func (s *MongoStore) Products(ctx context.Context, filter ProductFilter) ([]types.Product, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Brand != "" {
		query["brand"] = filter.Brand
	}
	if filter.MinPrice != nil || filter.MaxPrice != nil {
		price := bson.M{}
		if filter.MinPrice != nil {
			price["$gte"] = *filter.MinPrice
		}
		if filter.MaxPrice != nil {
			price["$lte"] = *filter.MaxPrice
		}
		query["price"] = price
	}

	cursor, err := s.products.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongodb find: %w", err)
	}
	defer cursor.Close(ctx)

	var out []types.Product
	for cursor.Next(ctx) {
		var doc mongoProduct
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongodb decode: %w", err)
		}
		out = append(out, doc.toProduct())
	}
	return out, cursor.Err()
}

// ProductByID implements CatalogStore.
func (s *MongoStore) ProductByID(ctx context.Context, id string) (types.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return types.Product{}, ErrNotFound
	}

	var doc mongoProduct
	err = s.products.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return types.Product{}, ErrNotFound
	}
	if err != nil {
		return types.Product{}, fmt.Errorf("mongodb find one: %w", err)
	}
	return doc.toProduct(), nil
}

// Categories implements CatalogStore.
func (s *MongoStore) Categories(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "category")
}

// Brands implements CatalogStore.
func (s *MongoStore) Brands(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "brand")
}

// Stats implements CatalogStore.
func (s *MongoStore) Stats(ctx context.Context) (Stats, error) {
	total, err := s.products.CountDocuments(ctx, bson.M{})
	if err != nil {
		return Stats{}, fmt.Errorf("mongodb count: %w", err)
	}

	categories, err := s.distinct(ctx, "category")
	if err != nil {
		return Stats{}, err
	}
	brands, err := s.distinct(ctx, "brand")
	if err != nil {
		return Stats{}, err
	}
	sitesSeen, err := s.distinct(ctx, "source_site")
	if err != nil {
		return Stats{}, err
	}

	return Stats{
		TotalProducts: int(total),
		CategoryCount: len(categories),
		BrandCount:    len(brands),
		SiteCount:     len(sitesSeen),
	}, nil
}

// UserGear implements CatalogStore.
func (s *MongoStore) UserGear(ctx context.Context, userID string) ([]types.GearLink, error) {
	cursor, err := s.gear.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("mongodb find gear: %w", err)
	}
	defer cursor.Close(ctx)

	var out []types.GearLink
	for cursor.Next(ctx) {
		var link types.GearLink
		if err := cursor.Decode(&link); err != nil {
			return nil, fmt.Errorf("mongodb decode gear: %w", err)
		}
		out = append(out, link)
	}
	return out, cursor.Err()
}

// Close implements CatalogStore.
func (s *MongoStore) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) distinct(ctx context.Context, field string) ([]string, error) {
	values, err := s.products.Distinct(ctx, field, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("mongodb distinct %s: %w", field, err)
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if str, ok := v.(string); ok && str != "" {
			out = append(out, str)
		}
	}
	return out, nil
}
