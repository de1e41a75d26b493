package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mfbarbosa/padaria/internal/domain/models"
)

// ErrNotFound indicates the requested document does not exist.
var ErrNotFound = errors.New("document not found")

// ClientRepository defines the client storage operations used by the
// billing service.
type ClientRepository interface {
	GetClient(ctx context.Context, id string) (*models.Client, error)
	ListClients(ctx context.Context) ([]*models.Client, error)
	SaveClient(ctx context.Context, client *models.Client) error
}

// ProductRepository exposes the product catalog.
type ProductRepository interface {
	GetCatalog(ctx context.Context) (models.Catalog, error)
	GetProduct(ctx context.Context, id string) (models.Product, error)
}

// ProductionRepository stores daily production records keyed by
// (date, product).
type ProductionRepository interface {
	GetRecord(ctx context.Context, date models.Date, productID string) (*models.ProductionRecord, error)
	UpsertRecord(ctx context.Context, record models.ProductionRecord) error
	ListRecordsByDate(ctx context.Context, date models.Date) ([]models.ProductionRecord, error)
}

// PaymentRepository appends reconciliation entries.
type PaymentRepository interface {
	SavePayment(ctx context.Context, payment models.Payment) error
}

// MongoDBRepository implements all repository interfaces on MongoDB.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{client: client, dbName: dbName}, nil
}

func (r *MongoDBRepository) collection(name string) *mongo.Collection {
	return r.client.Database(r.dbName).Collection(name)
}

// GetClient loads one client snapshot.
func (r *MongoDBRepository) GetClient(ctx context.Context, id string) (*models.Client, error) {
	var doc clientDoc
	err := r.collection("clients").FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find client %s: %w", id, err)
	}
	return doc.toModel()
}

// ListClients loads every client snapshot, used by the nightly recompute.
func (r *MongoDBRepository) ListClients(ctx context.Context) ([]*models.Client, error) {
	cursor, err := r.collection("clients").Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer cursor.Close(ctx)

	var clients []*models.Client
	for cursor.Next(ctx) {
		var doc clientDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode client: %w", err)
		}
		client, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate clients: %w", err)
	}
	return clients, nil
}

// SaveClient replaces the whole client document (last writer wins).
func (r *MongoDBRepository) SaveClient(ctx context.Context, client *models.Client) error {
	doc := newClientDoc(client)
	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection("clients").ReplaceOne(ctx, bson.M{"_id": client.ID}, doc, opts); err != nil {
		return fmt.Errorf("save client %s: %w", client.ID, err)
	}
	return nil
}

// GetCatalog loads all products indexed by id.
func (r *MongoDBRepository) GetCatalog(ctx context.Context) (models.Catalog, error) {
	cursor, err := r.collection("products").Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer cursor.Close(ctx)

	catalog := make(models.Catalog)
	for cursor.Next(ctx) {
		var doc productDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode product: %w", err)
		}
		product, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		catalog[product.ID] = product
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return catalog, nil
}

// GetProduct loads one product.
func (r *MongoDBRepository) GetProduct(ctx context.Context, id string) (models.Product, error) {
	var doc productDoc
	err := r.collection("products").FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("find product %s: %w", id, err)
	}
	return doc.toModel()
}

// GetRecord loads the production record for (date, product), or ErrNotFound.
func (r *MongoDBRepository) GetRecord(ctx context.Context, date models.Date, productID string) (*models.ProductionRecord, error) {
	filter := bson.M{"date": string(date), "product_id": productID}
	var doc productionDoc
	err := r.collection("production_records").FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find production record %s/%s: %w", date, productID, err)
	}
	record := doc.toModel()
	return &record, nil
}

// UpsertRecord writes a production record keyed by its natural
// (date, product) pair. Records are never deleted.
func (r *MongoDBRepository) UpsertRecord(ctx context.Context, record models.ProductionRecord) error {
	filter := bson.M{"date": string(record.Date), "product_id": record.ProductID}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection("production_records").ReplaceOne(ctx, filter, newProductionDoc(record), opts); err != nil {
		return fmt.Errorf("upsert production record %s/%s: %w", record.Date, record.ProductID, err)
	}
	return nil
}

// ListRecordsByDate loads every product's record for one day.
func (r *MongoDBRepository) ListRecordsByDate(ctx context.Context, date models.Date) ([]models.ProductionRecord, error) {
	cursor, err := r.collection("production_records").Find(ctx, bson.M{"date": string(date)})
	if err != nil {
		return nil, fmt.Errorf("list production records for %s: %w", date, err)
	}
	defer cursor.Close(ctx)

	var records []models.ProductionRecord
	for cursor.Next(ctx) {
		var doc productionDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode production record: %w", err)
		}
		records = append(records, doc.toModel())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate production records: %w", err)
	}
	return records, nil
}

// SavePayment appends a payment entry.
func (r *MongoDBRepository) SavePayment(ctx context.Context, payment models.Payment) error {
	if _, err := r.collection("payments").InsertOne(ctx, newPaymentDoc(payment)); err != nil {
		return fmt.Errorf("insert payment for client %s: %w", payment.ClientID, err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
