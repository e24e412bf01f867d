package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/akverma/order-management-api/internal/model"
)

// ProductRepo persists catalog entries in the `products` collection.
type ProductRepo struct{ Col *mongo.Collection }

func NewProductRepo(db *mongo.Database) *ProductRepo {
	return &ProductRepo{Col: db.Collection("products")}
}

// Create inserts a product and fills in its generated ID.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) error {
	res, err := r.Col.InsertOne(ctx, p)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

// FindAll returns every product in the catalog.
func (r *ProductRepo) FindAll(ctx context.Context) ([]model.Product, error) {
	cur, err := r.Col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	products := []model.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// FindByID fetches a single product.
func (r *ProductRepo) FindByID(ctx context.Context, id primitive.ObjectID) (model.Product, error) {
	var p model.Product
	err := r.Col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return model.Product{}, ErrNotFound
	}
	return p, err
}

// Update applies the given field changes and returns the updated document.
func (r *ProductRepo) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (model.Product, error) {
	var p model.Product
	err := r.Col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": fields},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return model.Product{}, ErrNotFound
	}
	return p, err
}

// Delete removes a product from the catalog.
func (r *ProductRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.Col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
