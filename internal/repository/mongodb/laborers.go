package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/laborbook/internal/domain/models"
	"github.com/mamadbah2/laborbook/internal/repository"
)

// laborerDoc is the storage shape of a laborer. The document _id is the
// canonical identifier; no mirrored id field is written.
type laborerDoc struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Name       string             `bson:"name"`
	FatherName string             `bson:"fatherName"`
	CardNo     string             `bson:"cardNo"`
	Category   models.Category    `bson:"category"`
	CreatedAt  time.Time          `bson:"createdAt"`
}

func (d laborerDoc) toModel() models.Laborer {
	return models.Laborer{
		ID:         d.ID.Hex(),
		Name:       d.Name,
		FatherName: d.FatherName,
		CardNo:     d.CardNo,
		Category:   d.Category,
		CreatedAt:  d.CreatedAt,
	}
}

// LaborerRepo implements repository.LaborerRepository on MongoDB.
type LaborerRepo struct {
	coll *mongo.Collection
}

func (r *LaborerRepo) Insert(ctx context.Context, laborer models.Laborer) (string, error) {
	doc := laborerDoc{
		Name:       laborer.Name,
		FatherName: laborer.FatherName,
		CardNo:     laborer.CardNo,
		Category:   laborer.Category,
		CreatedAt:  time.Now().UTC(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert laborer: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (r *LaborerRepo) GetByID(ctx context.Context, id string) (models.Laborer, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Laborer{}, repository.ErrNotFound
	}

	var doc laborerDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Laborer{}, repository.ErrNotFound
		}
		return models.Laborer{}, fmt.Errorf("get laborer %s: %w", id, err)
	}

	return doc.toModel(), nil
}

func (r *LaborerRepo) Update(ctx context.Context, laborer models.Laborer) error {
	oid, err := primitive.ObjectIDFromHex(laborer.ID)
	if err != nil {
		return repository.ErrNotFound
	}

	update := bson.M{"$set": bson.M{
		"name":       laborer.Name,
		"fatherName": laborer.FatherName,
		"cardNo":     laborer.CardNo,
		"category":   laborer.Category,
	}}

	res, err := r.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("update laborer %s: %w", laborer.ID, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *LaborerRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}

	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("delete laborer %s: %w", id, err)
	}
	return nil
}

func (r *LaborerRepo) ListByCategory(ctx context.Context, category models.Category) ([]models.Laborer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "cardNo", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"category": category}, opts)
	if err != nil {
		return nil, fmt.Errorf("list laborers for %s: %w", category, err)
	}
	return decodeLaborers(ctx, cursor)
}

func (r *LaborerRepo) FindByCard(ctx context.Context, cardNo string, category models.Category) ([]models.Laborer, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"cardNo": cardNo, "category": category})
	if err != nil {
		return nil, fmt.Errorf("find laborers by card %s/%s: %w", cardNo, category, err)
	}
	return decodeLaborers(ctx, cursor)
}

func decodeLaborers(ctx context.Context, cursor *mongo.Cursor) ([]models.Laborer, error) {
	defer cursor.Close(ctx)

	var out []models.Laborer
	for cursor.Next(ctx) {
		var doc laborerDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode laborer: %w", err)
		}
		out = append(out, doc.toModel())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate laborers: %w", err)
	}
	return out, nil
}
