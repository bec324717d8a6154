package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/laborbook/internal/domain/models"
)

type hoursDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	LaborerID string             `bson:"laborerId"`
	Date      string             `bson:"date"`
	Hours     float64            `bson:"hours"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d hoursDoc) toModel() models.HoursRecord {
	return models.HoursRecord{
		ID:        d.ID.Hex(),
		LaborerID: d.LaborerID,
		Date:      d.Date,
		Hours:     d.Hours,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// HoursRepo implements repository.HoursRepository on MongoDB.
type HoursRepo struct {
	coll *mongo.Collection
}

// Upsert is a single conditional write on the (laborerId, date) composite
// key, so two near-simultaneous writers can never create a second record
// for the same pair.
func (r *HoursRepo) Upsert(ctx context.Context, laborerID, date string, hours float64) error {
	now := time.Now().UTC()
	filter := bson.M{"laborerId": laborerID, "date": date}
	update := bson.M{
		"$set":         bson.M{"hours": hours, "updatedAt": now},
		"$setOnInsert": bson.M{"laborerId": laborerID, "date": date, "createdAt": now},
	}

	if _, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("upsert hours for %s on %s: %w", laborerID, date, err)
	}
	return nil
}

func (r *HoursRepo) ListByDate(ctx context.Context, date string) ([]models.HoursRecord, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"date": date})
	if err != nil {
		return nil, fmt.Errorf("list hours for %s: %w", date, err)
	}
	return decodeHours(ctx, cursor)
}

func (r *HoursRepo) ListByDateRange(ctx context.Context, from, to string) ([]models.HoursRecord, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"date": bson.M{"$gte": from, "$lte": to}})
	if err != nil {
		return nil, fmt.Errorf("list hours in [%s, %s]: %w", from, to, err)
	}
	return decodeHours(ctx, cursor)
}

func (r *HoursRepo) ListByLaborer(ctx context.Context, laborerID string) ([]models.HoursRecord, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"laborerId": laborerID})
	if err != nil {
		return nil, fmt.Errorf("list hours for laborer %s: %w", laborerID, err)
	}
	return decodeHours(ctx, cursor)
}

func (r *HoursRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}

	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("delete hours record %s: %w", id, err)
	}
	return nil
}

func decodeHours(ctx context.Context, cursor *mongo.Cursor) ([]models.HoursRecord, error) {
	defer cursor.Close(ctx)

	var out []models.HoursRecord
	for cursor.Next(ctx) {
		var doc hoursDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode hours record: %w", err)
		}
		out = append(out, doc.toModel())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate hours records: %w", err)
	}
	return out, nil
}
