package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"todolist/internal/models"
	"todolist/internal/todo"
)

// TodoStore handles task document CRUD in MongoDB. Every operation on
// an existing task filters by {_id, user_id} in one predicate, so a
// task owned by someone else is indistinguishable from one that does
// not exist.
type TodoStore struct {
	col *mongo.Collection
}

func NewTodoStore(db *mongo.Database) *TodoStore {
	return &TodoStore{col: db.Collection("todos")}
}

// EnsureIndexes creates the owner+recency index the list query relies on.
func (s *TodoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}

// ownerFilter is the single ownership predicate used by toggle, update,
// and delete. A malformed id resolves to ErrNotFound like any other
// miss; it never leaks a different error shape.
func ownerFilter(userID, id string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, todo.ErrNotFound
	}
	return bson.M{"_id": oid, "user_id": userID}, nil
}

func (s *TodoStore) Insert(ctx context.Context, t *models.Todo) (*models.Todo, error) {
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	res, err := s.col.InsertOne(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("mongo insert: %w", err)
	}
	t.ID = res.InsertedID.(primitive.ObjectID)
	return t, nil
}

func (s *TodoStore) ListByOwner(ctx context.Context, userID string) ([]models.Todo, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var todos []models.Todo
	if err := cur.All(ctx, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// Toggle flips the completed flag in a single atomic document update
// using a pipeline $not, and returns the document after the flip.
func (s *TodoStore) Toggle(ctx context.Context, userID, id string) (*models.Todo, error) {
	filter, err := ownerFilter(userID, id)
	if err != nil {
		return nil, err
	}

	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"completed":  bson.M{"$not": "$completed"},
			"updated_at": time.Now().UTC(),
		}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var t models.Todo
	if err := s.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, todo.ErrNotFound
		}
		return nil, fmt.Errorf("mongo toggle: %w", err)
	}
	return &t, nil
}

// Update replaces the editable fields and returns the document after
// the write. The completed flag is untouched.
func (s *TodoStore) Update(ctx context.Context, userID, id string, in models.TodoInput) (*models.Todo, error) {
	filter, err := ownerFilter(userID, id)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{
		"task":       in.Task,
		"time":       in.Time,
		"category":   in.Category,
		"priority":   in.Priority,
		"updated_at": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var t models.Todo
	if err := s.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, todo.ErrNotFound
		}
		return nil, fmt.Errorf("mongo update: %w", err)
	}
	return &t, nil
}

func (s *TodoStore) Delete(ctx context.Context, userID, id string) error {
	filter, err := ownerFilter(userID, id)
	if err != nil {
		return err
	}

	res, err := s.col.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return todo.ErrNotFound
	}
	return nil
}
