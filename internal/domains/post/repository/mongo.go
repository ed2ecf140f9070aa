package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"blog-backend/internal/domains/post"
)

type mongoRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewMongoRepository tạo post.Repository trên một collection MongoDB
func NewMongoRepository(coll *mongo.Collection) post.Repository {
	return &mongoRepository{
		coll: coll,
		now:  time.Now,
	}
}

// parseID: id sai định dạng được coi như không tồn tại
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, post.ErrPostNotFound
	}
	return oid, nil
}

func (r *mongoRepository) Create(ctx context.Context, p *post.Post) (*post.Post, error) {
	doc := *p
	doc.ID = primitive.NilObjectID
	// BSON date chỉ giữ tới millisecond
	doc.Date = r.now().UTC().Truncate(time.Millisecond)

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert post: unexpected id type %T", res.InsertedID)
	}
	doc.ID = oid

	return &doc, nil
}

func (r *mongoRepository) FindAll(ctx context.Context) ([]post.Post, error) {
	posts := make([]post.Post, 0)

	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return posts, fmt.Errorf("find posts: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var p post.Post
		if err := cursor.Decode(&p); err != nil {
			return posts, fmt.Errorf("decode post: %w", err)
		}
		posts = append(posts, p)
	}

	if err := cursor.Err(); err != nil {
		return posts, fmt.Errorf("cursor error: %w", err)
	}

	return posts, nil
}

func (r *mongoRepository) FindByID(ctx context.Context, id string) (*post.Post, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var p post.Post
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, post.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post %s: %w", id, err)
	}

	return &p, nil
}

func (r *mongoRepository) Update(ctx context.Context, p *post.Post) (*post.Post, error) {
	if p.ID.IsZero() {
		return nil, post.ErrPostNotFound
	}

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return nil, fmt.Errorf("replace post %s: %w", p.ID.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return nil, post.ErrPostNotFound
	}

	updated := *p
	return &updated, nil
}

func (r *mongoRepository) DeleteByID(ctx context.Context, id string) (*post.Post, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var p post.Post
	err = r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, post.ErrPostNotFound
		}
		return nil, fmt.Errorf("delete post %s: %w", id, err)
	}

	return &p, nil
}

func (r *mongoRepository) CoverPhotos(ctx context.Context) (map[string]struct{}, error) {
	values, err := r.coll.Distinct(ctx, "cover_photo", bson.M{"cover_photo": bson.M{"$type": "string"}})
	if err != nil {
		return nil, fmt.Errorf("distinct cover photos: %w", err)
	}

	refs := make(map[string]struct{}, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			refs[s] = struct{}{}
		}
	}
	return refs, nil
}
