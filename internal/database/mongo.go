package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"portfolio-backend/internal/models"
)

const projectsCollection = "projects"

type projectDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Title        string             `bson:"title"`
	Year         int                `bson:"year"`
	Role         string             `bson:"role"`
	Synopsis     string             `bson:"synopsis"`
	VideoURL     string             `bson:"videoUrl"`
	ThumbnailURL string             `bson:"thumbnailUrl"`
	Version      int                `bson:"version"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

func (d projectDocument) toModel() *models.Project {
	return &models.Project{
		ID:           d.ID.Hex(),
		Title:        d.Title,
		Year:         d.Year,
		Role:         d.Role,
		Synopsis:     d.Synopsis,
		VideoURL:     d.VideoURL,
		ThumbnailURL: d.ThumbnailURL,
		Version:      d.Version,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type MongoStore struct {
	client   *mongo.Client
	projects *mongo.Collection
}

func NewMongoStore(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	coll := client.Database(dbName).Collection(projectsCollection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "year", Value: -1}, {Key: "_id", Value: 1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to create projects index: %w", err)
	}

	return &MongoStore{client: client, projects: coll}, nil
}

func (s *MongoStore) ListProjects(ctx context.Context) ([]models.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "year", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := s.projects.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	var docs []projectDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %w", err)
	}

	projects := make([]models.Project, 0, len(docs))
	for _, d := range docs {
		projects = append(projects, *d.toModel())
	}
	return projects, nil
}

func (s *MongoStore) GetProject(ctx context.Context, id string) (*models.Project, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var doc projectDocument
	err = s.projects.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return doc.toModel(), nil
}

func (s *MongoStore) CreateProject(ctx context.Context, in models.Project) (*models.Project, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := projectDocument{
		ID:           primitive.NewObjectID(),
		Title:        in.Title,
		Year:         in.Year,
		Role:         in.Role,
		Synopsis:     in.Synopsis,
		VideoURL:     in.VideoURL,
		ThumbnailURL: in.ThumbnailURL,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.projects.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return doc.toModel(), nil
}

func (s *MongoStore) UpdateProject(ctx context.Context, id string, patch models.ProjectPatch, expectedVersion *int) (*models.Project, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	set := bson.M{"updatedAt": time.Now().UTC().Truncate(time.Millisecond)}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Year != nil {
		set["year"] = *patch.Year
	}
	if patch.Role != nil {
		set["role"] = *patch.Role
	}
	if patch.Synopsis != nil {
		set["synopsis"] = *patch.Synopsis
	}
	if patch.VideoURL != nil {
		set["videoUrl"] = *patch.VideoURL
	}
	if patch.ThumbnailURL != nil {
		set["thumbnailUrl"] = *patch.ThumbnailURL
	}

	filter := bson.M{"_id": oid}
	if expectedVersion != nil {
		filter["version"] = *expectedVersion
	}
	update := bson.M{"$set": set, "$inc": bson.M{"version": 1}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc projectDocument
	err = s.projects.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if _, getErr := s.GetProject(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrVersionConflict
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return doc.toModel(), nil
}

func (s *MongoStore) DeleteProject(ctx context.Context, id string) (*models.Project, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var doc projectDocument
	err = s.projects.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete project: %w", err)
	}
	return doc.toModel(), nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
