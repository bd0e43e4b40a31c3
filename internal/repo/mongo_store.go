package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shaiso/Mergington/internal/domain"
)

// DefaultMongoURL — адрес MongoDB для локальной разработки.
const DefaultMongoURL = "mongodb://localhost:27017"

// NewMongoClient подключается к MongoDB и проверяет соединение.
func NewMongoClient(ctx context.Context, uri string) (*mongo.Client, error) {
	if uri == "" {
		uri = DefaultMongoURL
	}

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(10).
		SetServerSelectionTimeout(5*time.Second))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// activityDocument — документ занятия в коллекции. Ключ _id — имя занятия.
type activityDocument struct {
	Name            string   `bson:"_id"`
	Description     string   `bson:"description"`
	Schedule        string   `bson:"schedule"`
	MaxParticipants int      `bson:"max_participants"`
	Participants    []string `bson:"participants"`
}

func toDocument(a domain.Activity) activityDocument {
	participants := a.Participants
	if participants == nil {
		participants = []string{}
	}
	return activityDocument{
		Name:            a.Name,
		Description:     a.Description,
		Schedule:        a.Schedule,
		MaxParticipants: a.MaxParticipants,
		Participants:    participants,
	}
}

func (d activityDocument) toDomain() domain.Activity {
	participants := d.Participants
	if participants == nil {
		participants = []string{}
	}
	return domain.Activity{
		Name:            d.Name,
		Description:     d.Description,
		Schedule:        d.Schedule,
		MaxParticipants: d.MaxParticipants,
		Participants:    participants,
	}
}

// signUpFilter совпадает, только если занятие есть и email ещё не записан.
func signUpFilter(name, email string) bson.D {
	return bson.D{
		{Key: "_id", Value: name},
		{Key: "participants", Value: bson.D{{Key: "$ne", Value: email}}},
	}
}

func signUpUpdate(email string) bson.D {
	return bson.D{{Key: "$push", Value: bson.D{{Key: "participants", Value: email}}}}
}

// removeFilter совпадает, только если email есть в списке участников.
func removeFilter(name, email string) bson.D {
	return bson.D{
		{Key: "_id", Value: name},
		{Key: "participants", Value: email},
	}
}

// removeUpdate удаляет из списка только первое вхождение email.
// $pull убрал бы все копии, а дубликаты могли остаться от старых данных.
func removeUpdate(email string) mongo.Pipeline {
	index := bson.D{{Key: "$indexOfArray", Value: bson.A{"$participants", email}}}

	before := bson.D{{Key: "$slice", Value: bson.A{"$participants", "$$i"}}}
	after := bson.D{{Key: "$slice", Value: bson.A{
		"$participants",
		bson.D{{Key: "$add", Value: bson.A{"$$i", 1}}},
		bson.D{{Key: "$size", Value: "$participants"}},
	}}}

	participants := bson.D{{Key: "$let", Value: bson.D{
		{Key: "vars", Value: bson.D{{Key: "i", Value: index}}},
		{Key: "in", Value: bson.D{{Key: "$concatArrays", Value: bson.A{before, after}}}},
	}}}

	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "participants", Value: participants}}}},
	}
}

// MongoActivityStore — хранилище занятий в коллекции MongoDB.
//
// Запись и удаление участника — один условный UpdateOne, поэтому
// параллельные запросы не теряют изменения и не создают дубликатов.
type MongoActivityStore struct {
	coll *mongo.Collection
}

// NewMongoActivityStore создаёт хранилище поверх коллекции db.collection.
func NewMongoActivityStore(client *mongo.Client, db, collection string) *MongoActivityStore {
	return &MongoActivityStore{coll: client.Database(db).Collection(collection)}
}

// List возвращает все занятия в естественном порядке коллекции.
func (s *MongoActivityStore) List(ctx context.Context) ([]domain.Activity, error) {
	opts := options.Find().SetSort(bson.D{{Key: "$natural", Value: 1}})

	cursor, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find activities: %w", err)
	}

	var docs []activityDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode activities: %w", err)
	}

	activities := make([]domain.Activity, len(docs))
	for i, d := range docs {
		activities[i] = d.toDomain()
	}
	return activities, nil
}

// Get возвращает занятие по имени.
func (s *MongoActivityStore) Get(ctx context.Context, name string) (*domain.Activity, error) {
	var doc activityDocument
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: name}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find activity: %w", err)
	}

	activity := doc.toDomain()
	return &activity, nil
}

// AddParticipant добавляет email в конец списка участников.
func (s *MongoActivityStore) AddParticipant(ctx context.Context, name, email string) error {
	res, err := s.coll.UpdateOne(ctx, signUpFilter(name, email), signUpUpdate(email))
	if err != nil {
		return fmt.Errorf("push participant: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// Ничего не совпало: либо нет занятия, либо email уже в списке
	exists, err := s.exists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrAlreadyExists
}

// RemoveParticipant удаляет email из списка участников.
func (s *MongoActivityStore) RemoveParticipant(ctx context.Context, name, email string) error {
	res, err := s.coll.UpdateOne(ctx, removeFilter(name, email), removeUpdate(email))
	if err != nil {
		return fmt.Errorf("remove participant: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	exists, err := s.exists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrParticipantNotFound
}

// Count возвращает количество документов в коллекции.
func (s *MongoActivityStore) Count(ctx context.Context) (int64, error) {
	count, err := s.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count activities: %w", err)
	}
	return count, nil
}

// InsertMany вставляет занятия; дубликаты ключа пропускаются.
func (s *MongoActivityStore) InsertMany(ctx context.Context, activities []domain.Activity) error {
	if len(activities) == 0 {
		return nil
	}

	docs := make([]any, len(activities))
	for i, a := range activities {
		docs[i] = toDocument(a)
	}

	_, err := s.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("insert activities: %w", err)
	}
	return nil
}

func (s *MongoActivityStore) exists(ctx context.Context, name string) (bool, error) {
	count, err := s.coll.CountDocuments(ctx, bson.D{{Key: "_id", Value: name}}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("check activity: %w", err)
	}
	return count > 0, nil
}
