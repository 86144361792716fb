package persist

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type blobDoc struct {
	Name string `bson:"name"`
	Data []byte `bson:"data"`
}

// MongoBlobs backs the heavy tier with one MongoDB collection of named
// blob documents.
type MongoBlobs struct {
	Coll *mongo.Collection
}

func NewMongoBlobs(coll *mongo.Collection) *MongoBlobs {
	return &MongoBlobs{Coll: coll}
}

func (m *MongoBlobs) Load(ctx context.Context, name string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var doc blobDoc
	err := m.Coll.FindOne(ctx, bson.M{"name": name}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		// Backend unavailability degrades to an empty store; the
		// caller keeps running in memory only.
		log.Println("MongoBlobs load error for", name, ":", err)
		return nil, nil
	}
	return doc.Data, nil
}

func (m *MongoBlobs) Save(ctx context.Context, name string, data []byte) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := m.Coll.UpdateOne(ctx,
		bson.M{"name": name},
		bson.M{"$set": bson.M{"name": name, "data": data}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		log.Println("MongoBlobs save error for", name, ":", err)
	}
}
