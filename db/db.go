package db

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	BlobsCollection *mongo.Collection
	Client          *mongo.Client
)

// Connect establishes the MongoDB connection and wires the blob
// collection. Called explicitly from main so tests can run without a
// database.
func Connect(uri string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return err
	}
	Client = client
	BlobsCollection = Client.Database("kobetexdb").Collection("blobs")
	return nil
}

// Disconnect closes the client; errors are logged, not returned, since
// this only runs during shutdown.
func Disconnect() {
	if Client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Client.Disconnect(ctx); err != nil {
		log.Println("Mongo disconnect error:", err)
	}
}
