package mongo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/haguru/tracker/config"
	"github.com/haguru/tracker/internal/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	MAXPOOLSIZE = 20
	IDFIELD     = "_id"
)

// allowedOperators are the query and update operators the repositories issue.
var allowedOperators = map[string]bool{
	"$set":       true,
	"$push":      true,
	"$pull":      true,
	"$in":        true,
	"$elemMatch": true,
}

// MongoDBClient implements the interfaces.DBClient interface for MongoDB operations.
type MongoDBClient struct {
	ServerOpts       *options.ServerAPIOptions
	client           *mongo.Client
	db               *mongo.Database
	databaseName     string
	timeout          time.Duration
	validCollections map[string]bool // A map to validate collection names
	validFields      map[string]bool // A map to validate field names
	logger           interfaces.Logger
}

// NewMongoDB returns a interface for db client and error if it occurs
func NewMongoDB(dbConfig *config.MongoDBConfig, logger interfaces.Logger) (interfaces.DBClient, error) {
	if dbConfig == nil {
		return nil, fmt.Errorf("MongoDBClient: config cannot be nil")
	}

	db := &MongoDBClient{
		timeout:          dbConfig.Timeout,
		databaseName:     dbConfig.DatabaseName,
		validCollections: config.ListToMap(dbConfig.ValidCollections),
		validFields:      config.ListToMap(dbConfig.ValidFields),
		logger:           logger,
	}
	if dbConfig.Options.APIVersion != "" {
		db.ServerOpts = config.BuildServerAPIOptions(dbConfig.Options)
	}

	return db, nil
}

// Connect establishes a connection to the MongoDB database using the provided DSN (Data Source Name).
// It initializes the MongoDB client and sets the database instance.
// The DSN should be in the format "mongodb://<host>:<port>/<database>".
// The database named in the DSN path wins over the configured database name.
func (m *MongoDBClient) Connect(ctx context.Context, dsn string) error {
	// Validate the DSN format
	if dsn == "" {
		return fmt.Errorf("MongoDBClient: DSN is empty")
	}
	if !strings.HasPrefix(dsn, "mongodb://") && !strings.HasPrefix(dsn, "mongodb+srv://") {
		return fmt.Errorf("MongoDBClient: Invalid DSN format, expected 'mongodb://' or 'mongodb+srv://'")
	}

	databaseName, err := m.getDBNameFromMongoDSN(dsn)
	if err != nil {
		if m.databaseName == "" {
			return fmt.Errorf("MongoDBClient: Failed to extract database name from datasource name(dsn): %v", err)
		}
		databaseName = m.databaseName
	}

	// Set a timeout for the connection
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}
	clientOptions := options.Client().ApplyURI(dsn)

	// Set the server API options if provided
	if m.ServerOpts != nil {
		clientOptions.SetServerAPIOptions(m.ServerOpts)
	}
	clientOptions.SetMaxPoolSize(MAXPOOLSIZE)
	clientOptions.SetReadPreference(readpref.PrimaryPreferred())

	m.logger.Info("MongoDBClient: Connecting", "database", databaseName)
	m.client, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		return err
	}

	// Check if the connection is successful by pinging the server
	if err = m.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("MongoDBClient: Failed to connect to MongoDB server: %v", err)
	}
	m.logger.Info("MongoDBClient: Connected to MongoDB server successfully")

	m.db = m.client.Database(databaseName)
	return nil
}

// Disconnect closes the connection to the MongoDB database.
// It checks if the client is not nil before attempting to disconnect.
func (m *MongoDBClient) Disconnect(ctx context.Context) error {
	m.logger.Info("MongoDBClient: Disconnecting")
	if m.client != nil {
		return m.client.Disconnect(ctx)
	}

	return nil
}

// InsertOne inserts a document and returns its ID.
func (m *MongoDBClient) InsertOne(ctx context.Context, collectionName string, document interfaces.Document) (interface{}, error) {
	// Avoid logging the document, it may hold password hashes
	m.logger.Debug("MongoDBClient: Inserting one", "collection", collectionName)

	collection, err := m.collection(collectionName)
	if err != nil {
		return nil, err
	}

	sanitizedDocument, err := m.sanitizeDocument(document)
	if err != nil {
		return nil, err
	}

	res, err := collection.InsertOne(ctx, sanitizedDocument)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("MongoDBClient: %w in %s: %v", interfaces.ErrDuplicateKey, collectionName, err)
		}
		return nil, fmt.Errorf("MongoDBClient: Failed to insert one into %s: %v", collectionName, err)
	}

	return res.InsertedID, nil
}

// FindOne retrieves a single document from the specified collection using a filter.
// It decodes the result into the provided variable and returns an error if no document is found.
func (m *MongoDBClient) FindOne(ctx context.Context, collectionName string, filter interfaces.Document, result interfaces.Document) error {
	m.logger.Debug("MongoDBClient: Finding one", "collection", collectionName)

	collection, err := m.collection(collectionName)
	if err != nil {
		return err
	}

	sanitizedFilter, err := m.sanitizeDocument(filter)
	if err != nil {
		return err
	}

	err = collection.FindOne(ctx, sanitizedFilter).Decode(result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("MongoDBClient: %w in %s", interfaces.ErrNoDocuments, collectionName)
		}
		return fmt.Errorf("MongoDBClient: Failed to find one in %s: %v", collectionName, err)
	}

	return nil
}

// FindMany retrieves multiple documents from the specified collection
// and decodes them into results, which must be a pointer to a slice.
func (m *MongoDBClient) FindMany(ctx context.Context, collectionName string, filter interfaces.Document, results interfaces.Document) error {
	m.logger.Debug("MongoDBClient: Finding many", "collection", collectionName)

	collection, err := m.collection(collectionName)
	if err != nil {
		return err
	}

	sanitizedFilter, err := m.sanitizeDocument(filter)
	if err != nil {
		return err
	}

	cursor, err := collection.Find(ctx, sanitizedFilter)
	if err != nil {
		return fmt.Errorf("MongoDBClient: Finding many in %s failed: %v", collectionName, err)
	}

	// All closes the cursor
	if err := cursor.All(ctx, results); err != nil {
		return fmt.Errorf("MongoDBClient: Failed to decode cursor: %v", err)
	}

	return nil
}

// UpdateOne modifies a single document in the specified collection using a filter and update document.
// Returns the count of matched documents and an error if the operation fails.
func (m *MongoDBClient) UpdateOne(ctx context.Context, collectionName string, filter interfaces.Document, update interfaces.Document) (int64, error) {
	m.logger.Debug("MongoDBClient: Updating one", "collection", collectionName)

	collection, err := m.collection(collectionName)
	if err != nil {
		return 0, err
	}

	sanitizedFilter, err := m.sanitizeDocument(filter)
	if err != nil {
		return 0, err
	}
	sanitizedUpdate, err := m.sanitizeDocument(update)
	if err != nil {
		return 0, err
	}

	res, err := collection.UpdateOne(ctx, sanitizedFilter, sanitizedUpdate)
	if err != nil {
		return 0, fmt.Errorf("MongoDBClient: Failed updating one in %s: %v", collectionName, err)
	}

	return res.MatchedCount, nil
}

// FindOneAndUpdate applies update to the first matching document and decodes the updated document.
func (m *MongoDBClient) FindOneAndUpdate(ctx context.Context, collectionName string, filter interfaces.Document, update interfaces.Document, result interfaces.Document) error {
	m.logger.Debug("MongoDBClient: Finding one and updating", "collection", collectionName)

	collection, err := m.collection(collectionName)
	if err != nil {
		return err
	}

	sanitizedFilter, err := m.sanitizeDocument(filter)
	if err != nil {
		return err
	}
	sanitizedUpdate, err := m.sanitizeDocument(update)
	if err != nil {
		return err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = collection.FindOneAndUpdate(ctx, sanitizedFilter, sanitizedUpdate, opts).Decode(result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("MongoDBClient: %w in %s", interfaces.ErrNoDocuments, collectionName)
		}
		return fmt.Errorf("MongoDBClient: Failed finding and updating one in %s: %v", collectionName, err)
	}

	return nil
}

// DeleteOne removes a single document from the specified collection using a filter.
// Returns the count of deleted documents and an error if the operation fails.
func (m *MongoDBClient) DeleteOne(ctx context.Context, collectionName string, filter interfaces.Document) (int64, error) {
	m.logger.Debug("MongoDBClient: Deleting one", "collection", collectionName)

	collection, err := m.collection(collectionName)
	if err != nil {
		return 0, err
	}

	sanitizedFilter, err := m.sanitizeDocument(filter)
	if err != nil {
		return 0, err
	}

	res, err := collection.DeleteOne(ctx, sanitizedFilter)
	if err != nil {
		return 0, fmt.Errorf("MongoDBClient: Failed deleting one from %s: %v", collectionName, err)
	}

	return res.DeletedCount, nil
}

// DeleteMany removes multiple documents from a collection using a filter.
// Returns the count of deleted documents and an error if the operation fails.
func (m *MongoDBClient) DeleteMany(ctx context.Context, collectionName string, filter interfaces.Document) (int64, error) {
	m.logger.Debug("MongoDBClient: Deleting many", "collection", collectionName)

	collection, err := m.collection(collectionName)
	if err != nil {
		return 0, err
	}

	sanitizedFilter, err := m.sanitizeDocument(filter)
	if err != nil {
		return 0, err
	}

	res, err := collection.DeleteMany(ctx, sanitizedFilter)
	if err != nil {
		return 0, fmt.Errorf("MongoDBClient: Failed Deleting many from %s: %v", collectionName, err)
	}

	return res.DeletedCount, nil
}

// WithTransaction runs fn in a multi-document transaction. It requires a
// replica set or sharded cluster.
func (m *MongoDBClient) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.client == nil {
		return fmt.Errorf("MongoDBClient is not connected to a database")
	}

	return m.client.UseSession(ctx, func(sc mongo.SessionContext) error {
		_, err := sc.WithTransaction(sc, func(txCtx mongo.SessionContext) (interface{}, error) {
			return nil, fn(txCtx)
		})
		return err
	})
}

// Ping verifies the MongoDB connection health using a ping command.
func (m *MongoDBClient) Ping(ctx context.Context) error {
	if m.client == nil {
		return fmt.Errorf("MongoDBClient is not connected to a database")
	}
	return m.client.Ping(ctx, nil)
}

// EnsureSchema creates the required indexes on the specified collection.
// schema must be a mongo.IndexModel or a []mongo.IndexModel.
// If the collection does not exist, it will be created automatically.
func (m *MongoDBClient) EnsureSchema(ctx context.Context, collectionName string, schema interfaces.Document) error {
	// verify m.db is not nil
	if m.db == nil {
		return fmt.Errorf("MongoDBClient is not connected to a database")
	}

	var models []mongo.IndexModel
	switch s := schema.(type) {
	case mongo.IndexModel:
		models = []mongo.IndexModel{s}
	case []mongo.IndexModel:
		models = s
	default:
		return fmt.Errorf("EnsureSchema: expected mongo.IndexModel for MongoDB, got %T", schema)
	}

	_, err := m.db.Collection(collectionName).Indexes().CreateMany(ctx, models)
	return err
}

// collection returns the named collection after checking it against the allowlist.
func (m *MongoDBClient) collection(collectionName string) (*mongo.Collection, error) {
	if collectionName == "" {
		return nil, fmt.Errorf("MongoDBClient: Collection name cannot be empty")
	}
	if !m.validCollections[collectionName] {
		return nil, fmt.Errorf("MongoDBClient: Invalid collection name: %s", collectionName)
	}
	if m.db == nil {
		return nil, fmt.Errorf("MongoDBClient is not connected to a database")
	}
	return m.db.Collection(collectionName), nil
}

// getDBNameFromMongoDSN extracts the database name from a MongoDB DSN.
func (m *MongoDBClient) getDBNameFromMongoDSN(dsn string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("failed to parse MongoDB DSN: %w", err)
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("no database name found in MongoDB DSN path: %s", dsn)
	}

	// If the path contains additional segments (e.g., /db/collection), use only the first as the database name.
	if idx := strings.Index(dbName, "/"); idx != -1 {
		dbName = dbName[:idx]
	}

	return dbName, nil
}

// sanitizeDocument guards against NoSQL injection. Every field name must be
// on the allowlist and free of '$' and '.', and every operator must be one
// the repositories use. Nested documents are checked recursively.
// Unknown fields are rejected rather than dropped so a filter can never widen silently.
func (m *MongoDBClient) sanitizeDocument(document interfaces.Document) (bson.M, error) {
	var docMap map[string]interface{}
	switch d := document.(type) {
	case nil:
		return nil, fmt.Errorf("MongoDBClient: document cannot be nil")
	case bson.M:
		docMap = d
	case map[string]interface{}:
		docMap = d
	default:
		return nil, fmt.Errorf("MongoDBClient: document must be a bson.M, got %T", document)
	}

	sanitized := make(bson.M, len(docMap))
	for key, value := range docMap {
		if strings.HasPrefix(key, "$") {
			if !allowedOperators[key] {
				return nil, fmt.Errorf("MongoDBClient: operator not allowed: %s", key)
			}
		} else if !m.validFields[key] || strings.ContainsAny(key, "$.") {
			return nil, fmt.Errorf("MongoDBClient: invalid or unsafe field name: %s", key)
		}

		sanitizedValue, err := m.sanitizeValue(value)
		if err != nil {
			return nil, err
		}
		sanitized[key] = sanitizedValue
	}

	return sanitized, nil
}

func (m *MongoDBClient) sanitizeValue(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case bson.M:
		return m.sanitizeDocument(v)
	case map[string]interface{}:
		return m.sanitizeDocument(v)
	default:
		return value, nil
	}
}
