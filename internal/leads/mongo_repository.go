package leads

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// DatabaseProvider hands out a live database handle, reconnecting if
// the cached connection went stale. *storage.Conn satisfies it; tests
// substitute fakes.
type DatabaseProvider interface {
	Database(ctx context.Context) (*mongo.Database, error)
}

// MongoRepository stores one kind of lead in its MongoDB collection.
type MongoRepository struct {
	db   DatabaseProvider
	kind Kind
}

// NewMongoRepository creates a repository for the given kind.
func NewMongoRepository(db DatabaseProvider, kind Kind) *MongoRepository {
	if db == nil {
		panic("leads: database provider required")
	}
	return &MongoRepository{db: db, kind: kind}
}

// leadDoc is the stored shape. Field names match the historical
// collection layout, so json and bson tags differ from the Go names.
type leadDoc struct {
	ID          bson.ObjectID  `bson:"_id,omitempty"`
	Name        string         `bson:"name"`
	Phone       string         `bson:"phone"`
	Email       string         `bson:"email,omitempty"`
	Company     string         `bson:"company,omitempty"`
	Service     string         `bson:"service,omitempty"`
	Source      string         `bson:"source"`
	Type        string         `bson:"type"`
	PagePath    string         `bson:"pagePath,omitempty"`
	UTMSource   string         `bson:"utm_source,omitempty"`
	UTMMedium   string         `bson:"utm_medium,omitempty"`
	UTMCampaign string         `bson:"utm_campaign,omitempty"`
	Meta        map[string]any `bson:"meta,omitempty"`
	CreatedAt   time.Time      `bson:"createdAt"`
}

func (d *leadDoc) toLead(kind Kind) *Lead {
	return &Lead{
		ID:          d.ID.Hex(),
		Kind:        kind,
		Name:        d.Name,
		Phone:       d.Phone,
		Email:       d.Email,
		Company:     d.Company,
		Service:     d.Service,
		Source:      d.Source,
		PagePath:    d.PagePath,
		UTMSource:   d.UTMSource,
		UTMMedium:   d.UTMMedium,
		UTMCampaign: d.UTMCampaign,
		Meta:        d.Meta,
		CreatedAt:   d.CreatedAt,
	}
}

func (r *MongoRepository) collection(ctx context.Context) (*mongo.Collection, error) {
	db, err := r.db.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return db.Collection(r.kind.Collection()), nil
}

// Create validates the request and inserts the lead, returning the
// stored representation.
func (r *MongoRepository) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	lead := req.lead(r.kind, time.Now().UTC())
	doc := leadDoc{
		ID:          bson.NewObjectID(),
		Name:        lead.Name,
		Phone:       lead.Phone,
		Email:       lead.Email,
		Company:     lead.Company,
		Service:     lead.Service,
		Source:      lead.Source,
		Type:        r.kind.TypeLabel(),
		PagePath:    lead.PagePath,
		UTMSource:   lead.UTMSource,
		UTMMedium:   lead.UTMMedium,
		UTMCampaign: lead.UTMCampaign,
		Meta:        lead.Meta,
		CreatedAt:   lead.CreatedAt,
	}

	if _, err := coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("%w: insert: %v", ErrStorageUnavailable, err)
	}

	lead.ID = doc.ID.Hex()
	return lead, nil
}

// Find returns the filtered page sorted by creation time descending.
func (r *MongoRepository) Find(ctx context.Context, filter Filter, page Page) ([]*Lead, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if page.Skip > 0 {
		opts = opts.SetSkip(page.Skip)
	}
	if page.Limit > 0 {
		opts = opts.SetLimit(page.Limit)
	}

	cursor, err := coll.Find(ctx, buildFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("%w: find: %v", ErrStorageUnavailable, err)
	}
	defer cursor.Close(ctx)

	var docs []leadDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrStorageUnavailable, err)
	}

	out := make([]*Lead, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toLead(r.kind))
	}
	return out, nil
}

// Count returns the number of leads matching the filter.
func (r *MongoRepository) Count(ctx context.Context, filter Filter) (int64, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return 0, err
	}
	n, err := coll.CountDocuments(ctx, buildFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("%w: count: %v", ErrStorageUnavailable, err)
	}
	return n, nil
}

// DeleteBefore performs a single batched delete of leads created
// before cutoff; a nil cutoff removes the whole collection.
func (r *MongoRepository) DeleteBefore(ctx context.Context, cutoff *time.Time) (PurgeResult, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return PurgeResult{}, err
	}

	filter := bson.M{}
	if cutoff != nil {
		filter["createdAt"] = bson.M{"$lt": *cutoff}
	}

	res, err := coll.DeleteMany(ctx, filter)
	if err != nil {
		return PurgeResult{}, fmt.Errorf("%w: delete: %v", ErrStorageUnavailable, err)
	}
	return PurgeResult{DeletedCount: res.DeletedCount}, nil
}

func buildFilter(f Filter) bson.M {
	filter := bson.M{}

	dateBounds := bson.M{}
	if f.From != nil {
		dateBounds["$gte"] = *f.From
	}
	if f.To != nil {
		dateBounds["$lte"] = *f.To
	}
	if len(dateBounds) > 0 {
		filter["createdAt"] = dateBounds
	}

	if f.Source != "" {
		filter["source"] = f.Source
	}

	if f.Search != "" {
		pattern := bson.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"email": pattern},
			bson.M{"phone": pattern},
			bson.M{"company": pattern},
			bson.M{"service": pattern},
			bson.M{"source": pattern},
		}
	}

	return filter
}

var _ Repository = (*MongoRepository)(nil)
