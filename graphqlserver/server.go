package graphqlserver

import (
	"context"
	"encoding/json"
	"errors"

	gql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"gorm.io/gorm"

	"stockledger.GO/core/errs"
	"stockledger.GO/graphql"
	gqlmodels "stockledger.GO/graphql/models"
	"stockledger.GO/graphql/registry"
	stockEntity "stockledger.GO/model/entity/stock"
	ledgerRepo "stockledger.GO/model/repository/ledger"
	stockRepo "stockledger.GO/model/repository/stock"
)

// RootResolver is the root for graphql-go.
type RootResolver struct {
	DB *gorm.DB
}

// Query returns the query resolver.
func (r *RootResolver) Query() *QueryResolver {
	return &QueryResolver{db: r.DB}
}

// QueryResolver implements the read-only Query fields. All mutations go
// through the REST document endpoints; GraphQL is reporting only.
type QueryResolver struct {
	db *gorm.DB
}

// StockRecordArgs matches the stockRecord query arguments.
type StockRecordArgs struct {
	ProductID   int32
	VariationID *int32
}

func (r *QueryResolver) StockRecord(ctx context.Context, args StockRecordArgs) (*gqlmodels.StockRecord, error) {
	rec, err := stockRepo.New(r.db.WithContext(ctx)).Get(keyFromArgs(args.ProductID, args.VariationID))
	if errors.Is(err, errs.ErrNoStockFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return mapStockRecord(rec), nil
}

// StockRecordsArgs matches the stockRecords query arguments.
type StockRecordsArgs struct {
	LowOnly *bool
}

func (r *QueryResolver) StockRecords(ctx context.Context, args StockRecordsArgs) ([]*gqlmodels.StockRecord, error) {
	repo := stockRepo.New(r.db.WithContext(ctx))
	var err error
	var recs []stockEntity.StockRecord
	if args.LowOnly != nil && *args.LowOnly {
		recs, err = repo.BelowReorderLevel()
	} else {
		recs, err = repo.All()
	}
	if err != nil {
		return nil, err
	}
	out := make([]*gqlmodels.StockRecord, 0, len(recs))
	for i := range recs {
		out = append(out, mapStockRecord(&recs[i]))
	}
	return out, nil
}

// LedgerEntriesArgs matches the ledgerEntries query arguments.
type LedgerEntriesArgs struct {
	ProductID   int32
	VariationID *int32
	Limit       *int32
}

func (r *QueryResolver) LedgerEntries(ctx context.Context, args LedgerEntriesArgs) ([]*gqlmodels.LedgerEntry, error) {
	key := keyFromArgs(args.ProductID, args.VariationID)
	entries, err := ledgerRepo.New(r.db.WithContext(ctx)).ForItem(key.ProductID, key.VariationID)
	if err != nil {
		return nil, err
	}
	if args.Limit != nil && int(*args.Limit) > 0 && len(entries) > int(*args.Limit) {
		entries = entries[:int(*args.Limit)]
	}
	out := make([]*gqlmodels.LedgerEntry, 0, len(entries))
	for i := range entries {
		out = append(out, mapLedgerEntry(&entries[i]))
	}
	return out, nil
}

// ExtensionArgs for _extension(name, args).
type ExtensionArgs struct {
	Name string
	Args *string
}

func (r *QueryResolver) Extension(ctx context.Context, args ExtensionArgs) (*string, error) {
	var m map[string]interface{}
	if args.Args != nil && *args.Args != "" {
		_ = json.Unmarshal([]byte(*args.Args), &m)
	}
	if m == nil {
		m = make(map[string]interface{})
	}
	out, err := registry.Resolve(ctx, args.Name, m)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

func keyFromArgs(productID int32, variationID *int32) stockRepo.Key {
	key := stockRepo.Key{ProductID: uint(productID)}
	if variationID != nil {
		key.VariationID = uint(*variationID)
	}
	return key
}

// NewSchema parses the schema and returns a graphql-go Schema.
func NewSchema(db *gorm.DB) (*gql.Schema, error) {
	return gql.ParseSchema(graphql.Schema(), &RootResolver{DB: db}, gql.UseFieldResolvers())
}

// Handler returns an http.Handler for GraphQL (relay format).
func Handler(schema *gql.Schema) *relay.Handler {
	return &relay.Handler{Schema: schema}
}
