package models

import "github.com/graph-gophers/graphql-go"

// StockRecord is the GraphQL view of one stock_record row.
type StockRecord struct {
	StockID           graphql.ID
	ProductID         int32
	VariationID       int32
	QuantityAvailable int32
	ReorderLevel      int32
	Location          string
	LastUpdated       string
}

// LedgerEntry is the GraphQL view of one bin card row.
type LedgerEntry struct {
	LedgerID    graphql.ID
	ProductID   int32
	VariationID int32
	TxnDate     string
	Type        string
	ReferenceID int32
	ReferenceNo string
	QuantityIn  *int32
	QuantityOut *int32
	Balance     int32
	Actor       string
	Remarks     string
}
