package graphqlserver

import (
	"strconv"
	"time"

	gql "github.com/graph-gophers/graphql-go"

	gqlmodels "stockledger.GO/graphql/models"
	stockEntity "stockledger.GO/model/entity/stock"
)

func mapStockRecord(rec *stockEntity.StockRecord) *gqlmodels.StockRecord {
	return &gqlmodels.StockRecord{
		StockID:           gql.ID(strconv.FormatUint(uint64(rec.StockID), 10)),
		ProductID:         int32(rec.ProductID),
		VariationID:       int32(rec.VariationID),
		QuantityAvailable: int32(rec.QuantityAvailable),
		ReorderLevel:      int32(rec.ReorderLevel),
		Location:          rec.Location,
		LastUpdated:       rec.LastUpdated.Format(time.RFC3339),
	}
}

func mapLedgerEntry(e *stockEntity.LedgerEntry) *gqlmodels.LedgerEntry {
	return &gqlmodels.LedgerEntry{
		LedgerID:    gql.ID(strconv.FormatUint(uint64(e.LedgerID), 10)),
		ProductID:   int32(e.ProductID),
		VariationID: int32(e.VariationID),
		TxnDate:     e.TxnDate.Format(time.RFC3339),
		Type:        e.Type,
		ReferenceID: int32(e.ReferenceID),
		ReferenceNo: e.ReferenceNo,
		QuantityIn:  intPtr32(e.QuantityIn),
		QuantityOut: intPtr32(e.QuantityOut),
		Balance:     int32(e.Balance),
		Actor:       e.Actor,
		Remarks:     e.Remarks,
	}
}

func intPtr32(v *int) *int32 {
	if v == nil {
		return nil
	}
	n := int32(*v)
	return &n
}
