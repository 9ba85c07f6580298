package jobs

import (
	"log"

	"gorm.io/gorm"

	stockRepo "stockledger.GO/model/repository/stock"
)

// LowStockScan returns a job that logs every stock record at or below its
// reorder level. Read-only; the report is also served by GET /api/stock/low.
func LowStockScan(db *gorm.DB) func(...string) {
	return func(...string) {
		records, err := stockRepo.New(db).BelowReorderLevel()
		if err != nil {
			log.Printf("lowstock scan failed: %v", err)
			return
		}
		if len(records) == 0 {
			log.Println("lowstock scan: all items above reorder level")
			return
		}
		for _, rec := range records {
			log.Printf("lowstock: product=%d variation=%d available=%d reorder_level=%d location=%s",
				rec.ProductID, rec.VariationID, rec.QuantityAvailable, rec.ReorderLevel, rec.Location)
		}
	}
}
