package models

import "time"

// BranchReceiving sums one branch's receipts within a report window.
type BranchReceiving struct {
	BranchID  string  `bson:"branch_id" json:"branch_id"`
	Receipts  int     `bson:"receipts" json:"receipts"`
	Units     int     `bson:"units" json:"units"`
	TotalCost float64 `bson:"total_cost" json:"total_cost"`
}

// DailyReceivingReport represents the aggregated daily receiving data stored in MongoDB.
type DailyReceivingReport struct {
	Date      time.Time         `bson:"date" json:"date"`
	Receipts  int               `bson:"receipts" json:"receipts"`
	Units     int               `bson:"units" json:"units"`
	TotalCost float64           `bson:"total_cost" json:"total_cost"`
	Branches  []BranchReceiving `bson:"branches" json:"branches"`
	CreatedAt time.Time         `bson:"created_at" json:"created_at"`
}
