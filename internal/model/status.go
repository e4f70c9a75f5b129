package model

// Record status values shared by every catalog and master-data table.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)
