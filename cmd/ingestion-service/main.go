package main

import (
	"fraud-review-system/internal/bootstrap"
)

// @title Fraud Review Ingestion API
// @version 1.0
// @description Transaction intake for the risk-review pipeline.
// @BasePath /api/v1
func main() {
	bootstrap.StartIngestionService()
}
