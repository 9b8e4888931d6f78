package main

import (
	"fraud-review-system/internal/bootstrap"
)

func main() {
	bootstrap.StartReviewService()
}
