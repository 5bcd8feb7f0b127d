package internal

import (
	"sjsage522/propertydealworker/services/cache"
	"sjsage522/propertydealworker/services/classifier"
	"sjsage522/propertydealworker/services/publisher"
	"sjsage522/propertydealworker/services/store"
)

// Dependencies holds all service dependencies
type Dependencies struct {
	Cache      cache.CacheService
	Publisher  publisher.Publisher
	Store      store.Store
	Classifier classifier.Service
}
