// Package mocks holds generated test doubles.
//
//go:generate mockgen -destination gate.go -package mocks github.com/skillforge/depot/gate Gate
//go:generate mockgen -destination api.go -package mocks github.com/skillforge/depot/api Client
//go:generate mockgen -destination provider.go -package mocks github.com/skillforge/depot/storage Provider
//go:generate mockgen -destination redis.go -package mocks github.com/skillforge/depot/redis Client
package mocks
