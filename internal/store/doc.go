// Package store keeps the latest panel for every status source and fans
// changes out to subscribers.
//
// The main components are:
//
//   - [Store]: Interface defining storage and subscription operations
//   - [MemoryStore]: In-memory implementation of Store with pub/sub
//   - [Panel]: Display state of one source
//
// Panels are returned in registration order so that dashboards render
// sources in the order they were configured. Subscribers receive updates via
// channels with non-blocking sends (slow subscribers miss updates rather
// than block the system).
//
// Users of the livestatus library should not need to interact with this
// package directly.
package store
