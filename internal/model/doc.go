// Package model defines the domain entities of the shared game graph.
//
// The model package contains struct definitions for every node kind stored in
// the underlying graph store, plus the denormalized view types assembled by
// the aggregation service. Models are used across all layers of the library.
//
// # Entity Kinds
//
// The graph holds a closed set of entity kinds:
//
//   - User: player profile with a role and the games it participates in
//   - Game: a running session with players, actor assignments and refs
//   - Actor: a player's in-game persona, holding per-game card assignments
//   - Card: a playable card with value/capability/deck back-references
//   - Deck: a named collection of cards
//   - Agreement: a multi-party pact between actors within one game
//   - Value, Capability: descriptive tags in a many-to-many with Card
//   - NodePosition: per-(game, node) layout coordinate
//
// # Set Encoding
//
// Relationships are stored as set-valued fields: a map from member id to
// boolean true. Absence or an explicit null both mean "not a member"; sets
// carry no ordering. The RefSet type implements this encoding.
//
// # Serialization
//
// All models use json struct tags matching the field names the store keeps,
// so a node read from any backend decodes directly into its entity struct.
package model
