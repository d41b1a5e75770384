// Package pkg provides the core libraries for cdgraph, an explorer for
// Continuous Delivery practices and the dependencies between them.
//
// # Overview
//
// cdgraph models CD practices as a directed graph: each practice depends on
// the practices that enable it, rooted at continuous delivery itself. The
// pkg directory is organized into five main areas:
//
//  1. [practice] - Domain model (tree building, navigation, filtering)
//  2. [layout] - Level ordering and connection geometry
//  3. [adoption] - Adoption tracking, recommendations, and export
//  4. [engine] - Orchestration facade over the above
//  5. [render], [client], [cache], [session] - Supporting infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	SQLite catalog (internal/store)
//	         ↓
//	practice.Node tree → practice.BuildIndex / Flatten
//	         ↓
//	engine.Engine (navigation, selection, layout, geometry)
//	         ↓
//	views: HTTP API (internal/server), TUI (internal/cli), Graphviz (render/dot)
//
// Adoption state lives beside the graph: an [adoption.Set] is aggregated
// over the tree for per-practice progress, overall progress, and the next
// recommended practice, and can be exported as a versioned JSON document.
package pkg
