// Package schedq provides a fair, resumable request-scheduling core for
// crawlers. It decides which pending request is dispatched next, balancing
// fairness across per-host partitions ("slots"), honoring priority ordering
// within a slot, and persisting its state so an interrupted crawl can resume
// without losing or duplicating work.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency or concern (e.g., sqlite/, memory/, fair/).
package schedq
