// Package budget infers booking metadata from a free-text description.
//
// Resolution runs in tiers. Descriptions that look like leave are first
// matched against the internal budgets; anything still without a budget goes
// through the general budget search, and when that finds nothing the
// configured default budget is used. Remote failures never surface to the
// caller, they only move resolution to the next tier.
package budget
