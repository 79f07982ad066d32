// Package rules holds the marketplace's decision functions: who may see whom,
// who may book a free trial, how a teacher's approval status moves, how a
// monthly payment is split, and how chat read state is derived.
//
// Nothing here touches the database. Callers fetch the records, ask a rule,
// and persist the outcome through the services package.
package rules
