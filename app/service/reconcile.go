// Package service contains the reconciliation between the desired and the
// actual state of the organization's service hooks.
package service

import (
	"github.com/cappuccinotm/azdohooks/app/store"
)

// Pair is a single hook to be configured, one event type in one project.
type Pair struct {
	Project   store.Project
	EventType string
}

// Label returns the human representation of the pair for progress reporting.
func (p Pair) Label() string { return p.Project.Name + " - " + p.EventType }

type hookKey struct{ projectID, eventType string }

// Missing returns the (project, event type) pairs that have no existing
// subscription yet. The order is preserved: projects in the listing order,
// event types in the declared order.
func Missing(projects []store.Project, existing []store.Subscription) []Pair {
	index := make(map[hookKey]struct{}, len(existing))
	for _, sub := range existing {
		index[hookKey{projectID: sub.PublisherInputs.ProjectID, eventType: sub.EventType}] = struct{}{}
	}

	var res []Pair
	for _, project := range projects {
		for _, eventType := range store.EventTypes {
			if _, ok := index[hookKey{projectID: project.ID, eventType: eventType}]; ok {
				continue
			}
			res = append(res, Pair{Project: project, EventType: eventType})
		}
	}

	return res
}

// ProjectsMissing returns the number of distinct projects among the pairs.
func ProjectsMissing(pairs []Pair) int {
	seen := map[string]struct{}{}
	for _, pair := range pairs {
		seen[pair.Project.ID] = struct{}{}
	}
	return len(seen)
}

// DistinctProjects returns the number of distinct projects among
// the given subscriptions.
func DistinctProjects(subs []store.Subscription) int {
	seen := map[string]struct{}{}
	for _, sub := range subs {
		seen[sub.PublisherInputs.ProjectID] = struct{}{}
	}
	return len(seen)
}
