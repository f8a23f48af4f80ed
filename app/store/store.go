// Package store contains the domain types and the static configuration
// tables shared by all components.
package store

import "strings"

// EventTypes lists the event types that the Datadog source code integration
// requires, in the order the hooks are configured.
var EventTypes = []string{
	"git.pullrequest.created",
	"git.pullrequest.updated",
	"git.push",
	"ms.vss-pipelines.run-state-changed-event",
	"ms.vss-pipelines.stage-state-changed-event",
	"ms.vss-pipelines.job-state-changed-event",
	"ms.vss-pipelinechecks-events.approval-pending",
	"ms.vss-pipelinechecks-events.approval-completed",
	"build.complete",
}

// defaultResourceVersion is used for event types without a pinned version.
const defaultResourceVersion = "latest"

var eventTypeVersions = map[string]string{
	"git.pullrequest.created": "1.0",
	"git.pullrequest.updated": "1.0",
	"git.push":                "1.0",
}

// ResourceVersion returns the version of the payload schema delivered
// for the given event type.
func ResourceVersion(eventType string) string {
	if v, ok := eventTypeVersions[eventType]; ok {
		return v
	}
	return defaultResourceVersion
}

// PublisherID returns the identifier of the Azure DevOps publisher
// the given event type belongs to.
func PublisherID(eventType string) string {
	if strings.HasPrefix(eventType, "ms.vss-pipelines.") ||
		strings.HasPrefix(eventType, "ms.vss-pipelinechecks-events.") {
		return "pipelines"
	}
	return "tfs"
}

// Project describes a single Azure DevOps project within the organization.
type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Subscription describes a single service hook subscription, either an
// existing one or the one to be created.
type Subscription struct {
	ID               string          `json:"id,omitempty"`
	PublisherID      string          `json:"publisherId"`
	EventType        string          `json:"eventType"`
	ResourceVersion  string          `json:"resourceVersion"`
	ConsumerID       string          `json:"consumerId"`
	ConsumerActionID string          `json:"consumerActionId"`
	PublisherInputs  PublisherInputs `json:"publisherInputs"`
	ConsumerInputs   ConsumerInputs  `json:"consumerInputs"`
}

// PublisherInputs scope the subscription to a single project.
type PublisherInputs struct {
	ProjectID string `json:"projectId"`
}

// ConsumerInputs describe the webhook delivery target.
type ConsumerInputs struct {
	URL         string `json:"url"`
	HTTPHeaders string `json:"httpHeaders,omitempty"`
}
