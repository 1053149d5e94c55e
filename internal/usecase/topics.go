package usecase

import (
	"strings"

	"github.com/google/uuid"
)

// Live-query topics. A write publishes every topic whose query results it
// may change.
const (
	TopicListings = "listings"

	scopeListing = "listing"
	scopeUser    = "user"
	scopeCompany = "company"

	FeedApplications  = "applications"
	FeedFavorites     = "favorites"
	FeedNotifications = "notifications"
	FeedJobs          = "jobs"
)

func ListingTopic(jobID uuid.UUID) string {
	return scopeListing + ":" + jobID.String()
}

func UserTopic(userID uuid.UUID, feed string) string {
	return scopeUser + ":" + userID.String() + ":" + feed
}

func CompanyTopic(companyID uuid.UUID, feed string) string {
	return scopeCompany + ":" + companyID.String() + ":" + feed
}

// TopicRef is a parsed topic. Scope is "" for the public listings feed.
type TopicRef struct {
	Scope string
	ID    uuid.UUID
	Feed  string
}

func (t TopicRef) Public() bool {
	return t.Scope == "" || t.Scope == scopeListing
}

func (t TopicRef) UserScoped() bool { return t.Scope == scopeUser }

func (t TopicRef) CompanyScoped() bool { return t.Scope == scopeCompany }

// ParseTopic accepts only the topic shapes the service publishes.
func ParseTopic(topic string) (TopicRef, bool) {
	if topic == TopicListings {
		return TopicRef{}, true
	}
	parts := strings.Split(topic, ":")
	switch {
	case len(parts) == 2 && parts[0] == scopeListing:
		id, err := uuid.Parse(parts[1])
		if err != nil {
			return TopicRef{}, false
		}
		return TopicRef{Scope: scopeListing, ID: id}, true
	case len(parts) == 3 && parts[0] == scopeUser:
		id, err := uuid.Parse(parts[1])
		if err != nil {
			return TopicRef{}, false
		}
		switch parts[2] {
		case FeedApplications, FeedFavorites, FeedNotifications:
			return TopicRef{Scope: scopeUser, ID: id, Feed: parts[2]}, true
		}
	case len(parts) == 3 && parts[0] == scopeCompany:
		id, err := uuid.Parse(parts[1])
		if err != nil {
			return TopicRef{}, false
		}
		switch parts[2] {
		case FeedApplications, FeedJobs:
			return TopicRef{Scope: scopeCompany, ID: id, Feed: parts[2]}, true
		}
	}
	return TopicRef{}, false
}
