package market

import "strconv"

const (
	TopicListingCreated       = "listing.created"
	TopicListingStatusChanged = "listing.status_changed"
)

// PartitionKey keeps every event of one listing on the same partition.
func PartitionKey(listingID int64) []byte { return []byte(strconv.FormatInt(listingID, 10)) }
