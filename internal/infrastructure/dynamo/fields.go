package dynamo

// DynamoDB attribute names used in update expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldIsRead    = "is_read"
	fieldTitle     = "title"
	fieldUpdatedAt = "updated_at"
)
