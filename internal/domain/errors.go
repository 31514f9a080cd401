package domain

// NoConversationError indicates the lookup matched nothing in the local
// conversation cache.
type NoConversationError struct{}

func (e NoConversationError) Error() string {
	return "no cached conversations found"
}

func IsNoConversationError(err error) bool {
	_, ok := err.(NoConversationError)
	return ok
}
