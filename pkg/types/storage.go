package types

// KeyValueStorage is the client local persistence port. Get reports a
// missing key with ok=false and a nil error.
type KeyValueStorage interface {
	Get(key string) (value string, ok bool, err error)
	Set(key string, value string) error
	Remove(key string) error
}
