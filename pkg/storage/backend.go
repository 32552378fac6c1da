package storage

// Backend defines the small bucketed key-value surface the run ledger
// needs. All operations work with raw []byte; callers choose their own
// serialization.
type Backend interface {
	// Bucket operations
	CreateBucket(name []byte) error
	BucketExists(name []byte) (bool, error)

	// KV operations within buckets
	Put(bucket, key, value []byte) error
	Get(bucket, key []byte) ([]byte, error)
	Delete(bucket, key []byte) error

	// Iteration
	ForEach(bucket []byte, fn func(k, v []byte) error) error

	// Lifecycle
	Close() error
}
