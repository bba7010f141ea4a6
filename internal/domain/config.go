package domain

// VectorConfig holds vectorization settings shared by build-time and
// query-time vectors.
type VectorConfig struct {
	Dimensions int
}

// DefaultVectorConfig returns the count-hashing configuration.
func DefaultVectorConfig() VectorConfig {
	return VectorConfig{Dimensions: 2000}
}
