package resources

type ResourceType int

/** @brief Pre-defined resource types. */
const (
	/** @brief Text resource type, such as shader source. */
	ResourceTypeText ResourceType = iota
	/** @brief Linked shader program handle. */
	ResourceTypeProgram
	/** @brief Generated mesh buffers. */
	ResourceTypeMesh
	/** @brief Transform matrix. */
	ResourceTypeMatrix
	/** @brief Custom resource type. Used by applications for their own data. */
	ResourceTypeCustom
)

func (t ResourceType) String() string {
	switch t {
	case ResourceTypeText:
		return "text"
	case ResourceTypeProgram:
		return "program"
	case ResourceTypeMesh:
		return "mesh"
	case ResourceTypeMatrix:
		return "matrix"
	case ResourceTypeCustom:
		return "custom"
	}
	return "unknown"
}

// ReleaseFunc frees whatever a resource's data holds outside the Go heap.
type ReleaseFunc func(data interface{}) error

/**
 * @brief A generic structure for a resource. Everything the
 * registry hands out is wrapped in one of these.
 */
type Resource struct {
	/** @brief The name of the resource. Unique within a registry. */
	Name string
	/** @brief The kind of data held. */
	Type ResourceType
	/** @brief The full file path of the resource, if it came from disk. */
	FullPath string
	/** @brief The size of the resource data in bytes, when known. */
	DataSize uint64
	/** @brief The resource data. */
	Data interface{}
	/** @brief Called once when the resource is released. May be nil. */
	Release ReleaseFunc
}
