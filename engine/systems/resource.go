package systems

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/spaghettifunk/esutil/engine/core"
	"github.com/spaghettifunk/esutil/engine/math"
	"github.com/spaghettifunk/esutil/engine/resources"
	"github.com/spaghettifunk/esutil/engine/shader"
	"github.com/spaghettifunk/esutil/engine/shapes"
)

var ErrWrongType = errors.New("resource has a different type")

/** @brief The configuration for the resource system */
type ResourceSystemConfig struct {
	/** @brief The maximum number of resources that can be registered at once. */
	MaxResourceCount uint32
	/** @brief The base path relative file names are resolved against. */
	AssetBasePath string
}

// ResourceSystem owns the programs, meshes and other data an application
// creates, and releases them in reverse registration order on Shutdown.
// It replaces process wide texture and program tables: each render
// context gets its own.
type ResourceSystem struct {
	config ResourceSystemConfig

	mutex     sync.RWMutex
	resources map[string]*resources.Resource
	order     []string
}

func NewResourceSystem(config *ResourceSystemConfig) (*ResourceSystem, error) {
	if config.MaxResourceCount == 0 {
		err := fmt.Errorf("func NewResourceSystem - config.MaxResourceCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}

	core.LogInfo("Resource system initialized with base path '%s'.", config.AssetBasePath)

	return &ResourceSystem{
		config:    *config,
		resources: make(map[string]*resources.Resource),
	}, nil
}

/**
 * @brief Registers data under name. An empty name gets a generated one.
 *
 * @param release Called with data when the resource is released. May be nil.
 * @return The name the resource was registered under.
 */
func (rs *ResourceSystem) Register(name string, resourceType resources.ResourceType, data interface{}, release resources.ReleaseFunc) (string, error) {
	if name == "" {
		name = uuid.NewString()
	}

	rs.mutex.Lock()
	defer rs.mutex.Unlock()

	if _, exists := rs.resources[name]; exists {
		return "", fmt.Errorf("resource '%s': %w", name, core.ErrAlreadyExists)
	}
	if uint32(len(rs.resources)) >= rs.config.MaxResourceCount {
		return "", fmt.Errorf("resource '%s': registry is full (%d resources)", name, rs.config.MaxResourceCount)
	}

	rs.resources[name] = &resources.Resource{
		Name:    name,
		Type:    resourceType,
		Data:    data,
		Release: release,
	}
	rs.order = append(rs.order, name)
	core.LogDebug("Registered %s resource '%s'.", resourceType, name)
	return name, nil
}

// RegisterProgram registers p so that releasing it deletes it through d.
func (rs *ResourceSystem) RegisterProgram(name string, d shader.Driver, p shader.Program) (string, error) {
	return rs.Register(name, resources.ResourceTypeProgram, p, func(data interface{}) error {
		d.DeleteProgram(data.(shader.Program))
		return nil
	})
}

// RegisterMesh registers m. Meshes live on the Go heap and need no release hook.
func (rs *ResourceSystem) RegisterMesh(name string, m *shapes.Mesh) (string, error) {
	if err := m.Validate(); err != nil {
		return "", err
	}
	return rs.Register(name, resources.ResourceTypeMesh, m, nil)
}

// LoadText reads a file, relative to AssetBasePath unless absolute, and
// registers its contents as a text resource.
func (rs *ResourceSystem) LoadText(name, path string) (string, error) {
	fullPath := path
	if !filepath.IsAbs(path) && rs.config.AssetBasePath != "" {
		fullPath = filepath.Join(rs.config.AssetBasePath, path)
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return "", err
	}
	name, err = rs.Register(name, resources.ResourceTypeText, string(data), nil)
	if err != nil {
		return "", err
	}

	rs.mutex.Lock()
	r := rs.resources[name]
	r.FullPath = fullPath
	r.DataSize = uint64(len(data))
	rs.mutex.Unlock()
	return name, nil
}

func (rs *ResourceSystem) Get(name string) (*resources.Resource, error) {
	rs.mutex.RLock()
	defer rs.mutex.RUnlock()
	r, ok := rs.resources[name]
	if !ok {
		return nil, fmt.Errorf("resource '%s': %w", name, core.ErrNotFound)
	}
	return r, nil
}

func (rs *ResourceSystem) typed(name string, want resources.ResourceType) (interface{}, error) {
	r, err := rs.Get(name)
	if err != nil {
		return nil, err
	}
	if r.Type != want {
		return nil, fmt.Errorf("resource '%s' is a %s, not a %s: %w", name, r.Type, want, ErrWrongType)
	}
	return r.Data, nil
}

func (rs *ResourceSystem) Program(name string) (shader.Program, error) {
	data, err := rs.typed(name, resources.ResourceTypeProgram)
	if err != nil {
		return 0, err
	}
	return data.(shader.Program), nil
}

func (rs *ResourceSystem) Mesh(name string) (*shapes.Mesh, error) {
	data, err := rs.typed(name, resources.ResourceTypeMesh)
	if err != nil {
		return nil, err
	}
	return data.(*shapes.Mesh), nil
}

func (rs *ResourceSystem) Text(name string) (string, error) {
	data, err := rs.typed(name, resources.ResourceTypeText)
	if err != nil {
		return "", err
	}
	return data.(string), nil
}

func (rs *ResourceSystem) Matrix(name string) (*math.Matrix, error) {
	data, err := rs.typed(name, resources.ResourceTypeMatrix)
	if err != nil {
		return nil, err
	}
	return data.(*math.Matrix), nil
}

// Release runs the release hook of name and forgets it.
func (rs *ResourceSystem) Release(name string) error {
	rs.mutex.Lock()
	r, ok := rs.resources[name]
	if ok {
		delete(rs.resources, name)
		for i, n := range rs.order {
			if n == name {
				rs.order = append(rs.order[:i], rs.order[i+1:]...)
				break
			}
		}
	}
	rs.mutex.Unlock()

	if !ok {
		return fmt.Errorf("resource '%s': %w", name, core.ErrNotFound)
	}
	return release(r)
}

func release(r *resources.Resource) error {
	if r.Release == nil {
		return nil
	}
	if err := r.Release(r.Data); err != nil {
		return fmt.Errorf("releasing resource '%s': %w", r.Name, err)
	}
	return nil
}

// Count returns the number of registered resources.
func (rs *ResourceSystem) Count() int {
	rs.mutex.RLock()
	defer rs.mutex.RUnlock()
	return len(rs.resources)
}

// Shutdown releases every resource, newest first, and returns the joined
// release errors.
func (rs *ResourceSystem) Shutdown() error {
	rs.mutex.Lock()
	order := rs.order
	all := rs.resources
	rs.order = nil
	rs.resources = make(map[string]*resources.Resource)
	rs.mutex.Unlock()

	var errs []error
	for i := len(order) - 1; i >= 0; i-- {
		if err := release(all[order[i]]); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	core.LogDebug("Resource system shut down, %d resources released.", len(order))
	return nil
}
