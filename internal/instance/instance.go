// Package instance persists named launch profiles: a chosen primary
// package, version and directory layout, reusable across launches. This
// is pure bookkeeping around the core — it holds no resolution or launch
// logic, only the values the resolver's Wants and the launch assembler's
// Paths and JVMConfig are built from.
package instance

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Window is the game window's initial size in pixels.
type Window struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Instance is one saved launch profile.
type Instance struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	PrimaryUID  string    `json:"primaryUid"`
	Version     string    `json:"version"`
	InstanceDir string    `json:"instanceDir"`
	JavaPath    string    `json:"javaPath,omitempty"`
	JVMArgs     []string  `json:"jvmArgs,omitempty"`
	Window      Window    `json:"window"`
	LastPlayed  time.Time `json:"lastPlayed"`
}

// Manager handles instance CRUD, storing each instance as
// <base>/instances/<id>/instance.json.
type Manager struct {
	basePath  string
	instances map[string]*Instance
}

// NewManager returns a Manager rooted at basePath. Call Load to populate
// it from disk.
func NewManager(basePath string) *Manager {
	return &Manager{
		basePath:  basePath,
		instances: make(map[string]*Instance),
	}
}

// Load reads all instances from disk, skipping entries without a
// readable or well-formed instance.json.
func (m *Manager) Load() error {
	instancesPath := filepath.Join(m.basePath, "instances")

	entries, err := os.ReadDir(instancesPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(instancesPath, entry.Name(), "instance.json"))
		if err != nil {
			continue
		}
		var inst Instance
		if err := json.Unmarshal(data, &inst); err != nil {
			continue
		}
		m.instances[inst.ID] = &inst
	}

	return nil
}

// List returns all loaded instances.
func (m *Manager) List() []*Instance {
	out := make([]*Instance, 0, len(m.instances))
	for _, inst := range m.instances {
		out = append(out, inst)
	}
	return out
}

// Get returns the instance with the given id.
func (m *Manager) Get(id string) (*Instance, bool) {
	inst, ok := m.instances[id]
	return inst, ok
}

// Create creates inst's directory, writes instance.json and registers it.
func (m *Manager) Create(inst *Instance) error {
	dir := filepath.Join(m.basePath, "instances", inst.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	inst.InstanceDir = dir

	if err := m.save(inst); err != nil {
		return err
	}
	m.instances[inst.ID] = inst
	return nil
}

// Update overwrites inst's instance.json and registers any in-memory changes.
func (m *Manager) Update(inst *Instance) error {
	m.instances[inst.ID] = inst
	return m.save(inst)
}

// Delete removes an instance's directory and forgets it.
func (m *Manager) Delete(id string) error {
	inst, ok := m.instances[id]
	if !ok {
		return nil
	}
	if err := os.RemoveAll(inst.InstanceDir); err != nil {
		return err
	}
	delete(m.instances, id)
	return nil
}

// UpdateLastPlayed stamps id's LastPlayed with the current time and saves it.
func (m *Manager) UpdateLastPlayed(id string) error {
	inst, ok := m.instances[id]
	if !ok {
		return nil
	}
	inst.LastPlayed = time.Now()
	return m.save(inst)
}

func (m *Manager) save(inst *Instance) error {
	data, err := json.MarshalIndent(inst, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(inst.InstanceDir, "instance.json"), data, 0644)
}
