package algorithms

import (
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"superpixel-otsu/internal/algorithms/regular"
	"superpixel-otsu/internal/algorithms/superpixel"
	"superpixel-otsu/internal/logger"
	"superpixel-otsu/internal/models"
)

type Manager struct {
	algorithms       map[string]Algorithm
	currentAlgorithm string
	parameters       map[string]map[string]interface{}
	mu               sync.RWMutex
}

func NewManager(log logger.Logger) *Manager {
	manager := &Manager{
		algorithms:       make(map[string]Algorithm),
		currentAlgorithm: superpixel.Name,
		parameters:       make(map[string]map[string]interface{}),
	}

	manager.registerAlgorithms(log)
	manager.initializeDefaultParameters()

	return manager
}

func (m *Manager) registerAlgorithms(log logger.Logger) {
	superpixelAlg := superpixel.NewProcessor(log)
	regularAlg := regular.NewProcessor(log)

	m.algorithms[superpixelAlg.GetName()] = superpixelAlg
	m.algorithms[regularAlg.GetName()] = regularAlg
}

func (m *Manager) initializeDefaultParameters() {
	for name, algorithm := range m.algorithms {
		m.parameters[name] = algorithm.GetDefaultParameters()
	}
}

func (m *Manager) SetCurrentAlgorithm(algorithm string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.algorithms[algorithm]; !exists {
		return errors.Wrapf(models.ErrInvalidInput, "unknown algorithm: %s (available: %s)",
			algorithm, strings.Join(m.names(), ", "))
	}

	m.currentAlgorithm = algorithm
	return nil
}

func (m *Manager) GetCurrentAlgorithm() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentAlgorithm
}

// GetParameters returns a copy of the stored parameters.
func (m *Manager) GetParameters(algorithm string) map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]interface{})
	for k, v := range m.parameters[algorithm] {
		result[k] = v
	}
	return result
}

// SetParameters merges values into the stored parameters. The merged set is
// validated as a whole and nothing is stored when it is rejected.
func (m *Manager) SetParameters(algorithm string, values map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	params, exists := m.parameters[algorithm]
	if !exists {
		return errors.Wrapf(models.ErrInvalidInput, "unknown algorithm: %s", algorithm)
	}

	candidate := make(map[string]interface{}, len(params)+len(values))
	for k, v := range params {
		candidate[k] = v
	}
	for k, v := range values {
		candidate[k] = v
	}
	if err := m.algorithms[algorithm].ValidateParameters(candidate); err != nil {
		return err
	}
	m.parameters[algorithm] = candidate
	return nil
}

func (m *Manager) GetAlgorithm(name string) (Algorithm, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if algorithm, exists := m.algorithms[name]; exists {
		return algorithm, nil
	}

	return nil, errors.Wrapf(models.ErrInvalidInput, "unknown algorithm: %s (available: %s)",
		name, strings.Join(m.names(), ", "))
}

// Current returns the selected algorithm together with a copy of its
// parameters.
func (m *Manager) Current() (Algorithm, map[string]interface{}) {
	name := m.GetCurrentAlgorithm()
	m.mu.RLock()
	alg := m.algorithms[name]
	m.mu.RUnlock()
	return alg, m.GetParameters(name)
}

// names lists the registered algorithms sorted. Callers hold mu.
func (m *Manager) names() []string {
	algorithms := make([]string, 0, len(m.algorithms))
	for name := range m.algorithms {
		algorithms = append(algorithms, name)
	}
	sort.Strings(algorithms)

	return algorithms
}
