// Package model provides estimator state tracking and gob persistence helpers.
package model

import (
	"sync"

	histerrors "github.com/YuminosukeSato/histgbm/pkg/errors"
)

// StateManager tracks whether an estimator has been fitted and the shape of
// the data it was fitted on. It is safe for concurrent use.
type StateManager struct {
	Fitted bool // Public for gob encoding
	mu     sync.RWMutex

	NFeatures int
	NSamples  int

	// ModelName is used in NotFittedError messages.
	ModelName string
}

// NewStateManager creates a StateManager for the named estimator.
func NewStateManager(modelName string) *StateManager {
	return &StateManager{ModelName: modelName}
}

// IsFitted returns whether the model has been fitted.
func (s *StateManager) IsFitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Fitted
}

// MarkFitted records a successful fit on nSamples rows of nFeatures columns.
func (s *StateManager) MarkFitted(nFeatures, nSamples int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Fitted = true
	s.NFeatures = nFeatures
	s.NSamples = nSamples
}

// Reset clears the fitted state.
func (s *StateManager) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Fitted = false
	s.NFeatures = 0
	s.NSamples = 0
}

// GetDimensions returns the number of features and samples seen during fitting.
func (s *StateManager) GetDimensions() (nFeatures, nSamples int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.NFeatures, s.NSamples
}

// RequireFitted returns a NotFittedError naming method if the model is unfitted.
func (s *StateManager) RequireFitted(method string) error {
	if !s.IsFitted() {
		return histerrors.NewNotFittedError(s.ModelName, method)
	}
	return nil
}

// RequireFeatures checks a prediction input against the fitted column count.
func (s *StateManager) RequireFeatures(method string, got int) error {
	if err := s.RequireFitted(method); err != nil {
		return err
	}
	nFeatures, _ := s.GetDimensions()
	if got != nFeatures {
		return histerrors.NewDimensionError(method, nFeatures, got, 1)
	}
	return nil
}

// ModelState is a plain snapshot of a StateManager.
type ModelState struct {
	Fitted    bool   `json:"fitted"`
	NFeatures int    `json:"n_features,omitempty"`
	NSamples  int    `json:"n_samples,omitempty"`
	ModelName string `json:"model_name,omitempty"`
}

// GetState returns the current state as a ModelState.
func (s *StateManager) GetState() ModelState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return ModelState{
		Fitted:    s.Fitted,
		NFeatures: s.NFeatures,
		NSamples:  s.NSamples,
		ModelName: s.ModelName,
	}
}

// SetState restores a snapshot taken with GetState.
func (s *StateManager) SetState(state ModelState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Fitted = state.Fitted
	s.NFeatures = state.NFeatures
	s.NSamples = state.NSamples
	if state.ModelName != "" {
		s.ModelName = state.ModelName
	}
}
