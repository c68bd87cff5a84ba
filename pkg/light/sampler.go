package light

import (
	"fmt"
)

// Sampler picks one light among the scene's lights for next-event
// estimation. The integrator unbiases a sample's contribution by
// 1/Probability(index), so a non-uniform Sampler (WeightedSampler) is
// exercised correctly without the integrator assuming uniform selection.
type Sampler interface {
	Sample(u float32) (light *AreaLight, index int, ok bool)
	// Probability returns the selection probability of the light at index,
	// as last returned by Sample.
	Probability(index int) float32
	Count() int
}

// UniformSampler picks among the scene's lights with equal probability.
type UniformSampler struct {
	lights []*AreaLight
}

// NewUniformSampler builds a Sampler that picks uniformly among lights.
func NewUniformSampler(lights []*AreaLight) *UniformSampler {
	return &UniformSampler{lights: lights}
}

// Sample implements Sampler.
func (s *UniformSampler) Sample(u float32) (*AreaLight, int, bool) {
	if len(s.lights) == 0 {
		return nil, -1, false
	}
	idx := int(u * float32(len(s.lights)))
	if idx >= len(s.lights) {
		idx = len(s.lights) - 1
	}
	return s.lights[idx], idx, true
}

// Probability implements Sampler: every light has equal selection odds.
func (s *UniformSampler) Probability(index int) float32 {
	if len(s.lights) == 0 {
		return 0
	}
	return 1 / float32(len(s.lights))
}

// Count implements Sampler.
func (s *UniformSampler) Count() int { return len(s.lights) }

// WeightedSampler picks lights with scene-file-supplied weights instead of
// uniformly. Grounded on the teacher's WeightedLightSampler: a scene author
// with one small, important emitter and several large, incidental ones can
// bias sampling toward the former.
type WeightedSampler struct {
	lights  []*AreaLight
	weights []float32
}

// NewWeightedSampler builds a Sampler with the given per-light weights,
// which are normalized to sum to 1. len(weights) must equal len(lights).
func NewWeightedSampler(lights []*AreaLight, weights []float32) (*WeightedSampler, error) {
	if len(lights) != len(weights) {
		return nil, fmt.Errorf("light.NewWeightedSampler: %d lights but %d weights", len(lights), len(weights))
	}
	total := float32(0)
	for _, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("light.NewWeightedSampler: negative weight %v", w)
		}
		total += w
	}
	normalized := make([]float32, len(weights))
	if total == 0 {
		uniform := float32(1) / float32(len(weights))
		for i := range normalized {
			normalized[i] = uniform
		}
	} else {
		for i, w := range weights {
			normalized[i] = w / total
		}
	}
	return &WeightedSampler{lights: lights, weights: normalized}, nil
}

// Sample implements Sampler via inverse-CDF selection over the normalized
// weights.
func (s *WeightedSampler) Sample(u float32) (*AreaLight, int, bool) {
	if len(s.lights) == 0 {
		return nil, -1, false
	}
	var cumulative float32
	for i, w := range s.weights {
		cumulative += w
		if u <= cumulative {
			return s.lights[i], i, true
		}
	}
	last := len(s.lights) - 1
	return s.lights[last], last, true
}

// Probability implements Sampler: the normalized weight of the light at
// index, as assigned by NewWeightedSampler.
func (s *WeightedSampler) Probability(index int) float32 {
	if index < 0 || index >= len(s.weights) {
		return 0
	}
	return s.weights[index]
}

// Count implements Sampler.
func (s *WeightedSampler) Count() int { return len(s.lights) }
