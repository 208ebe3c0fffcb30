package infer

import "math"

// normalizeL2 scales vec in place to unit length. A zero vector is left as
// is; cosine similarity treats it as 0 against everything.
func normalizeL2(vec []float32) {
	var sum float32
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return
	}
	norm := float32(1.0 / math.Sqrt(float64(sum)))
	for i := range vec {
		vec[i] *= norm
	}
}

// softmax converts logits to probabilities. Stable against large logits.
func softmax(logits []float32) []float64 {
	if len(logits) == 0 {
		return nil
	}
	maxLogit := logits[0]
	for _, v := range logits[1:] {
		if v > maxLogit {
			maxLogit = v
		}
	}
	probs := make([]float64, len(logits))
	var sum float64
	for i, v := range logits {
		probs[i] = math.Exp(float64(v - maxLogit))
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}
