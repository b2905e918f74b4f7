package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/richarc/qx-sub001/internal/circuit"
)

// encodeJSON serializes v with HTML escaping disabled and no trailing
// newline.
func encodeJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// marshalCircuit converts a circuit to its JSON wire form.
func marshalCircuit(c circuit.Circuit) (string, error) {
	s, err := encodeJSON(c)
	if err != nil {
		return "", fmt.Errorf("marshal circuit: %w", err)
	}
	return s, nil
}

func unmarshalCircuit(data string) (circuit.Circuit, error) {
	var c circuit.Circuit
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return circuit.Circuit{}, fmt.Errorf("unmarshal circuit: %w", err)
	}
	return c, nil
}

// marshalProbabilities converts probabilities to a JSON array TEXT.
// Empty and nil both store as "[]".
func marshalProbabilities(probs []float64) (string, error) {
	if probs == nil {
		probs = []float64{}
	}
	s, err := encodeJSON(probs)
	if err != nil {
		return "", fmt.Errorf("marshal probabilities: %w", err)
	}
	return s, nil
}

func unmarshalProbabilities(data string) ([]float64, error) {
	probs := []float64{}
	if err := json.Unmarshal([]byte(data), &probs); err != nil {
		return nil, fmt.Errorf("unmarshal probabilities: %w", err)
	}
	return probs, nil
}

// marshalState converts amplitudes to a JSON array of [re, im] pairs.
func marshalState(state []complex128) (string, error) {
	pairs := make([][2]float64, len(state))
	for i, a := range state {
		pairs[i] = [2]float64{real(a), imag(a)}
	}
	s, err := encodeJSON(pairs)
	if err != nil {
		return "", fmt.Errorf("marshal state: %w", err)
	}
	return s, nil
}

func unmarshalState(data string) ([]complex128, error) {
	var pairs [][2]float64
	if err := json.Unmarshal([]byte(data), &pairs); err != nil {
		return nil, fmt.Errorf("unmarshal state: %w", err)
	}
	state := make([]complex128, len(pairs))
	for i, p := range pairs {
		state[i] = complex(p[0], p[1])
	}
	return state, nil
}

// formatSeed and parseSeed keep the full uint64 range in a TEXT column.
func formatSeed(seed uint64) string {
	return strconv.FormatUint(seed, 10)
}

func parseSeed(s string) (uint64, error) {
	seed, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse seed %q: %w", s, err)
	}
	return seed, nil
}
