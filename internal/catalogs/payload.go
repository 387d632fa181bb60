package catalogs

import (
	"encoding/json"
	"io"

	crafterr "github.com/KirkDiggler/craft-sim/internal/errors"
)

// DecodeSimulatorPayload reads a simulator payload document
func DecodeSimulatorPayload(r io.Reader) (*SimulatorPayload, error) {
	var payload SimulatorPayload
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, crafterr.WrapWithCode(err, crafterr.CodeData, "failed to decode simulator payload").
			WithMeta("source", string(SourceSimulator))
	}
	return &payload, nil
}

// DecodeOfficialPayload reads an official payload document
func DecodeOfficialPayload(r io.Reader) (*OfficialPayload, error) {
	var payload OfficialPayload
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, crafterr.WrapWithCode(err, crafterr.CodeData, "failed to decode official payload").
			WithMeta("source", string(SourceOfficial))
	}
	return &payload, nil
}
