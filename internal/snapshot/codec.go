// Package snapshot encodes the aggregate as a versioned JSON document and
// decodes every document shape questlog has ever written.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/julianstephens/questlog/internal/errors"
	"github.com/julianstephens/questlog/internal/models"
)

// CurrentVersion is the schemaVersion written by Encode.
const CurrentVersion = 2

const (
	versionKey      = "schemaVersion"
	campaignsKey    = "campaigns"
	charactersKey   = "characters"
	diaryEntriesKey = "diaryEntries"
)

type document struct {
	SchemaVersion int `json:"schemaVersion"`
	models.Aggregate
}

// Encode renders agg as indented JSON tagged with the current schema version.
func Encode(agg models.Aggregate) ([]byte, error) {
	data, err := json.MarshalIndent(document{
		SchemaVersion: CurrentVersion,
		Aggregate:     agg.Normalize(),
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode aggregate: %w", err)
	}
	return data, nil
}

// Read decodes a document from r.
func Read(r io.Reader) (models.Aggregate, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return models.Aggregate{}, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return Decode(data)
}

// Decode parses any supported document shape into the current aggregate.
// Unrecognized shapes yield an *errors.FormatError.
func Decode(data []byte) (models.Aggregate, error) {
	raw, version, err := detect(data)
	if err != nil {
		return models.Aggregate{}, err
	}

	for v := version; v < CurrentVersion; v++ {
		if raw, err = upgrades[v](raw); err != nil {
			return models.Aggregate{}, err
		}
	}

	var out document
	if err := json.Unmarshal(raw, &out); err != nil {
		return models.Aggregate{}, errors.NewFormatError("collections have unexpected field types", err)
	}
	return out.Aggregate.Normalize(), nil
}

// detect reports the schema version of a document. A bare array is version 0.
func detect(data []byte) (json.RawMessage, int, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, 0, errors.NewFormatError("document is empty", nil)
	}
	if !json.Valid(trimmed) {
		return nil, 0, errors.NewFormatError("document is not valid JSON", nil)
	}

	switch trimmed[0] {
	case '[':
		return trimmed, 0, nil
	case '{':
	default:
		return nil, 0, errors.NewFormatError("document is neither an array nor an object", nil)
	}

	var doc object
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, 0, errors.NewFormatError("document is not an object", err)
	}

	if !doc.hasAny(campaignsKey, charactersKey, diaryEntriesKey, legacyDiaryKey) {
		return nil, 0, errors.NewFormatError("document has none of campaigns, characters or diaryEntries", nil)
	}

	version := 1
	if raw, ok := doc[versionKey]; ok {
		if err := json.Unmarshal(raw, &version); err != nil {
			return nil, 0, errors.NewFormatError("schemaVersion is not an integer", err)
		}
		switch {
		case version > CurrentVersion:
			return nil, 0, errors.NewFormatError(fmt.Sprintf("schemaVersion %d is newer than supported version %d", version, CurrentVersion), nil)
		case version < 1:
			return nil, 0, errors.NewFormatError(fmt.Sprintf("schemaVersion %d is not valid for an object document", version), nil)
		}
	}
	return trimmed, version, nil
}
