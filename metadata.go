package featquant

import (
	"time"

	"github.com/hupe1980/featquant/codec"
	"github.com/hupe1980/featquant/group"
	"github.com/hupe1980/featquant/internal/hash"
)

const (
	// StateFile is the artifact name of the serialized fitted state.
	StateFile = "pipeline.bin"
	// MetadataFile is the artifact name of the metadata record.
	MetadataFile = "metadata.json"

	// MetadataFormatVersion is the version of the metadata record.
	MetadataFormatVersion = 1
)

// Metadata is the structured record saved next to the fitted state.
type Metadata struct {
	FeatureCols           []string               `json:"feature_cols"`
	FitDate               string                 `json:"fit_date"`
	FitTime               string                 `json:"fit_time"`
	FitTimestamp          string                 `json:"fit_timestamp"`
	NumRows               int                    `json:"num_rows"`
	Groups                map[string]group.Group `json:"groups"`
	Bins                  int                    `json:"bins"`
	ContinuousStrategy    string                 `json:"continuous_strategy"`
	BinaryMode            string                 `json:"binary_mode"`
	SmallCardinalityLimit int                    `json:"small_cardinality_limit"`
	SchemaFingerprint     string                 `json:"schema_fingerprint"`

	// StateCRC32C is the checksum of the state blob this record was saved with.
	// It is only set on records written by Save.
	StateCRC32C uint32 `json:"state_crc32c,omitempty"`

	FormatVersion int `json:"format_version"`
}

// FittedAt parses FitTimestamp.
func (m *Metadata) FittedAt() (time.Time, error) {
	return time.Parse(time.RFC3339Nano, m.FitTimestamp)
}

func (st *fittedState) metadata() Metadata {
	groups := make(map[string]group.Group, len(st.transforms))
	for _, ct := range st.transforms {
		groups[ct.Name] = ct.Group
	}
	return Metadata{
		FeatureCols:           append([]string(nil), st.featureCols...),
		FitDate:               st.fittedAt.Format(time.DateOnly),
		FitTime:               st.fittedAt.Format(time.TimeOnly),
		FitTimestamp:          st.fittedAt.Format(time.RFC3339Nano),
		NumRows:               st.numRows,
		Groups:                groups,
		Bins:                  st.bins,
		ContinuousStrategy:    st.scale.Strategy.String(),
		BinaryMode:            st.scale.BinaryMode.String(),
		SmallCardinalityLimit: st.smallCardinalityLimit,
		SchemaFingerprint:     hash.FingerprintString(st.featureCols),
		FormatVersion:         MetadataFormatVersion,
	}
}

func marshalMetadata(c codec.Codec, m *Metadata) ([]byte, error) {
	return codec.MarshalPretty(c, m)
}

func unmarshalMetadata(c codec.Codec, data []byte, m *Metadata) error {
	return c.Unmarshal(data, m)
}
