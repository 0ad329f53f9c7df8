package schema

// MetadataKeySourceID is the metadata key carrying the primary key of the
// catalog record a document was built from.
const MetadataKeySourceID = "source_id"

// Document is the central data structure of the sommelier core: the flattened
// text rendering of one catalog record plus its metadata. Documents are built
// fresh on every indexing run and never mutated afterwards.
type Document struct {
	// ID is the unique identifier of this document within an index.
	ID string `json:"id"`

	// Text is the flattened "Field name: value" rendering used for embedding
	// and as prompt context.
	Text string `json:"text"`

	// Metadata holds every non-null field of the originating catalog record,
	// plus the source_id back-reference.
	Metadata map[string]interface{} `json:"metadata"`
}
