package intake

import "context"

// SchemaType names a JSON schema node type
type SchemaType string

const (
	// TypeObject is a JSON object node
	TypeObject SchemaType = "object"
	// TypeString is a JSON string node
	TypeString SchemaType = "string"
	// TypeArray is a JSON array node
	TypeArray SchemaType = "array"
)

// Schema is the subset of JSON schema the provider needs to constrain its output
type Schema struct {
	Type             SchemaType         `json:"type"`
	Description      string             `json:"description,omitempty"`
	Items            *Schema            `json:"items,omitempty"`
	Properties       map[string]*Schema `json:"properties,omitempty"`
	PropertyOrdering []string           `json:"propertyOrdering,omitempty"`
	Required         []string           `json:"required,omitempty"`
}

// Request is a single structured-generation call
type Request struct {
	Model             string
	SystemInstruction string
	Prompt            string
	ResponseMIMEType  string
	Schema            *Schema
}

// Provider is a generative-AI service. Generate returns the raw response
// text; an empty string means the service produced no content.
type Provider interface {
	Generate(ctx context.Context, req Request) (string, error)
}
