package intake

import "fmt"

const systemInstruction = "You are an expert legal aide for a startup law platform. " +
	"Your job is to take confused, informal client requests and turn them into structured, " +
	"professional summaries for lawyers to review. Be concise, objective, and highlight legal risks."

const promptTemplate = `The user has described a legal situation regarding a startup.
Please act as a senior legal intake specialist.
Analyze the raw description and convert it into a structured professional case brief.

User Description: "%s"`

const jsonMIMEType = "application/json"

// Brief field names, in the order the provider should emit them
const (
	fieldTitle             = "title"
	fieldSummary           = "summary"
	fieldKeyIssues         = "keyIssues"
	fieldSuggestedCategory = "suggestedCategory"
	fieldEstimatedBudget   = "estimatedBudget"
)

var briefFields = []string{fieldTitle, fieldSummary, fieldKeyIssues, fieldSuggestedCategory, fieldEstimatedBudget}

// BriefSchema is the response schema every analysis request carries
func BriefSchema() *Schema {
	return &Schema{
		Type: TypeObject,
		Properties: map[string]*Schema{
			fieldTitle: {
				Type:        TypeString,
				Description: "A professional 5-10 word title for the case.",
			},
			fieldSummary: {
				Type:        TypeString,
				Description: "A 2-3 sentence professional summary of the facts.",
			},
			fieldKeyIssues: {
				Type:        TypeArray,
				Items:       &Schema{Type: TypeString},
				Description: "List of 3-5 potential legal issues identified.",
			},
			fieldSuggestedCategory: {
				Type:        TypeString,
				Description: "E.g., Intellectual Property, Employment, Corporate Structure.",
			},
			fieldEstimatedBudget: {
				Type:        TypeString,
				Description: "A very rough estimated price range for this service (e.g. '$500 - $1000').",
			},
		},
		PropertyOrdering: append([]string{}, briefFields...),
		Required:         append([]string{}, briefFields...),
	}
}

// BuildRequest embeds the raw intake verbatim into the fixed prompt
func BuildRequest(model, raw string) Request {
	return Request{
		Model:             model,
		SystemInstruction: systemInstruction,
		Prompt:            fmt.Sprintf(promptTemplate, raw),
		ResponseMIMEType:  jsonMIMEType,
		Schema:            BriefSchema(),
	}
}
