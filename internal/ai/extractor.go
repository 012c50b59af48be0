package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"forestry-finance/internal/core"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
)

// ExtractionError is the distinguished per-document failure: the model
// call failed, or its output did not conform to the schema. It never
// aborts the rest of an upload batch.
type ExtractionError struct {
	Filename string
	Reason   string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed for %s: %s", e.Filename, e.Reason)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ExtractorService reads contractor invoice PDFs into structured line
// items. Implementations must treat any non-conforming model response as
// an ExtractionError rather than guessing.
type ExtractorService interface {
	// ExtractInvoices returns every invoice found in one PDF. A file may
	// contain several distinct invoices.
	ExtractInvoices(ctx context.Context, filename string, pdfBytes []byte) ([]core.ExtractedInvoice, error)
}

// Extractor is the OpenAI-backed ExtractorService. The response format
// is a strict JSON schema generated from core.ExtractionBatch, so the
// model cannot return free text that needs scraping.
type Extractor struct {
	client *openai.Client
}

// NewExtractor builds an Extractor with the given API key.
func NewExtractor(apiKey string) *Extractor {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Extractor{client: &client}
}

const extractionPrompt = `Analyze the attached PDF. It contains one or MORE distinct contractor invoices.
Extract every invoice you find.
Rules:
1. amount is the invoice total as a plain decimal string, no currency symbols.
2. invoice_date is YYYY-MM-DD; leave it empty if not printed.
3. description is a one-line summary of the work invoiced.
4. Never merge two invoices into one entry.`

func (x *Extractor) ExtractInvoices(ctx context.Context, filename string, pdfBytes []byte) ([]core.ExtractedInvoice, error) {
	schemaStruct := generateSchema()
	schemaJSON, err := json.Marshal(schemaStruct)
	if err != nil {
		return nil, &ExtractionError{Filename: filename, Reason: "failed to marshal schema", Err: err}
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, &ExtractionError{Filename: filename, Reason: "failed to unmarshal schema to map", Err: err}
	}

	fileData := "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(pdfBytes)
	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(shared.ChatModelGPT4o),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(
					responses.ResponseInputMessageContentListParam{
						responses.ResponseInputContentUnionParam{
							OfInputFile: &responses.ResponseInputFileParam{
								Filename: param.NewOpt(filename),
								FileData: param.NewOpt(fileData),
							},
						},
						responses.ResponseInputContentUnionParam{
							OfInputText: &responses.ResponseInputTextParam{Text: extractionPrompt},
						},
					},
					"user",
				),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "invoice_extraction",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("All contractor invoices found in one PDF document"),
				},
			},
		},
	}

	resp, err := x.client.Responses.New(ctx, params)
	if err != nil {
		return nil, &ExtractionError{Filename: filename, Reason: "model call failed", Err: err}
	}

	content := resp.OutputText()
	if content == "" {
		return nil, &ExtractionError{Filename: filename, Reason: "empty response content"}
	}

	return ParseExtraction(filename, content)
}

// ParseExtraction decodes a structured-output payload into normalized
// invoices. Split from the HTTP call so the strict-parse behavior is
// testable without a live model.
func ParseExtraction(filename, content string) ([]core.ExtractedInvoice, error) {
	var batch core.ExtractionBatch
	if err := json.Unmarshal([]byte(content), &batch); err != nil {
		return nil, &ExtractionError{Filename: filename, Reason: "response is not valid JSON", Err: err}
	}

	invoices := batch.Invoices
	for i := range invoices {
		invoices[i].Normalize()
		invoices[i].Filename = filename
	}
	return invoices, nil
}

func generateSchema() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v core.ExtractionBatch
	return reflector.Reflect(v)
}
